// Package unify decides whether and how an open generic implementation can be
// closed against a concrete request.
//
// The three pieces layer on each other: Satisfies checks one argument mapping
// against its parameter's constraints, FindArguments derives the full
// concrete-argument set for an implementation, and Build orchestrates both to
// return either the closed implementation type or NotApplicable. An
// implementation that cannot be closed for a given request is not an error;
// it is simply excluded from the candidate set.
package unify
