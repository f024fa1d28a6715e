// Package errors provides the structured error types raised by the
// resolution engine. It implements an AppError with machine-readable codes
// covering the two fatal families: configuration errors raised while
// registering, and resolution errors raised while resolving.
package errors
