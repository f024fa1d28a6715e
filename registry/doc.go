// Package registry owns per-service-type-family registration bookkeeping.
//
// A RegistrationEntry holds every provider for one family: closed direct
// registrations, open generic providers, and resolve-time factories. Asking
// an entry for a producer walks the providers in registration order, closes
// open implementations against the request, evaluates predicates with an
// "already handled" flag, and returns zero candidates (caller decides), one
// candidate, or an ambiguity error naming every match.
//
// Producers are memoized per (service type, implementation type) pair under a
// lock scoped to the owning provider, so unrelated families never serialize
// each other and every caller observes the same producer after first use.
package registry
