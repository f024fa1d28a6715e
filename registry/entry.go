package registry

import (
	"github.com/kbukum/bindkit/typedesc"
)

// Entry owns all providers for one logical service-type family and resolves
// a request against them. Two variants exist: GenericEntry for a family keyed
// by an open generic definition, and NonGenericEntry for one fixed type.
type Entry interface {
	// Add installs an eagerly built producer for one exact closed type.
	Add(p *Producer) error
	// AddRegistration installs a registration (open generic, partially
	// closed, or factory-backed) declared to serve the given service form.
	AddRegistration(serviceShape typedesc.Type, reg *Registration, pred Predicate) error
	// TryGetProducer resolves the request to zero candidates (nil, nil — the
	// caller decides whether that is fatal), one candidate, or an ambiguity
	// error naming every match.
	TryGetProducer(requested typedesc.Type, consumer *Consumer) (*Producer, error)
	// ConditionalCount reports how many providers are predicate-guarded.
	// Informational only.
	ConditionalCount() int
	// ClosedServiceTypes lists the closed service types already known to the
	// entry, for proactive verification.
	ClosedServiceTypes() []typedesc.Type
}
