package registry

import (
	"github.com/google/uuid"

	"github.com/kbukum/bindkit/typedesc"
)

// Lifestyle tags a registration with its instance-lifetime policy. The tag is
// opaque to the resolution core; scope management happens elsewhere.
type Lifestyle string

const (
	Transient Lifestyle = "transient"
	Singleton Lifestyle = "singleton"
	Scoped    Lifestyle = "scoped"
)

// Consumer describes the injection point a resolution serves, for predicate
// decisions.
type Consumer struct {
	// ServiceType is the dependency being injected.
	ServiceType typedesc.Type
	// Target names the consuming implementation or entry point.
	Target string
}

// PredicateContext is handed to predicates and factories during resolution.
type PredicateContext struct {
	// ServiceType is the closed type being requested.
	ServiceType typedesc.Type
	// ImplementationType is the closed candidate implementation. Zero while a
	// factory has not produced one yet.
	ImplementationType typedesc.Type
	// Handled is true when an earlier provider already produced a candidate
	// for this request, letting later predicates act as fallbacks.
	Handled bool
	// Consumer is the injection point, when known.
	Consumer *Consumer
}

// Predicate decides whether a conditional registration applies to a request.
type Predicate func(PredicateContext) bool

// Factory supplies the implementation type at resolve time, for registrations
// whose concrete type cannot be known until then.
type Factory func(PredicateContext) (typedesc.Type, error)

// Registration binds one implementation type or factory to a lifestyle.
type Registration struct {
	id        string
	impl      typedesc.Type
	factory   Factory
	lifestyle Lifestyle
	deps      []typedesc.Type
}

// RegistrationOption configures a Registration at construction.
type RegistrationOption func(*Registration)

// DependsOn declares the dependency types the implementation requires. Open
// dependencies are substituted when the implementation is closed; the
// verifier and the cycle detector walk this list.
func DependsOn(deps ...typedesc.Type) RegistrationOption {
	return func(r *Registration) { r.deps = append(r.deps, deps...) }
}

// NewRegistration binds an implementation type to a lifestyle.
func NewRegistration(impl typedesc.Type, lifestyle Lifestyle, opts ...RegistrationOption) *Registration {
	r := &Registration{id: uuid.NewString(), impl: impl, lifestyle: lifestyle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewFactoryRegistration binds a resolve-time implementation factory to a
// lifestyle.
func NewFactoryRegistration(factory Factory, lifestyle Lifestyle, opts ...RegistrationOption) *Registration {
	r := &Registration{id: uuid.NewString(), factory: factory, lifestyle: lifestyle}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ID returns the registration identity.
func (r *Registration) ID() string { return r.id }

// ImplementationType returns the registered implementation descriptor, which
// is the zero Type for factory registrations.
func (r *Registration) ImplementationType() typedesc.Type { return r.impl }

// Lifestyle returns the opaque lifetime tag.
func (r *Registration) Lifestyle() Lifestyle { return r.lifestyle }

// IsFactory reports whether the implementation type is produced at resolve time.
func (r *Registration) IsFactory() bool { return r.factory != nil }

// Dependencies returns the declared dependency types, unsubstituted.
func (r *Registration) Dependencies() []typedesc.Type {
	out := make([]typedesc.Type, len(r.deps))
	copy(out, r.deps)
	return out
}
