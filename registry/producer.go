package registry

import (
	"github.com/google/uuid"

	"github.com/kbukum/bindkit/typedesc"
)

// Producer pairs a resolved closed service type with its registration. A
// producer is built at most once per (service type, implementation type) key
// and reused on every subsequent matching request; the activation collaborator
// turns it into instances according to the registration's lifestyle.
type Producer struct {
	id           string
	serviceType  typedesc.Type
	impl         typedesc.Type
	registration *Registration
	predicate    Predicate
	elements     []*Producer
	collection   bool
}

// NewProducer creates a producer for a closed service type served by the
// closed implementation type.
func NewProducer(serviceType, impl typedesc.Type, reg *Registration, pred Predicate) *Producer {
	return &Producer{
		id:           uuid.NewString(),
		serviceType:  serviceType,
		impl:         impl,
		registration: reg,
		predicate:    pred,
	}
}

// NewCollectionProducer creates the synthetic producer for an ordered
// collection of closed element producers.
func NewCollectionProducer(elementType typedesc.Type, elements []*Producer, reg *Registration) *Producer {
	owned := make([]*Producer, len(elements))
	copy(owned, elements)
	return &Producer{
		id:           uuid.NewString(),
		serviceType:  typedesc.SequenceOf(elementType),
		impl:         typedesc.SequenceOf(elementType),
		registration: reg,
		elements:     owned,
		collection:   true,
	}
}

// ID returns the producer identity.
func (p *Producer) ID() string { return p.id }

// ServiceType returns the closed service type this producer serves.
func (p *Producer) ServiceType() typedesc.Type { return p.serviceType }

// ImplementationType returns the closed implementation type.
func (p *Producer) ImplementationType() typedesc.Type { return p.impl }

// Registration returns the owning registration.
func (p *Producer) Registration() *Registration { return p.registration }

// IsConditional reports whether a predicate guards this producer.
func (p *Producer) IsConditional() bool { return p.predicate != nil }

// IsCollection reports whether this is a synthetic collection producer.
func (p *Producer) IsCollection() bool { return p.collection }

// Elements returns the ordered element producers of a collection producer.
func (p *Producer) Elements() []*Producer {
	out := make([]*Producer, len(p.elements))
	copy(out, p.elements)
	return out
}

// Dependencies returns the registration's declared dependencies with the
// implementation's generic arguments substituted in.
func (p *Producer) Dependencies() []typedesc.Type {
	deps := p.registration.Dependencies()
	if len(deps) == 0 {
		return nil
	}
	def := p.impl.GenericDefinition()
	if def == nil {
		return deps
	}
	bind := make(map[*typedesc.Parameter]typedesc.Type, def.Arity())
	args := p.impl.Args()
	for i, param := range def.Parameters() {
		bind[param] = args[i]
	}
	out := make([]typedesc.Type, len(deps))
	for i, d := range deps {
		out[i] = d.Substitute(bind)
	}
	return out
}
