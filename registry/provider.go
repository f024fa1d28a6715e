package registry

import (
	"sync"

	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/typedesc"
	"github.com/kbukum/bindkit/unify"
)

// provider is one source of candidate producers inside an entry.
type provider interface {
	// tryGet produces the candidate serving the request, nil when the
	// provider does not apply, or an error for factory failures.
	tryGet(requested typedesc.Type, consumer *Consumer, handled bool) (*Producer, error)
	// conditional reports whether a predicate guards this provider.
	conditional() bool
	// appliesToAll reports whether the provider serves every closed form of
	// its family, which makes it overlap any other unconditional provider.
	appliesToAll() bool
	// serviceType returns the declared service form (closed or open).
	serviceType() typedesc.Type
	// implementation names the implementation for error messages.
	implementation() string
}

// closedProvider wraps an eagerly built producer for one exact closed type.
type closedProvider struct {
	p *Producer
}

func (cp *closedProvider) tryGet(requested typedesc.Type, consumer *Consumer, handled bool) (*Producer, error) {
	if !requested.Equal(cp.p.ServiceType()) {
		return nil, nil
	}
	if cp.p.predicate != nil && !cp.p.predicate(PredicateContext{
		ServiceType:        requested,
		ImplementationType: cp.p.ImplementationType(),
		Handled:            handled,
		Consumer:           consumer,
	}) {
		return nil, nil
	}
	return cp.p, nil
}

func (cp *closedProvider) conditional() bool          { return cp.p.IsConditional() }
func (cp *closedProvider) appliesToAll() bool         { return false }
func (cp *closedProvider) serviceType() typedesc.Type { return cp.p.ServiceType() }
func (cp *closedProvider) implementation() string     { return cp.p.ImplementationType().String() }

// registrationProvider serves requests by closing its registration's
// implementation (or the one its factory returns) against each request. It
// owns the producer cache for its (service, implementation) keys; the lock is
// scoped here so unrelated providers never serialize each other.
type registrationProvider struct {
	shape    typedesc.Type
	reg      *Registration
	pred     Predicate
	settings *Settings

	mu    sync.Mutex
	cache map[string]*Producer
}

func newRegistrationProvider(shape typedesc.Type, reg *Registration, pred Predicate, settings *Settings) *registrationProvider {
	return &registrationProvider{
		shape:    shape,
		reg:      reg,
		pred:     pred,
		settings: settings,
		cache:    make(map[string]*Producer),
	}
}

func (rp *registrationProvider) tryGet(requested typedesc.Type, consumer *Consumer, handled bool) (*Producer, error) {
	// The declared service form scopes the provider: a closed shape serves
	// that exact type, a partially closed shape serves the closed forms
	// fitting its pattern, and a fully open shape serves the whole family.
	if !typedesc.NewMapping(rp.shape, requested).Matches() {
		return nil, nil
	}

	impl := rp.reg.ImplementationType()
	if rp.reg.IsFactory() {
		var err error
		impl, err = rp.reg.factory(PredicateContext{
			ServiceType: requested,
			Handled:     handled,
			Consumer:    consumer,
		})
		if err != nil {
			return nil, errors.FactoryFailed(requested.String(), err)
		}
	}

	res := unify.Build(requested, impl)
	if !res.IsApplicable() {
		return nil, nil
	}
	closed := res.Closed()

	if rp.pred != nil && !rp.pred(PredicateContext{
		ServiceType:        requested,
		ImplementationType: closed,
		Handled:            handled,
		Consumer:           consumer,
	}) {
		return nil, nil
	}

	return rp.producerFor(requested, closed), nil
}

// producerFor memoizes per (service type, implementation type) key. The
// first successful build wins; every later caller observes the same producer.
func (rp *registrationProvider) producerFor(requested, closed typedesc.Type) *Producer {
	key := requested.Key() + "|" + closed.Key()

	rp.mu.Lock()
	defer rp.mu.Unlock()
	if p, ok := rp.cache[key]; ok {
		return p
	}
	p := NewProducer(requested, closed, rp.reg, rp.pred)
	rp.cache[key] = p
	rp.settings.recordProducer(p)
	return p
}

func (rp *registrationProvider) conditional() bool { return rp.pred != nil }

func (rp *registrationProvider) appliesToAll() bool {
	if rp.reg.IsFactory() {
		return shapeIsFullyOpen(rp.shape)
	}
	impl := rp.reg.ImplementationType()
	if impl.IsClosed() {
		return false
	}
	if !shapeIsFullyOpen(rp.shape) {
		return false
	}
	for _, p := range impl.FreeParameters() {
		if p.IsConstrained() {
			return false
		}
	}
	return true
}

func (rp *registrationProvider) serviceType() typedesc.Type { return rp.shape }

func (rp *registrationProvider) implementation() string {
	if rp.reg.IsFactory() {
		return "factory for " + rp.shape.String()
	}
	return rp.reg.ImplementationType().String()
}

// shapeIsFullyOpen reports whether every argument position of the declared
// service form is a distinct unconstrained parameter.
func shapeIsFullyOpen(shape typedesc.Type) bool {
	if shape.Kind() != typedesc.KindGeneric {
		return false
	}
	seen := make(map[*typedesc.Parameter]bool)
	for _, a := range shape.Args() {
		if a.Kind() != typedesc.KindParameter {
			return false
		}
		p := a.Parameter()
		if seen[p] || p.IsConstrained() {
			return false
		}
		seen[p] = true
	}
	return true
}

// collectCandidates walks providers in registration order, passing later
// predicates the "already handled" flag, and applies the zero/one/many rule.
func collectCandidates(providers []provider, requested typedesc.Type, consumer *Consumer) (*Producer, error) {
	var candidates []*Producer
	handled := false
	for _, prov := range providers {
		p, err := prov.tryGet(requested, consumer, handled)
		if err != nil {
			return nil, err
		}
		if p != nil {
			candidates = append(candidates, p)
			handled = true
		}
	}
	switch len(candidates) {
	case 0:
		return nil, nil
	case 1:
		return candidates[0], nil
	}
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.ImplementationType().String()
	}
	return nil, errors.AmbiguousResolution(requested.String(), names)
}
