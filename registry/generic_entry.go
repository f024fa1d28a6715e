package registry

import (
	"sync"

	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/typedesc"
)

// GenericEntry holds the providers for one generic family, keyed by its open
// definition. Closed registrations, open generic providers, and factories for
// the same family all live here so overlap and ambiguity checks see the whole
// picture.
type GenericEntry struct {
	def      *typedesc.Definition
	settings *Settings
	log      *logger.Logger

	mu        sync.Mutex
	providers []provider
}

// NewGenericEntry creates the entry for the family defined by def.
func NewGenericEntry(def *typedesc.Definition, settings *Settings, log *logger.Logger) *GenericEntry {
	if log == nil {
		log = logger.Nop()
	}
	return &GenericEntry{def: def, settings: settings, log: log}
}

// Definition returns the open definition keying this family.
func (e *GenericEntry) Definition() *typedesc.Definition { return e.def }

// Add installs an eagerly built producer for one exact closed form of the family.
func (e *GenericEntry) Add(p *Producer) error {
	st := p.ServiceType()
	if st.GenericDefinition() != e.def || !st.IsClosed() {
		return errors.InvalidType("a direct producer must target a closed form of the entry's generic family")
	}
	return e.install(&closedProvider{p: p})
}

// AddRegistration installs an open generic, partially closed, or
// factory-backed registration declared to serve serviceShape.
func (e *GenericEntry) AddRegistration(serviceShape typedesc.Type, reg *Registration, pred Predicate) error {
	if serviceShape.GenericDefinition() != e.def {
		return errors.InvalidType("the service form must belong to the entry's generic family")
	}
	return e.install(newRegistrationProvider(serviceShape, reg, pred, e.settings))
}

// install enforces the registration-time rules before accepting a provider:
// no mutation after locking, no conditional registrations while overriding,
// and no unconditional registration overlapping another unconditional one
// (unless overriding, which replaces the prior registrations).
func (e *GenericEntry) install(newp provider) error {
	if e.settings.Locked() {
		return errors.ContainerLocked("adding a registration")
	}
	if newp.conditional() && e.settings.Overriding() {
		return errors.ConditionalInOverrideMode(e.def.Name())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !newp.conditional() {
		kept := e.providers[:0]
		for _, existing := range e.providers {
			if existing.conditional() || !overlaps(existing, newp) {
				kept = append(kept, existing)
				continue
			}
			if !e.settings.Overriding() {
				return errors.OverlappingRegistration(
					e.def.Name(), existing.implementation(), newp.implementation())
			}
			e.log.Debug("registration replaced",
				logger.Fields(
					logger.FieldServiceType, e.def.Name(),
					logger.FieldImplementation, existing.implementation()))
		}
		e.providers = kept
	}
	e.providers = append(e.providers, newp)
	return nil
}

// overlaps reports whether two unconditional providers cover an overlapping
// closed-type set: the same exact closed type, or either one applying to all
// closed forms of the family.
func overlaps(a, b provider) bool {
	if a.appliesToAll() || b.appliesToAll() {
		return true
	}
	at, bt := a.serviceType(), b.serviceType()
	return at.IsClosed() && bt.IsClosed() && at.Equal(bt)
}

// TryGetProducer resolves a closed request against the family's providers.
func (e *GenericEntry) TryGetProducer(requested typedesc.Type, consumer *Consumer) (*Producer, error) {
	return collectCandidates(e.snapshot(), requested, consumer)
}

// ConditionalCount reports the number of predicate-guarded providers.
func (e *GenericEntry) ConditionalCount() int {
	n := 0
	for _, p := range e.snapshot() {
		if p.conditional() {
			n++
		}
	}
	return n
}

// ClosedServiceTypes lists the closed forms the entry knows statically: the
// service types of its direct producers and closed registration shapes.
func (e *GenericEntry) ClosedServiceTypes() []typedesc.Type {
	var out []typedesc.Type
	for _, p := range e.snapshot() {
		if st := p.serviceType(); st.IsClosed() {
			out = append(out, st)
		}
	}
	return out
}

// snapshot returns the provider list. After locking the list is immutable,
// so resolution reads it without holding the mutex.
func (e *GenericEntry) snapshot() []provider {
	if e.settings.Locked() {
		return e.providers
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]provider, len(e.providers))
	copy(out, e.providers)
	return out
}
