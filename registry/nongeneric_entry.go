package registry

import (
	"sync"

	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/typedesc"
)

// NonGenericEntry holds the providers for one fixed service type. Unlike the
// generic variant it forbids mixing conditional and unconditional
// registrations: with a single closed type there is no closed-form split that
// could make the mix unambiguous.
type NonGenericEntry struct {
	service  typedesc.Type
	settings *Settings
	log      *logger.Logger

	mu        sync.Mutex
	providers []provider
}

// NewNonGenericEntry creates the entry for one fixed closed service type.
func NewNonGenericEntry(service typedesc.Type, settings *Settings, log *logger.Logger) *NonGenericEntry {
	if log == nil {
		log = logger.Nop()
	}
	return &NonGenericEntry{service: service, settings: settings, log: log}
}

// ServiceType returns the fixed type keying this entry.
func (e *NonGenericEntry) ServiceType() typedesc.Type { return e.service }

// Add installs an eagerly built producer for the entry's type.
func (e *NonGenericEntry) Add(p *Producer) error {
	if !p.ServiceType().Equal(e.service) {
		return errors.InvalidType("the producer's service type must match the entry's fixed type")
	}
	return e.install(&closedProvider{p: p})
}

// AddRegistration installs a factory-backed or direct registration for the
// entry's type.
func (e *NonGenericEntry) AddRegistration(serviceShape typedesc.Type, reg *Registration, pred Predicate) error {
	if !serviceShape.Equal(e.service) {
		return errors.InvalidType("the service form must match the entry's fixed type")
	}
	return e.install(newRegistrationProvider(serviceShape, reg, pred, e.settings))
}

func (e *NonGenericEntry) install(newp provider) error {
	if e.settings.Locked() {
		return errors.ContainerLocked("adding a registration")
	}
	if newp.conditional() && e.settings.Overriding() {
		return errors.ConditionalInOverrideMode(e.service.String())
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, existing := range e.providers {
		if existing.conditional() != newp.conditional() {
			return errors.MixedConditional(e.service.String())
		}
	}

	if !newp.conditional() {
		kept := e.providers[:0]
		for _, existing := range e.providers {
			// Unconditional providers for the same fixed type always overlap.
			if !e.settings.Overriding() {
				return errors.OverlappingRegistration(
					e.service.String(), existing.implementation(), newp.implementation())
			}
			e.log.Debug("registration replaced",
				logger.Fields(
					logger.FieldServiceType, e.service.String(),
					logger.FieldImplementation, existing.implementation()))
		}
		e.providers = kept
	}
	e.providers = append(e.providers, newp)
	return nil
}

// TryGetProducer resolves a request for the fixed type.
func (e *NonGenericEntry) TryGetProducer(requested typedesc.Type, consumer *Consumer) (*Producer, error) {
	if !requested.Equal(e.service) {
		return nil, nil
	}
	return collectCandidates(e.snapshot(), requested, consumer)
}

// ConditionalCount reports the number of predicate-guarded providers.
func (e *NonGenericEntry) ConditionalCount() int {
	n := 0
	for _, p := range e.snapshot() {
		if p.conditional() {
			n++
		}
	}
	return n
}

// ClosedServiceTypes lists the entry's fixed type when anything is registered.
func (e *NonGenericEntry) ClosedServiceTypes() []typedesc.Type {
	if len(e.snapshot()) == 0 {
		return nil
	}
	return []typedesc.Type{e.service}
}

func (e *NonGenericEntry) snapshot() []provider {
	if e.settings.Locked() {
		return e.providers
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]provider, len(e.providers))
	copy(out, e.providers)
	return out
}
