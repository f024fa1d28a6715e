package container

import (
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/bindkit/collection"
	"github.com/kbukum/bindkit/config"
	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/registry"
	"github.com/kbukum/bindkit/typedesc"
	"github.com/kbukum/bindkit/version"
)

// Container owns one registration entry per service-type family plus the
// collection resolver, and mediates every registration and resolution.
type Container struct {
	settings *registry.Settings
	log      *logger.Logger
	tracer   trace.Tracer

	autoVerify bool

	mu      sync.Mutex
	entries map[string]registry.Entry
	order   []string

	collections *collection.Resolver

	pmu       sync.Mutex
	producers []*registry.Producer
}

type options struct {
	overriding bool
	autoVerify bool
	log        *logger.Logger
}

// Option configures a Container at construction.
type Option func(*options)

// WithOverriding makes new unconditional registrations replace overlapping
// prior ones instead of conflicting with them.
func WithOverriding() Option {
	return func(o *options) { o.overriding = true }
}

// WithAutoVerify resolves every known closed service type when the container
// locks, surfacing configuration errors before first real use.
func WithAutoVerify() Option {
	return func(o *options) { o.autoVerify = true }
}

// WithLogger sets the engine logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// FromConfig applies a loaded ContainerConfig.
func FromConfig(cfg config.ContainerConfig) Option {
	return func(o *options) {
		o.overriding = cfg.AllowOverriding
		o.autoVerify = cfg.AutoVerify
		o.log = logger.New(&cfg.Logging, "container")
	}
}

// New creates an empty, unlocked container.
func New(opts ...Option) *Container {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}

	c := &Container{
		settings:   registry.NewSettings(o.overriding),
		log:        o.log,
		tracer:     otel.Tracer("github.com/kbukum/bindkit/container"),
		autoVerify: o.autoVerify,
		entries:    make(map[string]registry.Entry),
	}
	c.settings.SetProducerRecorder(c.recordProducer)
	c.collections = collection.NewResolver(c.settings, o.log.WithComponent("collection"))
	c.log.Debug("container created", logger.Fields("version", version.Short()))
	return c
}

// registerOptions collects the optional parts of a registration.
type registerOptions struct {
	predicate registry.Predicate
	deps      []typedesc.Type
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerOptions)

// WithPredicate guards the registration with a runtime condition, making it
// conditional.
func WithPredicate(p registry.Predicate) RegisterOption {
	return func(ro *registerOptions) { ro.predicate = p }
}

// WithDependencies declares the dependency types the implementation
// requires. Open dependencies are substituted when the implementation is
// closed; the verifier and cycle detector walk this list.
func WithDependencies(deps ...typedesc.Type) RegisterOption {
	return func(ro *registerOptions) { ro.deps = append(ro.deps, deps...) }
}

// Register binds an implementation type to a service type. The service may
// be a closed non-generic type, a closed generic type, or an open (possibly
// partially closed) generic form; the implementation may be open where the
// service is.
func (c *Container) Register(service, impl typedesc.Type, lifestyle registry.Lifestyle, opts ...RegisterOption) error {
	ro := applyRegisterOptions(opts)
	if service.IsZero() || impl.IsZero() {
		return errors.InvalidType("service and implementation descriptors are required")
	}
	if service.Kind() == typedesc.KindParameter {
		return errors.InvalidType("a bare generic parameter cannot be a service type")
	}

	reg := registry.NewRegistration(impl, lifestyle, registry.DependsOn(ro.deps...))
	entry, err := c.entryFor(service, true)
	if err != nil {
		return err
	}

	if service.IsClosed() && impl.IsClosed() {
		if !impl.AssignableTo(service) {
			return errors.InvalidType(impl.String() + " does not implement " + service.String())
		}
		p := registry.NewProducer(service, impl, reg, ro.predicate)
		if err := entry.Add(p); err != nil {
			return err
		}
		c.recordProducer(p)
	} else {
		if err := entry.AddRegistration(service, reg, ro.predicate); err != nil {
			return err
		}
	}

	c.log.Debug("registration added", logger.Fields(
		logger.FieldServiceType, service.String(),
		logger.FieldImplementation, impl.String(),
		logger.FieldLifestyle, string(lifestyle)))
	return nil
}

// RegisterFactory binds a resolve-time implementation factory to a service
// type, for implementations whose concrete type cannot be known until
// resolve time.
func (c *Container) RegisterFactory(service typedesc.Type, factory registry.Factory, lifestyle registry.Lifestyle, opts ...RegisterOption) error {
	ro := applyRegisterOptions(opts)
	if service.IsZero() || factory == nil {
		return errors.InvalidType("service descriptor and factory are required")
	}

	reg := registry.NewFactoryRegistration(factory, lifestyle, registry.DependsOn(ro.deps...))
	entry, err := c.entryFor(service, true)
	if err != nil {
		return err
	}
	if err := entry.AddRegistration(service, reg, ro.predicate); err != nil {
		return err
	}

	c.log.Debug("factory registration added", logger.Fields(
		logger.FieldServiceType, service.String(),
		logger.FieldLifestyle, string(lifestyle)))
	return nil
}

// RegisterCollection registers a batch of controlled collection items for an
// element family. With appended the batch extends the existing sequence;
// without it the batch replaces prior groups for the exact same service type.
func (c *Container) RegisterCollection(serviceType typedesc.Type, items []collection.Item, appended bool) error {
	return c.collections.AddControlledRegistrations(serviceType, items, appended)
}

// RegisterUncontrolledCollection installs one externally supplied producer
// standing in for the whole collection of the closed element type.
func (c *Container) RegisterUncontrolledCollection(elementType typedesc.Type, p *registry.Producer) error {
	return c.collections.RegisterUncontrolled(elementType, p)
}

// Lock moves the container into the resolution phase. Idempotent. With
// auto-verify enabled, locking verifies the configuration and reports the
// first error found.
func (c *Container) Lock() error {
	if c.settings.Locked() {
		return nil
	}
	c.settings.Lock()
	c.log.Info("container locked")
	if c.autoVerify {
		return c.Verify()
	}
	return nil
}

// IsLocked reports whether the container has entered the resolution phase.
func (c *Container) IsLocked() bool { return c.settings.Locked() }

// ConditionalRegistrations reports how many predicate-guarded registrations
// exist for the service's family. Informational only.
func (c *Container) ConditionalRegistrations(service typedesc.Type) int {
	entry, err := c.entryFor(service, false)
	if err != nil || entry == nil {
		return 0
	}
	return entry.ConditionalCount()
}

// Producers returns a snapshot of every producer built so far.
// Informational only.
func (c *Container) Producers() []*registry.Producer {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	out := make([]*registry.Producer, len(c.producers))
	copy(out, c.producers)
	return out
}

func (c *Container) recordProducer(p *registry.Producer) {
	c.pmu.Lock()
	c.producers = append(c.producers, p)
	c.pmu.Unlock()
	c.log.Debug("producer created", logger.Fields(
		logger.FieldProducerID, p.ID(),
		logger.FieldServiceType, p.ServiceType().String(),
		logger.FieldImplementation, p.ImplementationType().String()))
}

// entryFor locates (or, during configuration, creates) the registration
// entry owning the service's family.
func (c *Container) entryFor(service typedesc.Type, create bool) (registry.Entry, error) {
	key, err := familyKey(service)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e, nil
	}
	if !create {
		return nil, nil
	}

	var e registry.Entry
	if def := service.GenericDefinition(); def != nil {
		e = registry.NewGenericEntry(def, c.settings, c.log.WithComponent("registry"))
	} else {
		e = registry.NewNonGenericEntry(service, c.settings, c.log.WithComponent("registry"))
	}
	c.entries[key] = e
	c.order = append(c.order, key)
	return e, nil
}

func familyKey(service typedesc.Type) (string, error) {
	switch service.Kind() {
	case typedesc.KindGeneric:
		return "family:" + service.GenericDefinition().ID(), nil
	case typedesc.KindConcrete:
		return service.Key(), nil
	}
	return "", errors.InvalidType("a bare generic parameter cannot key a registration entry")
}

func applyRegisterOptions(opts []RegisterOption) registerOptions {
	var ro registerOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}
