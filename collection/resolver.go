package collection

import (
	"sync"

	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/registry"
	"github.com/kbukum/bindkit/typedesc"
	"github.com/kbukum/bindkit/unify"
)

// Item is one controlled collection member: a concrete or open
// implementation the container owns.
type Item struct {
	// Implementation is the member's implementation descriptor; open items
	// are closed per requested element type.
	Implementation typedesc.Type
	// Lifestyle tags the member's registration.
	Lifestyle registry.Lifestyle
	// Dependencies declares the member's dependency types, possibly open.
	Dependencies []typedesc.Type
}

// Group is a named batch of controlled items registered together.
type Group struct {
	serviceType typedesc.Type
	items       []Item
	appended    bool
}

// ServiceType returns the element family the group was registered under.
func (g *Group) ServiceType() typedesc.Type { return g.serviceType }

// Resolver owns the ordered registration groups per element-type family and
// builds one memoized collection producer per closed element type.
type Resolver struct {
	settings *registry.Settings
	log      *logger.Logger

	mu           sync.Mutex
	groups       []*Group
	uncontrolled map[string]uncontrolledEntry

	cacheMu sync.Mutex
	cache   map[string]*registry.Producer
}

// NewResolver creates a collection resolver bound to the container settings.
func NewResolver(settings *registry.Settings, log *logger.Logger) *Resolver {
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		settings:     settings,
		log:          log,
		uncontrolled: make(map[string]uncontrolledEntry),
		cache:        make(map[string]*registry.Producer),
	}
}

// uncontrolledEntry pairs the externally supplied producer with its element
// type, so style-mixing checks can reason about open families.
type uncontrolledEntry struct {
	elementType typedesc.Type
	producer    *registry.Producer
}

// AddControlledRegistrations registers a batch of controlled items for the
// element family. With append the group extends the existing sequence;
// without it the batch replaces every prior group registered for the exact
// same service type.
func (r *Resolver) AddControlledRegistrations(serviceType typedesc.Type, items []Item, appended bool) error {
	if r.settings.Locked() {
		return errors.ContainerLocked("registering a collection")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasUncontrolledLocked(serviceType) {
		return errors.MixedCollectionStyle(serviceType.String())
	}

	if !appended {
		kept := r.groups[:0]
		for _, g := range r.groups {
			if g.serviceType.Equal(serviceType) {
				r.log.Debug("collection group replaced",
					logger.Fields(logger.FieldServiceType, serviceType.String()))
				continue
			}
			kept = append(kept, g)
		}
		r.groups = kept
	}

	owned := make([]Item, len(items))
	copy(owned, items)
	r.groups = append(r.groups, &Group{serviceType: serviceType, items: owned, appended: appended})
	return nil
}

// RegisterUncontrolled installs a single externally supplied producer
// standing in for the whole collection of the given closed element type.
func (r *Resolver) RegisterUncontrolled(elementType typedesc.Type, p *registry.Producer) error {
	if r.settings.Locked() {
		return errors.ContainerLocked("registering a collection")
	}
	if !elementType.IsClosed() {
		return errors.InvalidType("an uncontrolled collection requires a closed element type")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, g := range r.groups {
		if groupMatches(g, elementType) {
			return errors.MixedCollectionStyle(elementType.String())
		}
	}
	key := elementType.Key()
	if _, exists := r.uncontrolled[key]; exists {
		return errors.MixedCollectionStyle(elementType.String())
	}
	r.uncontrolled[key] = uncontrolledEntry{elementType: elementType, producer: p}
	return nil
}

// TryGetProducer returns the collection producer for the closed element
// type: the uncontrolled producer when one is installed, otherwise a
// synthetic producer concatenating every applicable controlled item in
// group-then-item order. nil, nil means no registrations exist, which
// callers typically degrade to an empty collection.
func (r *Resolver) TryGetProducer(elementType typedesc.Type) (*registry.Producer, error) {
	if !elementType.IsClosed() {
		return nil, errors.InvalidType("a collection request requires a closed element type")
	}

	if p, ok := r.uncontrolledFor(elementType); ok {
		return p, nil
	}

	key := elementType.Key()
	r.cacheMu.Lock()
	defer r.cacheMu.Unlock()
	if p, ok := r.cache[key]; ok {
		return p, nil
	}

	elements, matched := r.closeElements(elementType)
	if matched == 0 {
		return nil, nil
	}
	reg := registry.NewRegistration(typedesc.SequenceOf(elementType), registry.Singleton)
	p := registry.NewCollectionProducer(elementType, elements, reg)
	r.cache[key] = p
	r.log.Debug("collection producer created",
		logger.Fields(
			logger.FieldElementType, elementType.String(),
			logger.FieldGroupCount, matched))
	return p, nil
}

// closeElements gathers the applicable groups and closes each generic item
// strictly to the element type, dropping inapplicable ones. Each surviving
// item becomes an element producer carrying the item's lifestyle and
// substituted dependencies.
func (r *Resolver) closeElements(elementType typedesc.Type) ([]*registry.Producer, int) {
	var elements []*registry.Producer
	matched := 0
	for _, g := range r.snapshotGroups() {
		if !groupMatches(g, elementType) {
			continue
		}
		matched++
		for _, item := range g.items {
			res := unify.Build(elementType, item.Implementation)
			if !res.IsApplicable() {
				continue
			}
			reg := registry.NewRegistration(item.Implementation, item.Lifestyle,
				registry.DependsOn(item.Dependencies...))
			elements = append(elements, registry.NewProducer(elementType, res.Closed(), reg, nil))
		}
	}
	return elements, matched
}

// groupMatches reports whether a group feeds the closed element type: its
// service type is the element's open family, the exact element type, or a
// type assignable to it.
func groupMatches(g *Group, elementType typedesc.Type) bool {
	st := g.serviceType
	if !st.IsClosed() {
		return st.GenericDefinition() != nil &&
			st.GenericDefinition() == elementType.GenericDefinition()
	}
	return st.Equal(elementType) || st.AssignableTo(elementType)
}

// ControlledServiceTypes lists the closed service types of registered groups,
// for proactive verification.
func (r *Resolver) ControlledServiceTypes() []typedesc.Type {
	var out []typedesc.Type
	for _, g := range r.snapshotGroups() {
		if g.serviceType.IsClosed() {
			out = append(out, g.serviceType)
		}
	}
	return out
}

func (r *Resolver) uncontrolledFor(elementType typedesc.Type) (*registry.Producer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.uncontrolled[elementType.Key()]
	if !ok {
		return nil, false
	}
	return e.producer, true
}

func (r *Resolver) hasUncontrolledLocked(serviceType typedesc.Type) bool {
	if serviceType.IsClosed() {
		_, ok := r.uncontrolled[serviceType.Key()]
		return ok
	}
	// An open family mixes with any uncontrolled registration of one of its
	// closed forms.
	for _, e := range r.uncontrolled {
		if e.elementType.GenericDefinition() == serviceType.GenericDefinition() {
			return true
		}
	}
	return false
}

func (r *Resolver) snapshotGroups() []*Group {
	if r.settings.Locked() {
		return r.groups
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Group, len(r.groups))
	copy(out, r.groups)
	return out
}
