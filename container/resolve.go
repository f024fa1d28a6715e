package container

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/bindkit/errors"
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/registry"
	"github.com/kbukum/bindkit/typedesc"
)

// Resolve locates the producer for a closed service type. The first call
// locks the container. Zero candidates yield a NOT_FOUND error the caller
// may treat as non-fatal; ambiguity and cycles are fatal.
func (c *Container) Resolve(ctx context.Context, service typedesc.Type, consumer *registry.Consumer) (*registry.Producer, error) {
	c.settings.Lock()

	_, span := c.tracer.Start(ctx, "container.resolve",
		trace.WithAttributes(attribute.String("service_type", service.String())))
	defer span.End()

	p, err := c.resolveInternal(service, consumer, newResolutionStack())
	if err != nil {
		span.RecordError(err)
		span.SetAttributes(attribute.String("outcome", "error"))
		c.logResolveError(service, err)
		return nil, err
	}
	span.SetAttributes(
		attribute.String("outcome", "ok"),
		attribute.String("implementation", p.ImplementationType().String()))
	return p, nil
}

// TryResolve is Resolve with not-found reported as absence instead of error.
func (c *Container) TryResolve(ctx context.Context, service typedesc.Type, consumer *registry.Consumer) (*registry.Producer, bool, error) {
	p, err := c.Resolve(ctx, service, consumer)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

// ResolveMany locates the collection producer for a closed element type.
// The absence of any collection registration is reported as NOT_FOUND, which
// collection consumers typically degrade to an empty sequence.
func (c *Container) ResolveMany(ctx context.Context, elementType typedesc.Type) (*registry.Producer, error) {
	c.settings.Lock()

	_, span := c.tracer.Start(ctx, "container.resolve_many",
		trace.WithAttributes(attribute.String("element_type", elementType.String())))
	defer span.End()

	service := typedesc.SequenceOf(elementType)
	p, err := c.resolveInternal(service, nil, newResolutionStack())
	if err != nil {
		span.RecordError(err)
		c.logResolveError(service, err)
		return nil, err
	}
	return p, nil
}

// logResolveError reports a failed resolution, attaching the candidate list
// for ambiguity and the dependency path for cycles. Not-found stays at debug
// because TryResolve and collection consumers treat it as absence.
func (c *Container) logResolveError(service typedesc.Type, err error) {
	fields := logger.ErrorFields("resolve", err)
	fields[logger.FieldServiceType] = service.String()
	switch errors.CodeOf(err) {
	case errors.ErrCodeNotFound:
		c.log.Debug("no registration found", fields)
		return
	case errors.ErrCodeAmbiguousResolution:
		fields[logger.FieldCandidates] = errors.Candidates(err)
	case errors.ErrCodeCyclicDependency:
		fields[logger.FieldCycle] = errors.CyclePath(err)
	}
	c.log.Error("resolution failed", fields)
}

// resolveInternal performs one resolution step and then descends into the
// producer's declared dependencies with the call-local cycle stack.
func (c *Container) resolveInternal(service typedesc.Type, consumer *registry.Consumer, stack *resolutionStack) (*registry.Producer, error) {
	p, err := c.lookupProducer(service, consumer)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, errors.NotFound(service.String())
	}

	if err := c.walkDependencies(p, stack); err != nil {
		return nil, err
	}
	return p, nil
}

// lookupProducer finds the candidate producer for a closed service type
// without descending into dependencies. nil, nil means nothing applies.
func (c *Container) lookupProducer(service typedesc.Type, consumer *registry.Consumer) (*registry.Producer, error) {
	if elem, ok := typedesc.SequenceElement(service); ok {
		return c.collections.TryGetProducer(elem)
	}
	entry, err := c.entryFor(service, false)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}
	return entry.TryGetProducer(service, consumer)
}

// walkDependencies pushes the producer's service type onto the cycle stack
// and resolves each declared dependency. A repeated entry on the stack is a
// fatal cycle reported with the full path; a missing required dependency is
// fatal, while a missing dependency collection degrades to empty.
func (c *Container) walkDependencies(p *registry.Producer, stack *resolutionStack) error {
	if err := stack.push(p.ServiceType()); err != nil {
		return err
	}
	defer stack.pop()

	walk := func(owner *registry.Producer) error {
		target := owner.ImplementationType().String()
		for _, dep := range owner.Dependencies() {
			consumer := &registry.Consumer{ServiceType: dep, Target: target}
			_, err := c.resolveInternal(dep, consumer, stack)
			if err == nil {
				continue
			}
			if elem, ok := typedesc.SequenceElement(dep); ok && errors.IsNotFound(err) {
				// A dependency collection with no registrations is empty.
				c.log.Debug("dependency collection empty", logger.Fields(
					logger.FieldElementType, elem.String()))
				continue
			}
			return err
		}
		return nil
	}

	if p.IsCollection() {
		for _, el := range p.Elements() {
			if err := walk(el); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(p)
}

// resolutionStack is the call-local stack of service types currently being
// resolved. It is never shared between goroutines, so it needs no lock.
type resolutionStack struct {
	keys   map[string]bool
	frames []stackFrame
}

type stackFrame struct {
	key  string
	name string
}

func newResolutionStack() *resolutionStack {
	return &resolutionStack{keys: make(map[string]bool)}
}

func (s *resolutionStack) push(t typedesc.Type) error {
	key := t.Key()
	if s.keys[key] {
		path := make([]string, 0, len(s.frames)+1)
		for _, f := range s.frames {
			path = append(path, f.name)
		}
		path = append(path, t.String())
		return errors.CyclicDependency(path)
	}
	s.keys[key] = true
	s.frames = append(s.frames, stackFrame{key: key, name: t.String()})
	return nil
}

func (s *resolutionStack) pop() {
	last := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	delete(s.keys, last.key)
}
