package container

import (
	"github.com/kbukum/bindkit/logger"
	"github.com/kbukum/bindkit/registry"
	"github.com/kbukum/bindkit/typedesc"
)

// Verify resolves every closed service type the configuration knows about,
// surfacing ambiguity, constraint, missing-dependency, and cycle errors
// before first real use. Open registrations that no closed request has named
// yet cannot be verified eagerly; they are checked when a closed form first
// asks for them.
func (c *Container) Verify() error {
	c.settings.Lock()

	verified := 0
	for _, service := range c.knownServiceTypes() {
		p, err := c.lookupProducer(service, nil)
		if err == nil && p == nil {
			// A conditional-only family may have no applicable producer
			// without a real consumer; that is not a configuration error.
			continue
		}
		if err == nil {
			err = c.walkDependencies(p, newResolutionStack())
		}
		if err != nil {
			c.log.WithError(err).Error("verification failed", logger.Fields(
				logger.FieldServiceType, service.String()))
			return err
		}
		verified++
	}

	c.log.Info("container verified", logger.Fields("service_types", verified))
	return nil
}

// knownServiceTypes snapshots every closed service type reachable from the
// current configuration, in registration order.
func (c *Container) knownServiceTypes() []typedesc.Type {
	c.mu.Lock()
	entries := make([]registry.Entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, c.entries[key])
	}
	c.mu.Unlock()

	var out []typedesc.Type
	for _, e := range entries {
		out = append(out, e.ClosedServiceTypes()...)
	}
	for _, elem := range c.collections.ControlledServiceTypes() {
		out = append(out, typedesc.SequenceOf(elem))
	}
	return out
}
