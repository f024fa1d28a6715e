// Package container is the engine's facade: registration, resolution,
// collection resolution, locking, and proactive verification.
//
// Configuration happens first and single-threaded; the first resolution (or
// an explicit Lock) locks the container, after which registrations fail
// immediately and resolution is safe for unbounded concurrent callers.
//
//	c := container.New()
//	_ = c.Register(validator.Of(typedesc.ConcreteOf[string]()),
//	    stringValidator, registry.Singleton)
//	p, err := c.Resolve(ctx, validator.Of(typedesc.ConcreteOf[string]()), nil)
package container
