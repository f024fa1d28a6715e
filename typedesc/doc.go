// Package typedesc models the type algebra the resolution engine operates on.
//
// Go reflection cannot represent a generic type with unbound parameters, so
// open generics are described explicitly: a Definition declares an ordered set
// of Parameters (each optionally constrained) together with the generic base
// types it implements, and a Type is either a concrete leaf backed by a
// reflect.Type, a reference to an unbound Parameter, or a Definition applied
// to a list of arguments. Descriptors are built once, at registration time,
// and are immutable afterwards; resolution never re-introspects.
//
//	T := typedesc.NewParameter("T")
//	validator := typedesc.NewDefinition("Validator", []*typedesc.Parameter{T},
//	    typedesc.AsInterface())
//	closed := validator.Of(typedesc.ConcreteOf[string]())
package typedesc
