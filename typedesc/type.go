package typedesc

import (
	"reflect"
	"strings"
)

// Kind discriminates the three shapes a Type can take.
type Kind int

const (
	// KindConcrete is a leaf type backed by a reflect.Type.
	KindConcrete Kind = iota
	// KindParameter is an unbound generic parameter.
	KindParameter
	// KindGeneric is a Definition applied to arguments (open, partial, or closed).
	KindGeneric
)

// Type is an immutable type descriptor. The zero value is invalid; construct
// with Concrete, ConcreteOf, Definition.Of, Definition.Open, or Parameter.AsType.
type Type struct {
	kind  Kind
	rt    reflect.Type
	param *Parameter
	def   *Definition
	args  []Type
}

// Concrete wraps a reflect.Type as a leaf descriptor.
func Concrete(rt reflect.Type) Type {
	if rt == nil {
		panic("typedesc: Concrete called with nil reflect.Type")
	}
	return Type{kind: KindConcrete, rt: rt}
}

// ConcreteOf returns the leaf descriptor for the Go type T.
// Works for interface types as well: ConcreteOf[io.Reader]().
func ConcreteOf[T any]() Type {
	return Type{kind: KindConcrete, rt: reflect.TypeOf((*T)(nil)).Elem()}
}

// Kind returns the shape of the descriptor.
func (t Type) Kind() Kind { return t.kind }

// IsZero reports whether t is the invalid zero descriptor.
func (t Type) IsZero() bool { return t.rt == nil && t.param == nil && t.def == nil }

// GoType returns the backing reflect.Type for a concrete leaf, or nil.
func (t Type) GoType() reflect.Type { return t.rt }

// Parameter returns the referenced parameter for KindParameter, or nil.
func (t Type) Parameter() *Parameter { return t.param }

// GenericDefinition returns the definition for KindGeneric, or nil. Generic
// family identity is based on this unparameterized form.
func (t Type) GenericDefinition() *Definition { return t.def }

// Args returns the argument list of a generic type, or nil.
func (t Type) Args() []Type {
	out := make([]Type, len(t.args))
	copy(out, t.args)
	return out
}

// IsClosed reports whether the descriptor contains no unbound parameters.
func (t Type) IsClosed() bool {
	switch t.kind {
	case KindConcrete:
		return t.rt != nil
	case KindParameter:
		return false
	case KindGeneric:
		for _, a := range t.args {
			if !a.IsClosed() {
				return false
			}
		}
		return true
	}
	return false
}

// Equal reports structural equality.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindConcrete:
		return t.rt == o.rt
	case KindParameter:
		return t.param == o.param
	case KindGeneric:
		if t.def != o.def || len(t.args) != len(o.args) {
			return false
		}
		for i := range t.args {
			if !t.args[i].Equal(o.args[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Key returns a stable identity string usable as a map key.
func (t Type) Key() string {
	switch t.kind {
	case KindConcrete:
		if t.rt == nil {
			return "go:<nil>"
		}
		return "go:" + t.rt.PkgPath() + "/" + t.rt.String()
	case KindParameter:
		return "param:" + t.param.id
	case KindGeneric:
		keys := make([]string, len(t.args))
		for i, a := range t.args {
			keys[i] = a.Key()
		}
		return t.def.id + "[" + strings.Join(keys, ",") + "]"
	}
	return ""
}

// String renders the descriptor for messages and logs.
func (t Type) String() string {
	switch t.kind {
	case KindConcrete:
		if t.rt == nil {
			return "<zero>"
		}
		return t.rt.String()
	case KindParameter:
		return t.param.name
	case KindGeneric:
		names := make([]string, len(t.args))
		for i, a := range t.args {
			names[i] = a.String()
		}
		return t.def.name + "[" + strings.Join(names, ",") + "]"
	}
	return "<zero>"
}

// Substitute replaces parameter references according to bindings, recursing
// into generic arguments. Unbound parameters are left in place.
func (t Type) Substitute(bindings map[*Parameter]Type) Type {
	switch t.kind {
	case KindParameter:
		if b, ok := bindings[t.param]; ok {
			return b
		}
		return t
	case KindGeneric:
		changed := false
		args := make([]Type, len(t.args))
		for i, a := range t.args {
			args[i] = a.Substitute(bindings)
			if !args[i].Equal(a) {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return Type{kind: KindGeneric, def: t.def, args: args}
	}
	return t
}

// FreeParameters returns the distinct unbound parameters in first-occurrence order.
func (t Type) FreeParameters() []*Parameter {
	var out []*Parameter
	seen := make(map[*Parameter]bool)
	var walk func(Type)
	walk = func(x Type) {
		switch x.kind {
		case KindParameter:
			if !seen[x.param] {
				seen[x.param] = true
				out = append(out, x.param)
			}
		case KindGeneric:
			for _, a := range x.args {
				walk(a)
			}
		}
	}
	walk(t)
	return out
}

// Bases returns the direct generic bases of t with t's arguments substituted
// in. Concrete leaves report no generic bases; their relationships are
// answered by reflection in AssignableTo.
func (t Type) Bases() []Type {
	if t.kind != KindGeneric {
		return nil
	}
	bind := t.def.bindingsFor(t.args)
	out := make([]Type, 0, len(t.def.bases))
	for _, b := range t.def.bases {
		out = append(out, b.Substitute(bind))
	}
	return out
}

// Hierarchy returns t followed by its transitive bases, deduplicated.
func (t Type) Hierarchy() []Type {
	out := []Type{t}
	seen := map[string]bool{t.Key(): true}
	for i := 0; i < len(out); i++ {
		for _, b := range out[i].Bases() {
			if k := b.Key(); !seen[k] {
				seen[k] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// AssignableTo reports whether a value of type t satisfies target. Concrete
// leaves defer to reflection; generic types walk their declared bases.
func (t Type) AssignableTo(target Type) bool {
	if t.Equal(target) {
		return true
	}
	switch t.kind {
	case KindConcrete:
		if target.kind != KindConcrete || t.rt == nil || target.rt == nil {
			return false
		}
		return t.rt.AssignableTo(target.rt)
	case KindGeneric:
		for _, b := range t.Bases() {
			if b.AssignableTo(target) {
				return true
			}
		}
	}
	return false
}

// IsValueType reports whether t is a value type. Pointer, interface, map,
// slice, channel, and function leaves are reference types; generic types
// follow their definition's declaration.
func (t Type) IsValueType() bool {
	switch t.kind {
	case KindConcrete:
		switch t.rt.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice,
			reflect.Chan, reflect.Func, reflect.UnsafePointer:
			return false
		}
		return true
	case KindGeneric:
		return t.def.isValueType
	}
	return false
}

// IsNullableWrapper reports whether t is an optional/nullable wrapper around
// another type. Pointer leaves and definitions marked AsNullableWrapper qualify.
func (t Type) IsNullableWrapper() bool {
	switch t.kind {
	case KindConcrete:
		return t.rt.Kind() == reflect.Ptr
	case KindGeneric:
		return t.def.nullableWrapper
	}
	return false
}

// HasDefaultConstructor reports whether t can be constructed without
// arguments. Value types trivially qualify. For an unbound parameter the
// answer is whether that parameter itself demands a constructor, so callers
// checking a parameter-to-parameter binding defer correctly.
func (t Type) HasDefaultConstructor() bool {
	switch t.kind {
	case KindConcrete:
		switch t.rt.Kind() {
		case reflect.Interface, reflect.Func, reflect.Chan:
			return false
		}
		return true
	case KindGeneric:
		return !t.def.isInterface
	case KindParameter:
		return t.param.defaultCtor
	}
	return false
}

// --- built-in sequence family ---

var sequenceParam = NewParameter("T")

// sequenceDef is the built-in "many of T" family used by collection requests.
var sequenceDef = NewDefinition("Sequence", []*Parameter{sequenceParam})

// SequenceOf returns the descriptor for an ordered collection of elem.
func SequenceOf(elem Type) Type {
	return sequenceDef.Of(elem)
}

// IsSequence reports whether t is a collection request descriptor.
func IsSequence(t Type) bool {
	return t.kind == KindGeneric && t.def == sequenceDef
}

// SequenceElement returns the element type of a collection descriptor.
func SequenceElement(t Type) (Type, bool) {
	if !IsSequence(t) {
		return Type{}, false
	}
	return t.args[0], true
}
