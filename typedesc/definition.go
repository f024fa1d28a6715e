package typedesc

import (
	"fmt"

	"github.com/google/uuid"
)

// Definition is the open form of a generic type: a name, an ordered list of
// parameters, and the generic bases the type implements. Definitions are
// identity-compared; two definitions with the same name are distinct types.
type Definition struct {
	id              string
	name            string
	params          []*Parameter
	bases           []Type
	isInterface     bool
	isValueType     bool
	nullableWrapper bool
}

// DefinitionOption configures a Definition at construction.
type DefinitionOption func(*Definition)

// Implements declares a base type or interface. The base may reference the
// definition's own parameters (e.g. Validator[T] for an implementation with
// parameter T), or close them partially (e.g. Handler[List[T]]).
func Implements(base Type) DefinitionOption {
	return func(d *Definition) { d.bases = append(d.bases, base) }
}

// AsInterface marks the definition as abstract: it cannot be constructed and
// has no parameterless constructor.
func AsInterface() DefinitionOption {
	return func(d *Definition) { d.isInterface = true }
}

// AsValueType marks closed forms of the definition as value types.
func AsValueType() DefinitionOption {
	return func(d *Definition) { d.isValueType = true }
}

// AsNullableWrapper marks the definition as an optional/nullable wrapper,
// which disqualifies its closed forms from non-nullable value type constraints.
func AsNullableWrapper() DefinitionOption {
	return func(d *Definition) { d.nullableWrapper = true }
}

// NewDefinition creates a generic type definition adopting the given
// parameters. A parameter can belong to exactly one definition; reuse panics.
func NewDefinition(name string, params []*Parameter, opts ...DefinitionOption) *Definition {
	d := &Definition{id: uuid.NewString(), name: name, params: params}
	for _, p := range params {
		if p == nil {
			panic(fmt.Sprintf("typedesc: definition %q declares a nil parameter", name))
		}
		if p.owner != nil {
			panic(fmt.Sprintf("typedesc: parameter %q already belongs to %q", p.name, p.owner.name))
		}
		p.owner = d
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the definition name.
func (d *Definition) Name() string { return d.name }

// ID returns the definition's unique identity. Generic family identity is
// based on this, not on the name.
func (d *Definition) ID() string { return d.id }

// Arity returns the number of declared parameters.
func (d *Definition) Arity() int { return len(d.params) }

// Parameters returns the declared parameters in order.
func (d *Definition) Parameters() []*Parameter {
	out := make([]*Parameter, len(d.params))
	copy(out, d.params)
	return out
}

// Bases returns the declared generic bases in their open form.
func (d *Definition) Bases() []Type {
	out := make([]Type, len(d.bases))
	copy(out, d.bases)
	return out
}

// IsInterface reports whether the definition is abstract.
func (d *Definition) IsInterface() bool { return d.isInterface }

// Open returns the fully open form of the definition, with every argument
// position holding its own parameter.
func (d *Definition) Open() Type {
	args := make([]Type, len(d.params))
	for i, p := range d.params {
		args[i] = p.AsType()
	}
	return Type{kind: KindGeneric, def: d, args: args}
}

// Of applies the definition to the given arguments without constraint
// checking. Arguments may be open, so partial forms are representable.
// Panics on arity mismatch; use Instantiate for a checked close.
func (d *Definition) Of(args ...Type) Type {
	if len(args) != len(d.params) {
		panic(fmt.Sprintf("typedesc: %s expects %d type arguments, got %d", d.name, len(d.params), len(args)))
	}
	owned := make([]Type, len(args))
	copy(owned, args)
	return Type{kind: KindGeneric, def: d, args: owned}
}

// ParameterIndex returns the position of p among the declared parameters, or -1.
func (d *Definition) ParameterIndex(p *Parameter) int {
	for i, dp := range d.params {
		if dp == p {
			return i
		}
	}
	return -1
}

// Instantiate closes the definition with fully concrete arguments, enforcing
// every declared parameter constraint. This is the strict pass; the
// registration-time validator deliberately defers to it for any constraint
// that still involves unbound parameters.
func (d *Definition) Instantiate(args []Type) (Type, error) {
	if len(args) != len(d.params) {
		return Type{}, fmt.Errorf("typedesc: %s expects %d type arguments, got %d", d.name, len(d.params), len(args))
	}
	bind := d.bindingsFor(args)
	for i, p := range d.params {
		arg := args[i]
		if !arg.IsClosed() {
			return Type{}, fmt.Errorf("typedesc: argument %s for %s.%s is not closed", arg, d.name, p.name)
		}
		if p.valueType && (!arg.IsValueType() || arg.IsNullableWrapper()) {
			return Type{}, fmt.Errorf("typedesc: %s does not satisfy the value type constraint on %s.%s", arg, d.name, p.name)
		}
		if p.reference && arg.IsValueType() {
			return Type{}, fmt.Errorf("typedesc: %s does not satisfy the reference type constraint on %s.%s", arg, d.name, p.name)
		}
		if p.defaultCtor && !arg.HasDefaultConstructor() {
			return Type{}, fmt.Errorf("typedesc: %s does not satisfy the constructor constraint on %s.%s", arg, d.name, p.name)
		}
		for _, c := range p.constraints {
			cc := c.Substitute(bind)
			if !cc.IsClosed() || !arg.AssignableTo(cc) {
				return Type{}, fmt.Errorf("typedesc: %s does not satisfy the constraint %s on %s.%s", arg, cc, d.name, p.name)
			}
		}
	}
	return d.Of(args...), nil
}

// bindingsFor maps the declared parameters onto the given argument list.
func (d *Definition) bindingsFor(args []Type) map[*Parameter]Type {
	bind := make(map[*Parameter]Type, len(d.params))
	for i, p := range d.params {
		if i < len(args) {
			bind[p] = args[i]
		}
	}
	return bind
}
