package typedesc

import "github.com/google/uuid"

// Parameter is an unbound generic parameter declared by a Definition.
// Constraints restrict which concrete types may bind to it.
type Parameter struct {
	id          string
	name        string
	owner       *Definition
	valueType   bool
	reference   bool
	defaultCtor bool
	constraints []Type
}

// ParameterOption configures a Parameter at construction.
type ParameterOption func(*Parameter)

// WithValueTypeConstraint requires the bound type to be a non-nullable value type.
func WithValueTypeConstraint() ParameterOption {
	return func(p *Parameter) { p.valueType = true }
}

// WithReferenceTypeConstraint requires the bound type to be a reference type.
func WithReferenceTypeConstraint() ParameterOption {
	return func(p *Parameter) { p.reference = true }
}

// WithDefaultConstructorConstraint requires the bound type to be constructible
// without arguments.
func WithDefaultConstructorConstraint() ParameterOption {
	return func(p *Parameter) { p.defaultCtor = true }
}

// WithTypeConstraint requires the bound type to be assignable to t. The
// constraint may itself be open; open constraints are checked once every
// parameter involved has been bound.
func WithTypeConstraint(t Type) ParameterOption {
	return func(p *Parameter) { p.constraints = append(p.constraints, t) }
}

// NewParameter creates an unbound generic parameter. The parameter becomes
// usable once a Definition adopts it.
func NewParameter(name string, opts ...ParameterOption) *Parameter {
	p := &Parameter{id: uuid.NewString(), name: name}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the declared parameter name.
func (p *Parameter) Name() string { return p.name }

// Owner returns the Definition that declared this parameter, or nil if the
// parameter has not been adopted yet.
func (p *Parameter) Owner() *Definition { return p.owner }

// RequiresValueType reports whether a non-nullable value type is required.
func (p *Parameter) RequiresValueType() bool { return p.valueType }

// RequiresReferenceType reports whether a reference type is required.
func (p *Parameter) RequiresReferenceType() bool { return p.reference }

// RequiresDefaultConstructor reports whether a parameterless constructor is required.
func (p *Parameter) RequiresDefaultConstructor() bool { return p.defaultCtor }

// TypeConstraints returns the declared base/interface constraints.
func (p *Parameter) TypeConstraints() []Type {
	out := make([]Type, len(p.constraints))
	copy(out, p.constraints)
	return out
}

// IsConstrained reports whether the parameter carries any constraint at all.
func (p *Parameter) IsConstrained() bool {
	return p.valueType || p.reference || p.defaultCtor || len(p.constraints) > 0
}

// AsType returns the parameter as an unbound Type.
func (p *Parameter) AsType() Type {
	return Type{kind: KindParameter, param: p}
}
