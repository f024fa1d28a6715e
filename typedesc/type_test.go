package typedesc

import (
	"strings"
	"testing"
)

// --- test model ---
//
// Validator[T]            abstract family
// DefaultValidator[U]     implements Validator[U]
// List[E]                 concrete-ish container family

type validatorModel struct {
	validatorT *Parameter
	validator  *Definition

	implU *Parameter
	impl  *Definition

	listE *Parameter
	list  *Definition
}

func newValidatorModel() *validatorModel {
	m := &validatorModel{}
	m.validatorT = NewParameter("T")
	m.validator = NewDefinition("Validator", []*Parameter{m.validatorT}, AsInterface())

	m.implU = NewParameter("U")
	m.impl = NewDefinition("DefaultValidator", []*Parameter{m.implU},
		Implements(m.validator.Of(m.implU.AsType())))

	m.listE = NewParameter("E")
	m.list = NewDefinition("List", []*Parameter{m.listE})
	return m
}

// --- Type shape tests ---

func TestType_Zero(t *testing.T) {
	var z Type
	if !z.IsZero() {
		t.Fatal("expected zero descriptor")
	}
	if z.IsClosed() {
		t.Fatal("the zero descriptor must not count as closed")
	}
}

func TestType_ConcreteClosed(t *testing.T) {
	s := ConcreteOf[string]()
	if s.Kind() != KindConcrete {
		t.Fatalf("expected concrete kind, got %v", s.Kind())
	}
	if !s.IsClosed() {
		t.Fatal("a concrete leaf is closed")
	}
}

func TestType_OpenAndPartialForms(t *testing.T) {
	m := newValidatorModel()

	open := m.impl.Open()
	if open.IsClosed() {
		t.Fatal("the open form must not be closed")
	}

	partial := m.impl.Of(m.list.Of(m.implU.AsType()))
	if partial.IsClosed() {
		t.Fatal("a partially closed form still carries a free parameter")
	}

	closed := m.impl.Of(ConcreteOf[string]())
	if !closed.IsClosed() {
		t.Fatal("expected a closed form")
	}
}

func TestType_EqualAndKey(t *testing.T) {
	m := newValidatorModel()

	a := m.validator.Of(ConcreteOf[string]())
	b := m.validator.Of(ConcreteOf[string]())
	c := m.validator.Of(ConcreteOf[int]())

	if !a.Equal(b) {
		t.Fatal("structurally identical forms must be equal")
	}
	if a.Equal(c) {
		t.Fatal("different arguments must not be equal")
	}
	if a.Key() != b.Key() {
		t.Fatalf("equal types must share a key: %q vs %q", a.Key(), b.Key())
	}
	if a.Key() == c.Key() {
		t.Fatal("different closed forms must not share a key")
	}
}

func TestType_SameNameDistinctDefinitions(t *testing.T) {
	p1 := NewParameter("T")
	d1 := NewDefinition("Validator", []*Parameter{p1})
	p2 := NewParameter("T")
	d2 := NewDefinition("Validator", []*Parameter{p2})

	a := d1.Of(ConcreteOf[string]())
	b := d2.Of(ConcreteOf[string]())
	if a.Equal(b) {
		t.Fatal("definitions are identity-compared; same name is not the same family")
	}
	if a.Key() == b.Key() {
		t.Fatal("distinct families must not share keys")
	}
}

func TestType_String(t *testing.T) {
	m := newValidatorModel()
	got := m.validator.Of(m.list.Of(ConcreteOf[int]())).String()
	if !strings.Contains(got, "Validator[") || !strings.Contains(got, "List[int]") {
		t.Fatalf("unexpected rendering: %q", got)
	}
}

// --- substitution and free parameters ---

func TestType_Substitute(t *testing.T) {
	m := newValidatorModel()

	shape := m.validator.Of(m.implU.AsType())
	bound := shape.Substitute(map[*Parameter]Type{m.implU: ConcreteOf[string]()})
	if !bound.Equal(m.validator.Of(ConcreteOf[string]())) {
		t.Fatalf("unexpected substitution result: %s", bound)
	}

	// Unbound parameters stay in place.
	same := shape.Substitute(map[*Parameter]Type{m.validatorT: ConcreteOf[int]()})
	if !same.Equal(shape) {
		t.Fatalf("a foreign binding must not alter the shape: %s", same)
	}
}

func TestType_FreeParameters(t *testing.T) {
	m := newValidatorModel()

	nested := m.validator.Of(m.list.Of(m.implU.AsType()))
	free := nested.FreeParameters()
	if len(free) != 1 || free[0] != m.implU {
		t.Fatalf("expected exactly the nested parameter, got %v", free)
	}

	if n := m.validator.Of(ConcreteOf[int]()).FreeParameters(); len(n) != 0 {
		t.Fatalf("a closed form has no free parameters, got %v", n)
	}
}

// --- hierarchy and assignability ---

func TestType_HierarchyCarriesSubstitutedBases(t *testing.T) {
	m := newValidatorModel()

	closed := m.impl.Of(ConcreteOf[string]())
	h := closed.Hierarchy()
	want := m.validator.Of(ConcreteOf[string]())

	found := false
	for _, b := range h {
		if b.Equal(want) {
			found = true
		}
	}
	if !found {
		t.Fatalf("hierarchy of %s should contain %s, got %v", closed, want, h)
	}
}

func TestType_AssignableTo(t *testing.T) {
	m := newValidatorModel()

	impl := m.impl.Of(ConcreteOf[string]())
	if !impl.AssignableTo(m.validator.Of(ConcreteOf[string]())) {
		t.Fatal("a closed implementation is assignable to its closed base")
	}
	if impl.AssignableTo(m.validator.Of(ConcreteOf[int]())) {
		t.Fatal("bases are substituted; the argument must match")
	}
}

func TestType_AssignableToConcrete(t *testing.T) {
	type reader interface{ Read() }
	if !ConcreteOf[string]().AssignableTo(ConcreteOf[string]()) {
		t.Fatal("a concrete leaf is assignable to itself")
	}
	if ConcreteOf[string]().AssignableTo(ConcreteOf[reader]()) {
		t.Fatal("string does not implement the interface")
	}
}

// --- classification ---

func TestType_IsValueType(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		want bool
	}{
		{"int", ConcreteOf[int](), true},
		{"struct", ConcreteOf[struct{ N int }](), true},
		{"pointer", ConcreteOf[*int](), false},
		{"slice", ConcreteOf[[]int](), false},
		{"map", ConcreteOf[map[string]int](), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.typ.IsValueType(); got != tc.want {
				t.Fatalf("IsValueType(%s) = %v, want %v", tc.typ, got, tc.want)
			}
		})
	}
}

func TestType_IsNullableWrapper(t *testing.T) {
	if !ConcreteOf[*int]().IsNullableWrapper() {
		t.Fatal("a pointer leaf is a nullable wrapper")
	}
	if ConcreteOf[int]().IsNullableWrapper() {
		t.Fatal("int is not a nullable wrapper")
	}

	p := NewParameter("T")
	opt := NewDefinition("Optional", []*Parameter{p}, AsValueType(), AsNullableWrapper())
	if !opt.Of(ConcreteOf[int]()).IsNullableWrapper() {
		t.Fatal("a flagged definition is a nullable wrapper")
	}
}

func TestType_HasDefaultConstructor(t *testing.T) {
	m := newValidatorModel()

	if !ConcreteOf[struct{}]().HasDefaultConstructor() {
		t.Fatal("a struct leaf has a default constructor")
	}
	if ConcreteOf[func()]().HasDefaultConstructor() {
		t.Fatal("a function leaf has no default constructor")
	}
	if m.validator.Of(ConcreteOf[int]()).HasDefaultConstructor() {
		t.Fatal("an abstract family has no default constructor")
	}

	// A parameter defers to its own requirement, so parameter-to-parameter
	// bindings keep the check alive until the type is closed.
	ctor := NewParameter("C", WithDefaultConstructorConstraint())
	if !ctor.AsType().HasDefaultConstructor() {
		t.Fatal("a constructor-constrained parameter promises a constructor")
	}
	plain := NewParameter("P")
	if plain.AsType().HasDefaultConstructor() {
		t.Fatal("an unconstrained parameter promises nothing")
	}
}

// --- sequence family ---

func TestType_Sequence(t *testing.T) {
	elem := ConcreteOf[string]()
	seq := SequenceOf(elem)

	if !IsSequence(seq) {
		t.Fatal("expected a sequence descriptor")
	}
	got, ok := SequenceElement(seq)
	if !ok || !got.Equal(elem) {
		t.Fatalf("expected element %s, got %s (ok=%v)", elem, got, ok)
	}
	if IsSequence(elem) {
		t.Fatal("a plain leaf is not a sequence")
	}
	if _, ok := SequenceElement(elem); ok {
		t.Fatal("a plain leaf has no sequence element")
	}
}
