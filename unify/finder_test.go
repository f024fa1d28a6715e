package unify

import (
	"testing"

	"github.com/kbukum/bindkit/typedesc"
)

func TestFindArguments_DirectPositions(t *testing.T) {
	m := newBuildModel()

	impl := m.defaultImpl.Open()
	u := m.defaultImpl.Parameters()[0]
	shape := m.validator.Of(u.AsType())
	request := m.validator.Of(typedesc.ConcreteOf[string]())

	args, ok := FindArguments(shape, request, impl)
	if !ok {
		t.Fatal("expected a consistent assignment")
	}
	if len(args) != 1 || !args[0].Equal(typedesc.ConcreteOf[string]()) {
		t.Fatalf("unexpected arguments: %v", args)
	}
}

func TestFindArguments_CompositePositionUnifiesAgainstHierarchy(t *testing.T) {
	m := newBuildModel()

	// Implementation whose base nests its parameter: Validator[List[W]].
	w := typedesc.NewParameter("W")
	impl := typedesc.NewDefinition("ListValidator", []*typedesc.Parameter{w},
		typedesc.Implements(m.validator.Of(m.list.Of(w.AsType()))))

	shape := m.validator.Of(m.list.Of(w.AsType()))
	request := m.validator.Of(m.list.Of(typedesc.ConcreteOf[int]()))

	args, ok := FindArguments(shape, request, impl.Open())
	if !ok {
		t.Fatal("expected the nested parameter to unify")
	}
	if len(args) != 1 || !args[0].Equal(typedesc.ConcreteOf[int]()) {
		t.Fatalf("unexpected arguments: %v", args)
	}
}

func TestFindArguments_ConstraintMinesBindings(t *testing.T) {
	m := newBuildModel()

	// Processor[P, R] where P is constrained to Producer[R]: binding P also
	// binds R through the mined constraint.
	prodT := typedesc.NewParameter("T")
	producer := typedesc.NewDefinition("Producer", []*typedesc.Parameter{prodT},
		typedesc.AsInterface())

	procR := typedesc.NewParameter("R")
	procP := typedesc.NewParameter("P",
		typedesc.WithTypeConstraint(producer.Of(procR.AsType())))
	processor := typedesc.NewDefinition("Processor", []*typedesc.Parameter{procP, procR},
		typedesc.Implements(m.validator.Of(procP.AsType())))

	srcT := typedesc.NewParameter("S")
	source := typedesc.NewDefinition("IntSource", []*typedesc.Parameter{srcT},
		typedesc.Implements(producer.Of(srcT.AsType())))

	shape := m.validator.Of(procP.AsType())
	request := m.validator.Of(source.Of(typedesc.ConcreteOf[int]()))

	args, ok := FindArguments(shape, request, processor.Open())
	if !ok {
		t.Fatal("expected the constraint to bind the sibling parameter")
	}
	if len(args) != 2 {
		t.Fatalf("expected two arguments, got %v", args)
	}
	if !args[0].Equal(source.Of(typedesc.ConcreteOf[int]())) {
		t.Fatalf("unexpected P binding: %s", args[0])
	}
	if !args[1].Equal(typedesc.ConcreteOf[int]()) {
		t.Fatalf("unexpected R binding: %s", args[1])
	}
}

func TestFindArguments_MissingBindingFails(t *testing.T) {
	m := newBuildModel()

	// Two parameters, only one reachable from the service shape.
	a := typedesc.NewParameter("A")
	b := typedesc.NewParameter("B")
	twoParam := typedesc.NewDefinition("PairCheck", []*typedesc.Parameter{a, b},
		typedesc.Implements(m.validator.Of(a.AsType())))

	shape := m.validator.Of(a.AsType())
	request := m.validator.Of(typedesc.ConcreteOf[string]())

	if _, ok := FindArguments(shape, request, twoParam.Open()); ok {
		t.Fatal("a parameter without a binding means no consistent assignment")
	}
}

func TestFindArguments_InfeasibleMappingIsDroppedNotFatal(t *testing.T) {
	m := newBuildModel()

	// The value type constraint rejects the pointer binding; the drop leaves
	// the parameter unbound, which surfaces as no assignment rather than an
	// error.
	v := m.structImpl.Parameters()[0]
	shape := m.validator.Of(v.AsType())
	request := m.validator.Of(typedesc.ConcreteOf[*int]())

	if _, ok := FindArguments(shape, request, m.structImpl.Open()); ok {
		t.Fatal("the constrained binding must not survive")
	}
}

func TestFindArguments_ForeignParameterYieldsNothing(t *testing.T) {
	m := newBuildModel()

	foreign := typedesc.NewParameter("F")
	typedesc.NewDefinition("Foreign", []*typedesc.Parameter{foreign})

	shape := m.validator.Of(foreign.AsType())
	request := m.validator.Of(typedesc.ConcreteOf[string]())

	if _, ok := FindArguments(shape, request, m.defaultImpl.Open()); ok {
		t.Fatal("a foreign parameter must not bind the implementation")
	}
}

func TestFindArguments_RejectsMismatchedShapes(t *testing.T) {
	m := newBuildModel()

	u := m.defaultImpl.Parameters()[0]
	openRequest := m.validator.Of(u.AsType())

	if _, ok := FindArguments(m.validator.Of(u.AsType()), openRequest, m.defaultImpl.Open()); ok {
		t.Fatal("an open request cannot be unified")
	}
	if _, ok := FindArguments(typedesc.ConcreteOf[string](),
		m.validator.Of(typedesc.ConcreteOf[string]()), m.defaultImpl.Open()); ok {
		t.Fatal("a non-generic shape cannot be unified")
	}
}
