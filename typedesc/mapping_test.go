package typedesc

import "testing"

func TestMapping_ParameterMatchesAnything(t *testing.T) {
	p := NewParameter("T")
	NewDefinition("Box", []*Parameter{p})

	if !NewMapping(p.AsType(), ConcreteOf[string]()).Matches() {
		t.Fatal("an unbound parameter admits any binding")
	}
}

func TestMapping_EqualMatches(t *testing.T) {
	if !NewMapping(ConcreteOf[int](), ConcreteOf[int]()).Matches() {
		t.Fatal("equal types match")
	}
	if NewMapping(ConcreteOf[int](), ConcreteOf[string]()).Matches() {
		t.Fatal("different leaves must not match")
	}
}

func TestMapping_PartialShapeMatchesRecursively(t *testing.T) {
	e := NewParameter("E")
	list := NewDefinition("List", []*Parameter{e})
	x := NewParameter("X")
	NewDefinition("Holder", []*Parameter{x})

	// List[X] against List[int]: the nested parameter absorbs the argument.
	if !NewMapping(list.Of(x.AsType()), list.Of(ConcreteOf[int]())).Matches() {
		t.Fatal("a partial shape matches a closed form of the same family")
	}
	// List[string] against List[int]: the fixed position disagrees.
	if NewMapping(list.Of(ConcreteOf[string]()), list.Of(ConcreteOf[int]())).Matches() {
		t.Fatal("a fixed nested position must agree")
	}

	other := NewDefinition("Set", []*Parameter{NewParameter("E")})
	if NewMapping(list.Of(x.AsType()), other.Of(ConcreteOf[int]())).Matches() {
		t.Fatal("different families must not match")
	}
}

func TestMapping_KeyAndEqual(t *testing.T) {
	a := NewMapping(ConcreteOf[int](), ConcreteOf[string]())
	b := NewMapping(ConcreteOf[int](), ConcreteOf[string]())
	c := NewMapping(ConcreteOf[int](), ConcreteOf[bool]())

	if !a.Equal(b) || a.Key() != b.Key() {
		t.Fatal("identical mappings must be equal and share a key")
	}
	if a.Equal(c) || a.Key() == c.Key() {
		t.Fatal("different bindings must differ")
	}
}
