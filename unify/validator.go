package unify

import "github.com/kbukum/bindkit/typedesc"

// Satisfies reports whether the mapping's concrete type meets every
// constraint declared on its argument. Mappings whose argument is not an
// unbound parameter carry no constraints and pass trivially.
//
// Constraints that still involve unbound parameters succeed optimistically:
// the strict check runs in Definition.Instantiate once the type is fully
// closed. Rejecting early here would discard open generic configurations
// whose validity depends on the eventual call site.
func Satisfies(m typedesc.ArgumentMapping) bool {
	if m.Argument.Kind() != typedesc.KindParameter {
		return true
	}
	p := m.Argument.Parameter()
	return satisfiesValueType(p, m.Concrete) &&
		satisfiesDefaultConstructor(p, m.Concrete) &&
		satisfiesReferenceType(p, m.Concrete) &&
		satisfiesTypeConstraints(p, m.Concrete)
}

func satisfiesValueType(p *typedesc.Parameter, concrete typedesc.Type) bool {
	if !p.RequiresValueType() {
		return true
	}
	return concrete.IsValueType() && !concrete.IsNullableWrapper()
}

func satisfiesDefaultConstructor(p *typedesc.Parameter, concrete typedesc.Type) bool {
	if !p.RequiresDefaultConstructor() {
		return true
	}
	// For a parameter-to-parameter binding, HasDefaultConstructor defers to
	// whether the bound parameter carries the same requirement.
	return concrete.HasDefaultConstructor()
}

func satisfiesReferenceType(p *typedesc.Parameter, concrete typedesc.Type) bool {
	if !p.RequiresReferenceType() {
		return true
	}
	return !concrete.IsValueType()
}

func satisfiesTypeConstraints(p *typedesc.Parameter, concrete typedesc.Type) bool {
	for _, c := range p.TypeConstraints() {
		if !satisfiesTypeConstraint(c, concrete) {
			return false
		}
	}
	return true
}

func satisfiesTypeConstraint(constraint, concrete typedesc.Type) bool {
	// An unresolved side defers to the fully-closed pass.
	if constraint.Kind() == typedesc.KindParameter || concrete.Kind() == typedesc.KindParameter {
		return true
	}
	if constraint.IsClosed() && concrete.IsClosed() {
		return concrete.AssignableTo(constraint)
	}
	if !concrete.IsClosed() {
		return true
	}
	// Open composite constraint against a closed concrete: the concrete type
	// must expose the constraint's generic shape somewhere in its hierarchy,
	// with every already-closed position matching.
	if constraint.Kind() == typedesc.KindGeneric {
		for _, h := range concrete.Hierarchy() {
			if h.GenericDefinition() != constraint.GenericDefinition() {
				continue
			}
			ca, ha := constraint.Args(), h.Args()
			ok := true
			for i := range ca {
				if ca[i].IsClosed() && !ha[i].Equal(ca[i]) {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
		return false
	}
	return false
}
