package unify

import "github.com/kbukum/bindkit/typedesc"

// FindArguments derives the ordered concrete arguments needed to close the
// implementation against a closed request.
//
// serviceShape is the base declared on the implementation that belongs to the
// request's generic family (its argument positions may be parameters of the
// implementation, or composites around them). request is the closed service
// type being resolved. impl is the implementation as registered, possibly
// partially closed.
//
// The boolean result is false when no consistent assignment exists.
func FindArguments(serviceShape, request, impl typedesc.Type) ([]typedesc.Type, bool) {
	implDef := impl.GenericDefinition()
	if implDef == nil ||
		serviceShape.Kind() != typedesc.KindGeneric ||
		request.Kind() != typedesc.KindGeneric ||
		serviceShape.GenericDefinition() != request.GenericDefinition() ||
		!request.IsClosed() {
		return nil, false
	}

	mappings := zip(serviceShape.Args(), request.Args())
	mappings = append(mappings, partialMappings(implDef, impl)...)

	var expanded []typedesc.ArgumentMapping
	for _, m := range mappings {
		expanded = append(expanded, expand(m, implDef, 0)...)
	}
	expanded = dedupe(expanded)

	// Infeasible mappings are dropped, not fatal: a parameter left without a
	// binding fails the ordering step below, and that is the signal the
	// builder turns into NotApplicable.
	kept := expanded[:0]
	for _, m := range expanded {
		if !Satisfies(m) || conflictsWithRequest(m, serviceShape, request) {
			continue
		}
		kept = append(kept, m)
	}

	return orderByParameters(kept, implDef)
}

// zip pairs argument positions one to one.
func zip(arguments, concretes []typedesc.Type) []typedesc.ArgumentMapping {
	out := make([]typedesc.ArgumentMapping, 0, len(arguments))
	for i := range arguments {
		out = append(out, typedesc.NewMapping(arguments[i], concretes[i]))
	}
	return out
}

// partialMappings extracts the bindings a partially closed implementation
// already fixes: every declared argument that is fully concrete pins its
// parameter position.
func partialMappings(implDef *typedesc.Definition, impl typedesc.Type) []typedesc.ArgumentMapping {
	params := implDef.Parameters()
	args := impl.Args()
	var out []typedesc.ArgumentMapping
	for i, p := range params {
		if i < len(args) && args[i].IsClosed() {
			out = append(out, typedesc.NewMapping(p.AsType(), args[i]))
		}
	}
	return out
}

// maxExpandDepth bounds recursion through mutually referential constraints.
const maxExpandDepth = 32

// expand turns one mapping into the set of parameter-level bindings it
// implies. A mapping whose argument is one of the implementation's own
// parameters is kept and its type constraints are mined for further bindings;
// a composite argument is unified against the matching shape in the concrete
// type's hierarchy; a foreign parameter or fully concrete argument yields
// nothing on its own.
func expand(m typedesc.ArgumentMapping, implDef *typedesc.Definition, depth int) []typedesc.ArgumentMapping {
	if depth > maxExpandDepth {
		return nil
	}
	switch m.Argument.Kind() {
	case typedesc.KindParameter:
		p := m.Argument.Parameter()
		if p.Owner() != implDef {
			return nil
		}
		out := []typedesc.ArgumentMapping{m}
		for _, c := range p.TypeConstraints() {
			out = append(out, expand(typedesc.NewMapping(c, m.Concrete), implDef, depth+1)...)
		}
		return out
	case typedesc.KindGeneric:
		// Unify the composite shape against the concrete type's hierarchy.
		for _, h := range m.Concrete.Hierarchy() {
			if h.GenericDefinition() != m.Argument.GenericDefinition() {
				continue
			}
			var out []typedesc.ArgumentMapping
			aa, ha := m.Argument.Args(), h.Args()
			for i := range aa {
				out = append(out, expand(typedesc.NewMapping(aa[i], ha[i]), implDef, depth+1)...)
			}
			return out
		}
		return nil
	}
	return nil
}

func dedupe(mappings []typedesc.ArgumentMapping) []typedesc.ArgumentMapping {
	seen := make(map[string]bool, len(mappings))
	out := mappings[:0]
	for _, m := range mappings {
		if k := m.Key(); !seen[k] {
			seen[k] = true
			out = append(out, m)
		}
	}
	return out
}

// conflictsWithRequest reports whether a mapping proposes a binding that
// contradicts the request at the same argument position.
func conflictsWithRequest(m typedesc.ArgumentMapping, serviceShape, request typedesc.Type) bool {
	sa, ra := serviceShape.Args(), request.Args()
	for i := range sa {
		if m.Argument.Equal(sa[i]) && !m.Concrete.Equal(ra[i]) {
			return true
		}
	}
	return false
}

// orderByParameters reorders surviving bindings to the implementation's
// declared parameter order. Every parameter must receive exactly one closed
// binding; a missing or conflicting position means no consistent assignment.
func orderByParameters(mappings []typedesc.ArgumentMapping, implDef *typedesc.Definition) ([]typedesc.Type, bool) {
	params := implDef.Parameters()
	args := make([]typedesc.Type, len(params))
	for i, p := range params {
		pt := p.AsType()
		for _, m := range mappings {
			if !m.Argument.Equal(pt) || !m.Concrete.IsClosed() {
				continue
			}
			if args[i].IsZero() {
				args[i] = m.Concrete
			} else if !args[i].Equal(m.Concrete) {
				return nil, false
			}
		}
		if args[i].IsZero() {
			return nil, false
		}
	}
	return args, true
}
