package unify

import "github.com/kbukum/bindkit/typedesc"

// BuildResult is the outcome of closing an implementation against a request:
// either the closed implementation type, or not applicable. Inapplicability
// is not an error; the implementation simply does not serve this request.
type BuildResult struct {
	closed     typedesc.Type
	applicable bool
}

// Applicable wraps a successfully closed implementation type.
func Applicable(closed typedesc.Type) BuildResult {
	return BuildResult{closed: closed, applicable: true}
}

// NotApplicable is the empty result.
var NotApplicable = BuildResult{}

// IsApplicable reports whether a closed implementation type was produced.
func (r BuildResult) IsApplicable() bool { return r.applicable }

// Closed returns the closed implementation type. Only valid when applicable.
func (r BuildResult) Closed() typedesc.Type { return r.closed }

// Build attempts to produce the closed implementation type serving the
// requested closed service type.
//
// A closed or concrete implementation needs no unification: applicability is
// a direct assignability check. An open implementation is closed by locating
// every base in its hierarchy that shares the request's generic family,
// deriving concrete arguments for each, and instantiating the definition.
// "No matching base", "missing argument", and "constraint rejected at
// instantiation" all yield NotApplicable rather than an error.
func Build(request, impl typedesc.Type) BuildResult {
	if impl.IsClosed() {
		if impl.AssignableTo(request) {
			return Applicable(impl)
		}
		return NotApplicable
	}

	implDef := impl.GenericDefinition()
	reqDef := request.GenericDefinition()
	if implDef == nil || reqDef == nil || !request.IsClosed() {
		return NotApplicable
	}

	for _, shape := range candidateShapes(impl, reqDef) {
		args, ok := FindArguments(shape, request, impl)
		if !ok {
			continue
		}
		if _, err := implDef.Instantiate(args); err != nil {
			// A constraint that was deferred at registration time failed on
			// the fully closed arguments.
			continue
		}

		// The closed form is the registered implementation shape with the
		// parameter bindings substituted in, so composite argument positions
		// (DefaultValidator[List[U]] closing to DefaultValidator[List[string]])
		// survive the close.
		bind := make(map[*typedesc.Parameter]typedesc.Type, len(args))
		for i, p := range implDef.Parameters() {
			bind[p] = args[i]
		}
		closed := impl.Substitute(bind)

		if !closed.IsClosed() || !declaredArgumentsMatch(impl, closed) {
			continue
		}
		if !closed.AssignableTo(request) {
			continue
		}
		return Applicable(closed)
	}
	return NotApplicable
}

// candidateShapes lists every type in the implementation's hierarchy
// (including itself) that belongs to the requested generic family.
func candidateShapes(impl typedesc.Type, reqDef *typedesc.Definition) []typedesc.Type {
	var out []typedesc.Type
	for _, h := range impl.Hierarchy() {
		if h.GenericDefinition() == reqDef {
			out = append(out, h)
		}
	}
	return out
}

// declaredArgumentsMatch verifies that every declared argument pattern of the
// implementation admits the corresponding closed argument: positions the
// registration already fixed must survive the close unchanged.
func declaredArgumentsMatch(impl, closed typedesc.Type) bool {
	declared, got := impl.Args(), closed.Args()
	for i := range declared {
		if !typedesc.NewMapping(declared[i], got[i]).Matches() {
			return false
		}
	}
	return true
}
