package typedesc

// ArgumentMapping pairs a generic argument position with a candidate concrete
// binding. It is the unit of unification: the finder produces mappings, the
// validator filters them, and the builder consumes the survivors.
type ArgumentMapping struct {
	// Argument is the open side: a parameter, or a partially closed shape.
	Argument Type
	// Concrete is the candidate binding proposed for Argument.
	Concrete Type
}

// NewMapping creates a mapping. Construction has no side effects.
func NewMapping(argument, concrete Type) ArgumentMapping {
	return ArgumentMapping{Argument: argument, Concrete: concrete}
}

// Equal reports structural equality of both sides. Two mappings are
// compatible only when, for the same Argument, they propose the same Concrete.
func (m ArgumentMapping) Equal(o ArgumentMapping) bool {
	return m.Argument.Equal(o.Argument) && m.Concrete.Equal(o.Concrete)
}

// Key returns a stable identity for deduplication.
func (m ArgumentMapping) Key() string {
	return m.Argument.Key() + "=>" + m.Concrete.Key()
}

// Matches reports whether Concrete fits the possibly-partial Argument
// pattern: an unbound parameter admits anything, equal types match, and two
// applications of the same definition match when every nested argument pair
// matches. Used to validate partially closed implementations (for example
// Handler[List[T]]) against a fully concrete request.
func (m ArgumentMapping) Matches() bool {
	if m.Argument.Kind() == KindParameter {
		return true
	}
	if m.Argument.Equal(m.Concrete) {
		return true
	}
	if m.Argument.Kind() == KindGeneric && m.Concrete.Kind() == KindGeneric &&
		m.Argument.GenericDefinition() == m.Concrete.GenericDefinition() {
		aa, ca := m.Argument.Args(), m.Concrete.Args()
		for i := range aa {
			if !NewMapping(aa[i], ca[i]).Matches() {
				return false
			}
		}
		return true
	}
	return false
}
