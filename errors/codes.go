package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors, raised at registration time.
const (
	// ErrCodeContainerLocked indicates a mutation was attempted after the
	// container was locked by its first resolution.
	ErrCodeContainerLocked ErrorCode = "CONTAINER_LOCKED"
	// ErrCodeOverlappingRegistration indicates two unconditional registrations
	// cover an overlapping set of closed service types.
	ErrCodeOverlappingRegistration ErrorCode = "OVERLAPPING_REGISTRATION"
	// ErrCodeMixedConditional indicates conditional and unconditional
	// registrations were mixed on a non-generic service type.
	ErrCodeMixedConditional ErrorCode = "MIXED_CONDITIONAL"
	// ErrCodeConditionalInOverrideMode indicates a conditional registration
	// was added while overriding mode is active.
	ErrCodeConditionalInOverrideMode ErrorCode = "CONDITIONAL_IN_OVERRIDE_MODE"
	// ErrCodeMixedCollectionStyle indicates controlled and uncontrolled
	// collection registrations were mixed for one service type.
	ErrCodeMixedCollectionStyle ErrorCode = "MIXED_COLLECTION_STYLE"
	// ErrCodeInvalidType indicates a registration used a descriptor that
	// cannot serve its role (for example an open type where a closed one is
	// required).
	ErrCodeInvalidType ErrorCode = "INVALID_TYPE"
)

// Resolution errors, raised at resolve time.
const (
	// ErrCodeAmbiguousResolution indicates more than one candidate producer
	// matched a single request.
	ErrCodeAmbiguousResolution ErrorCode = "AMBIGUOUS_RESOLUTION"
	// ErrCodeCyclicDependency indicates a service transitively depends on itself.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"
	// ErrCodeNotFound indicates no producer exists for the requested type.
	// Whether that is fatal is the caller's decision.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeFactoryFailed indicates an implementation factory returned an error.
	ErrCodeFactoryFailed ErrorCode = "FACTORY_FAILED"
)

var configurationCodes = map[ErrorCode]bool{
	ErrCodeContainerLocked:           true,
	ErrCodeOverlappingRegistration:   true,
	ErrCodeMixedConditional:          true,
	ErrCodeConditionalInOverrideMode: true,
	ErrCodeMixedCollectionStyle:      true,
	ErrCodeInvalidType:               true,
}

// IsConfigurationCode reports whether the code belongs to the
// registration-time configuration family.
func IsConfigurationCode(code ErrorCode) bool {
	return configurationCodes[code]
}
