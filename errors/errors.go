package errors

import (
	"errors"
	"fmt"
	"strings"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// CodeOf extracts the error code, or the empty code for foreign errors.
func CodeOf(err error) ErrorCode {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

// IsNotFound reports whether err is a "no producer" result.
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsConfiguration reports whether err is a registration-time configuration error.
func IsConfiguration(err error) bool {
	return IsConfigurationCode(CodeOf(err))
}

// Detail extracts a detail value attached to the error, or nil for foreign
// errors and missing keys.
func Detail(err error, key string) any {
	var ae *AppError
	if errors.As(err, &ae) && ae.Details != nil {
		return ae.Details[key]
	}
	return nil
}

// Candidates extracts the implementation names carried by an ambiguity error.
func Candidates(err error) []string {
	v, _ := Detail(err, "implementations").([]string)
	return v
}

// CyclePath extracts the dependency path carried by a cycle error.
func CyclePath(err error) []string {
	v, _ := Detail(err, "cycle").([]string)
	return v
}

// --- Configuration error constructors ---

// ContainerLocked creates an error for a mutation attempted after locking.
func ContainerLocked(operation string) *AppError {
	return &AppError{
		Code:    ErrCodeContainerLocked,
		Message: fmt.Sprintf("the container is locked; %s must happen before the first resolution", operation),
		Details: map[string]any{"operation": operation},
	}
}

// OverlappingRegistration creates an error for two unconditional
// registrations covering an overlapping closed-type set.
func OverlappingRegistration(serviceType, existingImpl, addedImpl string) *AppError {
	return &AppError{
		Code: ErrCodeOverlappingRegistration,
		Message: fmt.Sprintf("registration of %s for %s overlaps the existing registration of %s",
			addedImpl, serviceType, existingImpl),
		Details: map[string]any{
			"service_type": serviceType,
			"existing":     existingImpl,
			"added":        addedImpl,
		},
	}
}

// MixedConditional creates an error for mixing conditional and unconditional
// registrations on a non-generic service type.
func MixedConditional(serviceType string) *AppError {
	return &AppError{
		Code: ErrCodeMixedConditional,
		Message: fmt.Sprintf("conditional and unconditional registrations for %s cannot coexist",
			serviceType),
		Details: map[string]any{"service_type": serviceType},
	}
}

// ConditionalInOverrideMode creates an error for adding a conditional
// registration while overriding mode is active.
func ConditionalInOverrideMode(serviceType string) *AppError {
	return &AppError{
		Code: ErrCodeConditionalInOverrideMode,
		Message: fmt.Sprintf("a conditional registration for %s cannot be added while overriding is enabled",
			serviceType),
		Details: map[string]any{"service_type": serviceType},
	}
}

// MixedCollectionStyle creates an error for mixing controlled and
// uncontrolled collection registrations.
func MixedCollectionStyle(serviceType string) *AppError {
	return &AppError{
		Code: ErrCodeMixedCollectionStyle,
		Message: fmt.Sprintf("controlled and uncontrolled collection registrations for %s cannot be mixed",
			serviceType),
		Details: map[string]any{"service_type": serviceType},
	}
}

// InvalidType creates an error for a descriptor that cannot serve its role.
func InvalidType(reason string) *AppError {
	return &AppError{Code: ErrCodeInvalidType, Message: reason}
}

// --- Resolution error constructors ---

// AmbiguousResolution creates an error naming every candidate implementation
// that matched a single request.
func AmbiguousResolution(serviceType string, implementations []string) *AppError {
	return &AppError{
		Code: ErrCodeAmbiguousResolution,
		Message: fmt.Sprintf("multiple registrations apply to %s: %s",
			serviceType, strings.Join(implementations, ", ")),
		Details: map[string]any{
			"service_type":    serviceType,
			"implementations": implementations,
		},
	}
}

// CyclicDependency creates an error carrying the full cycle path.
func CyclicDependency(path []string) *AppError {
	return &AppError{
		Code:    ErrCodeCyclicDependency,
		Message: fmt.Sprintf("cyclic dependency detected: %s", strings.Join(path, " -> ")),
		Details: map[string]any{"cycle": path},
	}
}

// NotFound creates a "no producer" result for the requested type.
func NotFound(serviceType string) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("no registration found for %s", serviceType),
		Details: map[string]any{"service_type": serviceType},
	}
}

// FactoryFailed creates an error for an implementation factory failure.
func FactoryFailed(serviceType string, cause error) *AppError {
	return &AppError{
		Code:    ErrCodeFactoryFailed,
		Message: fmt.Sprintf("the implementation factory for %s failed", serviceType),
		Details: map[string]any{"service_type": serviceType},
		Cause:   cause,
	}
}
