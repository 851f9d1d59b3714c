package model

import "errors"

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON      = "INVALID_JSON"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeInvalidStatus    = "INVALID_STATUS"
	ErrCodeInvalidRange     = "INVALID_RANGE"
	ErrCodeInvalidItem      = "INVALID_ITEM"
	ErrCodeIndexOutOfRange  = "INDEX_OUT_OF_RANGE"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeNetwork          = "NETWORK_ERROR"
	ErrCodeTimeout          = "TIMEOUT"
	ErrCodeNoData           = "NO_DATA"
	ErrCodeSubmitInProgress = "SUBMISSION_IN_PROGRESS"
	ErrCodeUnauthorised     = "UNAUTHORIZED"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeInternalError    = "INTERNAL_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so errors built with
// NewDomainError compare equal to the sentinels below.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a validation error with a field-specific message.
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeValidation, message)
}

// Common domain errors
var (
	ErrValidation       = NewDomainError(ErrCodeValidation, "Invalid input")
	ErrInvalidStatus    = NewDomainError(ErrCodeInvalidStatus, "Status is not a recognised value")
	ErrInvalidRange     = NewDomainError(ErrCodeInvalidRange, "End date must not be before start date")
	ErrInvalidItem      = NewDomainError(ErrCodeInvalidItem, "Quantity must be at least one and price must not be negative")
	ErrIndexOutOfRange  = NewDomainError(ErrCodeIndexOutOfRange, "Item index out of range")
	ErrOrderNotFound    = NewDomainError(ErrCodeNotFound, "Order not found")
	ErrNetwork          = NewDomainError(ErrCodeNetwork, "Unable to connect to server")
	ErrTimeout          = NewDomainError(ErrCodeTimeout, "Request timed out")
	ErrNoData           = NewDomainError(ErrCodeNoData, "No orders in the selected period")
	ErrSubmitInProgress = NewDomainError(ErrCodeSubmitInProgress, "Order submission already in progress")
)

// CodeOf returns the domain code carried by err, or ErrCodeInternalError.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternalError
}
