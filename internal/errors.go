package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeRateLimited  ErrorType = "RATE_LIMITED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidIdentifier ErrorCode = "INVALID_IDENTIFIER"
	ErrCodeUnknownPermission ErrorCode = "UNKNOWN_PERMISSION"
	ErrCodeUnknownRole       ErrorCode = "UNKNOWN_ROLE"

	// identity stage
	ErrCodeAuthenticationRequired ErrorCode = "AUTHENTICATION_REQUIRED"
	ErrCodeInvalidCredential      ErrorCode = "INVALID_CREDENTIAL"
	ErrCodeAccountInactive        ErrorCode = "ACCOUNT_INACTIVE"
	ErrCodeTenantRequired         ErrorCode = "TENANT_REQUIRED"
	ErrCodeInvalidLogin           ErrorCode = "INVALID_EMAIL_OR_PASSWORD"

	// authorization stages
	ErrCodeInsufficientPermissions ErrorCode = "INSUFFICIENT_PERMISSIONS"
	ErrCodeResourceAccessDenied    ErrorCode = "RESOURCE_ACCESS_DENIED"
	ErrCodeResourceNotFound        ErrorCode = "RESOURCE_NOT_FOUND"

	ErrCodeConflict              ErrorCode = "CONFLICT"
	ErrCodeRateLimited           ErrorCode = "RATE_LIMITED"
	ErrCodeInfrastructureFailure ErrorCode = "INFRASTRUCTURE_FAILURE"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
		messages := make([]string, len(validationErrors.Errors))
		for i, err := range validationErrors.Errors {
			messages[i] = err.Message
		}
		return strings.Join(messages, "; ")
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on the machine-stable code so a copy carrying a cause or
// details still compares equal to the package sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithCause returns a copy; sentinels are shared and must not be mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// NewInfrastructureError reports a failing store or dependency. It is never
// a substitute for a denial.
func NewInfrastructureError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodeInfrastructureFailure,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrAuthenticationRequired = NewUnauthorizedError("Authentication required", ErrCodeAuthenticationRequired)
	ErrInvalidCredential      = NewUnauthorizedError("Invalid credential", ErrCodeInvalidCredential)
	ErrTokenExpired           = NewUnauthorizedError("Credential has expired", ErrCodeInvalidCredential).
					WithDetails(map[string]string{"reason": "expired"})
	ErrAccountInactive = NewForbiddenError("Account is inactive", ErrCodeAccountInactive)
	ErrTenantRequired  = NewForbiddenError("User is not assigned to a tenant", ErrCodeTenantRequired)
	ErrInvalidLogin    = NewUnauthorizedError("Invalid email or password", ErrCodeInvalidLogin)

	ErrInsufficientPermissions = NewForbiddenError("Insufficient permissions", ErrCodeInsufficientPermissions)
	ErrResourceAccessDenied    = NewForbiddenError("Access to this resource is denied", ErrCodeResourceAccessDenied)
	ErrResourceNotFound        = NewNotFoundError("Resource not found", ErrCodeResourceNotFound)

	ErrUnknownPermission = NewValidationError("Unknown permission", ErrCodeUnknownPermission)
	ErrUnknownRole       = NewValidationError("Unknown role", ErrCodeUnknownRole)
	ErrInvalidIdentifier = NewValidationError("Invalid identifier", ErrCodeInvalidIdentifier)

	ErrRateLimited = &AppError{
		Type:       ErrorTypeRateLimited,
		Code:       ErrCodeRateLimited,
		Message:    "Too many requests",
		StatusCode: http.StatusTooManyRequests,
	}
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
