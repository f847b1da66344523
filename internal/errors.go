package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeForbidden       ErrorType = "FORBIDDEN"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDate       ErrorCode = "INVALID_DATE"
	ErrCodeInvalidName       ErrorCode = "INVALID_NAME"
	ErrCodeInvalidNumber     ErrorCode = "INVALID_INVOICE_NUMBER"
	ErrCodePasswordTooShort  ErrorCode = "PASSWORD_TOO_SHORT"

	ErrCodeInvoiceNotFound    ErrorCode = "INVOICE_NOT_FOUND"
	ErrCodeCostTypeNotFound   ErrorCode = "COST_TYPE_NOT_FOUND"
	ErrCodeCostCenterNotFound ErrorCode = "COST_CENTER_NOT_FOUND"
	ErrCodeSupplierNotFound   ErrorCode = "SUPPLIER_NOT_FOUND"
	ErrCodeUserNotFound       ErrorCode = "USER_NOT_FOUND"

	ErrCodeDuplicateUser    ErrorCode = "DUPLICATE_USER"
	ErrCodeDuplicateEmail   ErrorCode = "DUPLICATE_EMAIL"
	ErrCodeMasterDataInUse  ErrorCode = "MASTER_DATA_IN_USE"
	ErrCodeUserOwnsInvoices ErrorCode = "USER_OWNS_INVOICES"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"
	ErrCodeAdminRequired      ErrorCode = "ADMIN_REQUIRED"
	ErrCodeNotOwner           ErrorCode = "NOT_OWNER"
	ErrCodeWrongPassword      ErrorCode = "WRONG_PASSWORD"
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
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
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

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
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
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvoiceNotFound    = NewNotFoundError("invoice not found", ErrCodeInvoiceNotFound)
	ErrCostTypeNotFound   = NewNotFoundError("cost type not found", ErrCodeCostTypeNotFound)
	ErrCostCenterNotFound = NewNotFoundError("cost center not found", ErrCodeCostCenterNotFound)
	ErrSupplierNotFound   = NewNotFoundError("supplier not found", ErrCodeSupplierNotFound)
	ErrUserNotFound       = NewNotFoundError("user not found", ErrCodeUserNotFound)

	ErrDuplicateUser    = NewConflictError("username or email already registered", ErrCodeDuplicateUser)
	ErrDuplicateEmail   = NewConflictError("email already registered", ErrCodeDuplicateEmail)
	ErrMasterDataInUse  = NewConflictError("record is referenced by existing invoices", ErrCodeMasterDataInUse)
	ErrUserOwnsInvoices = NewConflictError("user still owns invoices", ErrCodeUserOwnsInvoices)

	ErrInvalidCredentials = NewUnauthenticatedError("invalid credentials", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthenticatedError("user account is inactive", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthenticatedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthenticatedError("token has expired", ErrCodeTokenExpired)

	ErrAdminRequired = NewForbiddenError("admin privileges required", ErrCodeAdminRequired)
	ErrNotOwner      = NewForbiddenError("not the owner of this resource", ErrCodeNotOwner)
	ErrWrongPassword = NewForbiddenError("incorrect password", ErrCodeWrongPassword)
)

// AsAppError extracts an *AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
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
