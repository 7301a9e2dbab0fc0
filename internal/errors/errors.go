package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a Nerfdrone error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION" // 400
	ErrNotFound   ErrorCode = "NOT_FOUND"  // 404
	ErrInternal   ErrorCode = "INTERNAL"   // 500
)

// DroneError represents a structured error with code, status, and details.
type DroneError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *DroneError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidation creates a 400 error for malformed or unsupported input.
func NewValidation(msg string) *DroneError {
	return &DroneError{
		Code:    ErrValidation,
		Status:  400,
		Message: msg,
	}
}

// NewValidationf creates a 400 error with a formatted message.
func NewValidationf(format string, args ...any) *DroneError {
	return NewValidation(fmt.Sprintf(format, args...))
}

// NewCaptureNotFound creates a 404 error for an unknown survey capture.
func NewCaptureNotFound(captureID string) *DroneError {
	return &DroneError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("Capture %s is not registered", captureID),
		Details: map[string]any{"capture_id": captureID},
	}
}

// NewAssetNotFound creates a 404 error for an asset missing from a capture.
func NewAssetNotFound(assetID, captureID string) *DroneError {
	return &DroneError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("Asset %s not present in capture %s", assetID, captureID),
		Details: map[string]any{"asset_id": assetID, "capture_id": captureID},
	}
}

// NewTransactionNotFound creates a 404 error for an unknown ledger transaction.
func NewTransactionNotFound(transactionID string) *DroneError {
	return &DroneError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("Transaction %s not found", transactionID),
		Details: map[string]any{"transaction_id": transactionID},
	}
}

// NewProviderNotFound creates a 404 error for an unregistered drone provider.
func NewProviderNotFound(identifier string) *DroneError {
	return &DroneError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("Unknown drone provider '%s'", identifier),
		Details: map[string]any{"provider": identifier},
	}
}

// NewInternal creates a 500 error for unexpected internal errors. The
// original error is kept in Details for logging; the message stays generic
// so internals never reach a client.
func NewInternal(err error) *DroneError {
	details := map[string]any{}
	if err != nil {
		details["internal_error"] = err.Error()
	}
	return &DroneError{
		Code:    ErrInternal,
		Status:  500,
		Message: "an internal error occurred",
		Details: details,
	}
}

// Is checks if an error (or any error it wraps) is a DroneError with the
// given code.
func Is(err error, code ErrorCode) bool {
	var dErr *DroneError
	if stderrors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
