// Package errors provides standardized error handling for the wizard service.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Validation errors: local, synchronous, never sent to the network.
	ErrCodeStepValidationFailed  ErrorCode = "STEP_VALIDATION_FAILED"
	ErrCodeSignatureMismatch     ErrorCode = "SIGNATURE_MISMATCH"
	ErrCodeInvalidPayload        ErrorCode = "INVALID_PAYLOAD"
	ErrCodeInvalidStepIndex      ErrorCode = "INVALID_STEP_INDEX"
	ErrCodeSaveInProgress        ErrorCode = "SAVE_IN_PROGRESS"
	ErrCodeAlreadySubmitted      ErrorCode = "ALREADY_SUBMITTED"
	ErrCodeInvalidTakerSelection ErrorCode = "INVALID_TAKER_SELECTION"

	// Persistence errors: transient, user may retry by re-triggering the save.
	ErrCodeDraftSaveFailed          ErrorCode = "DRAFT_SAVE_FAILED"
	ErrCodeDraftLoadFailed          ErrorCode = "DRAFT_LOAD_FAILED"
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"

	// Submission errors.
	ErrCodeSubmissionFailed     ErrorCode = "SUBMISSION_FAILED"
	ErrCodePaymentCreateFailed  ErrorCode = "PAYMENT_CREATE_FAILED"
	ErrCodePriceTableNotFound   ErrorCode = "PRICE_TABLE_NOT_FOUND"
	ErrCodeQuotationSaveFailed  ErrorCode = "QUOTATION_SAVE_FAILED"
	ErrCodeRecordNotFound       ErrorCode = "RECORD_NOT_FOUND"
	ErrCodeNotificationFailed   ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeDocumentUploadFailed ErrorCode = "DOCUMENT_UPLOAD_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewStepValidationFailedError creates a non-retryable validation error carrying
// the per-field error map in Metadata.
func NewStepValidationFailedError(step int, fieldErrors map[string]string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStepValidationFailed,
		Message:   "One or more fields are invalid for this step",
		Details:   fmt.Sprintf("step: %d, errors: %d", step, len(fieldErrors)),
		Retryable: false,
		Metadata:  map[string]interface{}{"step": step, "fieldErrors": fieldErrors},
		Timestamp: time.Now().UTC(),
	}
}

// NewSignatureMismatchError creates a non-retryable signature error.
func NewSignatureMismatchError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSignatureMismatch,
		Message:   "Signature must match your full name",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPayloadError creates a non-retryable request payload error.
func NewInvalidPayloadError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPayload,
		Message:   "Request payload failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSaveInProgressError signals a rejected overlapping save for one session.
func NewSaveInProgressError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSaveInProgress,
		Message:   "A save is already in progress for this wizard",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAlreadySubmittedError rejects a repeated terminal submission for a
// session that already finalized.
func NewAlreadySubmittedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeAlreadySubmitted,
		Message:   "This wizard has already been submitted",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftSaveFailedError creates a retryable persistence error. Local form
// state is kept intact; the next successful save carries it.
func NewDraftSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftSaveFailed,
		Message:   "Failed to save your progress, your entries are kept locally",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDraftLoadFailedError creates a retryable load error. Callers degrade to a
// blank form rather than blocking initial render.
func NewDraftLoadFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDraftLoadFailed,
		Message:   "Failed to load saved progress",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionFailedError creates a blocking submission error; the user stays
// on the review step.
func NewSubmissionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   "Failed to submit your application",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewPaymentCreateFailedError creates a non-fatal payment error; submission is
// still treated as successful and the user lands on the tracking view.
func NewPaymentCreateFailedError(applicationID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePaymentCreateFailed,
		Message:   "Payment could not be created, it can be completed later",
		Details:   err.Error(),
		Retryable: true,
		Metadata:  map[string]interface{}{"applicationId": applicationID},
		Timestamp: time.Now().UTC(),
	}
}

// NewPriceTableNotFoundError signals a missing service price configuration.
func NewPriceTableNotFoundError(service, state string) *StandardError {
	return &StandardError{
		Code:      ErrCodePriceTableNotFound,
		Message:   "No price configuration found for this service",
		Details:   fmt.Sprintf("service: %s, state: %s", service, state),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQuotationSaveFailedError creates a retryable quotation persistence error.
func NewQuotationSaveFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQuotationSaveFailed,
		Message:   "Failed to save quotation",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRecordNotFoundError creates a non-retryable lookup error.
func NewRecordNotFoundError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRecordNotFound,
		Message:   "Record not found",
		Details:   fmt.Sprintf("%s: %s", kind, id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationFailedError creates a non-fatal notification error. Its
// failure must never affect the save or submission that triggered it.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification could not be sent",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentUploadFailedError creates a retryable upload error.
func NewDocumentUploadFailedError(documentType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDocumentUploadFailed,
		Message:   "Document upload failed",
		Details:   fmt.Sprintf("documentType: %s, error: %s", documentType, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
