// internal/common/errors/handler.go
package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// ErrorHandler writes standardized error responses for HTTP handlers.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// WriteError normalizes err to a StandardError, logs it and writes the JSON body.
func (h *ErrorHandler) WriteError(w http.ResponseWriter, err error) {
	stdErr := h.normalizeError(err)

	if stdErr.Retryable {
		h.logger.Warn("request failed", map[string]interface{}{
			"errorCode": stdErr.Code,
			"details":   stdErr.Details,
		})
	} else {
		h.logger.Error("request failed", map[string]interface{}{
			"errorCode": stdErr.Code,
			"details":   stdErr.Details,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(stdErr.Code))
	_ = json.NewEncoder(w).Encode(stdErr)
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// StatusFor maps error codes to HTTP status codes.
func StatusFor(code ErrorCode) int {
	switch code {
	case ErrCodeStepValidationFailed, ErrCodeSignatureMismatch, ErrCodeInvalidPayload,
		ErrCodeInvalidStepIndex, ErrCodeInvalidTakerSelection:
		return http.StatusUnprocessableEntity
	case ErrCodeSaveInProgress, ErrCodeAlreadySubmitted:
		return http.StatusConflict
	case ErrCodeRecordNotFound, ErrCodePriceTableNotFound:
		return http.StatusNotFound
	case ErrCodeDraftSaveFailed, ErrCodeDraftLoadFailed, ErrCodeDatabaseConnectionFailed,
		ErrCodeSubmissionFailed, ErrCodeQuotationSaveFailed, ErrCodeDocumentUploadFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
