// Package errors provides the error taxonomy shared by board sources, workers
// and the chat API, plus its mapping onto Zeebe job failures and BPMN errors.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeBoardFetchFailed  ErrorCode = "BOARD_FETCH_FAILED"
	ErrCodeBoardFetchTimeout ErrorCode = "BOARD_FETCH_TIMEOUT"
	ErrCodeBoardCacheFailed  ErrorCode = "BOARD_CACHE_FAILED"

	ErrCodeSourceNotConfigured ErrorCode = "SOURCE_NOT_CONFIGURED"

	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"

	ErrCodeResponseCompositionFailed ErrorCode = "RESPONSE_COMPOSITION_FAILED"
	ErrCodeReportNoData              ErrorCode = "REPORT_NO_DATA"
	ErrCodeSessionNotFound           ErrorCode = "SESSION_NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns the error with an extra metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewBoardFetchFailedError is returned when a board source cannot be reached
// or answers with a transport level failure.
func NewBoardFetchFailedError(boardID string, err error) *StandardError {
	return newError(ErrCodeBoardFetchFailed, "Board fetch failed", err, true).
		WithMetadata("boardId", boardID)
}

func NewBoardFetchTimeoutError(boardID string, timeout time.Duration) *StandardError {
	return newError(ErrCodeBoardFetchTimeout, "Board fetch timed out",
		fmt.Errorf("no response within %s", timeout), true).
		WithMetadata("boardId", boardID)
}

func NewBoardCacheFailedError(err error) *StandardError {
	return newError(ErrCodeBoardCacheFailed, "Board cache unavailable", err, true)
}

func NewSourceNotConfiguredError(source string) *StandardError {
	return newError(ErrCodeSourceNotConfigured, "Board source not configured",
		fmt.Errorf("source %q", source), false)
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

func NewResponseCompositionFailedError(err error) *StandardError {
	return newError(ErrCodeResponseCompositionFailed, "Could not compose a response", err, false)
}

func NewReportNoDataError() *StandardError {
	return &StandardError{
		Code:      ErrCodeReportNoData,
		Message:   "No data available to generate report",
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found",
		Details:   sessionID,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Failed to send notification", err, true).
		WithMetadata("channel", channel)
}

func NewInternalError(err error) *StandardError {
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// ==========================
// 4. BPMN Mapping
// ==========================

var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeBoardFetchFailed:          "BOARD_FETCH_FAILED",
	ErrCodeBoardFetchTimeout:         "BOARD_FETCH_TIMEOUT",
	ErrCodeBoardCacheFailed:          "BOARD_CACHE_FAILED",
	ErrCodeSourceNotConfigured:       "SOURCE_NOT_CONFIGURED",
	ErrCodeInvalidInput:              "INVALID_INPUT",
	ErrCodeResponseCompositionFailed: "RESPONSE_COMPOSITION_FAILED",
	ErrCodeReportNoData:              "REPORT_NO_DATA",
	ErrCodeNotificationSendFailed:    "NOTIFICATION_SEND_FAILED",
}

// GetRetryCount returns the recommended retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeBoardFetchFailed,
		ErrCodeBoardCacheFailed,
		ErrCodeNotificationSendFailed:
		return 3
	case ErrCodeBoardFetchTimeout:
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// AsStandardError unwraps err looking for a *StandardError.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "BOARD") || strings.HasPrefix(codeStr, "SOURCE"):
		return "DATA_SOURCE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "RESPONSE") || strings.Contains(codeStr, "REPORT"):
		return "INSIGHTS"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
