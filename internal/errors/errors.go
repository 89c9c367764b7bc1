package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ShelfError is the structured error type for shelfsearch.
// It carries enough context for logging, CLI output and MCP responses.
type ShelfError struct {
	// Code is the unique error code (e.g., "ERR_201_CATALOG_FETCH").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Catalog, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Retryable indicates if the operation can be retried.
	Retryable bool

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ShelfError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ShelfError) Unwrap() error {
	return e.Cause
}

// Is matches another ShelfError by code, so errors.Is works across messages.
func (e *ShelfError) Is(target error) bool {
	if t, ok := target.(*ShelfError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *ShelfError) WithDetail(key, value string) *ShelfError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *ShelfError) WithSuggestion(suggestion string) *ShelfError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ShelfError with the given code and message.
// Category, severity, and retryable flag are derived from the code.
func New(code string, message string, cause error) *ShelfError {
	return &ShelfError{
		Code:      code,
		Message:   message,
		Category:  categoryFromCode(code),
		Severity:  severityFromCode(code),
		Cause:     cause,
		Retryable: isRetryableCode(code),
	}
}

// Wrap creates a ShelfError from an existing error.
// The error's message becomes the ShelfError message.
func Wrap(code string, err error) *ShelfError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ShelfError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// CatalogError classifies a storage failure. SQLite lock contention maps to
// the retryable ERR_202_CATALOG_BUSY; everything else is a fetch failure.
func CatalogError(message string, cause error) *ShelfError {
	if isBusy(cause) {
		return New(ErrCodeCatalogBusy, message, cause).
			WithSuggestion("Another shelfsearch process is writing the catalog; try again shortly")
	}
	return New(ErrCodeCatalogFetch, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *ShelfError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ShelfError {
	return New(ErrCodeInternal, message, cause)
}

func isBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "sqlite_busy")
}

// as finds the first ShelfError in err's chain.
func as(err error) (*ShelfError, bool) {
	var se *ShelfError
	if err == nil || !stderrors.As(err, &se) {
		return nil, false
	}
	return se, true
}

// IsRetryable reports whether err (or anything it wraps) is a retryable ShelfError.
func IsRetryable(err error) bool {
	se, ok := as(err)
	return ok && se.Retryable
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	se, ok := as(err)
	return ok && se.Severity == SeverityFatal
}

// GetCode extracts the error code from a ShelfError.
// Returns empty string if not a ShelfError.
func GetCode(err error) string {
	if se, ok := as(err); ok {
		return se.Code
	}
	return ""
}

// GetCategory extracts the category from a ShelfError.
func GetCategory(err error) Category {
	if se, ok := as(err); ok {
		return se.Category
	}
	return ""
}
