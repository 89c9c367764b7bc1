// Package errors provides structured error handling for shelfsearch.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Catalog errors (SQLite, lookup index, seed files)
//   - 4XX: Validation errors
//   - 5XX: Internal errors
package errors

import "strings"

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryCatalog indicates failures reading or writing the catalog.
	CategoryCatalog Category = "CATALOG"
	// CategoryValidation indicates input validation errors.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Severity defines error severity levels.
type Severity string

const (
	// SeverityFatal indicates unrecoverable error, must abort.
	SeverityFatal Severity = "FATAL"
	// SeverityError indicates operation failed but can continue.
	SeverityError Severity = "ERROR"
	// SeverityWarning indicates degraded operation, continuing.
	SeverityWarning Severity = "WARNING"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Catalog errors (200-299)
	ErrCodeCatalogFetch   = "ERR_201_CATALOG_FETCH"
	ErrCodeCatalogBusy    = "ERR_202_CATALOG_BUSY"
	ErrCodeCatalogWrite   = "ERR_203_CATALOG_WRITE"
	ErrCodeCatalogCorrupt = "ERR_204_CATALOG_CORRUPT"
	ErrCodeCatalogLocked  = "ERR_205_CATALOG_LOCKED"
	ErrCodeSeedFile       = "ERR_206_SEED_FILE"

	// Validation errors (400-499)
	ErrCodeInvalidInput  = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidRecord = "ERR_402_INVALID_RECORD"
	ErrCodeQueryTooLong  = "ERR_403_QUERY_TOO_LONG"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeSearchFailed = "ERR_502_SEARCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 || !strings.HasPrefix(code, "ERR_") {
		return CategoryInternal
	}

	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryCatalog
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// severityFromCode determines severity based on error code.
func severityFromCode(code string) Severity {
	if code == ErrCodeCatalogCorrupt {
		return SeverityFatal
	}
	if isRetryableCode(code) {
		return SeverityWarning
	}
	return SeverityError
}

// isRetryableCode checks if an error code represents a retryable error.
func isRetryableCode(code string) bool {
	switch code {
	case ErrCodeCatalogBusy, ErrCodeCatalogLocked:
		return true
	default:
		return false
	}
}
