// Package mcp exposes the shelf catalog search to AI clients over the Model
// Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
)

// MCP error codes used by shelfsearch.
const (
	// ErrCodeCatalogUnavailable indicates the catalog could not be read.
	ErrCodeCatalogUnavailable = -32001

	// ErrCodeCatalogBusy indicates the catalog is locked by another writer.
	ErrCodeCatalogBusy = -32002

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32003

	// Standard JSON-RPC error codes.
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

var (
	// ErrToolNotFound indicates the requested tool does not exist.
	ErrToolNotFound = errors.New("tool not found")

	// ErrInvalidParams indicates invalid parameters were provided.
	ErrInvalidParams = errors.New("invalid parameters")
)

// MCPError is a protocol error with a JSON-RPC code.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	// Cancellation wins over whatever the catalog wrapped it in.
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	}

	var shelfErr *shelferrors.ShelfError
	if errors.As(err, &shelfErr) {
		return mapShelfError(shelfErr)
	}

	switch {
	case errors.Is(err, ErrToolNotFound):
		return &MCPError{Code: ErrCodeMethodNotFound, Message: "Tool not found."}
	case errors.Is(err, ErrInvalidParams):
		return &MCPError{Code: ErrCodeInvalidParams, Message: "Invalid parameters."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{
		Code:    ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Tool '%s' not found.", name),
	}
}

func mapShelfError(se *shelferrors.ShelfError) *MCPError {
	message := se.Message
	if se.Suggestion != "" {
		message = fmt.Sprintf("%s %s", se.Message, se.Suggestion)
	}

	switch se.Category {
	case shelferrors.CategoryCatalog:
		if se.Code == shelferrors.ErrCodeCatalogBusy || se.Code == shelferrors.ErrCodeCatalogLocked {
			return &MCPError{Code: ErrCodeCatalogBusy, Message: message}
		}
		return &MCPError{Code: ErrCodeCatalogUnavailable, Message: message}
	case shelferrors.CategoryValidation:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	default: // config, internal and unknown
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
