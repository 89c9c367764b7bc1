package errors

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatForUser returns a user-friendly error message.
// With debug set, the underlying cause is appended.
func FormatForUser(err error, debug bool) string {
	if err == nil {
		return ""
	}

	se, ok := as(err)
	if !ok {
		return err.Error()
	}

	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(se.Message)
	sb.WriteString("\n")

	if se.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(se.Suggestion)
		sb.WriteString("\n")
	}

	if debug && se.Cause != nil {
		fmt.Fprintf(&sb, "\nCause: %v\n", se.Cause)
	}

	fmt.Fprintf(&sb, "\n[%s]", se.Code)
	return sb.String()
}

// FormatForCLI formats an error for terminal display.
func FormatForCLI(err error) string {
	if err == nil {
		return ""
	}

	se, ok := as(err)
	if !ok {
		se = Wrap(ErrCodeInternal, err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Error: %s\n", se.Message)
	if se.Suggestion != "" {
		fmt.Fprintf(&sb, "  Hint: %s\n", se.Suggestion)
	}
	fmt.Fprintf(&sb, "  Code: %s\n", se.Code)
	return sb.String()
}

// jsonError is the JSON representation of an error.
type jsonError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Category   string            `json:"category"`
	Severity   string            `json:"severity"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	Cause      string            `json:"cause,omitempty"`
	Retryable  bool              `json:"retryable"`
}

// FormatJSON returns a JSON representation of the error.
func FormatJSON(err error) ([]byte, error) {
	if err == nil {
		return json.Marshal(nil)
	}

	se, ok := as(err)
	if !ok {
		se = Wrap(ErrCodeInternal, err)
	}

	je := jsonError{
		Code:       se.Code,
		Message:    se.Message,
		Category:   string(se.Category),
		Severity:   string(se.Severity),
		Details:    se.Details,
		Suggestion: se.Suggestion,
		Retryable:  se.Retryable,
	}
	if se.Cause != nil {
		je.Cause = se.Cause.Error()
	}
	return json.Marshal(je)
}

// FormatForLog flattens an error into slog-friendly attributes.
func FormatForLog(err error) []any {
	if err == nil {
		return nil
	}

	se, ok := as(err)
	if !ok {
		return []any{"error", err.Error()}
	}

	attrs := []any{
		"error_code", se.Code,
		"error", se.Message,
		"category", string(se.Category),
		"retryable", se.Retryable,
	}
	if se.Cause != nil {
		attrs = append(attrs, "cause", se.Cause.Error())
	}
	for k, v := range se.Details {
		attrs = append(attrs, "detail_"+k, v)
	}
	return attrs
}
