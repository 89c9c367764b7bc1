package errors

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatForUser_BasicError(t *testing.T) {
	err := New(ErrCodeSeedFile, "seed file 'books.yaml' is not valid YAML", nil)

	result := FormatForUser(err, false)

	assert.Contains(t, result, "seed file 'books.yaml' is not valid YAML")
	assert.Contains(t, result, "[ERR_206_SEED_FILE]")
}

func TestFormatForUser_WithSuggestion(t *testing.T) {
	err := New(ErrCodeCatalogLocked, "catalog is being imported", nil).
		WithSuggestion("Wait for the running import to finish")

	result := FormatForUser(err, false)

	assert.Contains(t, result, "Suggestion:")
	assert.Contains(t, result, "running import")
}

func TestFormatForUser_DebugShowsCause(t *testing.T) {
	err := New(ErrCodeCatalogFetch, "fetch candidates", errors.New("no such table: items"))

	assert.NotContains(t, FormatForUser(err, false), "no such table")
	assert.Contains(t, FormatForUser(err, true), "Cause: no such table: items")
}

func TestFormatForUser_StandardError(t *testing.T) {
	assert.Equal(t, "something went wrong", FormatForUser(errors.New("something went wrong"), false))
	assert.Empty(t, FormatForUser(nil, false))
}

func TestFormatForCLI(t *testing.T) {
	t.Run("shelf error with hint", func(t *testing.T) {
		err := ConfigError("search.fuzzy_threshold must be in [0,10]", nil).
			WithSuggestion("Edit ~/.config/shelfsearch/config.yaml")

		out := FormatForCLI(err)

		assert.Contains(t, out, "Error: search.fuzzy_threshold must be in [0,10]")
		assert.Contains(t, out, "Hint: Edit")
		assert.Contains(t, out, "Code: ERR_102_CONFIG_INVALID")
	})

	t.Run("standard error is wrapped as internal", func(t *testing.T) {
		out := FormatForCLI(errors.New("boom"))
		assert.Contains(t, out, "Code: ERR_501_INTERNAL")
	})
}

func TestFormatJSON_IncludesAllFields(t *testing.T) {
	err := CatalogError("lookup", errors.New("database is locked")).
		WithDetail("query", "hobbit")

	data, jerr := FormatJSON(err)
	require.NoError(t, jerr)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(data, &parsed))

	assert.Equal(t, ErrCodeCatalogBusy, parsed["code"])
	assert.Equal(t, "CATALOG", parsed["category"])
	assert.Equal(t, "WARNING", parsed["severity"])
	assert.Equal(t, true, parsed["retryable"])
	assert.Equal(t, "database is locked", parsed["cause"])
	assert.Equal(t, "hobbit", parsed["details"].(map[string]any)["query"])
}

func TestFormatForLog_ProducesKeyValuePairs(t *testing.T) {
	err := New(ErrCodeCatalogFetch, "scan", errors.New("io")).WithDetail("backend", "sqlite")

	attrs := FormatForLog(err)

	require.Equal(t, 0, len(attrs)%2, "attrs must be key/value pairs")
	kv := map[string]any{}
	for i := 0; i < len(attrs); i += 2 {
		kv[attrs[i].(string)] = attrs[i+1]
	}
	assert.Equal(t, ErrCodeCatalogFetch, kv["error_code"])
	assert.Equal(t, "io", kv["cause"])
	assert.Equal(t, "sqlite", kv["detail_backend"])

	assert.Equal(t, []any{"error", "plain"}, FormatForLog(errors.New("plain")))
	assert.Nil(t, FormatForLog(nil))
}
