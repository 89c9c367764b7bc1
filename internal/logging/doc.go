// Package logging sets up structured slog output for shelfsearch.
//
// Logs are JSON lines written to ~/.shelfsearch/logs/shelfsearch.log with
// size-based rotation. The CLI mirrors them to stderr; the MCP server never
// does, since stdio carries the JSON-RPC stream.
package logging
