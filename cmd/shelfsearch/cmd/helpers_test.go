package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const booksYAML = `
- id: hobbit
  name: The Hobbit
  author: J.R.R. Tolkien
- id: hp1
  name: Harry Potter and the Philosopher's Stone
  author: J.K. Rowling
- id: boimela
  name: বই মেলা
  notes: annual fair
`

const ordersYAML = `
- kind: order
  name: Order for Dhaka shop
  notes: deliver friday
`

// isolate points config and data directories at a temp dir and returns a
// catalog path inside it.
func isolate(t *testing.T) (dir, db string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("SHELFSEARCH_HOME", filepath.Join(dir, "data"))
	t.Setenv("NO_COLOR", "1")
	return dir, filepath.Join(dir, "catalog.db")
}

func writeSeed(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "shelfsearch %v", args)
	return out
}
