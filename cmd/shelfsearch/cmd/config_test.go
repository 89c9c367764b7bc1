package cmd

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/shelfsearch/configs"
	"github.com/Aman-CERP/shelfsearch/internal/config"
)

func TestConfigPathCmd(t *testing.T) {
	isolate(t)

	out := mustRun(t, "config", "path")
	assert.Equal(t, config.GetUserConfigPath(), strings.TrimSpace(out))
}

func TestConfigShowCmd(t *testing.T) {
	isolate(t)
	t.Setenv("SHELFSEARCH_MAX_RESULTS", "25")

	out := mustRun(t, "config", "show")

	assert.Contains(t, out, "escalation_min_results: 3")
	assert.Contains(t, out, "max_results: 25")
}

func TestConfigShowCmd_DBFlag(t *testing.T) {
	_, db := isolate(t)

	out := mustRun(t, "config", "show", "--json", "--db", db)
	assert.Contains(t, out, `"path": "`+db+`"`)
}

func TestConfigInitCmd(t *testing.T) {
	isolate(t)
	path := config.GetUserConfigPath()

	out := mustRun(t, "config", "init")
	assert.Contains(t, out, "Wrote "+path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, configs.ConfigTemplate, string(data))

	require.NoError(t, os.WriteFile(path, []byte("version: 1\n"), 0o644))

	out = mustRun(t, "config", "init")
	assert.Contains(t, out, "Config already exists")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "version: 1\n", string(data), "existing config must be kept")

	out = mustRun(t, "config", "init", "--force")
	assert.Contains(t, out, "Backed up existing config")
	backups, err := config.ListBackups(path)
	require.NoError(t, err)
	assert.Len(t, backups, 1)
}

func TestInvalidConfigFails(t *testing.T) {
	_, db := isolate(t)
	t.Setenv("SHELFSEARCH_MAX_RESULTS", "many")

	_, err := run(t, "search", "--db", db, "hobbit")
	require.Error(t, err)
}
