package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/shelfsearch/pkg/version"
)

func TestVersionCmd(t *testing.T) {
	isolate(t)

	out := mustRun(t, "version")
	assert.Equal(t, version.String(), strings.TrimSpace(out))

	out = mustRun(t, "version", "--short")
	assert.Equal(t, version.Version, strings.TrimSpace(out))

	out = mustRun(t, "version", "--json")
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, version.Version, info.Version)
}

func TestServeCmd_RejectsUnknownTransport(t *testing.T) {
	_, db := isolate(t)
	t.Setenv("SHELFSEARCH_TRANSPORT", "sse")

	_, err := run(t, "serve", "--db", db)
	require.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	isolate(t)
	_, err := run(t, "frobnicate")
	require.Error(t, err)
}

func TestProfilingFlags(t *testing.T) {
	dir, db := isolate(t)
	cpu := filepath.Join(dir, "cpu.pprof")
	mem := filepath.Join(dir, "mem.pprof")

	mustRun(t, "search", "--db", db, "--profile-cpu", cpu, "--profile-mem", mem, "hobbit")

	assert.FileExists(t, cpu)
	assert.FileExists(t, mem)
	_, err := os.Stat(cpu)
	require.NoError(t, err)
}
