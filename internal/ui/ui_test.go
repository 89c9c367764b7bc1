package ui

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTTY_NonTerminalWriters(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))

	f, err := os.CreateTemp(t.TempDir(), "out")
	if assert.NoError(t, err) {
		defer func() { _ = f.Close() }()
		assert.False(t, IsTTY(f))
	}
}

func TestNewOptions_PlainForBuffers(t *testing.T) {
	opts := NewOptions(&bytes.Buffer{})
	assert.True(t, opts.NoColor)
	assert.False(t, opts.JSON)

	opts = NewOptions(&bytes.Buffer{}, WithJSON(true))
	assert.True(t, opts.JSON)
}

func TestNewOptions_ExplicitOverride(t *testing.T) {
	opts := NewOptions(&bytes.Buffer{}, WithNoColor(false))
	assert.False(t, opts.NoColor)
}

func TestDetectNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, DetectNoColor())
}

func TestDetectCI(t *testing.T) {
	t.Setenv("GITHUB_ACTIONS", "true")
	assert.True(t, DetectCI())
}

func TestStyles_PlainRendersTextUnchanged(t *testing.T) {
	s := GetStyles(true)
	assert.Equal(t, "Hobbit", s.Title.Render("Hobbit"))
	assert.Equal(t, "warn", s.Warning.Render("warn"))

	colored := GetStyles(false)
	assert.Contains(t, colored.Header.Render("Catalog"), "Catalog")
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "", Sparkline(nil))
	assert.Equal(t, "▁▁▁", Sparkline([]int64{0, 0, 0}))

	line := []rune(Sparkline([]int64{0, 1, 8}))
	assert.Equal(t, '▁', line[0])
	assert.NotEqual(t, '▁', line[1], "non-zero values never render as the empty block")
	assert.Equal(t, '█', line[2])
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", Bar(0, 10, 20))
	assert.Equal(t, "", Bar(5, 0, 20))
	assert.Equal(t, "██████████", Bar(5, 10, 20))
	assert.Equal(t, "█", Bar(1, 1000, 20))
}
