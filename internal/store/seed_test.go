package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
)

const seedYAML = `
- id: hobbit
  name: The Hobbit
  author: J.R.R. Tolkien
  publisher: Allen & Unwin
  updated_at: 2026-01-05T10:00:00Z
- kind: order
  name: "  Order for Dhaka shop  "
  notes: deliver friday
- name: বই মেলা
  author: "   "
`

func TestParseSeed(t *testing.T) {
	now := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	records, err := ParseSeed([]byte(seedYAML), now)
	require.NoError(t, err)
	require.Len(t, records, 3)

	hobbit := records[0]
	assert.Equal(t, "hobbit", hobbit.ID)
	assert.Equal(t, KindBook, hobbit.Kind)
	assert.Equal(t, "J.R.R. Tolkien", hobbit.Author.OrEmpty())
	assert.Equal(t, time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC), hobbit.UpdatedAt.UTC())

	order := records[1]
	assert.Equal(t, KindOrder, order.Kind)
	assert.Equal(t, "Order for Dhaka shop", order.Name)
	assert.Equal(t, now, order.UpdatedAt)
	_, err = uuid.Parse(order.ID)
	assert.NoError(t, err, "missing ids become UUIDs")

	assert.False(t, records[2].Author.Present(), "blank author is absent")
}

func TestParseSeed_StableGeneratedIDs(t *testing.T) {
	a, err := ParseSeed([]byte(seedYAML), time.Now())
	require.NoError(t, err)
	b, err := ParseSeed([]byte(seedYAML), time.Now())
	require.NoError(t, err)

	assert.Equal(t, a[1].ID, b[1].ID)
	assert.NotEqual(t, a[1].ID, a[2].ID)
}

func TestParseSeed_Errors(t *testing.T) {
	_, err := ParseSeed([]byte("name: not a list"), time.Now())
	assert.Equal(t, shelferrors.ErrCodeSeedFile, shelferrors.GetCode(err))

	_, err = ParseSeed([]byte("- author: nobody\n"), time.Now())
	assert.Equal(t, shelferrors.ErrCodeInvalidRecord, shelferrors.GetCode(err))
	assert.Contains(t, err.Error(), "seed entry 1 has no name")
}

func TestParseSeed_Empty(t *testing.T) {
	records, err := ParseSeed([]byte(""), time.Now())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))

	records, err := LoadSeedFile(path, time.Now())
	require.NoError(t, err)
	assert.Len(t, records, 3)

	_, err = LoadSeedFile(filepath.Join(t.TempDir(), "missing.yaml"), time.Now())
	assert.Equal(t, shelferrors.ErrCodeSeedFile, shelferrors.GetCode(err))
}

func TestSeed_UpsertIsIdempotent(t *testing.T) {
	c := newTestCatalog(t)
	records, err := ParseSeed([]byte(seedYAML), time.Now())
	require.NoError(t, err)

	seed(t, c, records)
	seed(t, c, records)

	n, err := c.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
