package store

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	shelferrors "github.com/Aman-CERP/shelfsearch/internal/errors"
)

// seedNamespace scopes the name-based UUIDs given to seed records without an id.
var seedNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://shelfsearch/seed"))

// SeedRecord is one entry of a YAML seed file.
type SeedRecord struct {
	ID        string    `yaml:"id"`
	Kind      string    `yaml:"kind"`
	Name      string    `yaml:"name"`
	Author    string    `yaml:"author"`
	Publisher string    `yaml:"publisher"`
	Notes     string    `yaml:"notes"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

// Record converts the entry. A missing id becomes a UUID derived from kind,
// name and author, so importing the same file twice updates rather than
// duplicates. A missing updated_at becomes now.
func (s SeedRecord) Record(now time.Time) Record {
	kind := ParseKind(s.Kind)
	name := strings.TrimSpace(s.Name)

	id := strings.TrimSpace(s.ID)
	if id == "" {
		key := strings.ToLower(string(kind) + "\x00" + name + "\x00" + strings.TrimSpace(s.Author))
		id = uuid.NewSHA1(seedNamespace, []byte(key)).String()
	}

	updated := s.UpdatedAt
	if updated.IsZero() {
		updated = now
	}

	return Record{
		ID:        id,
		Kind:      kind,
		Name:      name,
		Author:    Optional(strings.TrimSpace(s.Author)),
		Publisher: Optional(strings.TrimSpace(s.Publisher)),
		Notes:     Optional(strings.TrimSpace(s.Notes)),
		UpdatedAt: updated,
	}
}

// LoadSeedFile parses a YAML list of records.
func LoadSeedFile(path string, now time.Time) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shelferrors.New(shelferrors.ErrCodeSeedFile, "cannot read seed file", err).
			WithDetail("path", path)
	}
	return ParseSeed(data, now)
}

// ParseSeed parses seed YAML. Entries without a name are rejected.
func ParseSeed(data []byte, now time.Time) ([]Record, error) {
	var entries []SeedRecord
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, shelferrors.New(shelferrors.ErrCodeSeedFile, "seed file is not a YAML list of records", err).
			WithSuggestion("Each entry needs at least a name, e.g.\n  - name: The Hobbit\n    author: J.R.R. Tolkien")
	}

	records := make([]Record, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, shelferrors.New(shelferrors.ErrCodeInvalidRecord,
				fmt.Sprintf("seed entry %d has no name", i+1), nil)
		}
		records = append(records, e.Record(now))
	}
	return records, nil
}
