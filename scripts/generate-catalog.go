//go:build ignore

// Package main generates a synthetic seed file for benchmarking fuzzy search.
// Usage: go run scripts/generate-catalog.go -records 5000 -output testdata/bench/catalog.yaml
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	numRecords = flag.Int("records", 5000, "Number of records to generate")
	outputPath = flag.String("output", "testdata/bench/catalog.yaml", "Output seed file")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
)

var (
	latinWords = []string{
		"harry", "potter", "hobbit", "garden", "river", "night", "stone",
		"kingdom", "shadow", "winter", "letters", "journey", "ocean", "city",
	}
	banglaWords = []string{
		"বই", "মেলা", "কবিতা", "সমগ্র", "গল্প", "নদী", "আকাশ", "রাত", "পথ", "বাড়ি",
	}
	authors = []string{
		"J.K. Rowling", "J.R.R. Tolkien", "রবীন্দ্রনাথ ঠাকুর", "কাজী নজরুল ইসলাম",
		"Humayun Ahmed", "Satyajit Ray", "",
	}
	publishers = []string{"Allen & Unwin", "Bloomsbury", "অন্যপ্রকাশ", "Penguin", ""}
	kinds      = []string{"book", "book", "book", "order", "note", "reminder"}
)

type seedRecord struct {
	ID        string    `yaml:"id"`
	Kind      string    `yaml:"kind"`
	Name      string    `yaml:"name"`
	Author    string    `yaml:"author,omitempty"`
	Publisher string    `yaml:"publisher,omitempty"`
	Notes     string    `yaml:"notes,omitempty"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

func main() {
	flag.Parse()
	rng := rand.New(rand.NewSource(*seed))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	records := make([]seedRecord, 0, *numRecords)
	for i := range *numRecords {
		words := latinWords
		if rng.Intn(3) == 0 {
			words = banglaWords
		}
		name := words[rng.Intn(len(words))]
		for range rng.Intn(3) {
			name += " " + words[rng.Intn(len(words))]
		}

		records = append(records, seedRecord{
			ID:        fmt.Sprintf("bench-%06d", i),
			Kind:      kinds[rng.Intn(len(kinds))],
			Name:      name,
			Author:    authors[rng.Intn(len(authors))],
			Publisher: publishers[rng.Intn(len(publishers))],
			UpdatedAt: base.Add(time.Duration(rng.Intn(365*24)) * time.Hour),
		})
	}

	if err := os.MkdirAll(filepath.Dir(*outputPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output directory: %v\n", err)
		os.Exit(1)
	}
	data, err := yaml.Marshal(records)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding records: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *outputPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %d records in %s\n", len(records), *outputPath)
	fmt.Println("Import with: shelfsearch import --db /tmp/bench.db", *outputPath)
}
