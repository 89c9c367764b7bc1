package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/Aman-CERP/shelfsearch/internal/store"
)

func benchCatalog(n int) *fakeCatalog {
	names := []string{
		"Harry Potter and the Philosopher's Stone",
		"The Hobbit",
		"কবিতা সমগ্র",
		"বই মেলা",
		"Garden Notes",
	}
	all := make([]store.Record, n)
	for i := range all {
		all[i] = rec(fmt.Sprintf("r%05d", i), names[i%len(names)])
	}
	return &fakeCatalog{all: all}
}

func BenchmarkSearch_FuzzyScan(b *testing.B) {
	for _, size := range []int{100, 1000, 5000} {
		b.Run(fmt.Sprintf("records=%d", size), func(b *testing.B) {
			e, err := NewEngine(benchCatalog(size), DefaultConfig())
			if err != nil {
				b.Fatal(err)
			}
			ctx := context.Background()

			b.ReportAllocs()
			for b.Loop() {
				if _, err := e.Search(ctx, "hary poter"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkSearch_Transliterated(b *testing.B) {
	e, err := NewEngine(benchCatalog(1000), DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ReportAllocs()
	for b.Loop() {
		if _, err := e.Search(ctx, "kobita"); err != nil {
			b.Fatal(err)
		}
	}
}
