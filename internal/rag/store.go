package rag

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/ImpactGLX323/IntelliFlow/internal/llm"
)

// Store is a request-scoped in-memory vector index. It is built inside a
// single roadmap invocation and discarded with it, so it needs no locking.
type Store struct {
	texts   []string
	vectors [][]float32
}

func NewStore() *Store {
	return &Store{}
}

func (s *Store) Add(texts []string, vectors [][]float32) error {
	if len(texts) != len(vectors) {
		return fmt.Errorf("store: %d texts but %d vectors", len(texts), len(vectors))
	}
	s.texts = append(s.texts, texts...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

func (s *Store) Len() int { return len(s.texts) }

// Search returns the k stored texts most similar to the query vector,
// most similar first. Ties keep insertion order.
func (s *Store) Search(query []float32, k int) []string {
	if k <= 0 || len(s.texts) == 0 {
		return nil
	}

	type scored struct {
		index int
		score float64
	}
	scores := make([]scored, len(s.vectors))
	for i, v := range s.vectors {
		scores[i] = scored{index: i, score: cosineSimilarity(query, v)}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if k > len(scores) {
		k = len(scores)
	}
	results := make([]string, k)
	for i := 0; i < k; i++ {
		results[i] = s.texts[scores[i].index]
	}
	return results
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// IndexDocument chunks a document, embeds every chunk, and loads the
// result into a fresh store.
func IndexDocument(ctx context.Context, embedder llm.Embedder, splitter Splitter, doc string) (*Store, error) {
	chunks := splitter.Split(doc)

	vectors, err := embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding context chunks: %w", err)
	}

	store := NewStore()
	if err := store.Add(chunks, vectors); err != nil {
		return nil, err
	}
	return store, nil
}
