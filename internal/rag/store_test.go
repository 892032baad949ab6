package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := f.vectors[t]
		if !ok {
			v = []float32{0, 0, 1}
		}
		out[i] = v
	}
	return out, nil
}

func TestStoreSearchRanksByCosineSimilarity(t *testing.T) {
	store := NewStore()
	err := store.Add(
		[]string{"inventory", "sales", "pricing"},
		[][]float32{
			{1, 0, 0},
			{0.9, 0.1, 0},
			{0, 1, 0},
		},
	)
	require.NoError(t, err)

	results := store.Search([]float32{1, 0, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "inventory", results[0])
	assert.Equal(t, "sales", results[1])
}

func TestStoreSearchKLargerThanStore(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.Add([]string{"only"}, [][]float32{{1, 0}}))

	results := store.Search([]float32{1, 0}, 3)
	assert.Equal(t, []string{"only"}, results)
}

func TestStoreSearchEmpty(t *testing.T) {
	assert.Nil(t, NewStore().Search([]float32{1}, 3))
}

func TestStoreAddMismatch(t *testing.T) {
	err := NewStore().Add([]string{"a", "b"}, [][]float32{{1}})
	assert.Error(t, err)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 1}))
}

func TestIndexDocument(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{}}
	store, err := IndexDocument(context.Background(), emb, Splitter{ChunkSize: 10, ChunkOverlap: 2}, "a long document that needs several chunks")
	require.NoError(t, err)
	assert.Greater(t, store.Len(), 1)
}

func TestIndexDocumentEmbedFailure(t *testing.T) {
	emb := &fakeEmbedder{err: errors.New("embedding api down")}
	_, err := IndexDocument(context.Background(), emb, NewSplitter(), "doc")
	assert.ErrorContains(t, err, "embedding")
}
