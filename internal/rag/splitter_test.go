package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitShortTextIsSingleChunk(t *testing.T) {
	s := NewSplitter()
	chunks := s.Split("small document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "small document", chunks[0])
}

func TestSplitChunkSizeAndOverlap(t *testing.T) {
	s := Splitter{ChunkSize: 100, ChunkOverlap: 20}
	text := strings.Repeat("abcdefghij", 50) // 500 chars

	chunks := s.Split(text)

	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 100, "chunk %d exceeds size", i)
	}
	// Consecutive chunks share exactly the overlap.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		tail := string(prev[len(prev)-20:])
		assert.True(t, strings.HasPrefix(string(cur), tail),
			"chunk %d does not start with the previous chunk's tail", i)
	}
}

func TestSplitLosesNoContent(t *testing.T) {
	s := Splitter{ChunkSize: 50, ChunkOverlap: 10}
	text := strings.Repeat("0123456789", 33) // 330 chars

	chunks := s.Split(text)

	// Dropping each chunk's leading overlap reconstructs the original.
	var sb strings.Builder
	sb.WriteString(chunks[0])
	for i := 1; i < len(chunks); i++ {
		runes := []rune(chunks[i])
		sb.WriteString(string(runes[10:]))
	}
	assert.Equal(t, text, sb.String())
}

func TestSplitDeterministic(t *testing.T) {
	s := NewSplitter()
	text := strings.Repeat("Products: widget, gadget, doohickey.\n", 100)
	assert.Equal(t, s.Split(text), s.Split(text))
}

func TestSplitClampsBadConfig(t *testing.T) {
	s := Splitter{ChunkSize: 10, ChunkOverlap: 50}
	chunks := s.Split(strings.Repeat("x", 100))
	assert.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), 10)
	}
}
