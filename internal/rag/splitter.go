package rag

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

// Splitter cuts text into fixed-size overlapping chunks. Splitting is a
// pure function of the input text, so identical documents always produce
// identical chunks.
type Splitter struct {
	ChunkSize    int
	ChunkOverlap int
}

func NewSplitter() Splitter {
	return Splitter{ChunkSize: DefaultChunkSize, ChunkOverlap: DefaultChunkOverlap}
}

// Split windows over the text in rune units. Consecutive chunks share
// exactly ChunkOverlap runes; no content is lost at chunk boundaries.
func (s Splitter) Split(text string) []string {
	size := s.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	overlap := s.ChunkOverlap
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size - 1
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string
	start := 0
	for start+size < len(runes) {
		chunks = append(chunks, string(runes[start:start+size]))
		start += step
	}
	chunks = append(chunks, string(runes[start:]))
	return chunks
}
