package chunker

import (
	"fmt"
	"strings"

	"github.com/driftlab/research-router/internal/entity"
)

// Chunker splits text into fixed-size overlapping word windows.
// No sentence or paragraph awareness: boundaries are purely word-count based.
type Chunker struct {
	size    int
	overlap int
}

// New validates the chunking parameters. overlap must be smaller than size,
// otherwise the window would never advance.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", entity.ErrInvalidChunkConfig, size, overlap)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split produces ordered chunks covering all words of text. Consecutive
// chunks share exactly overlap words; the final chunk may be shorter.
// Empty or whitespace-only input yields no chunks.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
	}
	return chunks
}
