package extractor

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/driftlab/research-router/internal/entity"
)

// Extractor converts an uploaded file into plain text, dispatching on the
// file extension.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the text content of the file. Degraded output (pages that
// yield no text) is not an error; only unreadable files fail.
func (e *Extractor) Extract(filename string, content []byte) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return extractPDF(content)
	case ".docx":
		return extractDOCX(content)
	case ".txt", ".md":
		return string(content), nil
	default:
		return "", fmt.Errorf("%w: %s", entity.ErrInvalidExtension, filepath.Ext(filename))
	}
}
