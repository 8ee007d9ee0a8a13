package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// extractDOCX concatenates the text of every paragraph run, one paragraph
// per line.
func extractDOCX(content []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("read docx: %w", err)
	}
	defer doc.Close()

	var b strings.Builder
	for _, para := range doc.Paragraphs() {
		for _, run := range para.Runs() {
			b.WriteString(run.Text())
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}
