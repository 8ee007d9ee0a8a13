package validator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
)

var AllowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".txt":  true,
	".md":   true,
}

// Validator validates document uploads
type Validator struct {
	cfg config.UploadConfig
}

func NewUploadValidator(cfg config.UploadConfig) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateUpload checks the uploaded file's extension and size.
func (v *Validator) ValidateUpload(filename string, size int64) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedExtensions[ext]; !ok {
		return fmt.Errorf("%w: %s (allowed: pdf, docx, txt, md)", entity.ErrInvalidExtension, ext)
	}

	if size > v.cfg.MaxUploadSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrUploadTooLarge, filename, size, v.cfg.MaxUploadSize)
	}

	return nil
}

// SanitizeFilename sanitizes a filename for use as a document identifier
func SanitizeFilename(filename string) string {
	filename = filepath.Base(filename)
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
