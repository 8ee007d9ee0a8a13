package validator

import (
	"testing"

	"github.com/driftlab/research-router/internal/config"
	"github.com/driftlab/research-router/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateUpload(t *testing.T) {
	v := NewUploadValidator(config.UploadConfig{MaxUploadSize: 1000})

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{"pdf ok", "paper.pdf", 500, nil},
		{"docx ok", "notes.docx", 500, nil},
		{"txt ok", "readme.txt", 500, nil},
		{"md ok", "guide.md", 500, nil},
		{"uppercase extension ok", "PAPER.PDF", 500, nil},
		{"at size limit", "paper.pdf", 1000, nil},
		{"over size limit", "paper.pdf", 1001, entity.ErrUploadTooLarge},
		{"unsupported extension", "image.png", 500, entity.ErrInvalidExtension},
		{"no extension", "paper", 500, entity.ErrInvalidExtension},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"paper.pdf", "paper.pdf"},
		{"my paper (final).pdf", "my_paper_final.pdf"},
		{"notes [v2].txt", "notes_v2.txt"},
		{"/tmp/evil/../path.pdf", "path.pdf"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in))
	}
}
