package entity

import "errors"

// Domain errors
var (
	// Document errors
	ErrDocumentNotFound = errors.New("document not found")
	ErrInvalidExtension = errors.New("invalid file extension")
	ErrUploadTooLarge   = errors.New("upload too large")

	// Chunking errors
	ErrInvalidChunkConfig = errors.New("invalid chunking configuration")

	// Validation errors
	ErrMissingField = errors.New("required field is missing")

	// Integration errors
	ErrNoAPIKey = errors.New("no API key configured")
)
