package document

// Extractor converts an uploaded file into plain text.
type Extractor interface {
	Extract(filename string, content []byte) (string, error)
}

// UploadValidator checks upload limits before any extraction work happens.
type UploadValidator interface {
	ValidateUpload(filename string, size int64) error
}
