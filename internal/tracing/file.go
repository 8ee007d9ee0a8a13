package tracing

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/driftlab/research-router/internal/entity"
	"go.uber.org/zap"
)

// FileRecorder appends one JSON record per line. Recent reads the whole file
// and takes the tail, which is fine at the expected log volume.
type FileRecorder struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

var _ Recorder = &FileRecorder{}

func NewFileRecorder(path string, logger *zap.Logger) (*FileRecorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create trace directory: %w", err)
		}
	}
	return &FileRecorder{
		path:   path,
		logger: logger,
	}, nil
}

func (r *FileRecorder) Record(rec entity.TraceRecord) {
	rec.Timestamp = time.Now().UTC()

	line, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("marshal trace record", zap.Error(err))
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		r.logger.Error("open trace file", zap.Error(err))
		return
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		r.logger.Error("append trace record", zap.Error(err))
	}
}

func (r *FileRecorder) Recent(n int) []entity.TraceRecord {
	if n <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Error("open trace file", zap.Error(err))
		}
		return nil
	}
	defer f.Close()

	var records []entity.TraceRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var rec entity.TraceRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			r.logger.Warn("skip malformed trace line", zap.Error(err))
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		r.logger.Error("read trace file", zap.Error(err))
	}

	if n > len(records) {
		n = len(records)
	}
	return records[len(records)-n:]
}
