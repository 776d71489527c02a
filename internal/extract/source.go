package extract

import (
	"context"
	"fmt"
	"os"

	"github.com/dvloznov/membership-analytics/internal/gcs"
)

// SourceReader loads raw bytes from local paths or gs:// URIs.
type SourceReader struct {
	storage gcs.StorageService
}

// NewSourceReader creates a reader. storage may be nil when no input lives in GCS.
func NewSourceReader(storage gcs.StorageService) *SourceReader {
	return &SourceReader{storage: storage}
}

// Read returns the full contents of path.
func (r *SourceReader) Read(ctx context.Context, path string) ([]byte, error) {
	if gcs.IsURI(path) {
		if r.storage == nil {
			return nil, fmt.Errorf("Read: %s: no storage service configured", path)
		}
		return r.storage.Fetch(ctx, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Read: %w", err)
	}
	return data, nil
}
