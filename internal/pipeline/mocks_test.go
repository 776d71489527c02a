package pipeline_test

import (
	"context"

	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

// MockExtractor is a mock implementation of pipeline.Extractor.
type MockExtractor struct {
	ExtractFunc func(ctx context.Context) (*transform.Inputs, error)
}

func (m *MockExtractor) Extract(ctx context.Context) (*transform.Inputs, error) {
	return m.ExtractFunc(ctx)
}

// MockTransformer is a mock implementation of pipeline.Transformer.
type MockTransformer struct {
	RunFunc func(ctx context.Context, in transform.Inputs) (*transform.Outputs, error)
}

func (m *MockTransformer) Run(ctx context.Context, in transform.Inputs) (*transform.Outputs, error) {
	return m.RunFunc(ctx, in)
}

// MockStorageService is a mock implementation of pipeline.StorageService.
type MockStorageService struct {
	UploadFunc func(ctx context.Context, bucketName, objectName, filePath string) error
	FetchFunc  func(ctx context.Context, uri string) ([]byte, error)
}

func (m *MockStorageService) Upload(ctx context.Context, bucketName, objectName, filePath string) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, bucketName, objectName, filePath)
	}
	return nil
}

func (m *MockStorageService) Fetch(ctx context.Context, uri string) ([]byte, error) {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, uri)
	}
	return nil, nil
}

// MockReportSink is a mock implementation of pipeline.ReportSink.
type MockReportSink struct {
	EnsureTableFunc  func(ctx context.Context) error
	InsertReportFunc func(ctx context.Context, runID string, rows []domain.ReportRow) error
}

func (m *MockReportSink) EnsureTable(ctx context.Context) error {
	if m.EnsureTableFunc != nil {
		return m.EnsureTableFunc(ctx)
	}
	return nil
}

func (m *MockReportSink) InsertReport(ctx context.Context, runID string, rows []domain.ReportRow) error {
	if m.InsertReportFunc != nil {
		return m.InsertReportFunc(ctx, runID, rows)
	}
	return nil
}

func (m *MockReportSink) Close() error { return nil }
