package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/dvloznov/membership-analytics/internal/domain"
)

// ReportSink stores published report rows.
type ReportSink interface {
	// EnsureTable creates the destination table if it does not exist.
	EnsureTable(ctx context.Context) error

	// InsertReport writes the rows of one run.
	InsertReport(ctx context.Context, runID string, rows []domain.ReportRow) error

	// Close releases the underlying client.
	Close() error
}

// BigQueryReportSink is the BigQuery implementation of ReportSink.
// It holds a shared client for the lifetime of a run.
type BigQueryReportSink struct {
	client    *bigquery.Client
	datasetID string
	tableID   string
	now       func() time.Time
}

// NewBigQueryReportSink creates a sink writing to projectID.datasetID.tableID.
func NewBigQueryReportSink(ctx context.Context, projectID, datasetID, tableID string, opts ...option.ClientOption) (*BigQueryReportSink, error) {
	if tableID == "" {
		tableID = DefaultReportTable
	}
	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryReportSink: creating client: %w", err)
	}
	return &BigQueryReportSink{
		client:    client,
		datasetID: datasetID,
		tableID:   tableID,
		now:       time.Now,
	}, nil
}

// Close closes the BigQuery client connection.
func (s *BigQueryReportSink) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// EnsureTable delegates to EnsureReportTableWithClient.
func (s *BigQueryReportSink) EnsureTable(ctx context.Context) error {
	return EnsureReportTableWithClient(ctx, s.client, s.datasetID, s.tableID)
}

// InsertReport converts rows and delegates to InsertReportWithClient.
func (s *BigQueryReportSink) InsertReport(ctx context.Context, runID string, rows []domain.ReportRow) error {
	return InsertReportWithClient(ctx, s.client, s.datasetID, s.tableID, ToReportRows(runID, rows, s.now()))
}

// CountRunRows returns how many rows runID has written.
func (s *BigQueryReportSink) CountRunRows(ctx context.Context, runID string) (int64, error) {
	return CountRunRowsWithClient(ctx, s.client, s.datasetID, s.tableID, runID)
}

var _ ReportSink = (*BigQueryReportSink)(nil)
