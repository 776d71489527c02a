package pipeline

import (
	"context"

	"github.com/dvloznov/membership-analytics/internal/gcs"
	infra "github.com/dvloznov/membership-analytics/internal/infra/bigquery"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

// Extractor reads the raw inputs of a run.
type Extractor interface {
	Extract(ctx context.Context) (*transform.Inputs, error)
}

// Transformer turns raw inputs into the canonical datasets.
type Transformer interface {
	Run(ctx context.Context, in transform.Inputs) (*transform.Outputs, error)
}

// StorageService uploads the written report.
type StorageService = gcs.StorageService

// ReportSink receives the published report rows.
type ReportSink = infra.ReportSink
