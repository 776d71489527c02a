package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/gcs"
	"github.com/dvloznov/membership-analytics/internal/load"
	"github.com/dvloznov/membership-analytics/internal/logger"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

var errMissingState = errors.New("previous step produced no data")

// PipelineStep represents a single step in the ETL pipeline.
type PipelineStep interface {
	Name() string
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID        string
	Inputs       *transform.Inputs
	Outputs      *transform.Outputs
	Report       []domain.ReportRow
	OutputPath   string
	PublishedURI string
}

// Step 1: ExtractStep reads the raw datasets.
type ExtractStep struct {
	Extractor Extractor
}

func (s *ExtractStep) Name() string { return "extract" }

func (s *ExtractStep) Execute(ctx context.Context, state *PipelineState) error {
	in, err := s.Extractor.Extract(ctx)
	if err != nil {
		return err
	}
	state.Inputs = in
	return nil
}

// Step 2: TransformStep produces the normalized, lifecycle and financial datasets.
type TransformStep struct {
	Transformer Transformer
}

func (s *TransformStep) Name() string { return "transform" }

func (s *TransformStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Inputs == nil {
		return errMissingState
	}
	out, err := s.Transformer.Run(ctx, *state.Inputs)
	if err != nil {
		return err
	}
	state.Outputs = out
	return nil
}

// Step 3: LoadStep joins the outputs into the report and writes it.
type LoadStep struct {
	Path string
}

func (s *LoadStep) Name() string { return "load" }

func (s *LoadStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Outputs == nil {
		return errMissingState
	}
	outputPath := s.Path
	if outputPath == "" {
		outputPath = load.DefaultOutputPath
	}
	rows, err := load.Load(ctx, state.Outputs, outputPath)
	if err != nil {
		return err
	}
	state.Report = rows
	state.OutputPath = outputPath
	return nil
}

// Step 4: PublishStep uploads the report file and inserts its rows.
// Each destination is skipped when not configured.
type PublishStep struct {
	Storage StorageService
	Bucket  string
	Object  string
	Sink    ReportSink
}

func (s *PublishStep) Name() string { return "publish" }

func (s *PublishStep) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)

	if s.Storage != nil && s.Bucket != "" {
		object := s.Object
		if object == "" {
			object = path.Join("reports", state.RunID, path.Base(state.OutputPath))
		}
		if err := s.Storage.Upload(ctx, s.Bucket, object, state.OutputPath); err != nil {
			return fmt.Errorf("uploading report: %w", err)
		}
		state.PublishedURI = gcs.URI(s.Bucket, object)
		log.Info().Str("uri", state.PublishedURI).Msg("Uploaded report")
	}

	if s.Sink != nil {
		if err := s.Sink.EnsureTable(ctx); err != nil {
			return fmt.Errorf("ensuring report table: %w", err)
		}
		if err := s.Sink.InsertReport(ctx, state.RunID, state.Report); err != nil {
			return fmt.Errorf("inserting report rows: %w", err)
		}
		log.Info().Int("rows", len(state.Report)).Msg("Inserted report into BigQuery")
	}
	return nil
}
