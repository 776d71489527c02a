package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/membership-analytics/internal/dataset"
	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/pipeline"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

func sampleInputs() *transform.Inputs {
	return &transform.Inputs{
		Membership: dataset.New("membership", []string{"membership_id"}, []dataset.Record{{"membership_id": "1"}}),
	}
}

func sampleOutputs() *transform.Outputs {
	plan := "gold"
	return &transform.Outputs{
		Memberships: []domain.Membership{{MembershipID: 1}, {MembershipID: 2}},
		Lifecycle:   []domain.LifecycleState{{MembershipID: 1, NewPlan: &plan}},
		Financials: []domain.FinancialTotals{
			{MembershipID: 1, MembershipPaymentTotal: decimal.NewFromInt(10), ChargeTotal: decimal.NewFromInt(10)},
		},
	}
}

func TestETLPipeline(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "report.csv")

	var uploadedObject, uploadedFile, insertedRun string
	var insertedRows int
	ensured := false

	deps := pipeline.Deps{
		Extractor: &MockExtractor{ExtractFunc: func(ctx context.Context) (*transform.Inputs, error) {
			return sampleInputs(), nil
		}},
		Transformer: &MockTransformer{RunFunc: func(ctx context.Context, in transform.Inputs) (*transform.Outputs, error) {
			if in.Membership.Len() != 1 {
				t.Errorf("transformer received %d memberships, want 1", in.Membership.Len())
			}
			return sampleOutputs(), nil
		}},
		OutputPath: outputPath,
		Storage: &MockStorageService{UploadFunc: func(ctx context.Context, bucketName, objectName, filePath string) error {
			uploadedObject = bucketName + "/" + objectName
			uploadedFile = filePath
			return nil
		}},
		Bucket: "reports-bucket",
		Sink: &MockReportSink{
			EnsureTableFunc: func(ctx context.Context) error {
				ensured = true
				return nil
			},
			InsertReportFunc: func(ctx context.Context, runID string, rows []domain.ReportRow) error {
				insertedRun = runID
				insertedRows = len(rows)
				return nil
			},
		},
	}

	state := &pipeline.PipelineState{RunID: "run-42"}
	if err := pipeline.NewETLPipeline(deps).Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if len(state.Report) != 2 {
		t.Errorf("len(Report) = %d, want 2", len(state.Report))
	}
	if _, err := os.Stat(outputPath); err != nil {
		t.Errorf("report not written: %v", err)
	}
	if uploadedObject != "reports-bucket/reports/run-42/report.csv" {
		t.Errorf("uploaded object = %q", uploadedObject)
	}
	if uploadedFile != outputPath {
		t.Errorf("uploaded file = %q, want %q", uploadedFile, outputPath)
	}
	if state.PublishedURI != "gs://reports-bucket/reports/run-42/report.csv" {
		t.Errorf("PublishedURI = %q", state.PublishedURI)
	}
	if !ensured || insertedRun != "run-42" || insertedRows != 2 {
		t.Errorf("sink calls: ensured=%v run=%q rows=%d", ensured, insertedRun, insertedRows)
	}
}

func TestETLPipelineSkipsUnconfiguredPublish(t *testing.T) {
	deps := pipeline.Deps{
		Extractor: &MockExtractor{ExtractFunc: func(ctx context.Context) (*transform.Inputs, error) {
			return sampleInputs(), nil
		}},
		Transformer: &MockTransformer{RunFunc: func(ctx context.Context, in transform.Inputs) (*transform.Outputs, error) {
			return sampleOutputs(), nil
		}},
		OutputPath: filepath.Join(t.TempDir(), "report.xlsx"),
		Storage: &MockStorageService{UploadFunc: func(ctx context.Context, bucketName, objectName, filePath string) error {
			t.Error("Upload called without a bucket")
			return nil
		}},
	}

	state := &pipeline.PipelineState{RunID: "run-1"}
	if err := pipeline.NewETLPipeline(deps).Execute(context.Background(), state); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if state.PublishedURI != "" {
		t.Errorf("PublishedURI = %q, want empty", state.PublishedURI)
	}
}

func TestPipelineStopsAtFirstFailure(t *testing.T) {
	extractErr := errors.New("membership file missing")
	transformCalled := false

	deps := pipeline.Deps{
		Extractor: &MockExtractor{ExtractFunc: func(ctx context.Context) (*transform.Inputs, error) {
			return nil, extractErr
		}},
		Transformer: &MockTransformer{RunFunc: func(ctx context.Context, in transform.Inputs) (*transform.Outputs, error) {
			transformCalled = true
			return nil, nil
		}},
	}

	err := pipeline.NewETLPipeline(deps).Execute(context.Background(), &pipeline.PipelineState{})
	if !errors.Is(err, extractErr) {
		t.Fatalf("Execute() error = %v, want wrapped extract error", err)
	}
	if !strings.Contains(err.Error(), "pipeline step 1 (extract) failed") {
		t.Errorf("error = %q, want step name", err.Error())
	}
	if transformCalled {
		t.Error("transform ran after extract failed")
	}
}

func TestPublishStepPropagatesSinkError(t *testing.T) {
	sinkErr := errors.New("permission denied")
	step := &pipeline.PublishStep{Sink: &MockReportSink{
		InsertReportFunc: func(ctx context.Context, runID string, rows []domain.ReportRow) error {
			return sinkErr
		},
	}}

	if err := step.Execute(context.Background(), &pipeline.PipelineState{}); !errors.Is(err, sinkErr) {
		t.Errorf("Execute() error = %v, want sink error", err)
	}
}

func TestTransformPipelineRequiresInputs(t *testing.T) {
	step := &pipeline.TransformStep{Transformer: &MockTransformer{}}
	if err := step.Execute(context.Background(), &pipeline.PipelineState{}); err == nil {
		t.Error("expected error when no inputs were extracted")
	}
}

func TestPipelineHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	deps := pipeline.Deps{
		Extractor: &MockExtractor{ExtractFunc: func(ctx context.Context) (*transform.Inputs, error) {
			t.Error("Extract called with cancelled context")
			return nil, nil
		}},
	}
	err := pipeline.NewTransformPipeline(deps).Execute(ctx, &pipeline.PipelineState{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}
