// Package pipeline runs the extract, transform, load and publish steps of an
// ETL run in order.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/dvloznov/membership-analytics/internal/logger"
)

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially, stopping at the first failure.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	log := logger.FromContext(ctx)
	for i, step := range p.steps {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("pipeline step %d (%s) not started: %w", i+1, step.Name(), err)
		}
		started := time.Now()
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d (%s) failed: %w", i+1, step.Name(), err)
		}
		log.Debug().Str("step", step.Name()).Dur("elapsed", time.Since(started)).Msg("Pipeline step completed")
	}
	return nil
}

// Deps are the collaborators of an ETL run. Storage and Sink are optional.
type Deps struct {
	Extractor   Extractor
	Transformer Transformer
	OutputPath  string
	Storage     StorageService
	Bucket      string
	Object      string
	Sink        ReportSink
}

// NewETLPipeline creates the standard four-step pipeline.
func NewETLPipeline(deps Deps) *Pipeline {
	return NewPipeline(
		&ExtractStep{Extractor: deps.Extractor},
		&TransformStep{Transformer: deps.Transformer},
		&LoadStep{Path: deps.OutputPath},
		&PublishStep{Storage: deps.Storage, Bucket: deps.Bucket, Object: deps.Object, Sink: deps.Sink},
	)
}

// NewTransformPipeline creates a pipeline that stops after the transform step.
func NewTransformPipeline(deps Deps) *Pipeline {
	return NewPipeline(
		&ExtractStep{Extractor: deps.Extractor},
		&TransformStep{Transformer: deps.Transformer},
	)
}
