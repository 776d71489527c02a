// Package load joins the transform outputs into the analytics report and
// persists it.
package load

import (
	"context"
	"fmt"

	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/logger"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

// Load merges out into report rows and writes them to path.
func Load(ctx context.Context, out *transform.Outputs, path string) ([]domain.ReportRow, error) {
	if path == "" {
		path = DefaultOutputPath
	}
	rows := Merge(out)
	if err := Write(path, rows); err != nil {
		return nil, fmt.Errorf("Load: %w", err)
	}

	churned := 0
	for _, r := range rows {
		if r.Churned {
			churned++
		}
	}
	log := logger.FromContext(ctx)
	log.Info().
		Str("path", path).
		Int("rows", len(rows)).
		Int("churned", churned).
		Msg("Wrote analytics report")
	return rows, nil
}
