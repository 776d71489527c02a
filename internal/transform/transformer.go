package transform

import (
	"context"
	"fmt"

	"github.com/dvloznov/membership-analytics/internal/currency"
	"github.com/dvloznov/membership-analytics/internal/dataset"
	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/logger"
)

// Config holds the business rules of a transform run.
type Config struct {
	ReferenceCurrency string
	Window            domain.Window
	Categories        domain.CategoryMap
}

// DefaultConfig returns USD, the 2019-2022 window and the three standard categories.
func DefaultConfig() Config {
	return Config{
		ReferenceCurrency: currency.DefaultReference,
		Window:            domain.DefaultWindow(),
		Categories:        domain.DefaultCategoryMap(),
	}
}

// Inputs are the four raw datasets produced by extraction. They are read, never modified.
type Inputs struct {
	Membership   dataset.Dataset
	Logs         dataset.Dataset
	Transactions dataset.Dataset
	Rates        *currency.RateTable
}

// Stats groups the per-component counters of one run.
type Stats struct {
	Membership   MembershipStats
	Logs         LogStats
	Transactions TransactionStats
}

// Outputs are the three canonical datasets, each keyed by membership_id.
type Outputs struct {
	Memberships []domain.Membership
	Lifecycle   []domain.LifecycleState
	Financials  []domain.FinancialTotals
	Stats       Stats
}

// Transformer dispatches each raw dataset to its transform.
type Transformer struct {
	cfg Config
}

// New creates a Transformer. Zero-valued fields of cfg take their defaults.
func New(cfg Config) *Transformer {
	def := DefaultConfig()
	if cfg.ReferenceCurrency == "" {
		cfg.ReferenceCurrency = def.ReferenceCurrency
	}
	if cfg.Window.Start.IsZero() && cfg.Window.End.IsZero() {
		cfg.Window = def.Window
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = def.Categories
	}
	return &Transformer{cfg: cfg}
}

// Run normalizes memberships, aggregates logs, then aggregates transactions
// against the normalized memberships.
func (t *Transformer) Run(ctx context.Context, in Inputs) (*Outputs, error) {
	log := logger.FromContext(ctx)
	log.Debug().
		Strs("membership", MembershipSchema.Temporal()).
		Strs("logs", LogSchema.Temporal()).
		Strs("transactions", TransactionSchema.Temporal()).
		Msg("Declared timestamp columns")

	memberships, mStats, err := NormalizeMemberships(in.Membership)
	if err != nil {
		return nil, fmt.Errorf("Transformer.Run: normalize memberships: %w", err)
	}
	log.Info().
		Int("rows", mStats.Rows).
		Int("memberships", len(memberships)).
		Int("missing_id", mStats.MissingID).
		Int("duplicate_id", mStats.DuplicateID).
		Int("no_region", mStats.NoRegion).
		Msg("Normalized memberships")
	if mStats.DuplicateID > 0 {
		log.Warn().Int("duplicate_id", mStats.DuplicateID).Msg("Duplicate membership ids dropped, first row kept")
	}

	lifecycle, lStats, err := AggregateLogs(in.Logs, t.cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("Transformer.Run: aggregate logs: %w", err)
	}
	log.Info().
		Int("rows", lStats.Rows).
		Int("qualifying", lStats.Qualifying).
		Int("memberships", lStats.Memberships).
		Time("window_start", t.cfg.Window.Start).
		Time("window_end", t.cfg.Window.End).
		Msg("Aggregated lifecycle logs")

	conv := currency.NewConverter(t.cfg.ReferenceCurrency, in.Rates)
	financials, tStats, err := AggregateTransactions(in.Transactions, memberships, conv, t.cfg.Categories)
	if err != nil {
		return nil, fmt.Errorf("Transformer.Run: aggregate transactions: %w", err)
	}
	log.Info().
		Int("rows", tStats.Rows).
		Int("currency_backfilled", tStats.CurrencyBackfilled).
		Int("unresolved", tStats.Unresolved).
		Int("zero_total", tStats.ZeroTotal).
		Int("memberships", tStats.Memberships).
		Strs("categories", tStats.Categories).
		Str("reference_currency", conv.Reference()).
		Msg("Aggregated transactions")
	for label, total := range tStats.Unmapped {
		log.Warn().Str("category", label).Str("total", total.StringFixed(2)).Msg("Category not mapped to a report column")
	}

	return &Outputs{
		Memberships: memberships,
		Lifecycle:   lifecycle,
		Financials:  financials,
		Stats:       Stats{Membership: mStats, Logs: lStats, Transactions: tStats},
	}, nil
}
