package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/membership-analytics/internal/currency"
	"github.com/dvloznov/membership-analytics/internal/gcs"
	"github.com/dvloznov/membership-analytics/internal/logger"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

// Sources names where each raw input lives. Paths may be gs:// URIs, except
// TransactionsDB which must be a local SQLite file.
type Sources struct {
	Membership      string
	Logs            string
	TransactionsSQL string
	TransactionsDB  string
	ExchangeRates   map[string]string
}

// Extractor reads the raw inputs of one run.
type Extractor struct {
	sources Sources
	reader  *SourceReader
}

// NewExtractor creates an Extractor. storage may be nil for all-local sources.
func NewExtractor(sources Sources, storage gcs.StorageService) *Extractor {
	return &Extractor{sources: sources, reader: NewSourceReader(storage)}
}

// Extract reads membership, logs, transactions and exchange rates.
func (e *Extractor) Extract(ctx context.Context) (*transform.Inputs, error) {
	log := logger.FromContext(ctx)

	payload, err := e.reader.Read(ctx, e.sources.Membership)
	if err != nil {
		return nil, fmt.Errorf("Extract: membership: %w", err)
	}
	membership, err := ReadMembership(payload)
	if err != nil {
		return nil, fmt.Errorf("Extract: %w", err)
	}
	log.Info().Str("source", e.sources.Membership).Int("rows", membership.Len()).Msg("Extracted memberships")

	payload, err = e.reader.Read(ctx, e.sources.Logs)
	if err != nil {
		return nil, fmt.Errorf("Extract: logs: %w", err)
	}
	logs, err := ReadLogs(payload)
	if err != nil {
		return nil, fmt.Errorf("Extract: %w", err)
	}
	log.Info().Str("source", e.sources.Logs).Int("rows", logs.Len()).Msg("Extracted lifecycle logs")

	transactions, err := ReadTransactions(ctx, e.sources.TransactionsDB, e.scriptLoader())
	if err != nil {
		return nil, fmt.Errorf("Extract: %w", err)
	}
	log.Info().Str("source", e.sources.TransactionsDB).Int("rows", transactions.Len()).Msg("Extracted transactions")

	rates, err := e.ExtractRates(ctx)
	if err != nil {
		return nil, fmt.Errorf("Extract: %w", err)
	}

	return &transform.Inputs{
		Membership:   membership,
		Logs:         logs,
		Transactions: transactions,
		Rates:        rates,
	}, nil
}

// ExtractRates reads every configured exchange-rate series and joins them on date.
func (e *Extractor) ExtractRates(ctx context.Context) (*currency.RateTable, error) {
	codes := make([]string, 0, len(e.sources.ExchangeRates))
	for code := range e.sources.ExchangeRates {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	series := make(map[string]currency.Series, len(codes))
	for _, code := range codes {
		path := e.sources.ExchangeRates[code]
		payload, err := e.reader.Read(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("ExtractRates: %s: %w", code, err)
		}
		s, err := ReadRateSeries(payload)
		if err != nil {
			return nil, fmt.Errorf("ExtractRates: %s: %w", code, err)
		}
		series[strings.ToUpper(code)] = s
	}

	table := currency.JoinSeries(series)
	log := logger.FromContext(ctx)
	log.Info().
		Strs("currencies", table.Currencies()).
		Int("dates", table.Len()).
		Msg("Joined exchange rates")
	return table, nil
}

func (e *Extractor) scriptLoader() ScriptLoader {
	if e.sources.TransactionsSQL == "" {
		return nil
	}
	return func(ctx context.Context) ([]byte, error) {
		return e.reader.Read(ctx, e.sources.TransactionsSQL)
	}
}
