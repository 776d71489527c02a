package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"github.com/dvloznov/membership-analytics/internal/config"
	"github.com/dvloznov/membership-analytics/internal/currency"
	"github.com/dvloznov/membership-analytics/internal/extract"
	"github.com/dvloznov/membership-analytics/internal/gcs"
	infraBQ "github.com/dvloznov/membership-analytics/internal/infra/bigquery"
	"github.com/dvloznov/membership-analytics/internal/logger"
	"github.com/dvloznov/membership-analytics/internal/pipeline"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

const runTimeout = 15 * time.Minute

func main() {
	log := logger.New(config.DefaultLogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		runETL(log)
	case "transform":
		runTransform(log)
	case "rates":
		runRates(log)
	case "upload":
		runUpload(log)
	case "count":
		runCount(log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Membership Analytics ETL")
	fmt.Println("\nUsage:")
	fmt.Println("  etl <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  run        Extract, transform, load and publish the analytics report")
	fmt.Println("  transform  Extract and transform, then print per-output counts")
	fmt.Println("  rates      Print the coverage of the joined exchange-rate table")
	fmt.Println("  upload     Upload a written report to GCS")
	fmt.Println("  count      Count the BigQuery rows written by a run")
	fmt.Println("  help       Show this help message")
	fmt.Println("\nRun 'etl <command> -h' for more information on a command.")
}

// setup parses the shared -config flag, loads and validates settings and
// returns a logger at the configured level.
func setup(fs *flag.FlagSet, log zerolog.Logger) (config.Config, zerolog.Logger) {
	configPath := fs.String("config", "", "Path to a config file (default ./config.yaml if present)")
	fs.Parse(os.Args[2:])

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid config")
	}
	return cfg, logger.New(cfg.Log.Level)
}

func clientOptions(cfg config.Config) []option.ClientOption {
	if cfg.GCP.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(cfg.GCP.CredentialsFile)}
}

// usesGCS reports whether any input or output lives in Cloud Storage.
func usesGCS(cfg config.Config) bool {
	if cfg.Output.GCSBucket != "" {
		return true
	}
	paths := []string{cfg.Input.Membership, cfg.Input.Logs, cfg.Input.TransactionsSQL}
	for _, p := range cfg.Input.ExchangeRates {
		paths = append(paths, p)
	}
	for _, p := range paths {
		if gcs.IsURI(p) {
			return true
		}
	}
	return false
}

func newExtractor(cfg config.Config) *extract.Extractor {
	var storage gcs.StorageService
	if usesGCS(cfg) {
		storage = gcs.NewClient(clientOptions(cfg)...)
	}
	return extract.NewExtractor(cfg.Sources(), storage)
}

func newTransformer(cfg config.Config, log zerolog.Logger) *transform.Transformer {
	rules, err := cfg.TransformRules()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid transform settings")
	}
	return transform.New(rules)
}

func runETL(log zerolog.Logger) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	output := fs.String("output", "", "Override output.path (.csv or .xlsx)")
	cfg, log := setup(fs, log)
	if *output != "" {
		cfg.Output.Path = *output
	}

	runID := uuid.NewString()
	log = logger.WithRun(log, runID)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	deps := pipeline.Deps{
		Extractor:   newExtractor(cfg),
		Transformer: newTransformer(cfg, log),
		OutputPath:  cfg.Output.Path,
		Bucket:      cfg.Output.GCSBucket,
		Object:      cfg.Output.GCSObject,
	}
	if cfg.Output.GCSBucket != "" {
		deps.Storage = gcs.NewClient(clientOptions(cfg)...)
	}
	if cfg.Output.BigQuery.Enabled() {
		sink, err := infraBQ.NewBigQueryReportSink(ctx, cfg.Output.BigQuery.Project, cfg.Output.BigQuery.Dataset, cfg.Output.BigQuery.Table, clientOptions(cfg)...)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery sink")
		}
		defer sink.Close()
		deps.Sink = sink
	}

	log.Info().Str("output", cfg.Output.Path).Msg("Starting ETL run")

	state := &pipeline.PipelineState{RunID: runID}
	if err := pipeline.NewETLPipeline(deps).Execute(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("ETL run failed")
	}

	fmt.Printf("Wrote %d rows to %s\n", len(state.Report), state.OutputPath)
	if state.PublishedURI != "" {
		fmt.Printf("Uploaded report to %s\n", state.PublishedURI)
	}
	fmt.Printf("Run ID: %s\n", runID)
}

func runTransform(log zerolog.Logger) {
	fs := flag.NewFlagSet("transform", flag.ExitOnError)
	cfg, log := setup(fs, log)

	runID := uuid.NewString()
	log = logger.WithRun(log, runID)

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	deps := pipeline.Deps{
		Extractor:   newExtractor(cfg),
		Transformer: newTransformer(cfg, log),
	}
	state := &pipeline.PipelineState{RunID: runID}
	if err := pipeline.NewTransformPipeline(deps).Execute(ctx, state); err != nil {
		log.Fatal().Err(err).Msg("Transform failed")
	}

	writeTransformSummary(os.Stdout, state.Outputs)
}

func runRates(log zerolog.Logger) {
	fs := flag.NewFlagSet("rates", flag.ExitOnError)
	cfg, log := setup(fs, log)

	ctx := logger.WithContext(context.Background(), log)

	table, err := newExtractor(cfg).ExtractRates(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read exchange rates")
	}
	writeRateCoverage(os.Stdout, table)
}

func runUpload(log zerolog.Logger) {
	fs := flag.NewFlagSet("upload", flag.ExitOnError)
	bucketName := fs.String("bucket", "", "GCS bucket name (defaults to output.gcs_bucket)")
	objectName := fs.String("object", "", "GCS object name (defaults to filename)")
	filePath := fs.String("file", "", "Path to the report (defaults to output.path)")
	cfg, log := setup(fs, log)

	if *bucketName == "" {
		*bucketName = cfg.Output.GCSBucket
	}
	if *filePath == "" {
		*filePath = cfg.Output.Path
	}
	if *bucketName == "" {
		log.Fatal().Msg("Usage: etl upload -bucket NAME [-file PATH] [-object NAME]")
	}
	if *objectName == "" {
		*objectName = filepath.Base(*filePath)
	}

	ctx := logger.WithContext(context.Background(), log)

	log.Info().
		Str("bucket", *bucketName).
		Str("object", *objectName).
		Str("file", *filePath).
		Msg("Uploading report to GCS")

	if err := gcs.NewClient(clientOptions(cfg)...).Upload(ctx, *bucketName, *objectName, *filePath); err != nil {
		log.Fatal().Err(err).Msg("Upload failed")
	}

	fmt.Printf("Uploaded %s to %s\n", *filePath, gcs.URI(*bucketName, *objectName))
}

func runCount(log zerolog.Logger) {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	runID := fs.String("run-id", "", "Run ID printed by 'etl run'")
	cfg, log := setup(fs, log)

	if *runID == "" {
		log.Fatal().Msg("Error: --run-id is required")
	}
	if !cfg.Output.BigQuery.Enabled() {
		log.Fatal().Msg("Error: output.bigquery.project and output.bigquery.dataset must be set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	sink, err := infraBQ.NewBigQueryReportSink(ctx, cfg.Output.BigQuery.Project, cfg.Output.BigQuery.Dataset, cfg.Output.BigQuery.Table, clientOptions(cfg)...)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery sink")
	}
	defer sink.Close()

	n, err := sink.CountRunRows(ctx, *runID)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to count rows")
	}
	fmt.Printf("Run %s wrote %d rows\n", *runID, n)
}

func writeTransformSummary(w io.Writer, out *transform.Outputs) {
	if out == nil {
		fmt.Fprintln(w, "No outputs produced.")
		return
	}
	s := out.Stats
	fmt.Fprintf(w, "Memberships:  %d (rows %d, missing id %d, duplicate id %d)\n",
		len(out.Memberships), s.Membership.Rows, s.Membership.MissingID, s.Membership.DuplicateID)
	fmt.Fprintf(w, "Lifecycle:    %d (rows %d, qualifying %d)\n",
		len(out.Lifecycle), s.Logs.Rows, s.Logs.Qualifying)
	fmt.Fprintf(w, "Financials:   %d (rows %d, unresolved %d, zero total %d)\n",
		len(out.Financials), s.Transactions.Rows, s.Transactions.Unresolved, s.Transactions.ZeroTotal)
	if len(s.Transactions.Categories) > 0 {
		fmt.Fprintf(w, "Categories:   %s\n", strings.Join(s.Transactions.Categories, ", "))
	}
}

func writeRateCoverage(w io.Writer, table *currency.RateTable) {
	dates := table.Dates()
	fmt.Fprintf(w, "Currencies: %s\n", strings.Join(table.Currencies(), ", "))
	fmt.Fprintf(w, "Dates:      %d\n", len(dates))
	if len(dates) == 0 {
		return
	}
	fmt.Fprintf(w, "First:      %s\n", dates[0])
	fmt.Fprintf(w, "Last:       %s\n", dates[len(dates)-1])
}
