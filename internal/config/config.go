// Package config loads run settings from config.yaml, .env files and
// ETL_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvloznov/membership-analytics/internal/domain"
	"github.com/dvloznov/membership-analytics/internal/extract"
	"github.com/dvloznov/membership-analytics/internal/load"
	"github.com/dvloznov/membership-analytics/internal/transform"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

const (
	DefaultMembershipPath      = "./raw_data/Membership.csv"
	DefaultLogsPath            = "./raw_data/Membership_log.json"
	DefaultTransactionsSQLPath = "./raw_data/membership_transactions.sql"
	DefaultTransactionsDBPath  = "./raw_data/transactionsDB.db"
	DefaultReferenceCurrency   = "USD"
	DefaultWindowStart         = "2019-01-01"
	DefaultWindowEnd           = "2023-01-01"
	DefaultLogLevel            = "info"

	dateLayout = "2006-01-02"
)

// Config is the full set of run settings.
type Config struct {
	Input     InputConfig     `mapstructure:"input"`
	Transform TransformConfig `mapstructure:"transform"`
	Output    OutputConfig    `mapstructure:"output"`
	GCP       GCPConfig       `mapstructure:"gcp"`
	Log       LogConfig       `mapstructure:"log"`
}

type InputConfig struct {
	Membership      string            `mapstructure:"membership"`
	Logs            string            `mapstructure:"logs"`
	TransactionsSQL string            `mapstructure:"transactions_sql"`
	TransactionsDB  string            `mapstructure:"transactions_db"`
	ExchangeRates   map[string]string `mapstructure:"exchange_rates"`
}

type TransformConfig struct {
	ReferenceCurrency string            `mapstructure:"reference_currency"`
	WindowStart       string            `mapstructure:"window_start"`
	WindowEnd         string            `mapstructure:"window_end"`
	Categories        map[string]string `mapstructure:"categories"`
}

type OutputConfig struct {
	Path      string         `mapstructure:"path"`
	GCSBucket string         `mapstructure:"gcs_bucket"`
	GCSObject string         `mapstructure:"gcs_object"`
	BigQuery  BigQueryConfig `mapstructure:"bigquery"`
}

type BigQueryConfig struct {
	Project string `mapstructure:"project"`
	Dataset string `mapstructure:"dataset"`
	Table   string `mapstructure:"table"`
}

// Enabled reports whether a BigQuery sink is configured.
func (b BigQueryConfig) Enabled() bool {
	return b.Project != "" && b.Dataset != ""
}

// GCPConfig holds client settings shared by Cloud Storage and BigQuery.
// An empty CredentialsFile means Application Default Credentials.
type GCPConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DefaultExchangeRates returns the bundled historical quote exports.
func DefaultExchangeRates() map[string]string {
	return map[string]string{
		"DKK": "./raw_data/exchange_rate/DKK_USD Historical Data.csv",
		"EUR": "./raw_data/exchange_rate/EUR_USD Historical Data.csv",
		"GBP": "./raw_data/exchange_rate/GBP_USD Historical Data.csv",
	}
}

// DefaultCategories maps each report slot to the transaction label feeding it.
func DefaultCategories() map[string]string {
	return map[string]string{
		domain.CategoryMembershipPayment.String(): domain.CategoryMembershipPayment.String(),
		domain.CategoryProjectPayment.String():    domain.CategoryProjectPayment.String(),
		domain.CategoryAdditionalService.String(): domain.CategoryAdditionalService.String(),
	}
}

// DefaultConfig returns settings matching the bundled raw_data layout.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Membership:      DefaultMembershipPath,
			Logs:            DefaultLogsPath,
			TransactionsSQL: DefaultTransactionsSQLPath,
			TransactionsDB:  DefaultTransactionsDBPath,
			ExchangeRates:   DefaultExchangeRates(),
		},
		Transform: TransformConfig{
			ReferenceCurrency: DefaultReferenceCurrency,
			WindowStart:       DefaultWindowStart,
			WindowEnd:         DefaultWindowEnd,
			Categories:        DefaultCategories(),
		},
		Output: OutputConfig{
			Path: load.DefaultOutputPath,
		},
		Log: LogConfig{Level: DefaultLogLevel},
	}
}

// Validate checks the settings a run cannot start without.
func (c Config) Validate() error {
	if _, err := c.Window(); err != nil {
		return err
	}
	ref := strings.TrimSpace(c.Transform.ReferenceCurrency)
	if len(ref) != 3 {
		return fmt.Errorf("%w: reference currency %q is not a 3-letter code", ErrInvalidConfig, ref)
	}
	if c.Input.Membership == "" || c.Input.Logs == "" || c.Input.TransactionsDB == "" {
		return fmt.Errorf("%w: membership, logs and transactions_db inputs are required", ErrInvalidConfig)
	}
	if _, unknown := domain.NewCategoryMap(c.Transform.Categories); len(unknown) > 0 {
		return fmt.Errorf("%w: unknown category slots %v", ErrInvalidConfig, unknown)
	}
	if c.Output.BigQuery.Project != "" && c.Output.BigQuery.Dataset == "" {
		return fmt.Errorf("%w: output.bigquery.dataset is required when a project is set", ErrInvalidConfig)
	}
	return nil
}

// Window parses the configured reporting window.
func (c Config) Window() (domain.Window, error) {
	start, err := time.Parse(dateLayout, c.Transform.WindowStart)
	if err != nil {
		return domain.Window{}, fmt.Errorf("%w: window_start: %v", ErrInvalidConfig, err)
	}
	end, err := time.Parse(dateLayout, c.Transform.WindowEnd)
	if err != nil {
		return domain.Window{}, fmt.Errorf("%w: window_end: %v", ErrInvalidConfig, err)
	}
	w, err := domain.NewWindow(start, end)
	if err != nil {
		return domain.Window{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return w, nil
}

// TransformRules converts the settings into transform rules.
func (c Config) TransformRules() (transform.Config, error) {
	w, err := c.Window()
	if err != nil {
		return transform.Config{}, err
	}
	categories, _ := domain.NewCategoryMap(c.Transform.Categories)
	return transform.Config{
		ReferenceCurrency: strings.ToUpper(strings.TrimSpace(c.Transform.ReferenceCurrency)),
		Window:            w,
		Categories:        categories,
	}, nil
}

// Sources returns the extraction inputs.
func (c Config) Sources() extract.Sources {
	rates := make(map[string]string, len(c.Input.ExchangeRates))
	for code, path := range c.Input.ExchangeRates {
		rates[strings.ToUpper(code)] = path
	}
	return extract.Sources{
		Membership:      c.Input.Membership,
		Logs:            c.Input.Logs,
		TransactionsSQL: c.Input.TransactionsSQL,
		TransactionsDB:  c.Input.TransactionsDB,
		ExchangeRates:   rates,
	}
}
