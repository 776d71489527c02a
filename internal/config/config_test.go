package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dvloznov/membership-analytics/internal/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Input.Membership != DefaultMembershipPath {
		t.Errorf("Input.Membership = %q, want %q", cfg.Input.Membership, DefaultMembershipPath)
	}
	if cfg.Output.Path != "XYZ_Data_Analysis_2019-2022.csv" {
		t.Errorf("Output.Path = %q", cfg.Output.Path)
	}
	if len(cfg.Input.ExchangeRates) != 3 {
		t.Errorf("ExchangeRates = %v, want DKK/EUR/GBP", cfg.Input.ExchangeRates)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}

	w, err := cfg.Window()
	if err != nil {
		t.Fatalf("Window() error = %v", err)
	}
	if w != domain.DefaultWindow() {
		t.Errorf("Window() = %+v, want default window", w)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "etl.yaml")
	content := `
input:
  membership: gs://raw/Membership.csv
  exchange_rates:
    eur: ./rates/eur.csv
transform:
  window_start: "2020-01-01"
  categories:
    membership_payment: membership fee
output:
  path: out/report.xlsx
  bigquery:
    project: analytics
    dataset: membership
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv("ETL_LOG_LEVEL", "debug")
	t.Setenv("ETL_OUTPUT_GCS_BUCKET", "reports")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"membership from file", cfg.Input.Membership, "gs://raw/Membership.csv"},
		{"logs default", cfg.Input.Logs, DefaultLogsPath},
		{"output path", cfg.Output.Path, "out/report.xlsx"},
		{"log level from env", cfg.Log.Level, "debug"},
		{"bucket from env", cfg.Output.GCSBucket, "reports"},
		{"window end default", cfg.Transform.WindowEnd, DefaultWindowEnd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}

	if !cfg.Output.BigQuery.Enabled() {
		t.Error("BigQuery sink should be enabled")
	}
	if got := cfg.Sources().ExchangeRates["EUR"]; got != "./rates/eur.csv" {
		t.Errorf("Sources().ExchangeRates[EUR] = %q", got)
	}

	rules, err := cfg.TransformRules()
	if err != nil {
		t.Fatalf("TransformRules() error = %v", err)
	}
	if !rules.Window.Start.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Window.Start = %v", rules.Window.Start)
	}
	if rules.Categories.Lookup("membership fee") != domain.CategoryMembershipPayment {
		t.Error("configured label should map to the membership payment slot")
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Chdir(t.TempDir())
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("expected error for a missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"inverted window", func(c *Config) { c.Transform.WindowStart, c.Transform.WindowEnd = "2023-01-01", "2019-01-01" }},
		{"bad date", func(c *Config) { c.Transform.WindowStart = "01/01/2019" }},
		{"bad currency", func(c *Config) { c.Transform.ReferenceCurrency = "US" }},
		{"missing membership", func(c *Config) { c.Input.Membership = "" }},
		{"unknown slot", func(c *Config) { c.Transform.Categories = map[string]string{"refunds": "refund"} }},
		{"bigquery without dataset", func(c *Config) { c.Output.BigQuery.Project = "p" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
			}
		})
	}
}
