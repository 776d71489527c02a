package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. ETL_OUTPUT_PATH.
const EnvPrefix = "ETL"

// Load reads settings from path, or from ./config.yaml when path is empty,
// then applies .env and environment overrides on top of the defaults.
// A missing default config.yaml is not an error; a missing explicit path is.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("Load: reading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("Load: reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("Load: decoding config: %w", err)
	}
	if len(cfg.Input.ExchangeRates) == 0 {
		cfg.Input.ExchangeRates = DefaultExchangeRates()
	}
	if len(cfg.Transform.Categories) == 0 {
		cfg.Transform.Categories = DefaultCategories()
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, def Config) {
	v.SetDefault("input.membership", def.Input.Membership)
	v.SetDefault("input.logs", def.Input.Logs)
	v.SetDefault("input.transactions_sql", def.Input.TransactionsSQL)
	v.SetDefault("input.transactions_db", def.Input.TransactionsDB)

	v.SetDefault("transform.reference_currency", def.Transform.ReferenceCurrency)
	v.SetDefault("transform.window_start", def.Transform.WindowStart)
	v.SetDefault("transform.window_end", def.Transform.WindowEnd)

	v.SetDefault("output.path", def.Output.Path)
	v.SetDefault("output.gcs_bucket", "")
	v.SetDefault("output.gcs_object", "")
	v.SetDefault("output.bigquery.project", "")
	v.SetDefault("output.bigquery.dataset", "")
	v.SetDefault("output.bigquery.table", "")

	v.SetDefault("gcp.credentials_file", "")
	v.SetDefault("log.level", def.Log.Level)
}
