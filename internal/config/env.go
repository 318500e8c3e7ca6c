package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override file settings.
const (
	EnvLogLevel        = "ENGINE_LOG_LEVEL"
	EnvMetricsAddr     = "ENGINE_METRICS_ADDR"
	EnvMarketProvider  = "MARKET_PROVIDER"
	EnvMarketSymbol    = "MARKET_SYMBOL"
	EnvCoinGeckoURL    = "COINGECKO_BASE_URL"
	EnvJournalSQLite   = "JOURNAL_SQLITE_PATH"
	EnvExecFailureRate = "EXECUTION_FAILURE_RATE"
)

// LoadDotEnv reads .env files into the process environment. Missing files are ignored and
// variables already set win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...) // best-effort
}

// ApplyEnv overlays environment overrides onto cfg.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv(EnvMetricsAddr); v != "" {
		c.App.MetricsAddr = v
	}
	if v := os.Getenv(EnvMarketProvider); v != "" {
		c.Market.Provider = v
	}
	if v := os.Getenv(EnvMarketSymbol); v != "" {
		c.Market.Symbol = v
	}
	if v := os.Getenv(EnvCoinGeckoURL); v != "" && (c.Market.Provider == "" || c.Market.Provider == "coingecko") {
		c.Market.BaseURL = v
	}
	if v := os.Getenv(EnvJournalSQLite); v != "" {
		c.Journal.SQLitePath = v
	}
	if v := os.Getenv(EnvExecFailureRate); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.Execution.FailureRate = f
		}
	}
}
