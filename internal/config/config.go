package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Data     DataConfig     `yaml:"data"`
	Universe UniverseConfig `yaml:"universe"`
	Scanner  ScannerConfig  `yaml:"scanner"`
	Risk     RiskConfig     `yaml:"risk"`
	Trading  TradingConfig  `yaml:"trading"`
	Bench    BenchConfig    `yaml:"benchmark"`
	AI       AIConfig       `yaml:"ai"`
	News     NewsConfig     `yaml:"news"`
	Notify   NotifyConfig   `yaml:"notify"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type DataConfig struct {
	Dir           string `yaml:"dir"`
	PortfolioFile string `yaml:"portfolio_file"`
	TradeLogFile  string `yaml:"trade_log_file"`
	BenchmarkFile string `yaml:"benchmark_file"`
	HistoryDB     string `yaml:"history_db"`
}

type UniverseConfig struct {
	Mode         string   `yaml:"mode"` // all, sp500, nasdaq100, us_stocks, europe, crypto, custom
	Custom       []string `yaml:"custom"`
	EnableCrypto bool     `yaml:"enable_crypto"`
}

type ScannerConfig struct {
	MinMarketCap  float64 `yaml:"min_market_cap"`
	MinAvgVolume  float64 `yaml:"min_avg_volume"`
	TopCandidates int     `yaml:"top_candidates"`
}

type RiskConfig struct {
	InitialCash            float64 `yaml:"initial_cash"`
	MaxTradesPerDay        int     `yaml:"max_trades_per_day"`
	MaxPositionPct         float64 `yaml:"max_position_pct"`
	MaxCryptoPositionPct   float64 `yaml:"max_crypto_position_pct"`
	MaxCryptoAllocationPct float64 `yaml:"max_crypto_allocation_pct"`
}

type TradingConfig struct {
	Interval string `yaml:"interval"`
}

type BenchConfig struct {
	Ticker string `yaml:"ticker"`
}

type AIConfig struct {
	Enabled        bool   `yaml:"enabled"`
	APIKey         string `yaml:"api_key"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

type NewsConfig struct {
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
}

type NotifyConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Default returns a config with all defaults applied and no file loaded.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Data.Dir == "" {
		cfg.Data.Dir = "data"
	}
	if cfg.Data.PortfolioFile == "" {
		cfg.Data.PortfolioFile = filepath.Join(cfg.Data.Dir, "portfolio.json")
	}
	if cfg.Data.TradeLogFile == "" {
		cfg.Data.TradeLogFile = filepath.Join(cfg.Data.Dir, "trade_log.csv")
	}
	if cfg.Data.BenchmarkFile == "" {
		cfg.Data.BenchmarkFile = filepath.Join(cfg.Data.Dir, "benchmark.json")
	}
	if cfg.Data.HistoryDB == "" {
		cfg.Data.HistoryDB = filepath.Join(cfg.Data.Dir, "history.db")
	}
	if cfg.Universe.Mode == "" {
		cfg.Universe.Mode = "us_stocks"
	}
	if cfg.Scanner.MinMarketCap == 0 {
		cfg.Scanner.MinMarketCap = 1e9
	}
	if cfg.Scanner.MinAvgVolume == 0 {
		cfg.Scanner.MinAvgVolume = 1e5
	}
	if cfg.Scanner.TopCandidates == 0 {
		cfg.Scanner.TopCandidates = 30
	}
	if cfg.Risk.InitialCash == 0 {
		cfg.Risk.InitialCash = 10000
	}
	if cfg.Risk.MaxTradesPerDay == 0 {
		cfg.Risk.MaxTradesPerDay = 5
	}
	if cfg.Risk.MaxPositionPct == 0 {
		cfg.Risk.MaxPositionPct = 0.05
	}
	if cfg.Risk.MaxCryptoPositionPct == 0 {
		cfg.Risk.MaxCryptoPositionPct = 0.03
	}
	if cfg.Risk.MaxCryptoAllocationPct == 0 {
		cfg.Risk.MaxCryptoAllocationPct = 0.20
	}
	if cfg.Trading.Interval == "" {
		cfg.Trading.Interval = "24h"
	}
	if cfg.Bench.Ticker == "" {
		cfg.Bench.Ticker = "URTH"
	}
	if cfg.AI.Model == "" {
		cfg.AI.Model = "gpt-4o-mini"
	}
	if cfg.AI.TimeoutSeconds == 0 {
		cfg.AI.TimeoutSeconds = 60
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Trading.Interval); err != nil {
		return fmt.Errorf("invalid trading.interval %q: %w", c.Trading.Interval, err)
	}
	if c.Risk.InitialCash <= 0 {
		return fmt.Errorf("risk.initial_cash must be positive")
	}
	for name, pct := range map[string]float64{
		"risk.max_position_pct":          c.Risk.MaxPositionPct,
		"risk.max_crypto_position_pct":   c.Risk.MaxCryptoPositionPct,
		"risk.max_crypto_allocation_pct": c.Risk.MaxCryptoAllocationPct,
	} {
		if pct <= 0 || pct > 1 {
			return fmt.Errorf("%s must be in (0, 1]", name)
		}
	}
	if c.Universe.Mode == "custom" && len(c.Universe.Custom) == 0 {
		return fmt.Errorf("universe.custom is required when universe.mode is custom")
	}
	if c.AI.Enabled && c.AI.APIKey == "" {
		return fmt.Errorf("ai.api_key is required when ai is enabled")
	}
	if c.News.Enabled && c.News.APIKey == "" {
		return fmt.Errorf("news.api_key is required when news is enabled")
	}
	if c.Notify.Enabled {
		if c.Notify.BotToken == "" {
			return fmt.Errorf("notify.bot_token is required when notify is enabled")
		}
		if c.Notify.ChatID == 0 {
			return fmt.Errorf("notify.chat_id is required when notify is enabled")
		}
	}
	return nil
}

func (c *Config) Interval() time.Duration {
	d, _ := time.ParseDuration(c.Trading.Interval)
	return d
}

func (c *Config) AITimeout() time.Duration {
	return time.Duration(c.AI.TimeoutSeconds) * time.Second
}
