package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mwessel/papertrader/internal/advisor"
	"github.com/mwessel/papertrader/internal/ai"
	"github.com/mwessel/papertrader/internal/analyst"
	"github.com/mwessel/papertrader/internal/benchmark"
	"github.com/mwessel/papertrader/internal/captain"
	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/history"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
	"github.com/mwessel/papertrader/internal/news"
	"github.com/mwessel/papertrader/internal/notify"
	"github.com/mwessel/papertrader/internal/report"
	"github.com/mwessel/papertrader/internal/risk"
	"github.com/mwessel/papertrader/internal/scanner"
	"github.com/mwessel/papertrader/internal/strategy"
	"github.com/mwessel/papertrader/internal/universe"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	once := flag.Bool("once", false, "run a single session and exit")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	log.Info("starting papertrader", "universe", cfg.Universe.Mode, "interval", cfg.Trading.Interval)

	db, err := history.NewDatabase(cfg.Data.HistoryDB)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}
	repo := history.NewRepository(db)

	provider := marketdata.NewYahooProvider(log)

	book, err := ledger.NewBook(cfg.Data.PortfolioFile, cfg.Data.TradeLogFile, cfg.Risk.InitialCash, provider, log)
	if err != nil {
		log.Error("ledger init failed", "error", err)
		os.Exit(1)
	}

	bench, err := benchmark.NewTracker(cfg.Data.BenchmarkFile, cfg.Bench.Ticker, cfg.Risk.InitialCash, provider, log)
	if err != nil {
		log.Error("benchmark init failed", "error", err)
		os.Exit(1)
	}

	var aiClient ai.Client
	if cfg.AI.Enabled {
		aiClient = ai.NewOpenAIClient(cfg, log)
		log.Info("AI strategy enabled", "model", cfg.AI.Model)
	} else {
		log.Info("AI disabled, using rule-based trend strategy")
	}

	var newsProvider news.Provider
	if cfg.News.Enabled {
		newsProvider = news.NewClient(cfg.News.APIKey, log)
	}

	u := universe.Load(cfg.Universe.Mode, cfg.Universe.EnableCrypto, cfg.Universe.Custom)
	log.Info("universe loaded", "stocks", len(u.Stocks), "crypto", len(u.Crypto))

	var strategies []strategy.Strategy
	if aiClient != nil {
		strategies = append(strategies, strategy.NewAIStrategy(aiClient, newsProvider, log))
	} else {
		strategies = append(strategies, strategy.NewTrendStrategy(log))
	}

	notifier := notify.NewNotifier(cfg, log)

	cpt := captain.New(
		book,
		scanner.New(cfg.Scanner, u, provider, log),
		analyst.New(provider, aiClient, log),
		strategies,
		risk.New(cfg),
		advisor.New(bench, aiClient, log),
		report.New(book, bench, aiClient, log),
		repo,
		notifier,
		os.Stdout,
		log,
		cfg.Interval(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		if err := cpt.RunSession(ctx); err != nil {
			log.Error("session failed", "error", err)
			os.Exit(1)
		}
		return
	}

	go cpt.RunLoop(ctx)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", "signal", sig.String())

	cancel()
	log.Info("papertrader stopped")
}

// loadConfig falls back to defaults when no config file exists, so a
// fresh checkout runs out of the box.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config.Default(), nil
	}
	return config.Load(path)
}
