// Package scanner screens the symbol universe and ranks trade candidates.
package scanner

import (
	"context"
	"sort"

	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
	"github.com/mwessel/papertrader/internal/universe"
)

// preFilterLimit skips the metadata pre-filter on large universes.
const preFilterLimit = 50

// batchThreshold switches the technical screen to batched fetching.
const batchThreshold = 20

const batchWorkers = 10

// Candidate is one ranked scan result, consumed within the same run.
type Candidate struct {
	Symbol      string
	AssetType   string
	Price       float64
	SMA20       float64
	SMA50       float64
	Momentum    float64
	VolumeRatio float64
	Score       float64
	Reason      string
}

// Stats summarizes what one scan rejected and why.
type Stats struct {
	Scanned          int
	InsufficientData int
	CriteriaFail     int
	Errors           int
}

type Scanner struct {
	cfg      config.ScannerConfig
	universe universe.Universe
	provider marketdata.Provider
	logger   *logger.Logger
}

func New(cfg config.ScannerConfig, u universe.Universe, provider marketdata.Provider, log *logger.Logger) *Scanner {
	return &Scanner{cfg: cfg, universe: u, provider: provider, logger: log}
}

// Run screens the universe in three stages: metadata pre-filter,
// technical screen, rank. Per-symbol failures are counted, never fatal.
func (s *Scanner) Run(ctx context.Context) ([]Candidate, Stats) {
	stocks := s.preFilter(ctx, s.universe.Stocks)
	symbols := append(append([]string{}, stocks...), s.universe.Crypto...)

	stats := Stats{Scanned: len(symbols)}
	series := s.fetchSeries(ctx, symbols)

	var accepted []Candidate
	for _, symbol := range symbols {
		ser, ok := series[symbol]
		if !ok {
			stats.InsufficientData++
			continue
		}
		cand, reason := s.screen(symbol, ser)
		switch reason {
		case "":
			accepted = append(accepted, cand)
		case "insufficient_data":
			stats.InsufficientData++
		case "criteria_fail":
			stats.CriteriaFail++
		default:
			stats.Errors++
		}
	}

	// Ties keep scan order.
	sort.SliceStable(accepted, func(i, j int) bool {
		return accepted[i].Score > accepted[j].Score
	})
	if s.cfg.TopCandidates > 0 && len(accepted) > s.cfg.TopCandidates {
		accepted = accepted[:s.cfg.TopCandidates]
	}

	s.logger.Info("scan complete",
		"scanned", stats.Scanned,
		"candidates", len(accepted),
		"insufficient_data", stats.InsufficientData,
		"criteria_fail", stats.CriteriaFail,
		"errors", stats.Errors)
	return accepted, stats
}

// preFilter keeps stocks meeting the market-cap and volume floors. It is
// a cost-control stage: disabled thresholds or an oversized universe pass
// the list through unchanged.
func (s *Scanner) preFilter(ctx context.Context, stocks []string) []string {
	if s.cfg.MinMarketCap == 0 && s.cfg.MinAvgVolume == 0 {
		return stocks
	}
	if len(stocks) > preFilterLimit {
		s.logger.Info("universe too large for metadata pre-filter, skipping", "size", len(stocks))
		return stocks
	}

	kept := make([]string, 0, len(stocks))
	for _, symbol := range stocks {
		meta, err := s.provider.FetchMeta(ctx, symbol)
		if err != nil {
			continue
		}
		if meta.MarketCap >= s.cfg.MinMarketCap && meta.AvgVolume >= s.cfg.MinAvgVolume {
			kept = append(kept, symbol)
		}
	}
	return kept
}

func (s *Scanner) fetchSeries(ctx context.Context, symbols []string) map[string]marketdata.Series {
	if len(symbols) > batchThreshold {
		return marketdata.BatchFetch(ctx, s.provider, symbols, marketdata.PeriodSixMonth, batchWorkers)
	}

	out := make(map[string]marketdata.Series, len(symbols))
	for _, symbol := range symbols {
		ser, err := s.provider.Fetch(ctx, symbol, marketdata.PeriodSixMonth)
		if err != nil {
			continue
		}
		out[symbol] = ser
	}
	return out
}

// screen applies the per-class acceptance rule. An empty reason means
// the candidate was accepted.
func (s *Scanner) screen(symbol string, ser marketdata.Series) (cand Candidate, reason string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic screening symbol", "symbol", symbol, "panic", r)
			cand, reason = Candidate{}, "error"
		}
	}()

	if ser.Days() < 50 {
		return Candidate{}, "insufficient_data"
	}

	price := ser.Last()
	sma50, _ := ser.SMA(50)
	sma20, _ := ser.SMA(20)
	momentum, _ := ser.Momentum(20)
	volumeRatio := ser.VolumeRatio(5, 20)

	cand = Candidate{
		Symbol:      symbol,
		AssetType:   universe.AssetType(symbol),
		Price:       price,
		SMA20:       sma20,
		SMA50:       sma50,
		Momentum:    momentum,
		VolumeRatio: volumeRatio,
	}

	if cand.AssetType == "crypto" {
		if momentum > 0.05 && volumeRatio > 1.0 {
			cand.Score = momentum*2 + volumeRatio
			cand.Reason = "Strong momentum with rising volume"
			return cand, ""
		}
		return Candidate{}, "criteria_fail"
	}

	if price > sma50 || momentum > 0.03 {
		cand.Score = (price/sma50 - 1) + momentum
		cand.Reason = "Price above 50-day average or positive momentum"
		return cand, ""
	}
	return Candidate{}, "criteria_fail"
}
