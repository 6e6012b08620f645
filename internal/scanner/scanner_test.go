package scanner

import (
	"context"
	"testing"
	"time"

	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
	"github.com/mwessel/papertrader/internal/universe"
)

type fakeProvider struct {
	series map[string]marketdata.Series
	meta   map[string]marketdata.Meta
}

func (f *fakeProvider) Fetch(_ context.Context, symbol, _ string) (marketdata.Series, error) {
	ser, ok := f.series[symbol]
	if !ok {
		return nil, marketdata.ErrNoData
	}
	return ser, nil
}

func (f *fakeProvider) FetchMeta(_ context.Context, symbol string) (marketdata.Meta, error) {
	m, ok := f.meta[symbol]
	if !ok {
		return marketdata.Meta{}, marketdata.ErrNoData
	}
	return m, nil
}

// flatSeries builds n days at a constant price and volume.
func flatSeries(n int, price, volume float64) marketdata.Series {
	ser := make(marketdata.Series, n)
	day := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range ser {
		ser[i] = marketdata.Bar{Date: day.AddDate(0, 0, i), Close: price, Volume: volume}
	}
	return ser
}

// trendingSeries ends at endPrice after n flat days at startPrice, with the
// last 20 bars stepping linearly so momentum is controlled.
func trendingSeries(n int, startPrice, endPrice, volume float64) marketdata.Series {
	ser := flatSeries(n, startPrice, volume)
	step := (endPrice - startPrice) / 19
	for i := 0; i < 20; i++ {
		ser[n-20+i].Close = startPrice + step*float64(i)
	}
	return ser
}

// risingVolume bumps the last 5 bars' volume.
func risingVolume(ser marketdata.Series, factor float64) marketdata.Series {
	for i := len(ser) - 5; i < len(ser); i++ {
		ser[i].Volume *= factor
	}
	return ser
}

func newScanner(u universe.Universe, p marketdata.Provider, cfg config.ScannerConfig) *Scanner {
	return New(cfg, u, p, logger.New("error"))
}

func TestInsufficientDataRejected(t *testing.T) {
	p := &fakeProvider{series: map[string]marketdata.Series{
		"AAPL": flatSeries(30, 100, 1e6),
	}}
	s := newScanner(universe.Universe{Stocks: []string{"AAPL", "MSFT"}}, p, config.ScannerConfig{TopCandidates: 10})

	cands, stats := s.Run(context.Background())
	if len(cands) != 0 {
		t.Fatalf("expected no candidates, got %d", len(cands))
	}
	// AAPL has too few closes, MSFT has no series at all.
	if stats.InsufficientData != 2 {
		t.Errorf("insufficient_data = %d, want 2", stats.InsufficientData)
	}
}

func TestStockAcceptanceRules(t *testing.T) {
	p := &fakeProvider{series: map[string]marketdata.Series{
		"UP":   trendingSeries(120, 100, 120, 1e6), // above sma50 and positive momentum
		"FLAT": flatSeries(120, 100, 1e6),          // price == sma50, momentum 0
		"DOWN": trendingSeries(120, 100, 80, 1e6),  // below sma50, negative momentum
	}}
	s := newScanner(universe.Universe{Stocks: []string{"UP", "FLAT", "DOWN"}}, p, config.ScannerConfig{TopCandidates: 10})

	cands, stats := s.Run(context.Background())
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Symbol != "UP" {
		t.Errorf("candidate = %s, want UP", cands[0].Symbol)
	}
	if cands[0].Score <= 0 {
		t.Errorf("score = %v, want positive", cands[0].Score)
	}
	if stats.CriteriaFail != 2 {
		t.Errorf("criteria_fail = %d, want 2", stats.CriteriaFail)
	}
}

func TestCryptoNeedsMomentumAndVolume(t *testing.T) {
	p := &fakeProvider{series: map[string]marketdata.Series{
		// 20% momentum with rising volume passes.
		"BTC-USD": risingVolume(trendingSeries(120, 100, 120, 1e6), 3),
		// Momentum alone is not enough for crypto.
		"ETH-USD": trendingSeries(120, 100, 120, 1e6),
		// Volume alone is not enough either.
		"SOL-USD": risingVolume(flatSeries(120, 100, 1e6), 3),
	}}
	s := newScanner(universe.Universe{Crypto: []string{"BTC-USD", "ETH-USD", "SOL-USD"}}, p, config.ScannerConfig{TopCandidates: 10})

	cands, stats := s.Run(context.Background())
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}
	if cands[0].Symbol != "BTC-USD" {
		t.Errorf("candidate = %s, want BTC-USD", cands[0].Symbol)
	}
	if cands[0].AssetType != "crypto" {
		t.Errorf("asset type = %s, want crypto", cands[0].AssetType)
	}
	if stats.CriteriaFail != 2 {
		t.Errorf("criteria_fail = %d, want 2", stats.CriteriaFail)
	}
}

func TestRankingAndTruncation(t *testing.T) {
	p := &fakeProvider{series: map[string]marketdata.Series{
		"A": trendingSeries(120, 100, 105, 1e6),
		"B": trendingSeries(120, 100, 130, 1e6),
		"C": trendingSeries(120, 100, 115, 1e6),
	}}
	s := newScanner(universe.Universe{Stocks: []string{"A", "B", "C"}}, p, config.ScannerConfig{TopCandidates: 2})

	cands, _ := s.Run(context.Background())
	if len(cands) != 2 {
		t.Fatalf("expected truncation to 2, got %d", len(cands))
	}
	if cands[0].Symbol != "B" || cands[1].Symbol != "C" {
		t.Errorf("order = %s, %s; want B, C", cands[0].Symbol, cands[1].Symbol)
	}
	if cands[0].Score < cands[1].Score {
		t.Error("candidates must be sorted by score descending")
	}
}

func TestPreFilterByMetadata(t *testing.T) {
	series := map[string]marketdata.Series{
		"BIG":   trendingSeries(120, 100, 120, 1e6),
		"SMALL": trendingSeries(120, 100, 120, 1e6),
	}
	p := &fakeProvider{
		series: series,
		meta: map[string]marketdata.Meta{
			"BIG":   {MarketCap: 5e10, AvgVolume: 2e6},
			"SMALL": {MarketCap: 1e8, AvgVolume: 2e6},
		},
	}
	s := newScanner(universe.Universe{Stocks: []string{"BIG", "SMALL"}}, p,
		config.ScannerConfig{MinMarketCap: 1e9, MinAvgVolume: 1e6, TopCandidates: 10})

	cands, _ := s.Run(context.Background())
	if len(cands) != 1 || cands[0].Symbol != "BIG" {
		t.Fatalf("expected only BIG to survive the pre-filter, got %v", cands)
	}
}

func TestPreFilterSkippedWhenThresholdsZero(t *testing.T) {
	p := &fakeProvider{series: map[string]marketdata.Series{
		"NOMETA": trendingSeries(120, 100, 120, 1e6),
	}}
	// No metadata exists; with zero thresholds the pre-filter must not run.
	s := newScanner(universe.Universe{Stocks: []string{"NOMETA"}}, p, config.ScannerConfig{TopCandidates: 10})

	cands, _ := s.Run(context.Background())
	if len(cands) != 1 {
		t.Fatalf("expected pass-through scan, got %d candidates", len(cands))
	}
}

func TestPreFilterSkippedOnLargeUniverse(t *testing.T) {
	symbols := make([]string, 60)
	series := make(map[string]marketdata.Series, 60)
	for i := range symbols {
		symbols[i] = "S" + string(rune('A'+i/26)) + string(rune('A'+i%26))
		series[symbols[i]] = trendingSeries(120, 100, 120, 1e6)
	}
	p := &fakeProvider{series: series}
	s := newScanner(universe.Universe{Stocks: symbols}, p,
		config.ScannerConfig{MinMarketCap: 1e9, TopCandidates: 100})

	// No metadata is available, so a running pre-filter would reject all.
	cands, _ := s.Run(context.Background())
	if len(cands) != 60 {
		t.Fatalf("expected 60 candidates with pre-filter skipped, got %d", len(cands))
	}
}
