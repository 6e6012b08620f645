package marketdata

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Standard lookback periods accepted by providers.
const (
	PeriodDay      = "1d"
	PeriodSixMonth = "6mo"
	PeriodYear     = "1y"
)

// ErrNoData reports that a provider has no series at all for a symbol.
// A short series is returned as data, not as this error.
var ErrNoData = errors.New("no data for symbol")

// Bar is one trading day of a price series.
type Bar struct {
	Date   time.Time
	Close  float64
	Volume float64
}

// Meta is static instrument metadata used by the scanner pre-filter.
type Meta struct {
	Name      string
	Sector    string
	MarketCap float64
	AvgVolume float64
}

// Provider supplies historical price series and instrument metadata.
type Provider interface {
	// Fetch returns the time-ordered series for symbol over period,
	// or ErrNoData when the symbol has no history.
	Fetch(ctx context.Context, symbol, period string) (Series, error)
	// FetchMeta returns static metadata for symbol.
	FetchMeta(ctx context.Context, symbol string) (Meta, error)
}

// BatchFetch downloads series for many symbols with a bounded number of
// workers. Symbols that fail are absent from the result; partial results
// are expected and tolerated by callers.
func BatchFetch(ctx context.Context, p Provider, symbols []string, period string, workers int) map[string]Series {
	if workers <= 0 {
		workers = 10
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		sem     = make(chan struct{}, workers)
		results = make(map[string]Series, len(symbols))
	)

	for _, symbol := range symbols {
		wg.Add(1)
		sem <- struct{}{}

		go func(sym string) {
			defer wg.Done()
			defer func() { <-sem }()

			series, err := p.Fetch(ctx, sym, period)
			if err != nil {
				return
			}

			mu.Lock()
			results[sym] = series
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return results
}
