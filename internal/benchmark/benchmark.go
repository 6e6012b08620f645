// Package benchmark tracks portfolio performance against a reference
// index from a fixed starting point.
package benchmark

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
)

// maxHistory caps the snapshot history; oldest entries are dropped first.
const maxHistory = 100

const fallbackStartPrice = 100.0

type state struct {
	Ticker            string     `json:"ticker"`
	StartDate         string     `json:"start_date"`
	StartPrice        float64    `json:"start_price"`
	InitialInvestment float64    `json:"initial_investment"`
	History           []Snapshot `json:"history"`
}

// Snapshot is one logged portfolio-vs-benchmark observation.
type Snapshot struct {
	Date            string  `json:"date"`
	PortfolioValue  float64 `json:"portfolio_value"`
	PortfolioReturn float64 `json:"portfolio_return"`
	BenchmarkValue  float64 `json:"benchmark_value"`
	BenchmarkReturn float64 `json:"benchmark_return"`
	Alpha           float64 `json:"alpha"`
}

// Performance is the benchmark's standing since the reference point.
type Performance struct {
	Ticker            string
	StartDate         string
	StartPrice        float64
	CurrentPrice      float64
	ReturnPct         float64
	InitialInvestment float64
	CurrentValue      float64
	ProfitLoss        float64
}

// Comparison relates portfolio return to benchmark return.
type Comparison struct {
	PortfolioReturn     float64
	BenchmarkReturn     float64
	Alpha               float64
	Outperforming       bool // strict: alpha > 0
	BenchmarkValue      float64
	BenchmarkProfitLoss float64
}

type Tracker struct {
	path     string
	ticker   string
	initial  float64
	provider marketdata.Provider
	logger   *logger.Logger
	now      func() time.Time
}

// NewTracker opens the benchmark state file, fixing the reference price on
// first use. When the initial price fetch fails a fallback constant is
// recorded rather than failing the run.
func NewTracker(path, ticker string, initialInvestment float64, provider marketdata.Provider, log *logger.Logger) (*Tracker, error) {
	t := &Tracker{
		path:     path,
		ticker:   ticker,
		initial:  initialInvestment,
		provider: provider,
		logger:   log,
		now:      time.Now,
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		startPrice := fallbackStartPrice
		if series, err := provider.Fetch(context.Background(), ticker, marketdata.PeriodDay); err == nil && series.Last() > 0 {
			startPrice = series.Last()
		} else {
			log.Info("benchmark start price unavailable, using fallback", "ticker", ticker)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		initial := &state{
			Ticker:            ticker,
			StartDate:         t.now().Format("2006-01-02"),
			StartPrice:        startPrice,
			InitialInvestment: initialInvestment,
		}
		if err := t.save(initial); err != nil {
			return nil, fmt.Errorf("initialize benchmark: %w", err)
		}
	} else if _, err := t.load(); err != nil {
		return nil, err
	}

	return t, nil
}

// Performance fetches the current benchmark price and derives returns
// since the reference point. Returns nil when no price is available.
func (t *Tracker) Performance(ctx context.Context) *Performance {
	st, err := t.load()
	if err != nil {
		t.logger.Error("load benchmark state", "error", err)
		return nil
	}

	series, err := t.provider.Fetch(ctx, t.ticker, marketdata.PeriodDay)
	if err != nil || series.Last() == 0 {
		return nil
	}
	current := series.Last()

	returnPct := (current - st.StartPrice) / st.StartPrice * 100
	currentValue := st.InitialInvestment * (1 + returnPct/100)

	return &Performance{
		Ticker:            st.Ticker,
		StartDate:         st.StartDate,
		StartPrice:        st.StartPrice,
		CurrentPrice:      current,
		ReturnPct:         returnPct,
		InitialInvestment: st.InitialInvestment,
		CurrentValue:      currentValue,
		ProfitLoss:        currentValue - st.InitialInvestment,
	}
}

// Compare relates a portfolio return to the benchmark. Nil when the
// benchmark is unavailable.
func (t *Tracker) Compare(ctx context.Context, portfolioReturnPct float64) *Comparison {
	perf := t.Performance(ctx)
	if perf == nil {
		return nil
	}

	alpha := portfolioReturnPct - perf.ReturnPct
	return &Comparison{
		PortfolioReturn:     portfolioReturnPct,
		BenchmarkReturn:     perf.ReturnPct,
		Alpha:               alpha,
		Outperforming:       alpha > 0,
		BenchmarkValue:      perf.CurrentValue,
		BenchmarkProfitLoss: perf.ProfitLoss,
	}
}

// LogSnapshot appends one history entry, keeping only the most recent
// maxHistory entries.
func (t *Tracker) LogSnapshot(ctx context.Context, portfolioValue, portfolioReturnPct float64) error {
	st, err := t.load()
	if err != nil {
		return err
	}
	perf := t.Performance(ctx)
	if perf == nil {
		return nil
	}

	st.History = append(st.History, Snapshot{
		Date:            t.now().Format("2006-01-02 15:04:05"),
		PortfolioValue:  portfolioValue,
		PortfolioReturn: portfolioReturnPct,
		BenchmarkValue:  perf.CurrentValue,
		BenchmarkReturn: perf.ReturnPct,
		Alpha:           portfolioReturnPct - perf.ReturnPct,
	})
	if len(st.History) > maxHistory {
		st.History = st.History[len(st.History)-maxHistory:]
	}

	return t.save(st)
}

// History returns the logged snapshots, oldest first.
func (t *Tracker) History() []Snapshot {
	st, err := t.load()
	if err != nil {
		return nil
	}
	return st.History
}

func (t *Tracker) load() (*state, error) {
	data, err := os.ReadFile(t.path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark state: %w", err)
	}
	st := &state{}
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("benchmark state corrupt: %w", err)
	}
	return st, nil
}

func (t *Tracker) save(st *state) error {
	data, err := json.MarshalIndent(st, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal benchmark state: %w", err)
	}
	tmp := t.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write benchmark state: %w", err)
	}
	if err := os.Rename(tmp, t.path); err != nil {
		return fmt.Errorf("replace benchmark state: %w", err)
	}
	return nil
}
