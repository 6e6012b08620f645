package captain

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwessel/papertrader/internal/advisor"
	"github.com/mwessel/papertrader/internal/analyst"
	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
	"github.com/mwessel/papertrader/internal/risk"
	"github.com/mwessel/papertrader/internal/scanner"
	"github.com/mwessel/papertrader/internal/strategy"
)

type fakeProvider struct {
	prices map[string]float64
}

func (p *fakeProvider) Fetch(_ context.Context, symbol, _ string) (marketdata.Series, error) {
	price, ok := p.prices[symbol]
	if !ok {
		return nil, marketdata.ErrNoData
	}
	return marketdata.Series{{Date: time.Now(), Close: price, Volume: 1e6}}, nil
}

func (p *fakeProvider) FetchMeta(context.Context, string) (marketdata.Meta, error) {
	return marketdata.Meta{}, nil
}

type fakeScanner struct {
	candidates []scanner.Candidate
	calls      int
}

func (f *fakeScanner) Run(context.Context) ([]scanner.Candidate, scanner.Stats) {
	f.calls++
	return f.candidates, scanner.Stats{Scanned: len(f.candidates)}
}

type fakeAnalyst struct {
	prices map[string]float64
}

func (f *fakeAnalyst) Run(_ context.Context, symbol string) (*analyst.Analysis, error) {
	price, ok := f.prices[symbol]
	if !ok {
		return nil, marketdata.ErrNoData
	}
	return &analyst.Analysis{Symbol: symbol, Days: 250, Price: price, SMA50: price * 0.9, SMA200: price * 0.8}, nil
}

type fakeAdvisor struct {
	guidance advisor.Guidance
}

func (f *fakeAdvisor) Evaluate(context.Context, *ledger.PortfolioState) advisor.Guidance {
	return f.guidance
}

type fakeReporter struct {
	calls int
}

func (f *fakeReporter) Write(context.Context, io.Writer) error {
	f.calls++
	return nil
}

type fixedStrategy struct {
	signals map[string]strategy.Signal
}

func (f *fixedStrategy) Name() string { return "Fixed" }

func (f *fixedStrategy) Evaluate(_ context.Context, symbol string, a *analyst.Analysis, _ *strategy.PortfolioContext) strategy.Signal {
	sig, ok := f.signals[symbol]
	if !ok {
		return strategy.Signal{Symbol: symbol, Action: strategy.ActionHold, Confidence: 0.5, Price: a.Price}
	}
	return sig
}

type fixture struct {
	captain  *Captain
	book     *ledger.Book
	scanner  *fakeScanner
	reporter *fakeReporter
}

func newFixture(t *testing.T, prices map[string]float64, candidates []string, signals map[string]strategy.Signal, guidance advisor.Guidance) *fixture {
	t.Helper()

	dir := t.TempDir()
	provider := &fakeProvider{prices: prices}
	log := logger.New("error")

	book, err := ledger.NewBook(
		filepath.Join(dir, "portfolio.json"),
		filepath.Join(dir, "trades.csv"),
		10000, provider, log)
	if err != nil {
		t.Fatalf("NewBook: %v", err)
	}

	cfg := config.Default()
	cfg.Risk.MaxPositionPct = 0.10

	cands := make([]scanner.Candidate, 0, len(candidates))
	for _, symbol := range candidates {
		cands = append(cands, scanner.Candidate{Symbol: symbol, AssetType: "stock", Price: prices[symbol]})
	}

	scan := &fakeScanner{candidates: cands}
	rep := &fakeReporter{}

	c := New(
		book,
		scan,
		&fakeAnalyst{prices: prices},
		[]strategy.Strategy{&fixedStrategy{signals: signals}},
		risk.New(cfg),
		&fakeAdvisor{guidance: guidance},
		rep,
		nil,
		nil,
		io.Discard,
		log,
		time.Hour,
	)
	return &fixture{captain: c, book: book, scanner: scan, reporter: rep}
}

func TestSessionExecutesBuy(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{"AAPL": 100},
		[]string{"AAPL"},
		map[string]strategy.Signal{
			"AAPL": {Symbol: "AAPL", Action: strategy.ActionBuy, Confidence: 0.8, Price: 100, Reason: "Uptrend"},
		},
		advisor.Guidance{Strategy: advisor.StrategyAggressive, Reason: "Building positions", MaxNewPositions: 5},
	)

	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	state, err := fx.book.State(context.Background())
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	// Position cap is 10% of 10000, so 10 shares at 100.
	if state.Cash != 9000 {
		t.Errorf("cash = %v, want 9000", state.Cash)
	}
	if state.Holdings["AAPL"] != 10 {
		t.Errorf("holdings = %v, want AAPL:10", state.Holdings)
	}
	if s := state.LastSession; s == nil || s.Action != "TRADED" || s.TradeCount != 1 {
		t.Errorf("last session = %+v, want TRADED with 1 trade", s)
	}
	if fx.reporter.calls != 1 {
		t.Errorf("reporter called %d times, want 1", fx.reporter.calls)
	}
}

func TestSessionExecutesSellOfWholePosition(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{"AAPL": 120},
		[]string{"AAPL"},
		map[string]strategy.Signal{
			"AAPL": {Symbol: "AAPL", Action: strategy.ActionSell, Confidence: 0.6, Price: 120, Reason: "Below trend"},
		},
		advisor.Guidance{Strategy: advisor.StrategyAggressive, Reason: "Rotating", MaxNewPositions: 5},
	)

	// Seed an existing position at a lower cost basis.
	if !fx.book.Execute(context.Background(), strategy.Signal{
		Symbol: "AAPL", Action: strategy.ActionBuy, Price: 100, Reason: "seed",
	}, 10) {
		t.Fatal("seed buy failed")
	}

	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	state, err := fx.book.State(context.Background())
	if err != nil {
		t.Fatalf("State: %v", err)
	}
	if _, held := state.Holdings["AAPL"]; held {
		t.Errorf("holdings = %v, want position fully liquidated", state.Holdings)
	}
	// 10000 - 1000 (buy) + 1200 (sell at 120).
	if state.Cash != 10200 {
		t.Errorf("cash = %v, want 10200", state.Cash)
	}
}

func TestHoldGuidanceShortCircuits(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{"AAPL": 100},
		[]string{"AAPL"},
		map[string]strategy.Signal{
			"AAPL": {Symbol: "AAPL", Action: strategy.ActionBuy, Confidence: 0.8, Price: 100},
		},
		advisor.Guidance{Strategy: advisor.StrategyHold, Reason: "Low cash reserve"},
	)

	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	if fx.scanner.calls != 0 {
		t.Errorf("scanner called %d times, want 0 on HOLD", fx.scanner.calls)
	}
	state, _ := fx.book.State(context.Background())
	if state.Holdings["AAPL"] != 0 {
		t.Errorf("holdings = %v, want none", state.Holdings)
	}
	if s := state.LastSession; s == nil || s.Action != "HOLD" || !strings.Contains(s.Reason, "Low cash reserve") {
		t.Errorf("last session = %+v, want HOLD with advisor reason", s)
	}
	if fx.reporter.calls != 1 {
		t.Errorf("reporter called %d times, want 1 even on HOLD", fx.reporter.calls)
	}
}

func TestNewPositionBudgetLimitsTrades(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{"AAPL": 100, "MSFT": 50},
		[]string{"AAPL", "MSFT"},
		map[string]strategy.Signal{
			"AAPL": {Symbol: "AAPL", Action: strategy.ActionBuy, Confidence: 0.8, Price: 100},
			"MSFT": {Symbol: "MSFT", Action: strategy.ActionBuy, Confidence: 0.8, Price: 50},
		},
		advisor.Guidance{Strategy: advisor.StrategyAggressive, Reason: "One at a time", MaxNewPositions: 1},
	)

	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	state, _ := fx.book.State(context.Background())
	if state.Holdings["AAPL"] != 10 {
		t.Errorf("first candidate should trade, holdings = %v", state.Holdings)
	}
	if _, held := state.Holdings["MSFT"]; held {
		t.Errorf("second candidate must be stopped by the budget, holdings = %v", state.Holdings)
	}
	if state.TradeCount != 1 {
		t.Errorf("trade count = %d, want 1", state.TradeCount)
	}
}

func TestNoCandidatesStillSummarizesAndReports(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{},
		nil,
		nil,
		advisor.Guidance{Strategy: advisor.StrategyAggressive, Reason: "Building", MaxNewPositions: 5},
	)

	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	state, _ := fx.book.State(context.Background())
	if s := state.LastSession; s == nil || s.Action != "NO_TRADES" || !strings.Contains(s.Reason, "no candidates") {
		t.Errorf("last session = %+v, want NO_TRADES with scanner reason", s)
	}
	if fx.reporter.calls != 1 {
		t.Errorf("reporter called %d times, want 1", fx.reporter.calls)
	}
}

type panickyStrategy struct{}

func (panickyStrategy) Name() string { return "Panicky" }

func (panickyStrategy) Evaluate(context.Context, string, *analyst.Analysis, *strategy.PortfolioContext) strategy.Signal {
	panic("bad state")
}

func TestCandidatePanicSkipsNotAborts(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{"AAPL": 100},
		[]string{"AAPL"},
		nil,
		advisor.Guidance{Strategy: advisor.StrategyAggressive, Reason: "Building", MaxNewPositions: 5},
	)
	fx.captain.strategies = []strategy.Strategy{panickyStrategy{}}

	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	state, _ := fx.book.State(context.Background())
	if s := state.LastSession; s == nil || s.Action != "NO_TRADES" {
		t.Errorf("last session = %+v, want NO_TRADES after candidate panic", s)
	}
	if fx.reporter.calls != 1 {
		t.Errorf("reporter called %d times, want 1", fx.reporter.calls)
	}
}

func TestRiskRejectionRecordedNotFatal(t *testing.T) {
	fx := newFixture(t,
		map[string]float64{"AAPL": 100},
		[]string{"AAPL"},
		map[string]strategy.Signal{
			"AAPL": {Symbol: "AAPL", Action: strategy.ActionSell, Confidence: 0.9, Price: 100},
		},
		advisor.Guidance{Strategy: advisor.StrategyAggressive, Reason: "Building", MaxNewPositions: 5},
	)

	// Selling a symbol that is not held is a routine rejection.
	if err := fx.captain.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}

	state, _ := fx.book.State(context.Background())
	if state.TradeCount != 0 {
		t.Errorf("trade count = %d, want 0", state.TradeCount)
	}
	if s := state.LastSession; s == nil || s.Action != "NO_TRADES" {
		t.Errorf("last session = %+v, want NO_TRADES", s)
	}
}
