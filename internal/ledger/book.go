// Package ledger owns the portfolio state file and the append-only trade
// log. It is the only writer of both.
//
// Persistence is whole-file JSON: load, mutate, rewrite through a temp
// file and rename so a crashed run never leaves a torn state file. A
// mutex serializes writers inside one process; concurrent processes are
// outside the correctness envelope and must not share a data directory.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
	"github.com/mwessel/papertrader/internal/strategy"
)

const timeLayout = "2006-01-02 15:04:05"

const recentTradeCount = 5

type Book struct {
	mu sync.Mutex

	portfolioPath string
	logPath       string
	initialCash   float64
	provider      marketdata.Provider
	logger        *logger.Logger
	now           func() time.Time
}

// NewBook opens (or initializes) the portfolio state file and trade log.
// A corrupt state file is an error, never a silently zeroed account.
func NewBook(portfolioPath, logPath string, initialCash float64, provider marketdata.Provider, log *logger.Logger) (*Book, error) {
	b := &Book{
		portfolioPath: portfolioPath,
		logPath:       logPath,
		initialCash:   initialCash,
		provider:      provider,
		logger:        log,
		now:           time.Now,
	}

	for _, p := range []string{portfolioPath, logPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	if _, err := os.Stat(portfolioPath); os.IsNotExist(err) {
		initial := &PortfolioState{
			Cash:       initialCash,
			Holdings:   map[string]int64{},
			TotalValue: initialCash,
			StartDate:  b.now().Format(timeLayout),
		}
		if err := b.saveState(initial); err != nil {
			return nil, fmt.Errorf("initialize portfolio: %w", err)
		}
		log.Info("initialized new portfolio", "cash", initialCash)
	} else if _, err := b.loadState(); err != nil {
		return nil, err
	}

	if err := b.ensureTradeLog(); err != nil {
		return nil, err
	}

	return b, nil
}

// InitialCash is the fixed starting balance.
func (b *Book) InitialCash() float64 { return b.initialCash }

// State returns the portfolio marked to current market prices. The state
// on disk is not modified.
func (b *Book) State(ctx context.Context) (*PortfolioState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, err := b.loadState()
	if err != nil {
		return nil, err
	}
	b.revalue(ctx, state, "", 0)
	state.RecentTrades = b.tailTrades(recentTradeCount)
	return state, nil
}

// RefreshValuation recomputes total value at current prices and persists
// the result. Calling it twice with stable prices is idempotent.
func (b *Book) RefreshValuation(ctx context.Context) (*PortfolioState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, err := b.loadState()
	if err != nil {
		return nil, err
	}
	b.revalue(ctx, state, "", 0)
	state.RecentTrades = b.tailTrades(recentTradeCount)
	if err := b.saveState(state); err != nil {
		return nil, err
	}
	return state, nil
}

// Execute applies an approved trade. It returns false, without mutating
// anything, when the portfolio cannot cover the trade.
func (b *Book) Execute(ctx context.Context, sig strategy.Signal, quantity int64) bool {
	if quantity <= 0 {
		return false
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	state, err := b.loadState()
	if err != nil {
		b.logger.Error("load portfolio for execution", "error", err)
		return false
	}

	total := sig.Price * float64(quantity)

	switch sig.Action {
	case strategy.ActionBuy:
		if state.Cash < total {
			b.logger.Error("execution failed: insufficient funds",
				"symbol", sig.Symbol, "cost", total, "cash", state.Cash)
			return false
		}
		state.Cash -= total
		state.Holdings[sig.Symbol] += quantity
		b.logger.Info("bought", "symbol", sig.Symbol, "quantity", quantity, "price", sig.Price)

	case strategy.ActionSell:
		held := state.Holdings[sig.Symbol]
		if held < quantity {
			b.logger.Error("execution failed: not enough shares",
				"symbol", sig.Symbol, "held", held, "requested", quantity)
			return false
		}
		state.Cash += total
		if held == quantity {
			delete(state.Holdings, sig.Symbol)
		} else {
			state.Holdings[sig.Symbol] = held - quantity
		}
		b.logger.Info("sold", "symbol", sig.Symbol, "quantity", quantity, "price", sig.Price)

	default:
		return false
	}

	b.revalue(ctx, state, sig.Symbol, sig.Price)

	state.LastTrade = &TradeDetail{
		Symbol:    sig.Symbol,
		Action:    sig.Action,
		Quantity:  quantity,
		Price:     sig.Price,
		Timestamp: b.now().Format(timeLayout),
	}
	state.TradeCount++
	state.RecentTrades = b.tailTrades(recentTradeCount)

	if err := b.saveState(state); err != nil {
		b.logger.Error("persist portfolio", "error", err)
		return false
	}

	record := TradeRecord{
		Date:     b.now().Format(timeLayout),
		Ticker:   sig.Symbol,
		Action:   sig.Action,
		Quantity: quantity,
		Price:    sig.Price,
		Total:    total,
		Reason:   sig.Reason,
	}
	if err := b.appendTrade(record); err != nil {
		b.logger.Error("append trade log", "error", err)
	}

	return true
}

// SetDailySummary stamps the session outcome on the state file.
func (b *Book) SetDailySummary(summary SessionSummary) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, err := b.loadState()
	if err != nil {
		return err
	}
	state.LastSession = &summary
	return b.saveState(state)
}

// revalue recomputes total_value by marking every holding to market. A
// failed price fetch falls back to tradedPrice only for the symbol just
// traded; any other unpriceable holding is omitted from the total.
func (b *Book) revalue(ctx context.Context, state *PortfolioState, tradedSymbol string, tradedPrice float64) {
	total := state.Cash
	if state.CurrentPrices == nil {
		state.CurrentPrices = make(map[string]float64, len(state.Holdings))
	}

	symbols := make([]string, 0, len(state.Holdings))
	for symbol := range state.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	for _, symbol := range symbols {
		quantity := state.Holdings[symbol]
		series, err := b.provider.Fetch(ctx, symbol, marketdata.PeriodDay)
		if err != nil || series.Last() == 0 {
			if symbol == tradedSymbol && tradedPrice > 0 {
				total += tradedPrice * float64(quantity)
				state.CurrentPrices[symbol] = tradedPrice
			} else {
				b.logger.Info("could not price holding, omitting from valuation", "symbol", symbol)
				delete(state.CurrentPrices, symbol)
			}
			continue
		}
		price := series.Last()
		total += price * float64(quantity)
		state.CurrentPrices[symbol] = price
	}

	for symbol := range state.CurrentPrices {
		if _, held := state.Holdings[symbol]; !held {
			delete(state.CurrentPrices, symbol)
		}
	}

	state.TotalValue = total
	state.ProfitLoss = total - b.initialCash
	state.ReturnPct = (total - b.initialCash) / b.initialCash * 100
}

func (b *Book) loadState() (*PortfolioState, error) {
	data, err := os.ReadFile(b.portfolioPath)
	if err != nil {
		return nil, fmt.Errorf("read portfolio state: %w", err)
	}
	state := &PortfolioState{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("portfolio state corrupt: %w", err)
	}
	if state.Holdings == nil {
		state.Holdings = map[string]int64{}
	}
	return state, nil
}

func (b *Book) saveState(state *PortfolioState) error {
	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal portfolio state: %w", err)
	}

	tmp := b.portfolioPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write portfolio state: %w", err)
	}
	if err := os.Rename(tmp, b.portfolioPath); err != nil {
		return fmt.Errorf("replace portfolio state: %w", err)
	}
	return nil
}
