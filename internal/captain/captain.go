// Package captain sequences one trading session: valuation, guidance,
// scan, and the per-candidate analyze/signal/risk/execute pipeline.
package captain

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mwessel/papertrader/internal/advisor"
	"github.com/mwessel/papertrader/internal/analyst"
	"github.com/mwessel/papertrader/internal/history"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/notify"
	"github.com/mwessel/papertrader/internal/risk"
	"github.com/mwessel/papertrader/internal/scanner"
	"github.com/mwessel/papertrader/internal/strategy"
)

const timeLayout = "2006-01-02 15:04:05"

// marketScanner, symbolAnalyst, sessionAdvisor and sessionReporter are
// the pipeline stages the captain drives.
type marketScanner interface {
	Run(ctx context.Context) ([]scanner.Candidate, scanner.Stats)
}

type symbolAnalyst interface {
	Run(ctx context.Context, symbol string) (*analyst.Analysis, error)
}

type sessionAdvisor interface {
	Evaluate(ctx context.Context, state *ledger.PortfolioState) advisor.Guidance
}

type sessionReporter interface {
	Write(ctx context.Context, w io.Writer) error
}

type Captain struct {
	book       *ledger.Book
	scanner    marketScanner
	analyst    symbolAnalyst
	strategies []strategy.Strategy
	risk       *risk.Manager
	advisor    sessionAdvisor
	reporter   sessionReporter
	repo       *history.Repository // nil disables archiving
	notifier   *notify.Notifier    // nil disables notifications
	out        io.Writer
	logger     *logger.Logger
	interval   time.Duration
	now        func() time.Time
}

func New(
	book *ledger.Book,
	scan marketScanner,
	anl symbolAnalyst,
	strategies []strategy.Strategy,
	riskMgr *risk.Manager,
	adv sessionAdvisor,
	reporter sessionReporter,
	repo *history.Repository,
	notifier *notify.Notifier,
	out io.Writer,
	log *logger.Logger,
	interval time.Duration,
) *Captain {
	return &Captain{
		book:       book,
		scanner:    scan,
		analyst:    anl,
		strategies: strategies,
		risk:       riskMgr,
		advisor:    adv,
		reporter:   reporter,
		repo:       repo,
		notifier:   notifier,
		out:        out,
		logger:     log,
		interval:   interval,
		now:        time.Now,
	}
}

// RunLoop runs sessions on the configured interval until ctx is
// cancelled. The first session starts immediately.
func (c *Captain) RunLoop(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.logger.Info("trading loop started", "interval", c.interval.String())

	c.runSafely(ctx)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("trading loop stopped")
			return
		case <-ticker.C:
			c.runSafely(ctx)
		}
	}
}

func (c *Captain) runSafely(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic in trading session", "panic", fmt.Sprint(r))
			if c.notifier != nil {
				c.notifier.Error("session panic", fmt.Errorf("%v", r))
			}
		}
	}()

	if err := c.RunSession(ctx); err != nil {
		c.logger.Error("trading session failed", "error", err)
		if c.notifier != nil {
			c.notifier.Error("session", err)
		}
	}
}

// RunSession executes one full session. It always writes a daily summary
// and a report before returning, whether or not anything traded.
func (c *Captain) RunSession(ctx context.Context) error {
	c.logger.Info("starting trading session")

	state, err := c.book.RefreshValuation(ctx)
	if err != nil {
		return fmt.Errorf("refresh valuation: %w", err)
	}
	c.logger.Info("portfolio", "total_value", state.TotalValue, "cash", state.Cash, "return_pct", state.ReturnPct)

	guidance := c.advisor.Evaluate(ctx, state)
	c.logger.Info("guidance", "strategy", guidance.Strategy, "reason", guidance.Reason, "budget", guidance.MaxNewPositions)
	if cmp := guidance.Comparison; cmp != nil {
		c.logger.Info("benchmark", "alpha", cmp.Alpha, "outperforming", cmp.Outperforming)
	}

	if guidance.Strategy == advisor.StrategyHold {
		c.logger.Info("advisor says HOLD, skipping trading")
		return c.finish(ctx, "HOLD", guidance, 0, 0, nil)
	}

	candidates, _ := c.scanner.Run(ctx)

	var (
		tradesDone int
		rejections = map[string]string{}
	)

	for _, cand := range candidates {
		if tradesDone >= guidance.MaxNewPositions {
			c.logger.Info("new-position budget exhausted", "budget", guidance.MaxNewPositions)
			rejections["_budget"] = "Reached max new positions limit"
			break
		}

		traded := c.processCandidate(ctx, cand, state, tradesDone, rejections)
		if traded {
			tradesDone++
			// Next candidate sees the post-trade cash and holdings.
			if refreshed, err := c.book.State(ctx); err == nil {
				state = refreshed
			}
		}
	}

	action := "NO_TRADES"
	if tradesDone > 0 {
		action = "TRADED"
	}
	return c.finish(ctx, action, guidance, tradesDone, len(candidates), rejections)
}

// processCandidate runs analyze/signal/risk/execute for one candidate.
// A panic anywhere in the stage skips the candidate, not the session.
func (c *Captain) processCandidate(ctx context.Context, cand scanner.Candidate, state *ledger.PortfolioState, tradesDone int, rejections map[string]string) (traded bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("panic processing candidate", "symbol", cand.Symbol, "panic", fmt.Sprint(r))
			rejections[cand.Symbol] = "Processing error"
			traded = false
		}
	}()

	analysis, err := c.analyst.Run(ctx, cand.Symbol)
	if err != nil {
		c.logger.Info("analysis unavailable", "symbol", cand.Symbol, "error", err)
		rejections[cand.Symbol] = "Analysis failed"
		return false
	}

	portfolio := portfolioContext(state)
	for _, strat := range c.strategies {
		sig := strat.Evaluate(ctx, cand.Symbol, analysis, portfolio)
		if !sig.Actionable() {
			if _, seen := rejections[cand.Symbol]; !seen {
				rejections[cand.Symbol] = fmt.Sprintf("No signal from %s", strat.Name())
			}
			continue
		}
		if sig.Price == 0 {
			sig.Price = analysis.Price
		}

		c.logger.Info("signal", "strategy", strat.Name(), "symbol", cand.Symbol,
			"action", sig.Action, "confidence", sig.Confidence)

		approved, reason := c.risk.Validate(sig, state, tradesDone)
		if !approved {
			c.logger.Info("risk check rejected", "symbol", cand.Symbol, "reason", reason)
			rejections[cand.Symbol] = reason
			continue
		}

		quantity := tradeQuantity(c.risk, sig, state)
		if quantity == 0 {
			rejections[cand.Symbol] = "Position size 0 (insufficient funds)"
			continue
		}

		if !c.book.Execute(ctx, sig, quantity) {
			rejections[cand.Symbol] = "Execution failed"
			continue
		}

		c.logger.Info("trade executed", "symbol", cand.Symbol, "action", sig.Action,
			"quantity", quantity, "price", sig.Price)
		if c.notifier != nil {
			c.notifier.TradeExecuted(sig.Action, cand.Symbol, quantity, sig.Price, sig.Reason)
		}
		return true
	}
	return false
}

// tradeQuantity sizes a BUY from the risk caps and liquidates the whole
// position on SELL.
func tradeQuantity(m *risk.Manager, sig strategy.Signal, state *ledger.PortfolioState) int64 {
	if sig.Action == strategy.ActionSell {
		return state.Holdings[sig.Symbol]
	}
	return m.PositionSize(sig, state)
}

func (c *Captain) finish(ctx context.Context, action string, guidance advisor.Guidance, trades, candidates int, rejections map[string]string) error {
	summary := ledger.SessionSummary{
		Date:       c.now().Format(timeLayout),
		Action:     action,
		Reason:     summaryReason(action, guidance, trades, candidates, rejections),
		TradeCount: trades,
	}
	if err := c.book.SetDailySummary(summary); err != nil {
		c.logger.Error("save daily summary", "error", err)
	}

	state, err := c.book.RefreshValuation(ctx)
	if err != nil {
		return fmt.Errorf("final valuation: %w", err)
	}

	if c.repo != nil {
		if err := c.repo.SaveSession(&summary, guidance.Strategy, candidates, rejections); err != nil {
			c.logger.Error("archive session", "error", err)
		}
		if err := c.repo.SaveValuation(state); err != nil {
			c.logger.Error("archive valuation", "error", err)
		}
	}
	if c.notifier != nil {
		c.notifier.SessionDone(state, &summary)
	}

	if err := c.reporter.Write(ctx, c.out); err != nil {
		c.logger.Error("write report", "error", err)
	}

	c.logger.Info("trading session complete", "action", action, "trades", trades)
	return nil
}

func summaryReason(action string, guidance advisor.Guidance, trades, candidates int, rejections map[string]string) string {
	switch {
	case action == "HOLD":
		return guidance.Reason
	case trades > 0:
		return fmt.Sprintf("Executed %d trades.", trades)
	case candidates == 0:
		return "Scanner found no candidates."
	case len(rejections) > 0:
		return fmt.Sprintf("Analyzed %d candidates, none passed signal and risk checks.", candidates)
	default:
		return "No actionable signals found."
	}
}

func portfolioContext(state *ledger.PortfolioState) *strategy.PortfolioContext {
	past := make([]strategy.PastTrade, 0, len(state.RecentTrades))
	for _, t := range state.RecentTrades {
		past = append(past, strategy.PastTrade{Symbol: t.Ticker, Action: t.Action})
	}
	return &strategy.PortfolioContext{
		Cash:         state.Cash,
		TotalValue:   state.TotalValue,
		Holdings:     state.Holdings,
		RecentTrades: past,
	}
}
