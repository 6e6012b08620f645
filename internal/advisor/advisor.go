// Package advisor produces coarse session guidance from portfolio
// performance relative to the benchmark.
package advisor

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mwessel/papertrader/internal/ai"
	"github.com/mwessel/papertrader/internal/benchmark"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/logger"
)

const (
	StrategyAggressive   = "AGGRESSIVE"
	StrategyConservative = "CONSERVATIVE"
	StrategyHold         = "HOLD"
)

const maxPositions = 5

// Guidance is the advisor's verdict for one session.
type Guidance struct {
	Strategy        string
	Reason          string
	MaxNewPositions int
	Comparison      *benchmark.Comparison
}

type Advisor struct {
	bench  *benchmark.Tracker
	ai     ai.Client
	logger *logger.Logger
}

func New(bench *benchmark.Tracker, aiClient ai.Client, log *logger.Logger) *Advisor {
	return &Advisor{bench: bench, ai: aiClient, logger: log}
}

// Evaluate derives guidance from the rule cascade, letting a configured
// model override it wholesale when it replies in the expected format.
func (a *Advisor) Evaluate(ctx context.Context, state *ledger.PortfolioState) Guidance {
	var cmp *benchmark.Comparison
	if a.bench != nil {
		cmp = a.bench.Compare(ctx, state.ReturnPct)
	}

	g := a.ruleBased(state, cmp)

	if a.ai != nil {
		if override, ok := a.askModel(ctx, state, cmp); ok {
			override.Comparison = cmp
			return override
		}
	}

	return g
}

func (a *Advisor) ruleBased(state *ledger.PortfolioState, cmp *benchmark.Comparison) Guidance {
	holdings := state.HoldingsCount()

	g := Guidance{Comparison: cmp}
	switch {
	case state.ReturnPct < -5:
		g.Strategy = StrategyConservative
		g.Reason = "Portfolio down more than 5%, reducing exposure"
	case state.CashPct() < 20:
		g.Strategy = StrategyHold
		g.Reason = "Low cash reserve, holding current positions"
	case holdings >= maxPositions:
		g.Strategy = StrategyHold
		g.Reason = "Position limit reached, holding current positions"
	case cmp != nil && cmp.Outperforming:
		g.Strategy = StrategyAggressive
		g.Reason = fmt.Sprintf("Beating benchmark by %.1f%%, staying aggressive", cmp.Alpha)
	case state.ReturnPct > 0:
		g.Strategy = StrategyAggressive
		g.Reason = "Positive return, continuing to build positions"
	default:
		g.Strategy = StrategyAggressive
		g.Reason = "Building initial positions"
	}

	if g.Strategy == StrategyAggressive {
		g.MaxNewPositions = maxPositions - holdings
	}
	return g
}

func (a *Advisor) askModel(ctx context.Context, state *ledger.PortfolioState, cmp *benchmark.Comparison) (Guidance, bool) {
	reply, err := a.ai.Generate(ctx, a.buildPrompt(state, cmp), 200)
	if err != nil {
		a.logger.Info("advisor model unavailable, using rule-based guidance", "error", err)
		return Guidance{}, false
	}

	fields := ai.ParseFields(reply)
	strategy := strings.ToUpper(fields["STRATEGY"])
	switch strategy {
	case StrategyAggressive, StrategyConservative, StrategyHold:
	default:
		return Guidance{}, false
	}

	g := Guidance{Strategy: strategy, Reason: fields["REASON"]}
	if g.Reason == "" {
		g.Reason = "AI guidance"
	}
	if n, err := strconv.Atoi(fields["MAX_NEW_POSITIONS"]); err == nil && n >= 0 {
		g.MaxNewPositions = n
	}
	return g, true
}

func (a *Advisor) buildPrompt(state *ledger.PortfolioState, cmp *benchmark.Comparison) string {
	var b strings.Builder
	b.WriteString("You are a portfolio advisor for a paper trading account.\n\n")
	fmt.Fprintf(&b, "Total value: $%.2f\n", state.TotalValue)
	fmt.Fprintf(&b, "Cash: $%.2f (%.1f%%)\n", state.Cash, state.CashPct())
	fmt.Fprintf(&b, "Return: %.2f%%\n", state.ReturnPct)
	fmt.Fprintf(&b, "Open positions: %d\n", state.HoldingsCount())
	if cmp != nil {
		fmt.Fprintf(&b, "Benchmark return: %.2f%% (alpha %.2f%%)\n", cmp.BenchmarkReturn, cmp.Alpha)
	}
	b.WriteString("\nReply in exactly this format:\n")
	b.WriteString("STRATEGY: AGGRESSIVE, CONSERVATIVE or HOLD\n")
	b.WriteString("MAX_NEW_POSITIONS: integer 0-5\n")
	b.WriteString("REASON: one sentence\n")
	return b.String()
}
