// Package report renders the end-of-run operator summary.
package report

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mwessel/papertrader/internal/ai"
	"github.com/mwessel/papertrader/internal/benchmark"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/logger"
)

const lineWidth = 70

type Reporter struct {
	book   *ledger.Book
	bench  *benchmark.Tracker
	ai     ai.Client
	logger *logger.Logger
}

func New(book *ledger.Book, bench *benchmark.Tracker, aiClient ai.Client, log *logger.Logger) *Reporter {
	return &Reporter{book: book, bench: bench, ai: aiClient, logger: log}
}

// Write renders the full plain-text report and logs one benchmark
// snapshot for the history series.
func (r *Reporter) Write(ctx context.Context, w io.Writer) error {
	state, err := r.book.State(ctx)
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	var cmp *benchmark.Comparison
	if r.bench != nil {
		cmp = r.bench.Compare(ctx, state.ReturnPct)
		if err := r.bench.LogSnapshot(ctx, state.TotalValue, state.ReturnPct); err != nil {
			r.logger.Error("log benchmark snapshot", "error", err)
		}
	}

	rule := strings.Repeat("=", lineWidth)
	thin := strings.Repeat("-", lineWidth)

	fmt.Fprintf(w, "\n%s\n TRADING SESSION REPORT\n%s\n", rule, rule)

	fmt.Fprintf(w, "\n PORTFOLIO STATUS\n%s\n", thin)
	fmt.Fprintf(w, " Total Value:      $%.2f\n", state.TotalValue)
	fmt.Fprintf(w, " Cash Available:   $%.2f\n", state.Cash)
	fmt.Fprintf(w, " Invested:         $%.2f\n", state.TotalValue-state.Cash)
	fmt.Fprintf(w, " Profit/Loss:      $%.2f\n", state.ProfitLoss)
	fmt.Fprintf(w, " Return:           %.2f%%\n", state.ReturnPct)
	fmt.Fprintf(w, " Total Trades:     %d\n", state.TradeCount)

	if s := state.LastSession; s != nil {
		fmt.Fprintf(w, "\n%s\n LATEST SESSION RESULT\n%s\n", thin, thin)
		fmt.Fprintf(w, " Date:             %s\n", s.Date)
		fmt.Fprintf(w, " Action:           %s\n", s.Action)
		fmt.Fprintf(w, " Reason:           %s\n", s.Reason)
		fmt.Fprintf(w, " Trades Executed:  %d\n", s.TradeCount)
	}
	if t := state.LastTrade; t != nil {
		fmt.Fprintf(w, " Last Trade:       %s %d %s @ $%.2f\n", t.Action, t.Quantity, t.Symbol, t.Price)
	}

	r.writeComposition(w, state, thin)
	r.writeBenchmark(w, state, cmp, thin)
	r.writeActivity(w, rule, thin)

	if r.ai != nil {
		r.writeNarrative(ctx, w, state, cmp, rule, thin)
	}

	fmt.Fprintln(w)
	return nil
}

func (r *Reporter) writeComposition(w io.Writer, state *ledger.PortfolioState, thin string) {
	fmt.Fprintf(w, "\n%s\n PORTFOLIO COMPOSITION\n%s\n", thin, thin)

	if len(state.Holdings) == 0 {
		fmt.Fprintln(w, "   No holdings - 100% cash")
		return
	}

	symbols := make([]string, 0, len(state.Holdings))
	for symbol := range state.Holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	total := state.TotalValue
	if total <= 0 {
		total = 1
	}
	for _, symbol := range symbols {
		quantity := state.Holdings[symbol]
		price, ok := state.CurrentPrices[symbol]
		if !ok {
			fmt.Fprintf(w, "   %-8s: %4d shares (price unavailable)\n", symbol, quantity)
			continue
		}
		value := price * float64(quantity)
		fmt.Fprintf(w, "   %-8s: %4d shares @ $%9.2f = $%10.2f (%5.1f%%)\n",
			symbol, quantity, price, value, value/total*100)
	}
	fmt.Fprintf(w, "   %-8s:                             $%10.2f (%5.1f%%)\n",
		"CASH", state.Cash, state.Cash/total*100)
}

func (r *Reporter) writeBenchmark(w io.Writer, state *ledger.PortfolioState, cmp *benchmark.Comparison, thin string) {
	fmt.Fprintf(w, "\n%s\n PERFORMANCE vs BENCHMARK\n%s\n", thin, thin)

	if cmp == nil {
		fmt.Fprintln(w, " Benchmark data not available")
		return
	}

	status := "UNDERPERFORMING"
	if cmp.Outperforming {
		status = "OUTPERFORMING"
	}
	fmt.Fprintf(w, " Status:           %s\n", status)
	fmt.Fprintf(w, " Portfolio Return: %+.2f%%\n", cmp.PortfolioReturn)
	fmt.Fprintf(w, " Benchmark Return: %+.2f%%\n", cmp.BenchmarkReturn)
	fmt.Fprintf(w, " Alpha:            %+.2f%%\n", cmp.Alpha)
	fmt.Fprintf(w, "\n If invested in the benchmark:\n")
	fmt.Fprintf(w, "   Would have: $%.2f\n", cmp.BenchmarkValue)
	fmt.Fprintf(w, "   Difference: $%+.2f\n", state.TotalValue-cmp.BenchmarkValue)
}

func (r *Reporter) writeActivity(w io.Writer, rule, thin string) {
	trades := r.book.Trades()
	if len(trades) == 0 {
		return
	}

	var buys, sells int
	for _, t := range trades {
		switch t.Action {
		case "BUY":
			buys++
		case "SELL":
			sells++
		}
	}

	fmt.Fprintf(w, "\n%s\n TRADING ACTIVITY\n%s\n", rule, rule)
	fmt.Fprintf(w, " Total Trades: %d\n", len(trades))
	fmt.Fprintf(w, " Buys: %d | Sells: %d\n", buys, sells)
	fmt.Fprintf(w, "%s\n Recent Activity:\n", thin)
	for _, t := range r.book.RecentTrades(5) {
		fmt.Fprintf(w, "   %s  %-8s %-4s %4d @ $%.2f  %s\n",
			t.Date, t.Ticker, t.Action, t.Quantity, t.Price, t.Reason)
	}
}

func (r *Reporter) writeNarrative(ctx context.Context, w io.Writer, state *ledger.PortfolioState, cmp *benchmark.Comparison, rule, thin string) {
	trades := r.book.RecentTrades(10)
	if len(trades) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("Summarize the trading activity and performance in 2-3 sentences:\n\nRecent Trades:\n")
	for _, t := range trades {
		fmt.Fprintf(&b, "%s: %s at $%.2f\n", t.Ticker, t.Action, t.Price)
	}
	fmt.Fprintf(&b, "\nPortfolio Return: %.2f%%", state.ReturnPct)
	if cmp != nil {
		status := "underperforming"
		if cmp.Outperforming {
			status = "outperforming"
		}
		fmt.Fprintf(&b, "\nPortfolio is %s the benchmark by %.2f%%.", status, abs(cmp.Alpha))
	}
	b.WriteString("\n\nFocus on strategy effectiveness and whether the benchmark is being beaten.")

	narrative, err := r.ai.Generate(ctx, b.String(), 200)
	if err != nil {
		fmt.Fprintf(w, "\n [AI summary unavailable]\n%s\n", rule)
		return
	}

	fmt.Fprintf(w, "\n [AI INSIGHTS]\n%s\n%s\n%s\n", thin, narrative, rule)
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
