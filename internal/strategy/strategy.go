// Package strategy turns one symbol's analysis into a BUY/SELL/HOLD signal.
// The variant set is closed: trend-following rules or an AI-driven decision,
// chosen when the orchestrator is constructed.
package strategy

import (
	"context"

	"github.com/mwessel/papertrader/internal/analyst"
)

const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
	ActionHold = "HOLD"
)

// Signal is a strategy's recommendation for one symbol.
type Signal struct {
	Symbol     string
	Action     string
	Confidence float64 // [0, 1]
	Reason     string
	Price      float64
}

// Actionable reports whether the signal proposes a trade.
func (s Signal) Actionable() bool {
	return s.Action == ActionBuy || s.Action == ActionSell
}

// PastTrade is a logged trade the strategies may inspect (anti-churn).
type PastTrade struct {
	Symbol string
	Action string
}

// PortfolioContext is the read-only portfolio view passed to strategies.
type PortfolioContext struct {
	Cash         float64
	TotalValue   float64
	Holdings     map[string]int64
	RecentTrades []PastTrade // oldest first
}

// Strategy evaluates one candidate. analysis may carry fallback moving
// averages when history is short; portfolio may be nil.
type Strategy interface {
	Name() string
	Evaluate(ctx context.Context, symbol string, analysis *analyst.Analysis, portfolio *PortfolioContext) Signal
}
