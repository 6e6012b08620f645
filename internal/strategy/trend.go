package strategy

import (
	"context"

	"github.com/mwessel/papertrader/internal/analyst"
	"github.com/mwessel/papertrader/internal/logger"
)

// TrendStrategy is the rule-based trend follower: it needs 200 days of
// history and trades on the price vs. SMA50 vs. SMA200 ordering.
type TrendStrategy struct {
	logger *logger.Logger
}

func NewTrendStrategy(log *logger.Logger) *TrendStrategy {
	return &TrendStrategy{logger: log}
}

func (s *TrendStrategy) Name() string { return "TrendBot" }

func (s *TrendStrategy) Evaluate(_ context.Context, symbol string, analysis *analyst.Analysis, _ *PortfolioContext) Signal {
	if analysis == nil || analysis.Days < 200 {
		return Signal{Symbol: symbol, Action: ActionHold, Reason: "Insufficient Data", Confidence: 0}
	}

	price, sma50, sma200 := analysis.Price, analysis.SMA50, analysis.SMA200

	switch {
	case price > sma50 && sma50 > sma200:
		return Signal{
			Symbol:     symbol,
			Action:     ActionBuy,
			Confidence: 0.8,
			Reason:     "Uptrend: Price > SMA50 > SMA200",
			Price:      price,
		}
	case price < sma50:
		return Signal{
			Symbol:     symbol,
			Action:     ActionSell,
			Confidence: 0.6,
			Reason:     "Downtrend: Price < SMA50",
			Price:      price,
		}
	default:
		return Signal{
			Symbol:     symbol,
			Action:     ActionHold,
			Confidence: 0.5,
			Reason:     "Choppy/Neutral",
			Price:      price,
		}
	}
}
