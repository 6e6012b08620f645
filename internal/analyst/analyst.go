// Package analyst computes per-symbol technical metrics and an optional
// qualitative outlook from the language model.
package analyst

import (
	"context"
	"fmt"

	"github.com/mwessel/papertrader/internal/ai"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/marketdata"
)

// Analysis is the deep-dive result for one symbol.
type Analysis struct {
	Symbol        string
	Days          int // valid observations in the window
	Price         float64
	SMA50         float64
	SMA200        float64
	Volatility    float64 // annualized
	MaxDrawdown   float64 // non-positive fraction
	TrendStrength float64 // window return
	Outlook       string  // optional AI narrative, empty when unavailable
}

type Analyst struct {
	provider marketdata.Provider
	ai       ai.Client // nil when AI is disabled
	logger   *logger.Logger
}

func New(provider marketdata.Provider, aiClient ai.Client, log *logger.Logger) *Analyst {
	return &Analyst{provider: provider, ai: aiClient, logger: log}
}

// Run analyzes one symbol over a one-year window. It returns
// marketdata.ErrNoData when no price history exists.
func (a *Analyst) Run(ctx context.Context, symbol string) (*Analysis, error) {
	series, err := a.provider.Fetch(ctx, symbol, marketdata.PeriodYear)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", symbol, err)
	}
	if series.Days() == 0 {
		return nil, fmt.Errorf("analyze %s: %w", symbol, marketdata.ErrNoData)
	}

	price := series.Last()
	sma50, ok := series.SMA(50)
	if !ok {
		sma50 = price
	}
	sma200, ok := series.SMA(200)
	if !ok {
		sma200 = price
	}

	result := &Analysis{
		Symbol:        symbol,
		Days:          series.Days(),
		Price:         price,
		SMA50:         sma50,
		SMA200:        sma200,
		Volatility:    series.Volatility(),
		MaxDrawdown:   series.MaxDrawdown(),
		TrendStrength: series.TrendStrength(),
	}

	if a.ai != nil {
		outlook, err := a.ai.Generate(ctx, outlookPrompt(result), 150)
		if err != nil {
			a.logger.Info("AI outlook unavailable", "symbol", symbol, "error", err)
		} else {
			result.Outlook = outlook
		}
	}

	return result, nil
}

func outlookPrompt(a *Analysis) string {
	return fmt.Sprintf(`You are a financial data analyst. Analyze the following stock metrics:

Ticker: %s
Price: $%.2f
50-day Average: $%.2f
200-day Average: $%.2f
Annual Volatility: %.1f%%
1-Year Max Drawdown: %.1f%%
1-Year Return: %.1f%%

Provide a brief 2-sentence technical summary of the current market position and trend.`,
		a.Symbol, a.Price, a.SMA50, a.SMA200,
		a.Volatility*100, a.MaxDrawdown*100, a.TrendStrength*100)
}
