package strategy

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mwessel/papertrader/internal/ai"
	"github.com/mwessel/papertrader/internal/analyst"
	"github.com/mwessel/papertrader/internal/logger"
	"github.com/mwessel/papertrader/internal/news"
	"github.com/mwessel/papertrader/internal/universe"
)

// recentWindow is how many logged trades back the anti-churn rule looks.
const recentWindow = 3

// AIStrategy asks the language model for a decision, with a deterministic
// moving-average fallback when the model yields nothing.
type AIStrategy struct {
	ai     ai.Client
	news   news.Provider // nil when news is disabled
	logger *logger.Logger
}

func NewAIStrategy(aiClient ai.Client, newsProvider news.Provider, log *logger.Logger) *AIStrategy {
	return &AIStrategy{ai: aiClient, news: newsProvider, logger: log}
}

func (s *AIStrategy) Name() string { return "AIStrategist" }

func (s *AIStrategy) Evaluate(ctx context.Context, symbol string, analysis *analyst.Analysis, portfolio *PortfolioContext) Signal {
	if s.ai == nil {
		return Signal{Symbol: symbol, Action: ActionHold, Reason: "AI disabled", Confidence: 0}
	}
	if analysis == nil {
		return Signal{Symbol: symbol, Action: ActionHold, Reason: "Insufficient Data", Confidence: 0}
	}

	// Anti-churn: never rebuy a symbol sold within the last few trades.
	if recentlySold(portfolio, symbol) {
		return Signal{
			Symbol:     symbol,
			Action:     ActionHold,
			Confidence: 0.5,
			Reason:     "Recently sold, avoid churning",
			Price:      analysis.Price,
		}
	}

	prompt := s.buildPrompt(ctx, symbol, analysis, portfolio)

	response, err := s.ai.Generate(ctx, prompt, 100)
	if err != nil {
		s.logger.Info("AI unavailable, using fallback rule", "symbol", symbol, "error", err)
		return fallbackSignal(symbol, analysis)
	}

	sig := parseDecision(response)
	sig.Symbol = symbol
	sig.Price = analysis.Price
	return sig
}

func recentlySold(portfolio *PortfolioContext, symbol string) bool {
	if portfolio == nil {
		return false
	}
	trades := portfolio.RecentTrades
	if len(trades) > recentWindow {
		trades = trades[len(trades)-recentWindow:]
	}
	for _, t := range trades {
		if t.Symbol == symbol && t.Action == ActionSell {
			return true
		}
	}
	return false
}

// parseDecision reads the DECISION/CONFIDENCE/REASON reply lines.
// Missing or unparseable lines fall back to HOLD / 0.5 / a generic reason.
func parseDecision(response string) Signal {
	fields := ai.ParseFields(response)

	sig := Signal{Action: ActionHold, Confidence: 0.5, Reason: "AI analysis complete"}

	if d := strings.ToUpper(fields["DECISION"]); d == ActionBuy || d == ActionSell || d == ActionHold {
		sig.Action = d
	}
	if c, err := strconv.ParseFloat(fields["CONFIDENCE"], 64); err == nil {
		sig.Confidence = math.Min(math.Max(c/100, 0), 1)
	}
	if r := fields["REASON"]; r != "" {
		sig.Reason = r
	}
	return sig
}

// fallbackSignal is the fixed rule used when the model yields no response.
func fallbackSignal(symbol string, analysis *analyst.Analysis) Signal {
	price, sma50, sma200 := analysis.Price, analysis.SMA50, analysis.SMA200

	switch {
	case price > sma50 && sma50 > sma200:
		return Signal{Symbol: symbol, Action: ActionBuy, Confidence: 0.6, Reason: "Uptrend (fallback logic)", Price: price}
	case price < sma50:
		return Signal{Symbol: symbol, Action: ActionSell, Confidence: 0.5, Reason: "Downtrend (fallback logic)", Price: price}
	default:
		return Signal{Symbol: symbol, Action: ActionHold, Confidence: 0.5, Reason: "Neutral (fallback logic)", Price: price}
	}
}

func (s *AIStrategy) buildPrompt(ctx context.Context, symbol string, analysis *analyst.Analysis, portfolio *PortfolioContext) string {
	var portfolioText strings.Builder
	if portfolio != nil {
		fmt.Fprintf(&portfolioText, "\nCurrent Holdings: %d positions", len(portfolio.Holdings))
		if qty := portfolio.Holdings[symbol]; qty > 0 {
			fmt.Fprintf(&portfolioText, "\nAlready own %d shares of %s", qty, symbol)
		}
	}

	var newsText strings.Builder
	if s.news != nil {
		if articles := s.news.TickerNews(ctx, symbol, 2); len(articles) > 0 {
			newsText.WriteString("\n\nRecent News:\n")
			for _, a := range articles {
				fmt.Fprintf(&newsText, "- %s (Sentiment: %s)\n", a.Title, a.Sentiment)
			}
		}
	}

	if universe.IsCrypto(symbol) {
		return cryptoPrompt(symbol, analysis, portfolioText.String(), newsText.String())
	}
	return stockPrompt(symbol, analysis, portfolioText.String(), newsText.String())
}

func stockPrompt(symbol string, a *analyst.Analysis, portfolioText, newsText string) string {
	return fmt.Sprintf(`Based on this stock analysis data, provide a trading signal.

Stock: %s
Current Price: $%.2f
50-day Moving Average: $%.2f
200-day Moving Average: $%.2f
Volatility: %.1f%%
1-Year Return: %.1f%%%s%s

Goal: Outperform the benchmark index

Respond with:
DECISION: BUY or SELL or HOLD
CONFIDENCE: number from 0 to 100
REASON: One brief sentence

Example:
DECISION: BUY
CONFIDENCE: 75
REASON: Strong uptrend with positive news sentiment`,
		symbol, a.Price, a.SMA50, a.SMA200,
		a.Volatility*100, a.TrendStrength*100, portfolioText, newsText)
}

func cryptoPrompt(symbol string, a *analyst.Analysis, portfolioText, newsText string) string {
	return fmt.Sprintf(`Based on this cryptocurrency analysis, provide a trading signal.

Crypto: %s
Current Price: $%.2f
50-day Moving Average: $%.2f
200-day Moving Average: $%.2f
Volatility: %.1f%%
1-Year Return: %.1f%%%s%s

Note: Cryptocurrencies are high-risk, high-reward. Consider higher volatility.
Goal: Identify strong momentum plays while managing risk

Respond with:
DECISION: BUY or SELL or HOLD
CONFIDENCE: number from 0 to 100
REASON: One brief sentence

Example:
DECISION: BUY
CONFIDENCE: 65
REASON: Strong momentum with positive community sentiment`,
		symbol, a.Price, a.SMA50, a.SMA200,
		a.Volatility*100, a.TrendStrength*100, portfolioText, newsText)
}
