// Package risk validates proposed signals against portfolio state and
// daily limits, and sizes approved positions.
package risk

import (
	"fmt"
	"math"

	"github.com/mwessel/papertrader/internal/config"
	"github.com/mwessel/papertrader/internal/ledger"
	"github.com/mwessel/papertrader/internal/strategy"
	"github.com/mwessel/papertrader/internal/universe"
)

type Manager struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Manager {
	return &Manager{cfg: cfg}
}

// Validate checks a signal in a fixed order; the first failing rule wins.
// The returned reason is operator-facing and collected into the session
// summary, not an error.
func (m *Manager) Validate(sig strategy.Signal, state *ledger.PortfolioState, tradesToday int) (bool, string) {
	if sig.Action != strategy.ActionBuy && sig.Action != strategy.ActionSell {
		return false, "Invalid Action"
	}

	if tradesToday >= m.cfg.Risk.MaxTradesPerDay {
		return false, fmt.Sprintf("Daily trade limit reached (%d)", m.cfg.Risk.MaxTradesPerDay)
	}

	if sig.Action == strategy.ActionBuy {
		totalValue := state.TotalValue
		if totalValue <= 0 {
			totalValue = state.Cash
		}

		if sig.Price > state.Cash {
			return false, "Insufficient Cash"
		}

		maxPosition := totalValue * m.positionCap(sig.Symbol)
		if sig.Price > maxPosition {
			return false, fmt.Sprintf("Price %.2f exceeds max position size %.2f", sig.Price, maxPosition)
		}

		if universe.IsCrypto(sig.Symbol) {
			cryptoPct := cryptoAllocation(state)
			if cryptoPct >= m.cfg.Risk.MaxCryptoAllocationPct {
				return false, fmt.Sprintf("Crypto allocation limit reached (%.1f%% >= %.0f%%)",
					cryptoPct*100, m.cfg.Risk.MaxCryptoAllocationPct*100)
			}
		}

		if _, held := state.Holdings[sig.Symbol]; held {
			return false, fmt.Sprintf("Already holding %s", sig.Symbol)
		}
	}

	if sig.Action == strategy.ActionSell {
		if _, held := state.Holdings[sig.Symbol]; !held {
			return false, fmt.Sprintf("Not holding %s", sig.Symbol)
		}
	}

	return true, "Approved"
}

// PositionSize returns how many units an approved BUY may take:
// floor(min(cash, totalValue*classCap) / price). Zero means do not trade.
func (m *Manager) PositionSize(sig strategy.Signal, state *ledger.PortfolioState) int64 {
	if sig.Price <= 0 {
		return 0
	}

	totalValue := state.TotalValue
	if totalValue <= 0 {
		totalValue = state.Cash
	}

	investable := math.Min(state.Cash, totalValue*m.positionCap(sig.Symbol))
	return int64(math.Floor(investable / sig.Price))
}

func (m *Manager) positionCap(symbol string) float64 {
	if universe.IsCrypto(symbol) {
		return m.cfg.Risk.MaxCryptoPositionPct
	}
	return m.cfg.Risk.MaxPositionPct
}

// cryptoAllocation is the crypto share of total value, priced from the
// state's last recorded market prices. Holdings without a recorded price
// contribute nothing.
func cryptoAllocation(state *ledger.PortfolioState) float64 {
	if state.TotalValue <= 0 {
		return 0
	}
	var cryptoValue float64
	for symbol, quantity := range state.Holdings {
		if !universe.IsCrypto(symbol) {
			continue
		}
		cryptoValue += state.CurrentPrices[symbol] * float64(quantity)
	}
	return cryptoValue / state.TotalValue
}
