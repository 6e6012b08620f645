package ledger

// PortfolioState is the single mutable root record of the paper account.
// cash and holdings are authoritative; total_value and the performance
// fields are recomputed from market prices before every persist or read.
type PortfolioState struct {
	Cash          float64            `json:"cash"`
	Holdings      map[string]int64   `json:"holdings"`
	TotalValue    float64            `json:"total_value"`
	CurrentPrices map[string]float64 `json:"current_prices,omitempty"`
	ProfitLoss    float64            `json:"profit_loss"`
	ReturnPct     float64            `json:"return_pct"`
	TradeCount    int                `json:"trade_count"`
	LastTrade     *TradeDetail       `json:"last_trade"`
	LastSession   *SessionSummary    `json:"last_session,omitempty"`
	StartDate     string             `json:"start_date"`
	RecentTrades  []TradeRecord      `json:"recent_trades,omitempty"`
}

// TradeDetail is the most recent trade stamped on the portfolio state.
type TradeDetail struct {
	Symbol    string  `json:"ticker"`
	Action    string  `json:"action"`
	Quantity  int64   `json:"quantity"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
}

// SessionSummary describes what the last run did and why.
type SessionSummary struct {
	Date       string `json:"date"`
	Action     string `json:"action"` // TRADED, NO_TRADES, HOLD
	Reason     string `json:"reason"`
	TradeCount int    `json:"trades_count"`
}

// TradeRecord is one row of the append-only trade log.
type TradeRecord struct {
	Date     string
	Ticker   string
	Action   string
	Quantity int64
	Price    float64
	Total    float64
	Reason   string
}

// HoldingsCount is the number of open positions.
func (s *PortfolioState) HoldingsCount() int {
	return len(s.Holdings)
}

// CashPct is the cash share of total value, in percent.
func (s *PortfolioState) CashPct() float64 {
	if s.TotalValue <= 0 {
		return 100
	}
	return s.Cash / s.TotalValue * 100
}
