package history

import "time"

type SessionLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Action       string `gorm:"not null" json:"action"` // TRADED, NO_TRADES, HOLD
	Reason       string `gorm:"type:text" json:"reason"`
	TradeCount   int    `json:"trade_count"`
	Candidates   int    `json:"candidates"`
	Guidance     string `json:"guidance"`
	RejectedJSON string `gorm:"type:text" json:"rejected_json"`
}

type ValuationSnapshot struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Cash          float64 `json:"cash"`
	TotalValue    float64 `json:"total_value"`
	ProfitLoss    float64 `json:"profit_loss"`
	ReturnPct     float64 `json:"return_pct"`
	HoldingsCount int     `json:"holdings_count"`
	HoldingsJSON  string  `gorm:"type:text" json:"holdings_json"`
}
