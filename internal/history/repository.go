package history

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/mwessel/papertrader/internal/ledger"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SaveSession records one run's outcome and rejection reasons.
func (r *Repository) SaveSession(summary *ledger.SessionSummary, guidance string, candidates int, rejected map[string]string) error {
	rejectedJSON, _ := json.Marshal(rejected)
	return r.db.Create(&SessionLog{
		Action:       summary.Action,
		Reason:       summary.Reason,
		TradeCount:   summary.TradeCount,
		Candidates:   candidates,
		Guidance:     guidance,
		RejectedJSON: string(rejectedJSON),
	}).Error
}

// SaveValuation records the post-run portfolio standing.
func (r *Repository) SaveValuation(state *ledger.PortfolioState) error {
	holdingsJSON, _ := json.Marshal(state.Holdings)
	return r.db.Create(&ValuationSnapshot{
		Cash:          state.Cash,
		TotalValue:    state.TotalValue,
		ProfitLoss:    state.ProfitLoss,
		ReturnPct:     state.ReturnPct,
		HoldingsCount: state.HoldingsCount(),
		HoldingsJSON:  string(holdingsJSON),
	}).Error
}

func (r *Repository) RecentSessions(limit int) ([]SessionLog, error) {
	var sessions []SessionLog
	err := r.db.Order("created_at DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

func (r *Repository) RecentValuations(limit int) ([]ValuationSnapshot, error) {
	var snapshots []ValuationSnapshot
	err := r.db.Order("created_at DESC").Limit(limit).Find(&snapshots).Error
	return snapshots, err
}
