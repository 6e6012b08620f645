package history

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/mwessel/papertrader/internal/ledger"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewDatabase: %v", err)
	}
	return NewRepository(db)
}

func TestSaveAndReadSessions(t *testing.T) {
	repo := newTestRepo(t)

	summaries := []ledger.SessionSummary{
		{Date: "2026-09-01 10:00:00", Action: "NO_TRADES", Reason: "Scanner found no candidates.", TradeCount: 0},
		{Date: "2026-09-02 10:00:00", Action: "TRADED", Reason: "Executed 2 trades.", TradeCount: 2},
	}
	for i := range summaries {
		rejected := map[string]string{"AAPL": "Already holding AAPL"}
		if err := repo.SaveSession(&summaries[i], "AGGRESSIVE", 5, rejected); err != nil {
			t.Fatalf("SaveSession: %v", err)
		}
	}

	sessions, err := repo.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("sessions = %d, want 2", len(sessions))
	}
	got := sessions[0]
	if got.Action != "TRADED" && got.Action != "NO_TRADES" {
		t.Errorf("action = %q", got.Action)
	}
	for _, s := range sessions {
		if s.Guidance != "AGGRESSIVE" || s.Candidates != 5 {
			t.Errorf("session = %+v, want guidance AGGRESSIVE with 5 candidates", s)
		}
		if !strings.Contains(s.RejectedJSON, "Already holding AAPL") {
			t.Errorf("rejected json = %q, want recorded rejection", s.RejectedJSON)
		}
	}

	one, err := repo.RecentSessions(1)
	if err != nil {
		t.Fatalf("RecentSessions(1): %v", err)
	}
	if len(one) != 1 {
		t.Errorf("limited query returned %d rows, want 1", len(one))
	}
}

func TestSaveAndReadValuations(t *testing.T) {
	repo := newTestRepo(t)

	state := &ledger.PortfolioState{
		Cash:       9000,
		TotalValue: 10500,
		ProfitLoss: 500,
		ReturnPct:  5,
		Holdings:   map[string]int64{"AAPL": 10},
	}
	if err := repo.SaveValuation(state); err != nil {
		t.Fatalf("SaveValuation: %v", err)
	}

	snapshots, err := repo.RecentValuations(10)
	if err != nil {
		t.Fatalf("RecentValuations: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snapshots))
	}
	snap := snapshots[0]
	if snap.Cash != 9000 || snap.TotalValue != 10500 || snap.ReturnPct != 5 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.HoldingsCount != 1 || !strings.Contains(snap.HoldingsJSON, "AAPL") {
		t.Errorf("holdings = %d %q, want AAPL recorded", snap.HoldingsCount, snap.HoldingsJSON)
	}
}

func TestEmptyDatabaseReadsBack(t *testing.T) {
	repo := newTestRepo(t)

	sessions, err := repo.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("sessions = %d, want 0", len(sessions))
	}
	snapshots, err := repo.RecentValuations(10)
	if err != nil {
		t.Fatalf("RecentValuations: %v", err)
	}
	if len(snapshots) != 0 {
		t.Errorf("snapshots = %d, want 0", len(snapshots))
	}
}
