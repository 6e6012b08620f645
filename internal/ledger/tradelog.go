package ledger

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

var tradeLogHeader = []string{"Date", "Ticker", "Action", "Quantity", "Price", "Total", "Reason"}

func (b *Book) ensureTradeLog() error {
	if _, err := os.Stat(b.logPath); err == nil {
		return nil
	}

	f, err := os.Create(b.logPath)
	if err != nil {
		return fmt.Errorf("create trade log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tradeLogHeader); err != nil {
		return fmt.Errorf("write trade log header: %w", err)
	}
	w.Flush()
	return w.Error()
}

func (b *Book) appendTrade(record TradeRecord) error {
	f, err := os.OpenFile(b.logPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open trade log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	err = w.Write([]string{
		record.Date,
		record.Ticker,
		record.Action,
		strconv.FormatInt(record.Quantity, 10),
		strconv.FormatFloat(record.Price, 'f', -1, 64),
		strconv.FormatFloat(record.Total, 'f', -1, 64),
		record.Reason,
	})
	if err != nil {
		return fmt.Errorf("write trade row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Trades reads the full trade log, oldest first. A missing or unreadable
// log yields an empty slice; the log is audit data, not control flow.
func (b *Book) Trades() []TradeRecord {
	f, err := os.Open(b.logPath)
	if err != nil {
		return nil
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil || len(rows) < 2 {
		return nil
	}

	trades := make([]TradeRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 7 {
			continue
		}
		quantity, _ := strconv.ParseInt(row[3], 10, 64)
		price, _ := strconv.ParseFloat(row[4], 64)
		total, _ := strconv.ParseFloat(row[5], 64)
		trades = append(trades, TradeRecord{
			Date:     row[0],
			Ticker:   row[1],
			Action:   row[2],
			Quantity: quantity,
			Price:    price,
			Total:    total,
			Reason:   row[6],
		})
	}
	return trades
}

// RecentTrades returns the last n logged trades, oldest first.
func (b *Book) RecentTrades(n int) []TradeRecord {
	return b.tailTrades(n)
}

func (b *Book) tailTrades(n int) []TradeRecord {
	trades := b.Trades()
	if len(trades) > n {
		trades = trades[len(trades)-n:]
	}
	return trades
}
