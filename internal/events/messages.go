package events

import (
	"encoding/json"
	"time"
)

// ExpenseRecorded is emitted after an expense commits, whether it
// came from the guided flow or the direct entry path.
type ExpenseRecorded struct {
	ExpenseID   int64     `json:"expense_id"`
	UserID      int64     `json:"user_id"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Timestamp   time.Time `json:"timestamp"`
}

// ReportSent is emitted after a weekly report reaches a user.
type ReportSent struct {
	UserID     int64     `json:"user_id"`
	TotalCents int64     `json:"total_cents"`
	WeekStart  string    `json:"week_start"` // YYYY-MM-DD
	Timestamp  time.Time `json:"timestamp"`
}

func (m ExpenseRecorded) marshal() ([]byte, error) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return json.Marshal(m)
}

func (m ReportSent) marshal() ([]byte, error) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now()
	}
	return json.Marshal(m)
}
