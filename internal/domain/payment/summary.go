package payment

import (
	"math"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// Summary aggregates a set of financial records. Amounts are signed:
// positive is income, negative is expense.
type Summary struct {
	Income   float64 `json:"income"`
	Expense  float64 `json:"expense"`
	Balance  float64 `json:"balance"`
	Received float64 `json:"received"`
	Pending  float64 `json:"pending"`
	Overdue  float64 `json:"overdue"`
	Count    int     `json:"count"`
}

func Summarize(payments []models.Payment) Summary {
	var s Summary
	for _, p := range payments {
		s.Count++
		if p.Amount >= 0 {
			s.Income += p.Amount
		} else {
			s.Expense += -p.Amount
		}

		switch Status(p.Status) {
		case StatusPaid:
			s.Received += p.Amount
		case StatusPending:
			s.Pending += p.Amount
		case StatusOverdue:
			s.Overdue += p.Amount
		}
	}

	s.Income = round2(s.Income)
	s.Expense = round2(s.Expense)
	s.Balance = round2(s.Income - s.Expense)
	s.Received = round2(s.Received)
	s.Pending = round2(s.Pending)
	s.Overdue = round2(s.Overdue)
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
