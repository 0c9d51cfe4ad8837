package payment

import (
	"context"
	"io"
	"time"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/report"
)

// ExportFinance writes the period's records as an xlsx workbook.
type ExportFinance struct {
	repo domain.Repository
	now  Clock
}

func NewExportFinance(repo domain.Repository, now Clock) *ExportFinance {
	if now == nil {
		now = time.Now
	}
	return &ExportFinance{repo: repo, now: now}
}

func (uc *ExportFinance) Execute(ctx context.Context, userID uint, from, to string, w io.Writer) error {
	loc, f, payments, err := loadPeriod(ctx, uc.repo, userID, from, to, uc.now)
	if err != nil {
		return err
	}

	seen := map[uint]bool{}
	var clientIDs []uint
	for _, p := range payments {
		if p.ClientID != nil && !seen[*p.ClientID] {
			seen[*p.ClientID] = true
			clientIDs = append(clientIDs, *p.ClientID)
		}
	}

	names := map[uint]string{}
	if len(clientIDs) > 0 {
		if names, err = uc.repo.ClientNames(ctx, userID, clientIDs); err != nil {
			return err
		}
	}

	return report.WriteFinance(w, report.Finance{
		From:     *f.From,
		To:       *f.To,
		Location: loc,
		Payments: payments,
		Clients:  names,
		Summary:  domain.Summarize(payments),
	})
}
