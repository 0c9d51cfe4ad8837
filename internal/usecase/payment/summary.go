package payment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

type SummaryResult struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	domain.Summary
}

// GetSummary totals the records due in [from, to]. Without dates it covers
// the current month in the user's timezone.
type GetSummary struct {
	repo domain.Repository
	now  Clock
}

func NewGetSummary(repo domain.Repository, now Clock) *GetSummary {
	if now == nil {
		now = time.Now
	}
	return &GetSummary{repo: repo, now: now}
}

func (uc *GetSummary) Execute(ctx context.Context, userID uint, from, to string) (*SummaryResult, error) {
	_, f, payments, err := loadPeriod(ctx, uc.repo, userID, from, to, uc.now)
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		From:    *f.From,
		To:      *f.To,
		Summary: domain.Summarize(payments),
	}, nil
}

// loadPeriod resolves the period (defaulting to the current month) and lists it.
func loadPeriod(
	ctx context.Context,
	repo domain.Repository,
	userID uint,
	from, to string,
	now Clock,
) (*time.Location, domain.Filter, []models.Payment, error) {

	loc, err := userLocation(ctx, repo, userID)
	if err != nil {
		return nil, domain.Filter{}, nil, err
	}

	f, err := buildFilter(ListQuery{From: from, To: to}, loc)
	if err != nil {
		return nil, domain.Filter{}, nil, err
	}

	if f.From == nil || f.To == nil {
		today := now().In(loc)
		start, end := timezone.MonthRange(today.Year(), today.Month(), loc)
		if f.From == nil {
			f.From = &start
		}
		if f.To == nil {
			if !end.After(*f.From) {
				end = f.From.AddDate(0, 1, 0)
			}
			f.To = &end
		}
	}

	payments, err := repo.List(ctx, userID, f)
	if err != nil {
		return nil, domain.Filter{}, nil, err
	}
	return loc, f, payments, nil
}
