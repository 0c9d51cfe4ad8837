package payment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/payment"
	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

// SweepOverdue flips pending records whose due date is before "today" in the
// owner's timezone. It runs for every tenant at once.
type SweepOverdue struct {
	repo domain.Repository
	now  Clock
}

func NewSweepOverdue(repo domain.Repository, now Clock) *SweepOverdue {
	if now == nil {
		now = time.Now
	}
	return &SweepOverdue{repo: repo, now: now}
}

func (uc *SweepOverdue) Execute(ctx context.Context) (int64, error) {
	now := uc.now()

	// anything due before now is a candidate; the per-user day boundary decides
	candidates, err := uc.repo.PendingDueBefore(ctx, now)
	if err != nil {
		return 0, err
	}
	if len(candidates) == 0 {
		return 0, nil
	}

	locs := map[uint]*time.Location{}
	ids := make([]uint, 0, len(candidates))

	for i := range candidates {
		p := &candidates[i]

		loc, ok := locs[p.UserID]
		if !ok {
			loc = timezone.Location(timezone.Default())
			if user, err := uc.repo.GetUser(ctx, p.UserID); err == nil {
				loc = timezone.Location(user.Timezone)
			}
			locs[p.UserID] = loc
		}

		if domain.IsOverdue(p, now, loc) {
			ids = append(ids, p.ID)
		}
	}

	if len(ids) == 0 {
		return 0, nil
	}

	n, err := uc.repo.SetStatus(ctx, ids, domain.StatusOverdue)
	if err != nil {
		return 0, err
	}

	logging.FromContext(ctx).Info("overdue sweep", "candidates", len(candidates), "updated", n)
	return n, nil
}
