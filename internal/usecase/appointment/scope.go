package appointment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

// Scope is the per-request context every use case works in: whose calendar,
// which timezone, and the weekly working hours.
type Scope struct {
	User         *models.User
	UserID       uint
	Location     *time.Location
	Now          time.Time
	WorkingHours map[time.Weekday]*models.WorkingHours
}

// Clock lets tests pin "now".
type Clock func() time.Time

func LoadScope(ctx context.Context, repo domain.Repository, userID uint, now Clock) (*Scope, error) {
	user, err := repo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, err
	}

	hours, err := repo.ListWorkingHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	if now == nil {
		now = time.Now
	}
	loc := timezone.Location(user.Timezone)

	s := &Scope{
		User:         user,
		UserID:       userID,
		Location:     loc,
		Now:          now().In(loc),
		WorkingHours: make(map[time.Weekday]*models.WorkingHours, len(hours)),
	}
	for i := range hours {
		wh := &hours[i]
		s.WorkingHours[time.Weekday(wh.Weekday)] = wh
	}
	return s, nil
}

// OutsideWorkingHours reports whether [start, end) misses the configured day.
// Days without configuration are not flagged.
func (s *Scope) OutsideWorkingHours(start, end time.Time) bool {
	local := start.In(s.Location)
	wh, ok := s.WorkingHours[local.Weekday()]
	if !ok {
		return false
	}
	return !domain.IsWithinWorkingHours(wh, local, end.In(s.Location))
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
