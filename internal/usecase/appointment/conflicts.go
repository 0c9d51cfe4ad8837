package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/practice-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/practice-scheduler/internal/dto"
	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

// ======================================================
// CHECK CONFLICT (form preview)
// ======================================================

type CheckConflict struct {
	repo domain.Repository
}

func NewCheckConflict(repo domain.Repository) *CheckConflict {
	return &CheckConflict{repo: repo}
}

func (uc *CheckConflict) Execute(
	ctx context.Context,
	userID uint,
	candidate domain.Interval,
	excludeID *uint,
) (*dto.ConflictDTO, error) {

	existing, err := uc.repo.ListOverlapping(ctx, userID, candidate.Start, candidate.End)
	if err != nil {
		return nil, err
	}

	hit := domain.FindConflict(candidate, existing, excludeID)
	if hit == nil {
		return nil, nil
	}
	c := conflictDTO(candidate, hit)
	return &c, nil
}

// ======================================================
// PREVIEW SERIES CONFLICTS (strict variant)
// ======================================================

type PreviewSeriesConflicts struct {
	repo domain.Repository
	now  Clock
}

func NewPreviewSeriesConflicts(repo domain.Repository, now Clock) *PreviewSeriesConflicts {
	return &PreviewSeriesConflicts{repo: repo, now: now}
}

// Execute moves every member of the series to the time of day of newStart/newEnd
// and lists every clash with appointments outside the series.
func (uc *PreviewSeriesConflicts) Execute(
	ctx context.Context,
	userID uint,
	groupID string,
	newStart time.Time,
	newEnd time.Time,
) ([]domain.SeriesConflict, error) {

	scope, err := LoadScope(ctx, uc.repo, userID, uc.now)
	if err != nil {
		return nil, err
	}

	siblings, err := uc.repo.ListSeries(ctx, userID, groupID)
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, httperr.ErrBusiness("series_not_found")
	}

	return seriesConflicts(ctx, uc.repo, scope, groupID, siblings, newStart, newEnd)
}

func seriesConflicts(
	ctx context.Context,
	repo domain.Repository,
	scope *Scope,
	groupID string,
	siblings []models.Appointment,
	newStart time.Time,
	newEnd time.Time,
) ([]domain.SeriesConflict, error) {

	occurrences := make([]domain.Occurrence, 0, len(siblings))
	for _, sib := range siblings {
		s, e := domain.ApplyTimeOfDay(sib.StartTime, newStart, newEnd, scope.Location)
		occurrences = append(occurrences, domain.Occurrence{
			ID:       sib.ID,
			Interval: domain.Interval{Start: s, End: e},
		})
	}

	from, to := span(occurrences)
	existing, err := repo.ListOverlapping(ctx, scope.UserID, from, to)
	if err != nil {
		return nil, err
	}

	out := domain.FindSeriesConflicts(occurrences, existing, groupID, scope.Location)
	if out == nil {
		out = []domain.SeriesConflict{}
	}
	return out, nil
}

// advisoryConflicts pairs every draft with its first clash, if any.
func advisoryConflicts(
	ctx context.Context,
	repo domain.Repository,
	userID uint,
	drafts []models.Appointment,
	excludeID *uint,
) ([]dto.ConflictDTO, error) {

	out := []dto.ConflictDTO{}
	if len(drafts) == 0 {
		return out, nil
	}

	occurrences := make([]domain.Occurrence, 0, len(drafts))
	for i := range drafts {
		occurrences = append(occurrences, domain.Occurrence{Interval: domain.IntervalOf(&drafts[i])})
	}
	from, to := span(occurrences)

	existing, err := repo.ListOverlapping(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	for _, occ := range occurrences {
		if hit := domain.FindConflict(occ.Interval, existing, excludeID); hit != nil {
			out = append(out, conflictDTO(occ.Interval, hit))
		}
	}
	return out, nil
}

// span covers every start and end, including inverted intervals.
func span(occurrences []domain.Occurrence) (from, to time.Time) {
	first := true
	for _, occ := range occurrences {
		for _, t := range [2]time.Time{occ.Interval.Start, occ.Interval.End} {
			if first {
				from, to, first = t, t, false
				continue
			}
			if t.Before(from) {
				from = t
			}
			if t.After(to) {
				to = t
			}
		}
	}
	return from, to
}

func conflictDTO(candidate domain.Interval, hit *models.Appointment) dto.ConflictDTO {
	return dto.ConflictDTO{
		CandidateStart: candidate.Start,
		CandidateEnd:   candidate.End,
		AppointmentID:  hit.ID,
		Title:          hit.Title,
		StartTime:      hit.StartTime,
		EndTime:        hit.EndTime,
	}
}
