package appointment

import (
	"testing"

	"github.com/BruksfildServices01/practice-scheduler/internal/httperr"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

func TestCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to Status
		code     string
	}{
		{StatusScheduled, StatusConfirmed, ""},
		{StatusScheduled, StatusCancelled, ""},
		{StatusConfirmed, StatusCompleted, ""},
		{StatusConfirmed, StatusNoShow, ""},
		{StatusCompleted, StatusScheduled, ""},
		{StatusCancelled, StatusCancelled, ""},
		{StatusCancelled, StatusConfirmed, "invalid_state"},
		{StatusNoShow, StatusCompleted, "invalid_state"},
		{StatusScheduled, "postponed", "invalid_status"},
	}

	for _, tc := range tests {
		err := CanTransition(tc.from, tc.to)
		if tc.code == "" {
			if err != nil {
				t.Fatalf("%s -> %s: unexpected %v", tc.from, tc.to, err)
			}
			continue
		}
		if !httperr.IsBusiness(err, tc.code) {
			t.Fatalf("%s -> %s: expected %s, got %v", tc.from, tc.to, tc.code, err)
		}
	}
}

func TestChangeStatus_Timestamps(t *testing.T) {
	t.Parallel()

	now := at(5, 12, 0)
	ap := models.Appointment{Status: string(StatusScheduled)}

	if err := ChangeStatus(&ap, StatusCancelled, now); err != nil {
		t.Fatal(err)
	}
	if ap.CancelledAt == nil || !ap.CancelledAt.Equal(now) {
		t.Fatal("expected cancelled_at")
	}

	if err := ChangeStatus(&ap, StatusScheduled, now); err != nil {
		t.Fatal(err)
	}
	if ap.CancelledAt != nil || ap.CompletedAt != nil {
		t.Fatal("expected timestamps cleared on reopen")
	}

	if err := ChangeStatus(&ap, StatusCompleted, now); err != nil {
		t.Fatal(err)
	}
	if ap.CompletedAt == nil {
		t.Fatal("expected completed_at")
	}
}
