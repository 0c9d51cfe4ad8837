package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/BruksfildServices01/practice-scheduler/internal/logging"
	"github.com/BruksfildServices01/practice-scheduler/internal/models"
	"github.com/BruksfildServices01/practice-scheduler/internal/timezone"
)

// Store is the persistence side of the reminder scan.
type Store interface {
	// DueReminders lists open client appointments starting in [from, to)
	// that were not reminded yet, with the client loaded.
	DueReminders(ctx context.Context, from, to time.Time) ([]models.Appointment, error)
	MarkReminded(ctx context.Context, ids []uint, at time.Time) error
	Timezones(ctx context.Context, userIDs []uint) (map[uint]string, error)
}

type Message struct {
	UserID        uint      `json:"user_id"`
	AppointmentID uint      `json:"appointment_id"`
	ClientName    string    `json:"client_name"`
	Phone         string    `json:"phone"`
	StartTime     time.Time `json:"start_time"`
	Text          string    `json:"text"`
}

type Notifier interface {
	SendReminder(ctx context.Context, msg Message) error
}

const defaultConcurrency = 4

type Worker struct {
	store       Store
	notifier    Notifier
	lead        time.Duration
	concurrency int
	now         func() time.Time
}

func NewWorker(store Store, notifier Notifier, lead time.Duration) *Worker {
	return &Worker{
		store:       store,
		notifier:    notifier,
		lead:        lead,
		concurrency: defaultConcurrency,
		now:         time.Now,
	}
}

// Run sends one reminder per due appointment and marks the delivered ones.
// A failed delivery is logged and retried on the next run.
func (w *Worker) Run(ctx context.Context) (int, error) {
	logger := logging.FromContext(ctx)
	now := w.now()

	due, err := w.store.DueReminders(ctx, now, now.Add(w.lead))
	if err != nil {
		return 0, fmt.Errorf("reminder: scan: %w", err)
	}

	var pending []models.Appointment
	userIDs := map[uint]bool{}
	for _, ap := range due {
		if ap.Client == nil || ap.Client.Phone == "" {
			continue
		}
		pending = append(pending, ap)
		userIDs[ap.UserID] = true
	}
	if len(pending) == 0 {
		return 0, nil
	}

	ids := make([]uint, 0, len(userIDs))
	for id := range userIDs {
		ids = append(ids, id)
	}
	zones, err := w.store.Timezones(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("reminder: timezones: %w", err)
	}

	var (
		mu   sync.Mutex
		sent []uint
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)

	for _, ap := range pending {
		msg := buildMessage(ap, timezone.Location(zones[ap.UserID]))
		g.Go(func() error {
			if err := w.notifier.SendReminder(gctx, msg); err != nil {
				logger.Warn("reminder delivery failed", "appointment_id", msg.AppointmentID, "error", err)
				return nil
			}
			mu.Lock()
			sent = append(sent, msg.AppointmentID)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if len(sent) == 0 {
		return 0, nil
	}
	if err := w.store.MarkReminded(ctx, sent, now); err != nil {
		return 0, fmt.Errorf("reminder: mark: %w", err)
	}

	logger.Info("reminders sent", "due", len(pending), "sent", len(sent))
	return len(sent), nil
}

func buildMessage(ap models.Appointment, loc *time.Location) Message {
	local := ap.StartTime.In(loc)
	text := fmt.Sprintf(
		"Olá, %s! Lembrete da sua sessão em %s às %s.",
		ap.Client.Name,
		local.Format("02/01"),
		local.Format("15:04"),
	)
	if ap.IsOnline && ap.OnlineURL != "" {
		text += " Link: " + ap.OnlineURL
	}

	return Message{
		UserID:        ap.UserID,
		AppointmentID: ap.ID,
		ClientName:    ap.Client.Name,
		Phone:         ap.Client.Phone,
		StartTime:     ap.StartTime,
		Text:          text,
	}
}
