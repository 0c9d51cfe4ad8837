package reminder

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/BruksfildServices01/practice-scheduler/internal/models"
)

type memStore struct {
	due      []models.Appointment
	marked   []uint
	from, to time.Time
}

func (s *memStore) DueReminders(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	s.from, s.to = from, to
	return s.due, nil
}

func (s *memStore) MarkReminded(_ context.Context, ids []uint, _ time.Time) error {
	s.marked = append(s.marked, ids...)
	return nil
}

func (s *memStore) Timezones(_ context.Context, _ []uint) (map[uint]string, error) {
	return map[uint]string{1: "America/Sao_Paulo"}, nil
}

type memNotifier struct {
	mu   sync.Mutex
	msgs []Message
	fail map[uint]bool
}

func (n *memNotifier) SendReminder(_ context.Context, msg Message) error {
	if n.fail[msg.AppointmentID] {
		return errors.New("unreachable")
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return nil
}

func TestWorker_Run(t *testing.T) {
	now := time.Date(2024, time.March, 11, 12, 0, 0, 0, time.UTC)

	store := &memStore{due: []models.Appointment{
		{ID: 1, UserID: 1, StartTime: now.Add(2 * time.Hour), Client: &models.Client{Name: "Ana", Phone: "11999990000"}},
		{ID: 2, UserID: 1, StartTime: now.Add(3 * time.Hour), Client: &models.Client{Name: "Bruno", Phone: "11988880000"}},
		{ID: 3, UserID: 1, StartTime: now.Add(4 * time.Hour), Client: &models.Client{Name: "Sem telefone"}},
		{ID: 4, UserID: 1, StartTime: now.Add(5 * time.Hour), Client: &models.Client{Name: "Caio", Phone: "11977770000"}, IsOnline: true, OnlineURL: "https://meet.example/x"},
	}}
	notifier := &memNotifier{fail: map[uint]bool{2: true}}

	w := NewWorker(store, notifier, 24*time.Hour)
	w.now = func() time.Time { return now }

	n, err := w.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Fatalf("expected 2 sent, got %d", n)
	}
	if !store.to.Equal(now.Add(24 * time.Hour)) {
		t.Fatalf("unexpected window end %v", store.to)
	}

	sort.Slice(store.marked, func(i, j int) bool { return store.marked[i] < store.marked[j] })
	if len(store.marked) != 2 || store.marked[0] != 1 || store.marked[1] != 4 {
		t.Fatalf("expected 1 and 4 marked, got %v", store.marked)
	}

	for _, msg := range notifier.msgs {
		if msg.AppointmentID == 1 && !strings.Contains(msg.Text, "11/03 às 11:00") {
			t.Fatalf("expected local time in text, got %q", msg.Text)
		}
		if msg.AppointmentID == 4 && !strings.Contains(msg.Text, "https://meet.example/x") {
			t.Fatalf("expected online link, got %q", msg.Text)
		}
	}
}

func TestWorker_NothingDue(t *testing.T) {
	store := &memStore{}
	n, err := NewWorker(store, &memNotifier{}, time.Hour).Run(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected nothing, got %d %v", n, err)
	}
	if store.marked != nil {
		t.Fatal("nothing should be marked")
	}
}
