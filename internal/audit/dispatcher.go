package audit

import (
	"context"
	"log/slog"
	"sync"
)

type Event struct {
	UserID   uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

// Sink persists one event.
type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink   Sink
	logger *slog.Logger
	queue  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher(sink Sink, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		if err := d.sink.Log(context.Background(), ev); err != nil {
			d.logger.Error("audit write failed", "action", ev.Action, "error", err)
		}
	}
}

// Dispatch never blocks the request: a full queue drops the event.
func (d *Dispatcher) Dispatch(ev Event) {
	if d == nil {
		return
	}
	select {
	case d.queue <- ev:
	default:
		d.logger.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits for the queue to drain or ctx to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() { close(d.queue) })
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
