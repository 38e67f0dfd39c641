package notifier

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
)

// Failure describes a notification that could not be delivered.
type Failure struct {
	Message mailer.Message
	Err     error
}

// Dispatcher sends transactional email asynchronously through a fixed pool
// of workers. Enqueue never blocks the calling operation; delivery failures
// are logged and mirrored onto a bounded failures channel so they stay
// observable.
type Dispatcher struct {
	mailer  mailer.Mailer
	workers int
	logger  *slog.Logger

	jobs     chan mailer.Message
	failures chan Failure
	wg       sync.WaitGroup
	cancel   context.CancelFunc
	mu       sync.Mutex
}

// NewDispatcher constructs the notification worker pool.
func NewDispatcher(m mailer.Mailer, workers int, logger *slog.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &Dispatcher{
		mailer:   m,
		workers:  workers,
		logger:   logger,
		jobs:     make(chan mailer.Message, workers*16),
		failures: make(chan Failure, 64),
	}
}

// Start launches background delivery.
func (d *Dispatcher) Start(ctx context.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(runCtx)
	}
}

// Stop waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// Enqueue schedules a message for delivery. When the queue is saturated the
// message is dropped and reported as a failure rather than blocking.
func (d *Dispatcher) Enqueue(msg mailer.Message) {
	if msg.To == "" {
		return
	}
	select {
	case d.jobs <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message", slog.String("to", msg.To))
		d.reportFailure(Failure{Message: msg, Err: ErrQueueFull})
	}
}

// Failures exposes delivery failures without ever blocking senders.
func (d *Dispatcher) Failures() <-chan Failure {
	return d.failures
}

func (d *Dispatcher) worker(ctx context.Context) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-d.jobs:
			if !ok {
				return
			}
			if err := d.mailer.Send(msg); err != nil {
				d.logger.Error("notification delivery failed",
					slog.String("to", msg.To),
					slog.String("subject", msg.Subject),
					slog.String("error", err.Error()),
				)
				d.reportFailure(Failure{Message: msg, Err: err})
			}
		}
	}
}

func (d *Dispatcher) reportFailure(f Failure) {
	select {
	case d.failures <- f:
	default:
	}
}
