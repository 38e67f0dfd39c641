package notifier

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/poruchai/poruchai/internal/adapter/mailer"
)

type recordingMailer struct {
	mu    sync.Mutex
	err   error
	block chan struct{}
	sent  []mailer.Message
}

func (m *recordingMailer) Send(msg mailer.Message) error {
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) delivered() []mailer.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]mailer.Message, len(m.sent))
	copy(out, m.sent)
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcherDelivers(t *testing.T) {
	sender := &recordingMailer{}
	dispatcher := NewDispatcher(sender, 2, discardLogger())
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	for i := 0; i < 5; i++ {
		dispatcher.Enqueue(mailer.Message{To: "user@example.com", Subject: "s", Body: "b"})
	}

	waitFor(t, func() bool { return len(sender.delivered()) == 5 })
}

func TestDispatcherSkipsEmptyRecipient(t *testing.T) {
	sender := &recordingMailer{}
	dispatcher := NewDispatcher(sender, 1, discardLogger())
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	dispatcher.Enqueue(mailer.Message{Subject: "no recipient"})
	dispatcher.Enqueue(mailer.Message{To: "user@example.com", Subject: "ok"})

	waitFor(t, func() bool { return len(sender.delivered()) == 1 })
	if got := sender.delivered()[0].Subject; got != "ok" {
		t.Fatalf("unexpected delivered message %q", got)
	}
}

func TestDispatcherReportsDeliveryFailure(t *testing.T) {
	sendErr := errors.New("smtp down")
	sender := &recordingMailer{err: sendErr}
	dispatcher := NewDispatcher(sender, 1, discardLogger())
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	dispatcher.Enqueue(mailer.Message{To: "user@example.com", Subject: "s"})

	select {
	case failure := <-dispatcher.Failures():
		if !errors.Is(failure.Err, sendErr) {
			t.Fatalf("unexpected failure error %v", failure.Err)
		}
		if failure.Message.To != "user@example.com" {
			t.Fatalf("unexpected failed message %+v", failure.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected a delivery failure report")
	}
}

func TestDispatcherDropsWhenSaturated(t *testing.T) {
	block := make(chan struct{})
	sender := &recordingMailer{block: block}
	dispatcher := NewDispatcher(sender, 1, discardLogger())
	dispatcher.Start(context.Background())
	defer func() {
		close(block)
		dispatcher.Stop()
	}()

	// One message occupies the worker, the rest fill the queue.
	for i := 0; i < cap(dispatcher.jobs)+8; i++ {
		dispatcher.Enqueue(mailer.Message{To: "user@example.com"})
	}

	select {
	case failure := <-dispatcher.Failures():
		if !errors.Is(failure.Err, ErrQueueFull) {
			t.Fatalf("expected queue full error, got %v", failure.Err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("expected overflow to surface as a failure")
	}
}

func TestDispatcherStopWaitsForWorkers(t *testing.T) {
	sender := &recordingMailer{}
	dispatcher := NewDispatcher(sender, 3, discardLogger())
	dispatcher.Start(context.Background())

	done := make(chan struct{})
	go func() {
		dispatcher.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("stop did not finish")
	}
}
