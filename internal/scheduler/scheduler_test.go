package scheduler

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"quillie/internal/log"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	runs int
}

func (f *fakeDispatcher) Run(_ context.Context) (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.runs++
	return 1, 0
}

func testLogger() *log.Logger {
	return log.New(log.Config{
		Component: log.ComponentScheduler,
		Handler:   slog.NewTextHandler(io.Discard, nil),
	})
}

func TestStartStop(t *testing.T) {
	s, err := New(&fakeDispatcher{}, time.UTC, 9, 1, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	s.Start()
	s.Stop()
}

func TestDispatchRunsTheBatch(t *testing.T) {
	d := &fakeDispatcher{}
	s, err := New(d, time.UTC, 9, 1, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	s.dispatch()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.runs != 1 {
		t.Fatalf("runs = %d, want 1", d.runs)
	}
}
