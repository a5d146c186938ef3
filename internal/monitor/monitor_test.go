package monitor

import (
	"context"
	"fmt"
	"testing"
	"time"

	"dnsdelay/internal/models"
)

type countingRunner struct {
	runs int
}

func (r *countingRunner) Run(context.Context) models.Report {
	r.runs++
	return models.Report{Server: fmt.Sprintf("run-%d", r.runs)}
}

func TestRunOnceRecordsLatest(t *testing.T) {
	m := New(&countingRunner{}, time.Minute, 10)

	if _, ok := m.Latest(); ok {
		t.Fatal("no report expected before the first run")
	}

	m.RunOnce(context.Background())
	m.RunOnce(context.Background())

	latest, ok := m.Latest()
	if !ok || latest.Server != "run-2" {
		t.Fatalf("latest = %+v, ok = %v", latest, ok)
	}
}

func TestHistoryBounded(t *testing.T) {
	m := New(&countingRunner{}, time.Minute, 3)

	for i := 0; i < 5; i++ {
		m.RunOnce(context.Background())
	}

	history := m.HistoryN(10)
	if len(history) != 3 {
		t.Fatalf("history length %d, want 3", len(history))
	}
	if history[0].Server != "run-3" || history[2].Server != "run-5" {
		t.Fatalf("history order: %q .. %q", history[0].Server, history[2].Server)
	}

	if got := m.HistoryN(2); len(got) != 2 || got[1].Server != "run-5" {
		t.Fatalf("limited history: %+v", got)
	}
}

func TestSubscribeReceivesReports(t *testing.T) {
	m := New(&countingRunner{}, time.Minute, 10)

	ch, cancel := m.Subscribe()
	defer cancel()

	m.RunOnce(context.Background())

	select {
	case report := <-ch:
		if report.Server != "run-1" {
			t.Fatalf("got %q", report.Server)
		}
	case <-time.After(time.Second):
		t.Fatal("no report received")
	}

	cancel()
	m.RunOnce(context.Background())
	select {
	case report := <-ch:
		t.Fatalf("received %q after cancel", report.Server)
	default:
	}
}

func TestStartStop(t *testing.T) {
	runner := &countingRunner{}
	m := New(runner, time.Hour, 10)

	m.Start()
	m.Stop()

	if runner.runs != 1 {
		t.Fatalf("runs = %d, want exactly the initial session", runner.runs)
	}
	// Stop again must not block or panic.
	m.Stop()
}
