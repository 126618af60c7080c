package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

func TestJobMonitor_CompletesAfterKPolls(t *testing.T) {
	const k = 4

	clock := newFakeClock()
	monitor := NewJobMonitor(&testLogger{}, clock, 15*time.Second, 15*time.Minute)

	poller := &fakePoller{inProgressPolls: k - 1, finalState: domain.JobCompleted}

	state, err := monitor.Monitor(context.Background(), poller, "arn:job/abc123")
	if err != nil {
		t.Fatal("Unexpected monitor error:", err)
	}
	if state != domain.JobCompleted {
		t.Fatalf("Expected Completed, got %s", state)
	}
	if poller.polls != k {
		t.Fatalf("Expected exactly %d polls, got %d", k, poller.polls)
	}
}

func TestJobMonitor_TimesOutAtBudget(t *testing.T) {
	const (
		interval = 15 * time.Second
		budget   = time.Minute
	)

	clock := newFakeClock()
	start := clock.Now()
	monitor := NewJobMonitor(&testLogger{}, clock, interval, budget)

	poller := &fakePoller{inProgressPolls: -1}

	state, err := monitor.Monitor(context.Background(), poller, "arn:job/forever")
	if err != nil {
		t.Fatal("Unexpected monitor error:", err)
	}
	if state != domain.JobTimedOut {
		t.Fatalf("Expected TimedOut, got %s", state)
	}

	elapsed := clock.Now().Sub(start)
	if elapsed <= budget {
		t.Fatalf("Monitor gave up before the budget: elapsed %s, budget %s", elapsed, budget)
	}
	if elapsed > budget+interval {
		t.Fatalf("Monitor overran the budget by more than one interval: elapsed %s", elapsed)
	}
}

func TestJobMonitor_ReturnsFailedVerbatim(t *testing.T) {
	clock := newFakeClock()
	monitor := NewJobMonitor(&testLogger{}, clock, 15*time.Second, time.Minute)

	poller := &fakePoller{inProgressPolls: 1, finalState: domain.JobFailed}

	state, err := monitor.Monitor(context.Background(), poller, "arn:job/bad")
	if err != nil {
		t.Fatal("Unexpected monitor error:", err)
	}
	if state != domain.JobFailed {
		t.Fatalf("Expected Failed, got %s", state)
	}
}

func TestJobMonitor_PollFailureIsError(t *testing.T) {
	clock := newFakeClock()
	monitor := NewJobMonitor(&testLogger{}, clock, 15*time.Second, time.Minute)

	poller := &fakePoller{pollErr: fmt.Errorf("connection reset")}

	state, err := monitor.Monitor(context.Background(), poller, "arn:job/flaky")
	if err == nil {
		t.Fatal("Expected a poll error")
	}
	var upstreamErr *domain.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("Expected UpstreamError, got %T", err)
	}
	if state != domain.JobError {
		t.Fatalf("Expected Error state, got %s", state)
	}
	if poller.polls != 1 {
		t.Fatalf("Expected a single poll before giving up, got %d", poller.polls)
	}
}

func TestJobMonitor_CancelledContextStopsLoop(t *testing.T) {
	clock := newFakeClock()
	monitor := NewJobMonitor(&testLogger{}, clock, 15*time.Second, time.Minute)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	poller := &fakePoller{inProgressPolls: -1}

	state, err := monitor.Monitor(ctx, poller, "arn:job/cancelled")
	if err == nil {
		t.Fatal("Expected a cancellation error")
	}
	if state != domain.JobError {
		t.Fatalf("Expected Error state, got %s", state)
	}
}
