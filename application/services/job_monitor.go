package services

import (
	"context"
	"time"

	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

type jobMonitor struct {
	logger       outbound.LoggerPort
	clock        outbound.ClockPort
	pollInterval time.Duration
	maxBudget    time.Duration
}

func NewJobMonitor(logger outbound.LoggerPort, clock outbound.ClockPort,
	pollInterval time.Duration, maxBudget time.Duration) inbound.JobMonitorPort {
	return &jobMonitor{
		logger:       logger,
		clock:        clock,
		pollInterval: pollInterval,
		maxBudget:    maxBudget,
	}
}

// Monitor polls the job until a terminal state, the wall-clock budget runs
// out, or polling itself fails. The budget is checked locally on every
// iteration; the external job is never trusted to self-report expiry.
func (m *jobMonitor) Monitor(ctx context.Context, poller outbound.JobPoller, handle string) (domain.JobState, error) {
	start := m.clock.Now()

	for {
		state, err := poller.Poll(ctx, handle)
		if err != nil {
			m.logger.ErrorWithFields(err, "Failed to poll job status", map[string]interface{}{
				"handle": handle,
			})
			return domain.JobError, domain.NewUpstreamError("job poll", err)
		}

		m.logger.DebugWithFields("Polled job status", map[string]interface{}{
			"handle": handle,
			"status": state,
		})

		if state != domain.JobInProgress && state != domain.JobSubmitted {
			return state, nil
		}

		if m.clock.Now().Sub(start) > m.maxBudget {
			m.logger.ErrorWithFields(&domain.TimeoutError{Budget: m.maxBudget},
				"Maximum monitoring time exceeded", map[string]interface{}{
					"handle": handle,
				})
			return domain.JobTimedOut, nil
		}

		if err := m.clock.Sleep(ctx, m.pollInterval); err != nil {
			return domain.JobError, err
		}
	}
}
