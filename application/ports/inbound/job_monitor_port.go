package inbound

import (
	"context"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

// JobMonitorPort polls an asynchronous job to a terminal state under a
// bounded wall-clock budget. The returned error is non-nil only when polling
// itself failed, in which case the state is Error.
type JobMonitorPort interface {
	Monitor(ctx context.Context, poller outbound.JobPoller, handle string) (domain.JobState, error)
}
