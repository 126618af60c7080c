package outbound

import (
	"context"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

// JobPoller reads the status of a submitted asynchronous job. Polling is a
// pure read: calling it any number of times with the same handle never
// re-submits anything.
type JobPoller interface {
	Poll(ctx context.Context, handle string) (domain.JobState, error)
}

type StartVideoJobRequest struct {
	StoryID string
	Shots   []domain.Shot
}

// VideoJobPort starts and polls the silent video render job.
type VideoJobPort interface {
	JobPoller
	Start(ctx context.Context, req StartVideoJobRequest) (string, error)
	// OutputFolder derives the deterministic job-scoped destination folder
	// from the handle returned by Start.
	OutputFolder(handle string) string
}
