package inbound

import (
	"context"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

// VideoStagePort submits the silent video render job for a stored story and
// monitors it to completion. The returned location is non-empty only when
// the state is Completed.
type VideoStagePort interface {
	Run(ctx context.Context, storyID string) (domain.JobState, string, error)
}
