package inbound

import (
	"context"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

// MergeStagePort synthesizes narration audio and merges it with the silent
// video produced for the same story id. The returned location is non-empty
// only when the state is Completed.
type MergeStagePort interface {
	Merge(ctx context.Context, storyID string, narration string, videoLocation string) (domain.JobState, string, error)
}
