package inbound

import (
	"context"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

// StoryStagePort turns a topic into a persisted five-scene story record.
// Generation and parsing failures are degraded to synthetic filler scenes;
// the stage only fails outward on invalid input or a blob store write error.
type StoryStagePort interface {
	Generate(ctx context.Context, topic string) (*domain.StoryRecord, error)
}
