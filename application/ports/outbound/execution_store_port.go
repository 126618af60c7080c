package outbound

import (
	"context"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

// ExecutionStorePort persists execution records keyed by execution id.
// Each record has a single writer (its own pipeline run), so Update is a
// plain overwrite.
type ExecutionStorePort interface {
	Create(ctx context.Context, record *domain.ExecutionRecord) error
	Get(ctx context.Context, executionID string) (*domain.ExecutionRecord, error)
	Update(ctx context.Context, record *domain.ExecutionRecord) error
}
