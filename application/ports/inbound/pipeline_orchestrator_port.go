package inbound

import "context"

// PipelineOrchestratorPort runs one full story→video→merge execution,
// accumulating stage outputs into the execution record as it goes.
type PipelineOrchestratorPort interface {
	Execute(ctx context.Context, executionID string, topic string)
}
