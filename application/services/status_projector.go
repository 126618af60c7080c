package services

import (
	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

type RunningDocument struct {
	Status      domain.ExecutionStatus `json:"status"`
	ExecutionID string                 `json:"execution_id"`
	StartTime   string                 `json:"start_time"`
	Message     string                 `json:"message"`
}

type ErrorDocument struct {
	Status      domain.ExecutionStatus `json:"status"`
	ExecutionID string                 `json:"execution_id"`
	Error       string                 `json:"error"`
	Timestamp   string                 `json:"timestamp"`
}

type statusProjector struct{}

// NewStatusProjector builds the pure mapping from a raw execution record to
// the client-facing status document. Polling clients may invoke it any
// number of times; identical records always project identically.
func NewStatusProjector() inbound.StatusProjectorPort {
	return &statusProjector{}
}

func (p *statusProjector) Project(record *domain.ExecutionRecord) interface{} {
	switch {
	case !record.Status.Terminal():
		return RunningDocument{
			Status:      record.Status,
			ExecutionID: record.ExecutionID,
			StartTime:   record.StartTime,
			Message:     "Story video generation in progress",
		}
	case record.Status == domain.ExecutionCompleted || record.Status == domain.ExecutionTimedOut:
		// The accumulated record is the client-facing document. TimedOut is
		// passed through whole as well: the render job is unresolved, not
		// failed, and the partial outputs are worth showing.
		return record
	default:
		errMsg := record.Error
		if errMsg == "" {
			errMsg = record.Message
		}
		return ErrorDocument{
			Status:      record.Status,
			ExecutionID: record.ExecutionID,
			Error:       errMsg,
			Timestamp:   record.Timestamp,
		}
	}
}
