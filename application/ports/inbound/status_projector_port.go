package inbound

import "github.com/Natasha24s/AIStoryTeller/domain"

// StatusProjectorPort maps a raw execution record onto the client-facing
// status document. It must be a pure mapping: the same record always yields
// the same projection.
type StatusProjectorPort interface {
	Project(record *domain.ExecutionRecord) interface{}
}
