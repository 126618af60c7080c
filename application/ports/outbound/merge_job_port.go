package outbound

import "context"

type StartMergeJobRequest struct {
	StoryID       string
	VideoLocation string
	AudioLocation string
	Destination   string
}

// MergeJobPort starts and polls the audio/video merge job.
type MergeJobPort interface {
	JobPoller
	Start(ctx context.Context, req StartMergeJobRequest) (string, error)
}
