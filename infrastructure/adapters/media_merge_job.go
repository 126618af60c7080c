package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

type mergeStartRequest struct {
	VideoLocation string `json:"video_location"`
	AudioLocation string `json:"audio_location"`
	Destination   string `json:"destination"`
}

type mergeStartResponse struct {
	JobId string `json:"job_id"`
}

type mergeStatusResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type mediaMergeJob struct {
	ContentFetcher
	logger      outbound.LoggerPort
	mergeConfig *config.MediaMergeConfig
}

func NewMediaMergeJob(contentFetcher ContentFetcher, mergeConfig *config.MediaMergeConfig,
	logger outbound.LoggerPort) outbound.MergeJobPort {
	return &mediaMergeJob{
		ContentFetcher: contentFetcher,
		logger:         logger,
		mergeConfig:    mergeConfig,
	}
}

func (m *mediaMergeJob) Start(ctx context.Context, startReq outbound.StartMergeJobRequest) (string, error) {
	payload, err := json.Marshal(mergeStartRequest{
		VideoLocation: startReq.VideoLocation,
		AudioLocation: startReq.AudioLocation,
		Destination:   startReq.Destination,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", m.mergeConfig.ApiUrl+"/jobs", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+m.mergeConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	rawRes, err := m.FetchContent(req)
	if err != nil {
		return "", domain.NewUpstreamError("media merge start", err)
	}

	var res mergeStartResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		return "", domain.NewUpstreamError("media merge start", err)
	}
	if res.JobId == "" {
		return "", domain.NewUpstreamError("media merge start", fmt.Errorf("missing job id"))
	}

	m.logger.InfoWithFields("Started media merge job", map[string]interface{}{
		"story_id": startReq.StoryID,
		"handle":   res.JobId,
	})

	return res.JobId, nil
}

func (m *mediaMergeJob) Poll(ctx context.Context, handle string) (domain.JobState, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", m.mergeConfig.ApiUrl+"/jobs/"+handle, nil)
	if err != nil {
		return domain.JobError, err
	}
	req.Header.Set("Authorization", "Bearer "+m.mergeConfig.ApiKey)

	rawRes, err := m.FetchContent(req)
	if err != nil {
		return domain.JobError, err
	}

	var res mergeStatusResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		return domain.JobError, err
	}

	return mapMergeStatus(res.Status), nil
}

// The merge service reports MediaConvert-style statuses.
func mapMergeStatus(status string) domain.JobState {
	switch status {
	case "SUBMITTED":
		return domain.JobSubmitted
	case "PROGRESSING":
		return domain.JobInProgress
	case "COMPLETE":
		return domain.JobCompleted
	case "ERROR", "CANCELED":
		return domain.JobFailed
	default:
		return domain.JobState(status)
	}
}
