package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

const (
	reelTaskType  = "MULTI_SHOT_MANUAL"
	reelFps       = 24
	reelDimension = "1280x720"
	reelSeed      = 42
)

type reelShot struct {
	Text  string     `json:"text"`
	Image *reelImage `json:"image,omitempty"`
}

type reelImage struct {
	Format string `json:"format"`
	Source struct {
		S3Location struct {
			Uri string `json:"uri"`
		} `json:"s3Location"`
	} `json:"source"`
}

type reelStartRequest struct {
	Model                string `json:"model"`
	TaskType             string `json:"taskType"`
	MultiShotManualParams struct {
		Shots []reelShot `json:"shots"`
	} `json:"multiShotManualParams"`
	VideoGenerationConfig struct {
		Fps       int    `json:"fps"`
		Dimension string `json:"dimension"`
		Seed      int    `json:"seed"`
	} `json:"videoGenerationConfig"`
	OutputDataConfig struct {
		S3Uri string `json:"s3Uri"`
	} `json:"outputDataConfig"`
}

type reelStartResponse struct {
	InvocationArn string `json:"invocationArn"`
}

type reelStatusResponse struct {
	Status string `json:"status"`
}

type reelVideoJob struct {
	ContentFetcher
	logger            outbound.LoggerPort
	reelConfig        *config.ReelConfig
	destinationBucket string
}

func NewReelVideoJob(contentFetcher ContentFetcher, reelConfig *config.ReelConfig,
	destinationBucket string, logger outbound.LoggerPort) outbound.VideoJobPort {
	return &reelVideoJob{
		ContentFetcher:    contentFetcher,
		logger:            logger,
		reelConfig:        reelConfig,
		destinationBucket: destinationBucket,
	}
}

func (r *reelVideoJob) Start(ctx context.Context, startReq outbound.StartVideoJobRequest) (string, error) {
	body := reelStartRequest{
		Model:    r.reelConfig.Model,
		TaskType: reelTaskType,
	}
	for _, shot := range startReq.Shots {
		rs := reelShot{Text: shot.Text}
		if shot.ImageURI != "" {
			img := &reelImage{Format: "png"}
			img.Source.S3Location.Uri = shot.ImageURI
			rs.Image = img
		}
		body.MultiShotManualParams.Shots = append(body.MultiShotManualParams.Shots, rs)
	}
	body.VideoGenerationConfig.Fps = reelFps
	body.VideoGenerationConfig.Dimension = reelDimension
	body.VideoGenerationConfig.Seed = reelSeed
	body.OutputDataConfig.S3Uri = fmt.Sprintf("s3://%s", r.destinationBucket)

	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.reelConfig.ApiUrl+"/async-invoke", bytes.NewBuffer(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+r.reelConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	rawRes, err := r.FetchContent(req)
	if err != nil {
		return "", domain.NewUpstreamError("video render start", err)
	}

	var res reelStartResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		return "", domain.NewUpstreamError("video render start", err)
	}
	if res.InvocationArn == "" {
		return "", domain.NewUpstreamError("video render start", fmt.Errorf("missing invocation arn"))
	}

	r.logger.InfoWithFields("Started video render job", map[string]interface{}{
		"story_id": startReq.StoryID,
		"handle":   res.InvocationArn,
		"shots":    len(startReq.Shots),
	})

	return res.InvocationArn, nil
}

func (r *reelVideoJob) Poll(ctx context.Context, handle string) (domain.JobState, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		r.reelConfig.ApiUrl+"/async-invoke/"+jobIDFromHandle(handle), nil)
	if err != nil {
		return domain.JobError, err
	}
	req.Header.Set("Authorization", "Bearer "+r.reelConfig.ApiKey)

	rawRes, err := r.FetchContent(req)
	if err != nil {
		return domain.JobError, err
	}

	var res reelStatusResponse
	if err := json.Unmarshal(rawRes, &res); err != nil {
		return domain.JobError, err
	}

	// The render API reports InProgress/Completed/Failed verbatim.
	return domain.JobState(res.Status), nil
}

// OutputFolder derives the job-scoped destination folder from the invocation
// handle: the render service writes under the last handle segment.
func (r *reelVideoJob) OutputFolder(handle string) string {
	return fmt.Sprintf("s3://%s/%s", r.destinationBucket, jobIDFromHandle(handle))
}

func jobIDFromHandle(handle string) string {
	if idx := strings.LastIndex(handle, "/"); idx >= 0 {
		return handle[idx+1:]
	}
	return handle
}
