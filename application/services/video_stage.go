package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

const shotKeyPrefix = "shot"
const shotKeySuffix = "_text"

type videoStage struct {
	logger       outbound.LoggerPort
	blobStore    outbound.BlobStorePort
	videoJob     outbound.VideoJobPort
	monitor      inbound.JobMonitorPort
	sourceBucket string
}

func NewVideoStage(logger outbound.LoggerPort, blobStore outbound.BlobStorePort,
	videoJob outbound.VideoJobPort, monitor inbound.JobMonitorPort, sourceBucket string) inbound.VideoStagePort {
	return &videoStage{
		logger:       logger,
		blobStore:    blobStore,
		videoJob:     videoJob,
		monitor:      monitor,
		sourceBucket: sourceBucket,
	}
}

func (s *videoStage) Run(ctx context.Context, storyID string) (domain.JobState, string, error) {
	shots, err := s.buildShots(ctx, storyID)
	if err != nil {
		return domain.JobError, "", err
	}

	handle, err := s.videoJob.Start(ctx, outbound.StartVideoJobRequest{
		StoryID: storyID,
		Shots:   shots,
	})
	if err != nil {
		return domain.JobError, "", err
	}

	outputFolder := s.videoJob.OutputFolder(handle)
	s.logger.InfoWithFields("Monitoring video render job", map[string]interface{}{
		"story_id": storyID,
		"handle":   handle,
		"folder":   outputFolder,
	})

	state, err := s.monitor.Monitor(ctx, s.videoJob, handle)
	if err != nil {
		return domain.JobError, "", err
	}
	if state != domain.JobCompleted {
		return state, "", nil
	}

	return state, outputFolder + "/output.mp4", nil
}

// buildShots loads scenes.json and produces the ordered shot list. The order
// is the numeric key suffix, not insertion order, guarding against
// out-of-order storage. A scene image is attached only when it exists.
func (s *videoStage) buildShots(ctx context.Context, storyID string) ([]domain.Shot, error) {
	scenesKey := domain.ScenesKey(storyID)
	payload, err := s.blobStore.Get(ctx, s.sourceBucket, scenesKey)
	if err != nil {
		return nil, domain.NewStorageError(scenesKey, err)
	}

	var scenes map[string]string
	if err := json.Unmarshal(payload, &scenes); err != nil {
		return nil, domain.NewConfigurationError(fmt.Sprintf("malformed scenes file %s: %v", scenesKey, err))
	}

	shots := make([]domain.Shot, 0, len(scenes))
	for key, text := range scenes {
		if !strings.HasPrefix(key, shotKeyPrefix) || !strings.HasSuffix(key, shotKeySuffix) {
			continue
		}
		ordinal, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(key, shotKeyPrefix), shotKeySuffix))
		if err != nil {
			s.logger.WarnWithFields("Skipping scene key with non-numeric ordinal", map[string]interface{}{
				"story_id": storyID,
				"key":      key,
			})
			continue
		}

		text = cleanSceneText(text)
		if text == "" {
			continue
		}

		shot := domain.Shot{Ordinal: ordinal, Text: text}

		imageKey := domain.SceneImageKey(storyID, ordinal)
		exists, err := s.blobStore.Exists(ctx, s.sourceBucket, imageKey)
		if err != nil {
			return nil, domain.NewStorageError(imageKey, err)
		}
		if exists {
			shot.ImageURI = fmt.Sprintf("s3://%s/%s", s.sourceBucket, imageKey)
		}

		shots = append(shots, shot)
	}

	if len(shots) == 0 {
		return nil, domain.NewConfigurationError(fmt.Sprintf("no valid shots found in %s", scenesKey))
	}

	sort.Slice(shots, func(i, j int) bool {
		return shots[i].Ordinal < shots[j].Ordinal
	})

	return shots, nil
}

// cleanSceneText strips markdown bold markers and a leading "N." numbering
// left over from the story generator output.
func cleanSceneText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "**", "")
	if text != "" && text[0] >= '0' && text[0] <= '9' {
		if _, rest, found := strings.Cut(text, "."); found {
			text = rest
		}
	}
	return strings.TrimSpace(text)
}
