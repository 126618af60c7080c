package services

import (
	"context"
	"fmt"

	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
	"github.com/google/uuid"
)

type mergeStage struct {
	logger            outbound.LoggerPort
	speech            outbound.SpeechSynthesizerPort
	blobStore         outbound.BlobStorePort
	mergeJob          outbound.MergeJobPort
	monitor           inbound.JobMonitorPort
	destinationBucket string
}

func NewMergeStage(logger outbound.LoggerPort, speech outbound.SpeechSynthesizerPort,
	blobStore outbound.BlobStorePort, mergeJob outbound.MergeJobPort,
	monitor inbound.JobMonitorPort, destinationBucket string) inbound.MergeStagePort {
	return &mergeStage{
		logger:            logger,
		speech:            speech,
		blobStore:         blobStore,
		mergeJob:          mergeJob,
		monitor:           monitor,
		destinationBucket: destinationBucket,
	}
}

// Merge narrates the story and merges the narration with the silent video.
// videoLocation must be the exact location the video stage produced for this
// story id; a guessed path could cross-contaminate concurrent executions.
func (s *mergeStage) Merge(ctx context.Context, storyID string, narration string, videoLocation string) (domain.JobState, string, error) {
	if videoLocation == "" {
		return domain.JobError, "", domain.NewConfigurationError("silent video location is required")
	}

	audioBytes, err := s.speech.Synthesize(ctx, narration)
	if err != nil {
		return domain.JobError, "", err
	}

	audioKey := domain.NarrationAudioKey(storyID, uuid.NewString())
	if err := s.blobStore.Put(ctx, s.destinationBucket, audioKey, audioBytes, "audio/mpeg"); err != nil {
		return domain.JobError, "", domain.NewStorageError(audioKey, err)
	}
	audioLocation := fmt.Sprintf("s3://%s/%s", s.destinationBucket, audioKey)

	finalLocation := fmt.Sprintf("s3://%s/%s", s.destinationBucket, domain.FinalVideoKey(storyID))

	handle, err := s.mergeJob.Start(ctx, outbound.StartMergeJobRequest{
		StoryID:       storyID,
		VideoLocation: videoLocation,
		AudioLocation: audioLocation,
		Destination:   finalLocation,
	})
	if err != nil {
		return domain.JobError, "", err
	}

	s.logger.InfoWithFields("Monitoring merge job", map[string]interface{}{
		"story_id": storyID,
		"handle":   handle,
		"video":    videoLocation,
		"audio":    audioLocation,
	})

	state, err := s.monitor.Monitor(ctx, s.mergeJob, handle)
	if err != nil {
		return domain.JobError, "", err
	}
	if state != domain.JobCompleted {
		return state, "", nil
	}

	return state, finalLocation, nil
}
