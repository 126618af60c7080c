package services

import (
	"context"
	"errors"

	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

// pipelineOrchestrator sequences story → video → merge. Each stage receives
// only the story id (plus, for merge, the prior stage's output location);
// everything else is re-read from the blob store by path. Stage outputs are
// accumulated append-only into the execution record after every stage.
type pipelineOrchestrator struct {
	logger         outbound.LoggerPort
	clock          outbound.ClockPort
	executionStore outbound.ExecutionStorePort
	storyStage     inbound.StoryStagePort
	videoStage     inbound.VideoStagePort
	mergeStage     inbound.MergeStagePort
}

func NewPipelineOrchestrator(logger outbound.LoggerPort, clock outbound.ClockPort,
	executionStore outbound.ExecutionStorePort, storyStage inbound.StoryStagePort,
	videoStage inbound.VideoStagePort, mergeStage inbound.MergeStagePort) inbound.PipelineOrchestratorPort {
	return &pipelineOrchestrator{
		logger:         logger,
		clock:          clock,
		executionStore: executionStore,
		storyStage:     storyStage,
		videoStage:     videoStage,
		mergeStage:     mergeStage,
	}
}

func (p *pipelineOrchestrator) Execute(ctx context.Context, executionID string, topic string) {
	record, err := p.executionStore.Get(ctx, executionID)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to load execution record, aborting run", map[string]interface{}{
			"execution_id": executionID,
		})
		return
	}

	story, err := p.storyStage.Generate(ctx, topic)
	if err != nil {
		status := domain.ExecutionError
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			status = domain.ExecutionFailed
		}
		p.finish(ctx, record, status, "Story generation failed", err)
		return
	}

	record.StoryID = story.StoryID
	record.Timestamp = p.now()
	p.update(ctx, record)

	videoState, videoLocation, err := p.videoStage.Run(ctx, story.StoryID)
	record.AppendOutput(domain.InitialVideoStage, domain.StageOutput{
		Status:    videoState,
		Location:  videoLocation,
		Timestamp: p.now(),
	})
	if err != nil {
		p.finish(ctx, record, domain.ExecutionError, domain.StageMessageFor(domain.InitialVideoStage, videoState), err)
		return
	}
	if videoState != domain.JobCompleted {
		p.finish(ctx, record, domain.ExecutionStatusFor(videoState), domain.StageMessageFor(domain.InitialVideoStage, videoState), nil)
		return
	}
	record.Timestamp = p.now()
	p.update(ctx, record)

	mergeState, mergeLocation, err := p.mergeStage.Merge(ctx, story.StoryID, story.Narration, videoLocation)
	record.AppendOutput(domain.FinalVideoStage, domain.StageOutput{
		Status:    mergeState,
		Location:  mergeLocation,
		Timestamp: p.now(),
	})
	if err != nil {
		p.finish(ctx, record, domain.ExecutionError, domain.StageMessageFor(domain.FinalVideoStage, mergeState), err)
		return
	}

	// Overall status follows the last scheduled stage.
	p.finish(ctx, record, domain.ExecutionStatusFor(mergeState), domain.StageMessageFor(domain.FinalVideoStage, mergeState), nil)
}

func (p *pipelineOrchestrator) finish(ctx context.Context, record *domain.ExecutionRecord,
	status domain.ExecutionStatus, message string, cause error) {
	record.Status = status
	record.Message = message
	record.Timestamp = p.now()
	if cause != nil {
		record.Error = cause.Error()
		p.logger.ErrorWithFields(cause, "Pipeline execution finished with error", map[string]interface{}{
			"execution_id": record.ExecutionID,
			"status":       status,
		})
	} else {
		p.logger.InfoWithFields("Pipeline execution finished", map[string]interface{}{
			"execution_id": record.ExecutionID,
			"status":       status,
		})
	}
	p.update(ctx, record)
}

func (p *pipelineOrchestrator) update(ctx context.Context, record *domain.ExecutionRecord) {
	if err := p.executionStore.Update(ctx, record); err != nil {
		p.logger.ErrorWithFields(err, "Failed to update execution record", map[string]interface{}{
			"execution_id": record.ExecutionID,
		})
	}
}

func (p *pipelineOrchestrator) now() string {
	return p.clock.Now().Format(domain.TimestampLayout)
}
