package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
	"github.com/Natasha24s/AIStoryTeller/infrastructure/gin_interface/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PipelineController interface {
	StartPipeline(c *gin.Context)
	GetStatus(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type pipelineController struct {
	logger         outbound.LoggerPort
	clock          outbound.ClockPort
	workerPool     outbound.TaskDispatcher
	executionStore outbound.ExecutionStorePort
	orchestrator   inbound.PipelineOrchestratorPort
	projector      inbound.StatusProjectorPort
	s3Config       *config.S3Config
}

func NewPipelineController(logger outbound.LoggerPort, clock outbound.ClockPort,
	workerPool outbound.TaskDispatcher, executionStore outbound.ExecutionStorePort,
	orchestrator inbound.PipelineOrchestratorPort, projector inbound.StatusProjectorPort,
	s3Config *config.S3Config) PipelineController {
	return &pipelineController{
		logger:         logger,
		clock:          clock,
		workerPool:     workerPool,
		executionStore: executionStore,
		orchestrator:   orchestrator,
		projector:      projector,
		s3Config:       s3Config,
	}
}

func (p *pipelineController) StartPipeline(c *gin.Context) {
	var startRequest dto.StartPipelineRequest
	if err := c.ShouldBindJSON(&startRequest); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "topic is required",
			Timestamp: p.now(),
		})
		return
	}
	topic := strings.TrimSpace(startRequest.Topic)
	if topic == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "topic is required",
			Timestamp: p.now(),
		})
		return
	}

	executionID := uuid.NewString()
	startTime := p.now()

	record := &domain.ExecutionRecord{
		ExecutionID:       executionID,
		Status:            domain.ExecutionInProgress,
		Topic:             topic,
		SourceBucket:      p.s3Config.SourceBucket,
		DestinationBucket: p.s3Config.DestinationBucket,
		StartTime:         startTime,
		Timestamp:         startTime,
	}

	if err := p.executionStore.Create(c.Request.Context(), record); err != nil {
		p.logger.Error(err, "Failed to create execution record")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "failed to start execution",
			Timestamp: p.now(),
		})
		return
	}

	// The run outlives this request; it carries its own context.
	err := p.workerPool.Submit(func() {
		p.orchestrator.Execute(context.Background(), executionID, topic)
	})
	if err != nil {
		p.logger.Error(err, "Failed to submit pipeline execution to worker pool")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     "failed to start execution",
			Timestamp: p.now(),
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.StartPipelineResponse{
		ExecutionID: executionID,
		StartTime:   startTime,
		Status:      string(domain.ExecutionInProgress),
		Message:     "Story video generation started",
	})
}

func (p *pipelineController) GetStatus(c *gin.Context) {
	executionID := c.Query("execution_id")
	if executionID == "" {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:     "execution_id is required",
			Timestamp: p.now(),
		})
		return
	}

	record, err := p.executionStore.Get(c.Request.Context(), executionID)
	if err != nil {
		if errors.Is(err, domain.ErrExecutionNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:     "execution not found",
				Timestamp: p.now(),
			})
			return
		}
		p.logger.ErrorWithFields(err, "Failed to load execution record", map[string]interface{}{
			"execution_id": executionID,
		})
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:     err.Error(),
			Timestamp: p.now(),
		})
		return
	}

	c.JSON(http.StatusOK, p.projector.Project(record))
}

func (p *pipelineController) RegisterRoutes(g *gin.Engine) {
	g.POST("/generate", p.StartPipeline)
	g.GET("/status", p.GetStatus)
}

func (p *pipelineController) now() string {
	return p.clock.Now().Format(domain.TimestampLayout)
}
