package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Natasha24s/AIStoryTeller/application/services"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/infrastructure/adapters"
	"github.com/Natasha24s/AIStoryTeller/infrastructure/gin_interface/controllers"
	"github.com/Natasha24s/AIStoryTeller/middleware"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	gptConfig, err := config.GetGptConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get gpt config")
	}

	dalleConfig, err := config.GetDaLLeConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dalle config")
	}

	elevenLabsConfig, err := config.GetElevenLabsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get eleven labs config")
	}

	reelConfig, err := config.GetReelConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get reel config")
	}

	mergeConfig, err := config.GetMediaMergeConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get media merge config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	monitorConfig, err := config.GetMonitorConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get monitor config")
	}

	imageDelaySeconds := os.Getenv("SCENE_IMAGE_DELAY_SECONDS")
	imageDelay, err := strconv.Atoi(imageDelaySeconds)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse scene image delay")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
		Config:            aws.Config{Region: aws.String(s3Config.Region)},
	}))

	s3Client := s3.New(sess)
	dynamoClient := dynamodb.New(sess)

	clock := adapters.NewSystemClock()
	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	blobStore := adapters.NewS3BlobStore(s3Client, zeroLogger)
	executionStore := adapters.NewDynamoExecutionStore(zeroLogger, dynamoClient, dynamoConfig)

	scriptGenerator := adapters.NewGptScriptGenerator(gptConfig, workerPool, zeroLogger)
	imageGenerator := adapters.NewDalleImageGenerator(contentFetcher, dalleConfig, zeroLogger)
	speechSynthesizer := adapters.NewElevenLabsSpeech(contentFetcher, elevenLabsConfig, zeroLogger)
	videoJob := adapters.NewReelVideoJob(contentFetcher, reelConfig, s3Config.DestinationBucket, zeroLogger)
	mergeJob := adapters.NewMediaMergeJob(contentFetcher, mergeConfig, zeroLogger)

	jobMonitor := services.NewJobMonitor(zeroLogger, clock, monitorConfig.PollInterval, monitorConfig.MaxBudget)

	storyStage := services.NewStoryStage(zeroLogger, clock, scriptGenerator, imageGenerator,
		blobStore, s3Config.SourceBucket, time.Duration(imageDelay)*time.Second)

	videoStage := services.NewVideoStage(zeroLogger, blobStore, videoJob, jobMonitor, s3Config.SourceBucket)

	mergeStage := services.NewMergeStage(zeroLogger, speechSynthesizer, blobStore, mergeJob,
		jobMonitor, s3Config.DestinationBucket)

	orchestrator := services.NewPipelineOrchestrator(zeroLogger, clock, executionStore,
		storyStage, videoStage, mergeStage)

	projector := services.NewStatusProjector()

	pipelineController := controllers.NewPipelineController(zeroLogger, clock, workerPool,
		executionStore, orchestrator, projector, s3Config)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	if jwksUrl := os.Getenv("JWKS_URL"); jwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(jwksUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		router.Use(authHandler.AuthMiddleware())
	} else {
		zeroLogger.Warn("JWKS_URL not set, running without authentication")
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	pipelineController.RegisterRoutes(router)

	err = router.Run(":8080")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
