package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Natasha24s/AIStoryTeller/application/ports/inbound"
	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
	"github.com/google/uuid"
)

const fallbackNarration = "A story unfolds across five scenes."

type storyStage struct {
	logger          outbound.LoggerPort
	clock           outbound.ClockPort
	scriptGenerator outbound.StoryScriptGeneratorPort
	imageGenerator  outbound.ImageGeneratorPort
	blobStore       outbound.BlobStorePort
	sourceBucket    string
	imageCallDelay  time.Duration
	sceneRegexp     *regexp.Regexp
	labelRegexp     *regexp.Regexp
}

func NewStoryStage(logger outbound.LoggerPort, clock outbound.ClockPort,
	scriptGenerator outbound.StoryScriptGeneratorPort, imageGenerator outbound.ImageGeneratorPort,
	blobStore outbound.BlobStorePort, sourceBucket string, imageCallDelay time.Duration) inbound.StoryStagePort {
	return &storyStage{
		logger:          logger,
		clock:           clock,
		scriptGenerator: scriptGenerator,
		imageGenerator:  imageGenerator,
		blobStore:       blobStore,
		sourceBucket:    sourceBucket,
		imageCallDelay:  imageCallDelay,
		sceneRegexp:     regexp.MustCompile(`(?:Scene\s*\d+|###\s*Scene\s*\d+|\d+\.)`),
		labelRegexp:     regexp.MustCompile(`^.{1,30}:?\s*\n`),
	}
}

func (s *storyStage) Generate(ctx context.Context, topic string) (*domain.StoryRecord, error) {
	if strings.TrimSpace(topic) == "" {
		return nil, domain.NewValidationError("topic is required")
	}

	storyID := domain.NewStoryID(topic, s.clock.Now(), uuid.NewString())
	s.logger.InfoWithFields("Generating story", map[string]interface{}{
		"story_id": storyID,
		"topic":    topic,
	})

	scenes, fullText := s.generateScenes(ctx, topic)
	narration := s.generateNarration(ctx, fullText)

	record := &domain.StoryRecord{
		StoryID:   storyID,
		Topic:     topic,
		Scenes:    scenes,
		FullText:  fullText,
		Narration: narration,
		ImageURLs: []string{},
	}

	// Scenes and metadata go out before any image call, so partial progress
	// stays inspectable if image generation dies halfway through.
	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}

	s.generateSceneImages(ctx, record)

	if err := s.persist(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// generateScenes calls the script generator and parses the response into
// exactly SceneCount scenes. Any failure degrades to synthetic filler scenes
// derived from the topic: the pipeline must always produce some video.
func (s *storyStage) generateScenes(ctx context.Context, topic string) ([]string, string) {
	fullText, err := s.collectScript(ctx, s.scenesPrompt(topic))
	if err != nil {
		s.logger.ErrorWithFields(err, "Story generation failed, using fallback scenes", map[string]interface{}{
			"topic": topic,
		})
		scenes := fallbackScenes(topic)
		return scenes, strings.Join(scenes, "\n")
	}

	scenes := s.parseScenes(fullText)
	for len(scenes) < domain.SceneCount {
		scenes = append(scenes, fmt.Sprintf("Scene %d about %s", len(scenes)+1, topic))
	}
	return scenes, fullText
}

func (s *storyStage) parseScenes(fullText string) []string {
	raw := s.sceneRegexp.Split(fullText, -1)

	scenes := make([]string, 0, domain.SceneCount)
	for _, scene := range raw {
		scene = strings.TrimSpace(scene)
		if scene == "" {
			continue
		}
		scene = strings.TrimSpace(s.labelRegexp.ReplaceAllString(scene, ""))
		if scene == "" {
			continue
		}
		scenes = append(scenes, scene)
		if len(scenes) == domain.SceneCount {
			break
		}
	}
	return scenes
}

func (s *storyStage) generateNarration(ctx context.Context, fullText string) string {
	narration, err := s.collectScript(ctx, s.narrationPrompt(fullText))
	if err != nil {
		s.logger.Error(err, "Narration generation failed, using fallback narration")
		return fallbackNarration
	}
	narration = strings.TrimSpace(narration)
	if narration == "" {
		return fallbackNarration
	}
	return narration
}

// collectScript drains the streamed tokens into a single string.
func (s *storyStage) collectScript(ctx context.Context, prompt string) (string, error) {
	newCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	tokenCh, errCh := s.scriptGenerator.Generate(newCtx, outbound.GenerateScriptRequest{Prompt: prompt})

	var builder strings.Builder
	for {
		select {
		case <-newCtx.Done():
			return "", newCtx.Err()
		case err, ok := <-errCh:
			if ok {
				return "", err
			}
			errCh = nil
		case token, ok := <-tokenCh:
			if !ok {
				return builder.String(), nil
			}
			builder.WriteString(token)
		}
	}
}

func (s *storyStage) generateSceneImages(ctx context.Context, record *domain.StoryRecord) {
	for idx, scene := range record.Scenes {
		sceneNumber := idx + 1

		// Fixed inter-call delay to respect the image API's throughput limits.
		if idx > 0 {
			if err := s.clock.Sleep(ctx, s.imageCallDelay); err != nil {
				return
			}
		}

		imageBytes, err := s.imageGenerator.Generate(ctx, fmt.Sprintf("Scene %d of %d:\n%s", sceneNumber, domain.SceneCount, scene))
		if err != nil {
			s.logger.ErrorWithFields(err, "Failed to generate scene image, skipping", map[string]interface{}{
				"story_id": record.StoryID,
				"scene":    sceneNumber,
			})
			continue
		}

		key := domain.SceneImageKey(record.StoryID, sceneNumber)
		if err := s.blobStore.Put(ctx, s.sourceBucket, key, imageBytes, "image/png"); err != nil {
			s.logger.ErrorWithFields(err, "Failed to store scene image, skipping", map[string]interface{}{
				"story_id": record.StoryID,
				"scene":    sceneNumber,
			})
			continue
		}

		record.ImageURLs = append(record.ImageURLs, fmt.Sprintf("s3://%s/%s", s.sourceBucket, key))
	}
}

func (s *storyStage) persist(ctx context.Context, record *domain.StoryRecord) error {
	scenesData := make(map[string]string, len(record.Scenes))
	for idx, scene := range record.Scenes {
		scenesData[fmt.Sprintf("shot%d_text", idx+1)] = scene
	}

	scenesPayload, err := json.Marshal(scenesData)
	if err != nil {
		return domain.NewStorageError(domain.ScenesKey(record.StoryID), err)
	}

	metadata := domain.StoryMetadata{
		StoryID:         record.StoryID,
		Topic:           record.Topic,
		CreationDate:    s.clock.Now().Format(time.RFC3339),
		SceneCount:      len(record.Scenes),
		GeneratedImages: len(record.ImageURLs),
		ImageURLs:       record.ImageURLs,
		Narration:       record.Narration,
	}
	metadataPayload, err := json.Marshal(metadata)
	if err != nil {
		return domain.NewStorageError(domain.MetadataKey(record.StoryID), err)
	}

	if err := s.blobStore.Put(ctx, s.sourceBucket, domain.MetadataKey(record.StoryID), metadataPayload, "application/json"); err != nil {
		return domain.NewStorageError(domain.MetadataKey(record.StoryID), err)
	}

	if err := s.blobStore.Put(ctx, s.sourceBucket, domain.ScenesKey(record.StoryID), scenesPayload, "application/json"); err != nil {
		return domain.NewStorageError(domain.ScenesKey(record.StoryID), err)
	}

	return nil
}

func (s *storyStage) scenesPrompt(topic string) string {
	return fmt.Sprintf(`Create %d sequential scenes telling a story about: %s

Story arc requirements:
1. Scene 1 (Introduction): Establish main character and setting, introduce the basic situation
2. Scene 2 (Rising Action): Show first challenge or development
3. Scene 3 (Rising Action): Increase tension or progress
4. Scene 4 (Climax): Show the peak moment or main achievement
5. Scene 5 (Resolution): Show the outcome or conclusion

Format each scene as:
Scene X: [Shot type] - [Character details] - [Action] - [Setting] - [Lighting]

Character consistency:
- Maintain exact same character description across all scenes
- Format: Name (age gender, physical details, clothing)
- Maximum 3 characters per scene

Technical requirements:
- Each scene under 20 words
- Include shot type (Close-up, Medium, Wide, Full)
- Clear lighting conditions
- Single focused action
- Simple setting`, domain.SceneCount, topic)
}

func (s *storyStage) narrationPrompt(fullText string) string {
	return fmt.Sprintf(`Create a concise, engaging 30-second narration from this story.
Focus on the main character's journey and key moments.
The narration should flow naturally and be suitable for voice-over.
Keep it under 100 words while maintaining story impact.

Story text:
%s

Requirements:
- Start with an engaging introduction of the main character
- Highlight 2-3 key moments
- End with the resolution
- Use natural, conversational language
- Keep it concise for 30-second narration

Format: Single paragraph narrative suitable for voice-over.`, fullText)
}

func fallbackScenes(topic string) []string {
	scenes := make([]string, 0, domain.SceneCount)
	for i := 1; i <= domain.SceneCount; i++ {
		scenes = append(scenes, fmt.Sprintf("Scene %d about %s", i, topic))
	}
	return scenes
}
