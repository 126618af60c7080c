package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// SceneCount is the fixed number of scenes every story is coerced to.
// The video render API expects exactly one shot per scene.
const SceneCount = 5

const (
	InitialVideoStage = "initial_video"
	FinalVideoStage   = "final_video"
)

const TimestampLayout = "2006-01-02 15:04:05"

type StoryRecord struct {
	StoryID   string   `json:"story_id"`
	Topic     string   `json:"topic"`
	Scenes    []string `json:"scenes"`
	FullText  string   `json:"full_text"`
	Narration string   `json:"narration"`
	ImageURLs []string `json:"image_urls"`
}

type StoryMetadata struct {
	StoryID         string   `json:"story_id"`
	Topic           string   `json:"topic"`
	CreationDate    string   `json:"creation_date"`
	SceneCount      int      `json:"scene_count"`
	GeneratedImages int      `json:"generated_images"`
	ImageURLs       []string `json:"image_urls"`
	Narration       string   `json:"narration"`
}

// Shot is one scene's text plus an optional background image, as consumed
// by the video render API. Ordinal is the numeric suffix of the scenes.json
// key it was loaded from, not the insertion order.
type Shot struct {
	Ordinal  int
	Text     string
	ImageURI string
}

type ExecutionStatus string

const (
	ExecutionInProgress ExecutionStatus = "IN_PROGRESS"
	ExecutionCompleted  ExecutionStatus = "Completed"
	ExecutionFailed     ExecutionStatus = "Failed"
	ExecutionTimedOut   ExecutionStatus = "TimedOut"
	ExecutionError      ExecutionStatus = "Error"
)

// Terminal reports whether no further stage will run for this execution.
func (s ExecutionStatus) Terminal() bool {
	return s != ExecutionInProgress
}

type StageOutput struct {
	Status    JobState `json:"status" dynamodbav:"status"`
	Location  string   `json:"location,omitempty" dynamodbav:"location"`
	Timestamp string   `json:"timestamp" dynamodbav:"timestamp"`
}

// ExecutionRecord is the externally queryable aggregate of one pipeline run.
// It accumulates stage outputs append-only: a later stage never erases what
// an earlier stage recorded.
type ExecutionRecord struct {
	ExecutionID       string                 `json:"execution_id" dynamodbav:"execution_id"`
	Status            ExecutionStatus        `json:"status" dynamodbav:"status"`
	Topic             string                 `json:"topic" dynamodbav:"topic"`
	StoryID           string                 `json:"story_id,omitempty" dynamodbav:"story_id"`
	SourceBucket      string                 `json:"source_bucket" dynamodbav:"source_bucket"`
	DestinationBucket string                 `json:"destination_bucket" dynamodbav:"destination_bucket"`
	StartTime         string                 `json:"start_time" dynamodbav:"start_time"`
	Timestamp         string                 `json:"timestamp" dynamodbav:"timestamp"`
	Message           string                 `json:"message,omitempty" dynamodbav:"message"`
	Error             string                 `json:"error,omitempty" dynamodbav:"error"`
	Outputs           map[string]StageOutput `json:"outputs,omitempty" dynamodbav:"outputs"`
}

// AppendOutput records a stage result. An already recorded Completed entry is
// never overwritten; re-recording any other entry for the same stage is
// allowed so a retried stage can supersede its own failure.
func (r *ExecutionRecord) AppendOutput(stage string, output StageOutput) {
	if r.Outputs == nil {
		r.Outputs = make(map[string]StageOutput)
	}
	if existing, ok := r.Outputs[stage]; ok && existing.Status == JobCompleted {
		return
	}
	r.Outputs[stage] = output
}

var topicCharsRegexp = regexp.MustCompile(`[^a-z0-9_]`)

// SanitizeTopic lowercases the topic, replaces spaces with underscores,
// drops every other non [a-z0-9_] rune and truncates to 30 characters.
func SanitizeTopic(topic string) string {
	sanitized := strings.ToLower(topic)
	sanitized = strings.ReplaceAll(sanitized, " ", "_")
	sanitized = topicCharsRegexp.ReplaceAllString(sanitized, "")
	if len(sanitized) > 30 {
		sanitized = sanitized[:30]
	}
	return sanitized
}

// NewStoryID builds the <yyyymmdd>_<sanitized-topic>_<6-hex> identifier.
// Only the first 6 characters of suffix are used.
func NewStoryID(topic string, now time.Time, suffix string) string {
	if len(suffix) > 6 {
		suffix = suffix[:6]
	}
	return fmt.Sprintf("%s_%s_%s", now.Format("20060102"), SanitizeTopic(topic), suffix)
}

// Blob store layout, shared between the story, video and merge stages.

func ScenesKey(storyID string) string {
	return fmt.Sprintf("%s/scenes.json", storyID)
}

func MetadataKey(storyID string) string {
	return fmt.Sprintf("%s/metadata.json", storyID)
}

func SceneImageKey(storyID string, sceneNumber int) string {
	return fmt.Sprintf("%s/scene_%d.png", storyID, sceneNumber)
}

func NarrationAudioKey(storyID string, taskID string) string {
	return fmt.Sprintf("%s/audio/%s.mp3", storyID, taskID)
}

func FinalVideoKey(storyID string) string {
	return fmt.Sprintf("%s/final/final_output.mp4", storyID)
}
