package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/Natasha24s/AIStoryTeller/domain"
)

const testDestinationBucket = "dest-bucket"

func newTestMergeStage(speech *fakeSpeech, blobs *memoryBlobStore, job *fakeMergeJob) *mergeStage {
	monitor := NewJobMonitor(&testLogger{}, newFakeClock(), 15*time.Second, 15*time.Minute)
	stage := NewMergeStage(&testLogger{}, speech, blobs, job, monitor, testDestinationBucket)
	return stage.(*mergeStage)
}

func TestMergeStage_ThreadsExactVideoLocation(t *testing.T) {
	const (
		storyID       = "20250314_rivers_abc123"
		videoLocation = "s3://dest/job789/output.mp4"
	)

	blobs := newMemoryBlobStore()
	job := &fakeMergeJob{handle: "merge-1"}
	job.finalState = domain.JobCompleted
	stage := newTestMergeStage(&fakeSpeech{}, blobs, job)

	state, location, err := stage.Merge(context.Background(), storyID, "A narration.", videoLocation)
	if err != nil {
		t.Fatal("Unexpected stage error:", err)
	}
	if state != domain.JobCompleted {
		t.Fatalf("Expected Completed, got %s", state)
	}

	if len(job.started) != 1 {
		t.Fatalf("Expected one merge job, got %d", len(job.started))
	}
	req := job.started[0]
	if req.VideoLocation != videoLocation {
		t.Fatalf("Expected video location %q, got %q", videoLocation, req.VideoLocation)
	}

	expectedFinal := fmt.Sprintf("s3://%s/%s/final/final_output.mp4", testDestinationBucket, storyID)
	if req.Destination != expectedFinal {
		t.Fatalf("Expected destination %q, got %q", expectedFinal, req.Destination)
	}
	if location != expectedFinal {
		t.Fatalf("Expected final location %q, got %q", expectedFinal, location)
	}

	audioPattern := regexp.MustCompile(fmt.Sprintf(`^s3://%s/%s/audio/.+\.mp3$`, testDestinationBucket, storyID))
	if !audioPattern.MatchString(req.AudioLocation) {
		t.Fatalf("Audio location %q does not match %s", req.AudioLocation, audioPattern)
	}
}

func TestMergeStage_UploadsNarrationAudio(t *testing.T) {
	const storyID = "20250314_rivers_abc123"

	blobs := newMemoryBlobStore()
	speech := &fakeSpeech{}
	job := &fakeMergeJob{handle: "merge-2"}
	job.finalState = domain.JobCompleted
	stage := newTestMergeStage(speech, blobs, job)

	if _, _, err := stage.Merge(context.Background(), storyID, "Once upon a time.", "s3://dest/job/output.mp4"); err != nil {
		t.Fatal("Unexpected stage error:", err)
	}

	if len(speech.texts) != 1 || speech.texts[0] != "Once upon a time." {
		t.Fatalf("Expected narration to be synthesized once, got %v", speech.texts)
	}

	audioKey := strings.TrimPrefix(job.started[0].AudioLocation, "s3://"+testDestinationBucket+"/")
	body, err := blobs.Get(context.Background(), testDestinationBucket, audioKey)
	if err != nil {
		t.Fatal("Expected narration audio in the destination bucket:", err)
	}
	if string(body) != "mp3:Once upon a time." {
		t.Fatalf("Unexpected audio body: %q", body)
	}
}

func TestMergeStage_RequiresVideoLocation(t *testing.T) {
	stage := newTestMergeStage(&fakeSpeech{}, newMemoryBlobStore(), &fakeMergeJob{handle: "merge-3"})

	state, _, err := stage.Merge(context.Background(), "20250314_rivers_abc123", "n", "")
	var configErr *domain.ConfigurationError
	if !errors.As(err, &configErr) {
		t.Fatalf("Expected ConfigurationError, got %v", err)
	}
	if state != domain.JobError {
		t.Fatalf("Expected Error state, got %s", state)
	}
}

func TestMergeStage_SpeechFailurePropagates(t *testing.T) {
	speech := &fakeSpeech{err: fmt.Errorf("voice unavailable")}
	job := &fakeMergeJob{handle: "merge-4"}
	stage := newTestMergeStage(speech, newMemoryBlobStore(), job)

	_, _, err := stage.Merge(context.Background(), "20250314_rivers_abc123", "n", "s3://dest/job/output.mp4")
	if err == nil {
		t.Fatal("Expected a synthesis error")
	}
	if len(job.started) != 0 {
		t.Fatal("Merge job must not start after synthesis failure")
	}
}

func TestMergeStage_TimedOutHasNoLocation(t *testing.T) {
	job := &fakeMergeJob{handle: "merge-5"}
	job.inProgressPolls = -1
	stage := newTestMergeStage(&fakeSpeech{}, newMemoryBlobStore(), job)

	state, location, err := stage.Merge(context.Background(), "20250314_rivers_abc123", "n", "s3://dest/job/output.mp4")
	if err != nil {
		t.Fatal("A timed out merge is a state, not a stage error:", err)
	}
	if state != domain.JobTimedOut {
		t.Fatalf("Expected TimedOut, got %s", state)
	}
	if location != "" {
		t.Fatalf("Expected no location, got %q", location)
	}
}
