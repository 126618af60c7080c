package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

func newReelJob(apiUrl string) outbound.VideoJobPort {
	logger := NewZerologWrapper()
	return NewReelVideoJob(NewContentFetcher(logger), &config.ReelConfig{
		ApiUrl: apiUrl,
		ApiKey: "test-key",
		Model:  "reel-model-v1",
	}, "dest-bucket", logger)
}

func TestReelVideoJob_Start(t *testing.T) {
	var captured reelStartRequest
	var authHeader string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/async-invoke" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Error("Malformed start request:", err)
		}
		_ = json.NewEncoder(w).Encode(reelStartResponse{InvocationArn: "arn:render/job42"})
	}))
	defer server.Close()

	job := newReelJob(server.URL)

	handle, err := job.Start(context.Background(), outbound.StartVideoJobRequest{
		StoryID: "20250314_rivers_abc123",
		Shots: []domain.Shot{
			{Ordinal: 1, Text: "first scene", ImageURI: "s3://source-bucket/20250314_rivers_abc123/scene_1.png"},
			{Ordinal: 2, Text: "second scene"},
		},
	})
	if err != nil {
		t.Fatal("Unexpected start error:", err)
	}
	if handle != "arn:render/job42" {
		t.Fatalf("Unexpected handle: %q", handle)
	}
	if authHeader != "Bearer test-key" {
		t.Fatalf("Unexpected authorization header: %q", authHeader)
	}

	if captured.Model != "reel-model-v1" || captured.TaskType != "MULTI_SHOT_MANUAL" {
		t.Fatalf("Unexpected model/task: %q %q", captured.Model, captured.TaskType)
	}
	shots := captured.MultiShotManualParams.Shots
	if len(shots) != 2 {
		t.Fatalf("Expected 2 shots, got %d", len(shots))
	}
	if shots[0].Image == nil || shots[0].Image.Source.S3Location.Uri != "s3://source-bucket/20250314_rivers_abc123/scene_1.png" {
		t.Fatalf("Shot 1 image not forwarded: %+v", shots[0].Image)
	}
	if shots[1].Image != nil {
		t.Fatal("Shot 2 has no image and must not carry one")
	}
	if captured.OutputDataConfig.S3Uri != "s3://dest-bucket" {
		t.Fatalf("Unexpected output uri: %q", captured.OutputDataConfig.S3Uri)
	}
}

func TestReelVideoJob_StartRejectsMissingArn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	job := newReelJob(server.URL)

	_, err := job.Start(context.Background(), outbound.StartVideoJobRequest{StoryID: "s"})
	if err == nil {
		t.Fatal("Expected an error for a response without invocation arn")
	}
}

func TestReelVideoJob_PollReportsStatusVerbatim(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/async-invoke/job42" {
			t.Errorf("Unexpected poll path: %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(reelStatusResponse{Status: "InProgress"})
	}))
	defer server.Close()

	job := newReelJob(server.URL)

	state, err := job.Poll(context.Background(), "arn:render/job42")
	if err != nil {
		t.Fatal("Unexpected poll error:", err)
	}
	if state != domain.JobInProgress {
		t.Fatalf("Expected InProgress, got %s", state)
	}
}

func TestReelVideoJob_PollFailsOnNonOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer server.Close()

	job := newReelJob(server.URL)

	state, err := job.Poll(context.Background(), "arn:render/job42")
	if err == nil {
		t.Fatal("Expected a poll error")
	}
	if state != domain.JobError {
		t.Fatalf("Expected Error state, got %s", state)
	}
}

func TestReelVideoJob_OutputFolder(t *testing.T) {
	job := newReelJob("http://unused")

	cases := map[string]string{
		"arn:aws:service:region:account:async-invoke/job42": "s3://dest-bucket/job42",
		"job42": "s3://dest-bucket/job42",
	}
	for handle, expected := range cases {
		if got := job.OutputFolder(handle); got != expected {
			t.Fatalf("OutputFolder(%q) = %q, expected %q", handle, got, expected)
		}
	}
}
