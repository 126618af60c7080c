package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

type testLogger struct{}

func (l *testLogger) Info(string)                                          {}
func (l *testLogger) InfoWithFields(string, map[string]interface{})        {}
func (l *testLogger) Error(error, string)                                  {}
func (l *testLogger) ErrorWithFields(error, string, map[string]interface{}) {}
func (l *testLogger) Debug(string)                                         {}
func (l *testLogger) DebugWithFields(string, map[string]interface{})       {}
func (l *testLogger) Warn(string)                                          {}
func (l *testLogger) WarnWithFields(string, map[string]interface{})        {}

// fakeClock advances instantly on Sleep so polling loops run in zero real time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.March, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	return nil
}

type fakeScriptGenerator struct {
	mu      sync.Mutex
	scripts []string
	err     error
	calls   int
	prompts []string
}

func (g *fakeScriptGenerator) Generate(ctx context.Context, req outbound.GenerateScriptRequest) (<-chan string, <-chan error) {
	g.mu.Lock()
	call := g.calls
	g.calls++
	g.prompts = append(g.prompts, req.Prompt)
	script := ""
	if call < len(g.scripts) {
		script = g.scripts[call]
	} else if len(g.scripts) > 0 {
		script = g.scripts[len(g.scripts)-1]
	}
	err := g.err
	g.mu.Unlock()

	out := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		if err != nil {
			errCh <- err
			return
		}
		// Two tokens to exercise the stream aggregation.
		half := len(script) / 2
		for _, token := range []string{script[:half], script[half:]} {
			select {
			case out <- token:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, errCh
}

type fakeImageGenerator struct {
	mu       sync.Mutex
	prompts  []string
	failures map[int]bool // 1-based call index -> fail
	calls    int
}

func (g *fakeImageGenerator) Generate(ctx context.Context, description string) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	g.prompts = append(g.prompts, description)
	if g.failures[g.calls] {
		return nil, domain.NewUpstreamError("image generation", fmt.Errorf("throttled"))
	}
	return []byte(fmt.Sprintf("png-%d", g.calls)), nil
}

type memoryBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newMemoryBlobStore() *memoryBlobStore {
	return &memoryBlobStore{objects: make(map[string][]byte)}
}

func blobKey(bucket, key string) string {
	return bucket + "/" + key
}

func (s *memoryBlobStore) Put(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failPut {
		return fmt.Errorf("put refused")
	}
	s.objects[blobKey(bucket, key)] = body
	return nil
}

func (s *memoryBlobStore) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.objects[blobKey(bucket, key)]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return body, nil
}

func (s *memoryBlobStore) Exists(ctx context.Context, bucket, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[blobKey(bucket, key)]
	return ok, nil
}

type memoryExecutionStore struct {
	mu      sync.Mutex
	records map[string]domain.ExecutionRecord
	updates int
}

func newMemoryExecutionStore() *memoryExecutionStore {
	return &memoryExecutionStore{records: make(map[string]domain.ExecutionRecord)}
}

func (s *memoryExecutionStore) Create(ctx context.Context, record *domain.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.ExecutionID] = *record
	return nil
}

func (s *memoryExecutionStore) Update(ctx context.Context, record *domain.ExecutionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++
	s.records[record.ExecutionID] = *record
	return nil
}

func (s *memoryExecutionStore) Get(ctx context.Context, executionID string) (*domain.ExecutionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[executionID]
	if !ok {
		return nil, domain.ErrExecutionNotFound
	}
	return &record, nil
}

// fakePoller reports InProgress for inProgressPolls polls, then finalState.
// With inProgressPolls < 0 it reports InProgress forever.
type fakePoller struct {
	mu              sync.Mutex
	inProgressPolls int
	finalState      domain.JobState
	pollErr         error
	polls           int
}

func (p *fakePoller) Poll(ctx context.Context, handle string) (domain.JobState, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.polls++
	if p.pollErr != nil {
		return domain.JobError, p.pollErr
	}
	if p.inProgressPolls < 0 || p.polls <= p.inProgressPolls {
		return domain.JobInProgress, nil
	}
	return p.finalState, nil
}

type fakeVideoJob struct {
	fakePoller
	handle   string
	startErr error
	started  []outbound.StartVideoJobRequest
}

func (j *fakeVideoJob) Start(ctx context.Context, req outbound.StartVideoJobRequest) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.startErr != nil {
		return "", j.startErr
	}
	j.started = append(j.started, req)
	return j.handle, nil
}

func (j *fakeVideoJob) OutputFolder(handle string) string {
	jobID := handle
	for i := len(handle) - 1; i >= 0; i-- {
		if handle[i] == '/' {
			jobID = handle[i+1:]
			break
		}
	}
	return "s3://dest/" + jobID
}

type fakeMergeJob struct {
	fakePoller
	handle   string
	startErr error
	started  []outbound.StartMergeJobRequest
}

func (j *fakeMergeJob) Start(ctx context.Context, req outbound.StartMergeJobRequest) (string, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.startErr != nil {
		return "", j.startErr
	}
	j.started = append(j.started, req)
	return j.handle, nil
}

type fakeSpeech struct {
	err   error
	texts []string
}

func (s *fakeSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.texts = append(s.texts, text)
	return []byte("mp3:" + text), nil
}
