package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/donovanhide/eventsource"
)

const DoneSignal = "[DONE]"
const MaxStreamRetries = 3

type chatGptRequest struct {
	Stream   bool             `json:"stream"`
	Model    string           `json:"model"`
	Messages []chatGptMessage `json:"messages"`
}

type chatGptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatGptChunkBody struct {
	Choices []chatGptResponseChoice `json:"choices"`
}

type chatGptResponseChoice struct {
	Index int `json:"index"`
	Delta struct {
		Content string `json:"content"`
	} `json:"delta"`
}

type gptScriptGenerator struct {
	logger     outbound.LoggerPort
	gptConfig  *config.GptConfig
	workerPool outbound.TaskDispatcher
}

func NewGptScriptGenerator(gptConfig *config.GptConfig, workerPool outbound.TaskDispatcher,
	logger outbound.LoggerPort) outbound.StoryScriptGeneratorPort {
	return &gptScriptGenerator{
		logger:     logger,
		gptConfig:  gptConfig,
		workerPool: workerPool,
	}
}

func (s *gptScriptGenerator) Generate(ctx context.Context, genReq outbound.GenerateScriptRequest) (<-chan string, <-chan error) {
	out := make(chan string)
	errCh := make(chan error, 1)

	retryCount := 0

	newCtx, cancel := context.WithCancel(ctx)

	err := s.workerPool.Submit(func() {
		defer close(out)
		defer close(errCh)
		defer cancel()

		req, err := s.createRequest(newCtx, genReq.Prompt)
		if err != nil {
			s.logger.Error(err, "Failed to create HTTP request for script stream")
			errCh <- err
			return
		}

		stream, err := eventsource.SubscribeWithRequest("", req)
		if err != nil {
			s.logger.Error(err, "Failed to subscribe to script stream")
			errCh <- err
			return
		}

		for {
			select {
			case <-newCtx.Done():
				return
			case ev := <-stream.Events:
				if ev.Data() != DoneSignal {
					payload, err := s.extractPayload(ev)
					if err != nil {
						errCh <- err
						return
					}
					select {
					case out <- payload:
					case <-newCtx.Done():
						return
					}
				}
				retryCount = 0
			case err := <-stream.Errors:
				if err == io.EOF {
					s.logger.Debug("Script stream closed")
					return
				}
				if retryCount < MaxStreamRetries {
					s.logger.ErrorWithFields(err, "Error occurred during streaming, retrying", map[string]interface{}{
						"retry_count": retryCount,
					})
					retryCount++
					continue
				}
				s.logger.Error(err, "Error occurred during streaming, max retries reached")
				errCh <- err
				return
			}
		}
	})
	if err != nil {
		s.logger.Error(err, "Failed to submit task to worker pool")
		errCh <- err
		close(out)
		close(errCh)
		cancel()
	}

	return out, errCh
}

func (s *gptScriptGenerator) extractPayload(event eventsource.Event) (string, error) {
	var chunkBody chatGptChunkBody
	if err := json.Unmarshal([]byte(event.Data()), &chunkBody); err != nil {
		s.logger.Error(err, "Failed to unmarshal event data")
		return "", err
	}
	if len(chunkBody.Choices) == 0 {
		return "", nil
	}

	return chunkBody.Choices[0].Delta.Content, nil
}

func (s *gptScriptGenerator) createRequest(ctx context.Context, prompt string) (*http.Request, error) {
	promptReq := chatGptRequest{
		Stream: true,
		Model:  s.gptConfig.Model,
		Messages: []chatGptMessage{
			{Role: "user", Content: prompt},
		},
	}

	payloadBytes, err := json.Marshal(promptReq)
	if err != nil {
		s.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.gptConfig.ApiUrl, bytes.NewBuffer(payloadBytes))
	if err != nil {
		s.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+s.gptConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
