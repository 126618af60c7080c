package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

type ElevenLabsRequest struct {
	Text          string        `json:"text"`
	ModelId       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

type VoiceSettings struct {
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarity_boost"`
}

type elevenLabsSpeech struct {
	ContentFetcher
	logger           outbound.LoggerPort
	elevenLabsConfig *config.ElevenLabsConfig
}

func NewElevenLabsSpeech(contentFetcher ContentFetcher, elevenLabsConfig *config.ElevenLabsConfig,
	logger outbound.LoggerPort) outbound.SpeechSynthesizerPort {
	return &elevenLabsSpeech{
		ContentFetcher:   contentFetcher,
		logger:           logger,
		elevenLabsConfig: elevenLabsConfig,
	}
}

func (a *elevenLabsSpeech) Synthesize(ctx context.Context, text string) ([]byte, error) {
	req, err := a.getRequest(ctx, text)
	if err != nil {
		a.logger.Error(err, "Failed to construct the HTTP request for speech synthesis")
		return nil, err
	}

	audio, err := a.FetchContent(req)
	if err != nil {
		return nil, domain.NewUpstreamError("speech synthesis", err)
	}

	return audio, nil
}

func (a *elevenLabsSpeech) getRequest(ctx context.Context, text string) (*http.Request, error) {
	reqBody := ElevenLabsRequest{
		Text:    text,
		ModelId: a.elevenLabsConfig.ModelId,
		VoiceSettings: VoiceSettings{
			Stability:       a.elevenLabsConfig.Stability,
			SimilarityBoost: a.elevenLabsConfig.SimilarityBoost,
		},
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		a.logger.Error(err, "Failed to marshal the speech synthesis request body")
		return nil, err
	}

	url := a.elevenLabsConfig.ApiUrl + "/" + a.elevenLabsConfig.VoiceId
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		a.logger.ErrorWithFields(err, "Failed to create the HTTP POST request", map[string]interface{}{
			"URL": url,
		})
		return nil, err
	}

	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", a.elevenLabsConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
