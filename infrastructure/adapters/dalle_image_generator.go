package adapters

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
	"github.com/Natasha24s/AIStoryTeller/config"
	"github.com/Natasha24s/AIStoryTeller/domain"
)

type DalleApiRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	Size           string `json:"size"`
	Number         int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

type DalleApiResponse struct {
	Data []struct {
		B64Json string `json:"b64_json"`
	} `json:"data"`
}

type dalleImageGenerator struct {
	ContentFetcher
	logger      outbound.LoggerPort
	dalleConfig *config.DaLLeConfig
}

func NewDalleImageGenerator(contentFetcher ContentFetcher, dalleConfig *config.DaLLeConfig,
	logger outbound.LoggerPort) outbound.ImageGeneratorPort {
	return &dalleImageGenerator{
		logger:         logger,
		ContentFetcher: contentFetcher,
		dalleConfig:    dalleConfig,
	}
}

func (i *dalleImageGenerator) Generate(ctx context.Context, description string) ([]byte, error) {
	req, err := i.getRequest(ctx, description)
	if err != nil {
		i.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	rawRes, err := i.FetchContent(req)
	if err != nil {
		return nil, domain.NewUpstreamError("image generation", err)
	}

	var dalleRes DalleApiResponse
	if err := json.Unmarshal(rawRes, &dalleRes); err != nil {
		i.logger.Error(err, "Failed to unmarshal the response")
		return nil, domain.NewUpstreamError("image generation", err)
	}
	if len(dalleRes.Data) == 0 {
		return nil, domain.NewUpstreamError("image generation", fmt.Errorf("empty image response"))
	}

	decodedImage, err := base64.StdEncoding.DecodeString(dalleRes.Data[0].B64Json)
	if err != nil {
		i.logger.Error(err, "Failed to decode the image")
		return nil, domain.NewUpstreamError("image generation", err)
	}

	return decodedImage, nil
}

func (i *dalleImageGenerator) getRequest(ctx context.Context, text string) (*http.Request, error) {
	reqBody := DalleApiRequest{
		Model:          i.dalleConfig.Model,
		Prompt:         text,
		Size:           i.dalleConfig.Size,
		Number:         1,
		ResponseFormat: "b64_json",
	}

	jsonPayload, err := json.Marshal(reqBody)
	if err != nil {
		i.logger.Error(err, "Failed to marshal the request body")
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", i.dalleConfig.ApiUrl, bytes.NewBuffer(jsonPayload))
	if err != nil {
		i.logger.Error(err, "Failed to create the HTTP request")
		return nil, err
	}

	req.Header.Set("Authorization", "Bearer "+i.dalleConfig.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	return req, nil
}
