package config

import (
	"fmt"
	"os"
)

// ReelConfig points at the asynchronous multi-shot video render API.
type ReelConfig struct {
	ApiUrl string
	ApiKey string
	Model  string
}

func GetReelConfig() (*ReelConfig, error) {
	apiUrl := os.Getenv("REEL_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("REEL_API_URL must be set")
	}
	apiKey := os.Getenv("REEL_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("REEL_API_KEY must be set")
	}
	model := os.Getenv("REEL_MODEL")
	if model == "" {
		return nil, fmt.Errorf("REEL_MODEL must be set")
	}

	return &ReelConfig{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
		Model:  model,
	}, nil
}
