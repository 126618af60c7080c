package config

import (
	"fmt"
	"os"
)

// MediaMergeConfig points at the asynchronous audio/video merge API.
type MediaMergeConfig struct {
	ApiUrl string
	ApiKey string
}

func GetMediaMergeConfig() (*MediaMergeConfig, error) {
	apiUrl := os.Getenv("MEDIA_MERGE_API_URL")
	if apiUrl == "" {
		return nil, fmt.Errorf("MEDIA_MERGE_API_URL must be set")
	}
	apiKey := os.Getenv("MEDIA_MERGE_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("MEDIA_MERGE_API_KEY must be set")
	}

	return &MediaMergeConfig{
		ApiUrl: apiUrl,
		ApiKey: apiKey,
	}, nil
}
