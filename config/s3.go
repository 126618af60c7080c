package config

import (
	"fmt"
	"os"
)

type S3Config struct {
	SourceBucket      string
	DestinationBucket string
	Region            string
}

func GetS3Config() (*S3Config, error) {
	sourceBucket := os.Getenv("SOURCE_BUCKET")
	if sourceBucket == "" {
		return nil, fmt.Errorf("SOURCE_BUCKET must be set")
	}

	destinationBucket := os.Getenv("DESTINATION_BUCKET")
	if destinationBucket == "" {
		return nil, fmt.Errorf("DESTINATION_BUCKET must be set")
	}

	region := os.Getenv("REGION")
	if region == "" {
		return nil, fmt.Errorf("REGION must be set")
	}

	return &S3Config{
		SourceBucket:      sourceBucket,
		DestinationBucket: destinationBucket,
		Region:            region,
	}, nil
}
