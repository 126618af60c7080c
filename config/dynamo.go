package config

import (
	"fmt"
	"os"
	"strconv"
)

type DynamoConfig struct {
	TableName  string
	TtlMinutes int
}

func GetDynamoConfig() (*DynamoConfig, error) {
	tableName := os.Getenv("EXECUTIONS_TABLE_NAME")
	if tableName == "" {
		return nil, fmt.Errorf("EXECUTIONS_TABLE_NAME must be set")
	}

	ttlMinutes := os.Getenv("EXECUTIONS_TTL_MINUTES")
	if ttlMinutes == "" {
		return nil, fmt.Errorf("EXECUTIONS_TTL_MINUTES must be set")
	}
	ttlMinutesVal, err := strconv.Atoi(ttlMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse executions ttl minutes")
	}

	return &DynamoConfig{
		TableName:  tableName,
		TtlMinutes: ttlMinutesVal,
	}, nil
}
