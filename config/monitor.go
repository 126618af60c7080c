package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// MonitorConfig bounds the shared job monitoring loop.
type MonitorConfig struct {
	PollInterval time.Duration
	MaxBudget    time.Duration
}

func GetMonitorConfig() (*MonitorConfig, error) {
	pollInterval := os.Getenv("MONITOR_POLL_INTERVAL_SECONDS")
	if pollInterval == "" {
		return nil, fmt.Errorf("MONITOR_POLL_INTERVAL_SECONDS must be set")
	}
	pollIntervalVal, err := strconv.Atoi(pollInterval)
	if err != nil || pollIntervalVal <= 0 {
		return nil, fmt.Errorf("failed to parse monitor poll interval")
	}

	maxBudget := os.Getenv("MONITOR_MAX_BUDGET_SECONDS")
	if maxBudget == "" {
		return nil, fmt.Errorf("MONITOR_MAX_BUDGET_SECONDS must be set")
	}
	maxBudgetVal, err := strconv.Atoi(maxBudget)
	if err != nil || maxBudgetVal <= 0 {
		return nil, fmt.Errorf("failed to parse monitor max budget")
	}

	return &MonitorConfig{
		PollInterval: time.Duration(pollIntervalVal) * time.Second,
		MaxBudget:    time.Duration(maxBudgetVal) * time.Second,
	}, nil
}
