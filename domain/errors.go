package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrExecutionNotFound is returned by the execution store when no record
// exists for the requested execution id.
var ErrExecutionNotFound = errors.New("execution not found")

// ValidationError marks bad client input, surfaced as a 4xx response.
type ValidationError struct {
	Msg string
}

func NewValidationError(msg string) *ValidationError {
	return &ValidationError{Msg: msg}
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// ConfigurationError marks a missing or malformed upstream artifact, fatal
// to the stage that hit it.
type ConfigurationError struct {
	Msg string
}

func NewConfigurationError(msg string) *ConfigurationError {
	return &ConfigurationError{Msg: msg}
}

func (e *ConfigurationError) Error() string {
	return e.Msg
}

// UpstreamError wraps a failed call to one of the generative services.
type UpstreamError struct {
	Service string
	Err     error
}

func NewUpstreamError(service string, err error) *UpstreamError {
	return &UpstreamError{Service: service, Err: err}
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// StorageError wraps a failed blob store read or write.
type StorageError struct {
	Key string
	Err error
}

func NewStorageError(key string, err error) *StorageError {
	return &StorageError{Key: key, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// TimeoutError reports that the job monitor exhausted its wall-clock budget
// while the external job still reported in-progress.
type TimeoutError struct {
	Budget time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("monitoring budget of %s exceeded", e.Budget)
}
