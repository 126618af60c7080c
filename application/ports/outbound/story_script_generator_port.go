package outbound

import "context"

type GenerateScriptRequest struct {
	Prompt string
}

// StoryScriptGeneratorPort streams completion tokens for a prompt. The token
// channel closes when the stream ends; the error channel closes without a
// value on success.
type StoryScriptGeneratorPort interface {
	Generate(ctx context.Context, req GenerateScriptRequest) (<-chan string, <-chan error)
}
