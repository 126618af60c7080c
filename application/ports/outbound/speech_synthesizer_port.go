package outbound

import "context"

// SpeechSynthesizerPort turns narration text into audio bytes.
type SpeechSynthesizerPort interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
