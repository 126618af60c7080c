package outbound

import "context"

// ImageGeneratorPort renders a scene description to image bytes.
type ImageGeneratorPort interface {
	Generate(ctx context.Context, description string) ([]byte, error)
}
