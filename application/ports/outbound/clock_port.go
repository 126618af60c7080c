package outbound

import (
	"context"
	"time"
)

// ClockPort abstracts wall-clock sampling and suspension so the job monitor
// and the story stage rate limiter can be driven by a fake clock in tests.
type ClockPort interface {
	Now() time.Time
	// Sleep blocks for d or until ctx is cancelled, returning ctx.Err()
	// in the latter case.
	Sleep(ctx context.Context, d time.Duration) error
}
