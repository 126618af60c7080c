package adapters

import (
	"context"
	"time"

	"github.com/Natasha24s/AIStoryTeller/application/ports/outbound"
)

type systemClock struct{}

func NewSystemClock() outbound.ClockPort {
	return &systemClock{}
}

func (c *systemClock) Now() time.Time {
	return time.Now()
}

func (c *systemClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
