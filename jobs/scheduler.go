package jobs

import (
	"context"
	"time"
)

// Job is a unit of periodic background work
type Job interface {
	Run()
}

// RunEvery runs job on every tick of interval until ctx is cancelled
func RunEvery(ctx context.Context, interval time.Duration, job Job) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			job.Run()
		}
	}
}
