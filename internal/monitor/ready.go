// internal/monitor/ready.go
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNotReady indicates the backend never answered within the attempt budget
var ErrNotReady = errors.New("backend never became ready")

// Prober polls the backend status call until it answers or the attempt
// budget runs out. Polling is fixed-interval on purpose: the backend's
// startup time is bounded, so linear probing is enough.
type Prober struct {
	Backend Backend
	Sleep   func(ctx context.Context, d time.Duration) error
}

// WaitReady returns nil on the first successful probe, ctx.Err() on
// cancellation, and ErrNotReady once the budget is exhausted.
func (p *Prober) WaitReady(ctx context.Context, maxAttempts int, retryDelay time.Duration) error {
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := p.Backend.Ping(ctx)
		if err == nil {
			log.Printf("Backend ready after %d attempt(s)", attempt)
			return nil
		}
		log.Printf("Backend not ready (attempt %d/%d): %v", attempt, maxAttempts, err)

		if attempt < maxAttempts {
			if err := sleep(ctx, retryDelay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrNotReady, maxAttempts)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
