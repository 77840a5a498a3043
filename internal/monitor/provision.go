// internal/monitor/provision.go
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// ErrNoModel indicates every candidate in the fallback chain failed to
// become available
var ErrNoModel = errors.New("no model candidate could be provisioned")

// Provisioner resolves the ordered model fallback chain to the single
// model the process commits to. Smaller fallback models preserve partial
// service when the backend lacks disk or network for the primary.
type Provisioner struct {
	Backend Backend
	Settle  time.Duration
	Sleep   func(ctx context.Context, d time.Duration) error
}

// Ensure walks the candidates in order: an already-present candidate
// resolves immediately with no pull; otherwise the candidate is pulled,
// given a settle delay, and re-queried before advancing to the next one.
func (p *Provisioner) Ensure(ctx context.Context, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", fmt.Errorf("%w: empty candidate list", ErrNoModel)
	}

	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	for _, candidate := range candidates {
		present, err := p.Backend.HasModel(ctx, candidate)
		if err != nil {
			log.Printf("Model query for %s failed: %v", candidate, err)
			continue
		}
		if present {
			log.Printf("Model %s already available", candidate)
			return candidate, nil
		}

		log.Printf("Model %s absent, pulling", candidate)
		if err := p.Backend.Pull(ctx, candidate); err != nil {
			log.Printf("Pull of %s failed: %v", candidate, err)
			continue
		}

		if err := sleep(ctx, p.Settle); err != nil {
			return "", err
		}

		present, err = p.Backend.HasModel(ctx, candidate)
		if err != nil {
			log.Printf("Model re-query for %s failed: %v", candidate, err)
			continue
		}
		if present {
			log.Printf("Model %s pulled and verified", candidate)
			return candidate, nil
		}

		log.Printf("Model %s still absent after pull, trying next candidate", candidate)
	}

	return "", fmt.Errorf("%w: tried %v", ErrNoModel, candidates)
}
