package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited throttles calls to the wrapped provider with a token bucket.
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimited returns next unchanged when rps <= 0.
func NewRateLimited(next Provider, rps float64, burst int) Provider {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *RateLimited) Generate(ctx context.Context, req GenerateRequest) (json.RawMessage, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %v", ErrGenerationFailed, err)
	}
	return r.next.Generate(ctx, req)
}
