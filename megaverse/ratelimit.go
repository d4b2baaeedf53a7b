package megaverse

import (
	"context"

	"golang.org/x/time/rate"

	"megaverse-client/shared/config"
	"megaverse-client/shared/errors"
)

// rateGate spaces outgoing requests so no one-second window exceeds the
// upstream quota. A single token bucket guards the one upstream; callers
// are admitted in arrival order.
type rateGate struct {
	limiter *rate.Limiter
}

func newRateGate(cfg config.RateLimitConfig) *rateGate {
	burst := cfg.BurstSize
	if burst < 1 {
		burst = 1
	}

	return &rateGate{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// Wait blocks cooperatively until the budget admits one call. When the
// context expires first the reservation is refunded, so an aborted call
// never consumes budget.
func (g *rateGate) Wait(ctx context.Context) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return errors.WrapTimeout("timed out waiting for rate limit admission", 0, err)
	}
	return nil
}
