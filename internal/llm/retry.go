package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider re-issues a request after a transient failure, waiting an
// exponentially growing, jittered interval between attempts. With the
// default single attempt it only forwards the call.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
	log   *zap.Logger
}

// WithRetry wraps a Provider with retry logic. log may be nil.
func WithRetry(p Provider, cfg RetryConfig, log *zap.Logger) Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &RetryProvider{inner: p, cfg: cfg, log: log.Named("llm.retry")}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	attempts := max(r.cfg.MaxAttempts, 1)
	var budget retryBudget

	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		reason, ok := budget.allow(err)
		if !ok || attempt+1 >= attempts {
			return nil, err
		}

		wait := r.backoff(attempt, err)
		r.log.Warn("retrying llm call",
			zap.String("purpose", PurposeFrom(ctx)),
			zap.Int("attempt", attempt+1),
			zap.String("reason", reason),
			zap.Duration("wait", wait),
			zap.Error(err))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// retryBudget decides per error whether another attempt is worthwhile.
// A malformed response is retried at most once per request.
type retryBudget struct {
	invalidSpent bool
}

func (b *retryBudget) allow(err error) (string, bool) {
	var (
		maxTok  *ErrMaxTokensExceeded
		invalid *ErrInvalidResponse
		limited *ErrRateLimit
		unavail *ErrProviderUnavailable
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "", false
	case errors.As(err, &maxTok):
		// Retrying with the same budget truncates again.
		return "", false
	case errors.As(err, &invalid):
		if b.invalidSpent {
			return "", false
		}
		b.invalidSpent = true
		return "invalid response", true
	case errors.As(err, &limited):
		return "rate limited", true
	case errors.As(err, &unavail):
		return "provider unavailable", true
	default:
		return "transport error", true
	}
}

// backoff honours a server-provided Retry-After, otherwise grows the wait
// by Multiplier per attempt up to MaxWait with ±20% jitter.
func (r *RetryProvider) backoff(attempt int, err error) time.Duration {
	var limited *ErrRateLimit
	if errors.As(err, &limited) && limited.RetryAfter > 0 {
		return limited.RetryAfter
	}

	wait := math.Min(
		float64(r.cfg.InitialWait)*math.Pow(r.cfg.Multiplier, float64(attempt)),
		float64(r.cfg.MaxWait),
	)
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(math.Max(wait, 0))
}
