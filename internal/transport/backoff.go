package transport

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"
)

// BackoffConfig paces repeated attempts to open the peer port.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Jitter       bool
	// MaxAttempts of zero retries until ctx ends.
	MaxAttempts int
}

func DefaultBackoffConfig() BackoffConfig {
	return BackoffConfig{
		InitialDelay: 250 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2,
		MaxAttempts:  1,
	}
}

// NextBackoffDelay returns the retry delay for attempt N (1-based).
func NextBackoffDelay(cfg BackoffConfig, attempt int, rng *rand.Rand) time.Duration {
	if attempt <= 1 {
		return cfg.InitialDelay
	}
	if cfg.InitialDelay <= 0 {
		return 0
	}
	if cfg.Multiplier < 1.0 {
		cfg.Multiplier = 1.0
	}
	delay := float64(cfg.InitialDelay) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if cfg.MaxDelay > 0 && delay > float64(cfg.MaxDelay) {
		delay = float64(cfg.MaxDelay)
	}
	if cfg.Jitter {
		f := 0.5
		if rng != nil {
			f = 0.5 + rng.Float64()
		}
		delay = delay * f
	}
	return time.Duration(delay)
}

// OpenFunc opens one port.
type OpenFunc func(context.Context, Config) (Port, error)

// OpenRetry calls open until it succeeds, MaxAttempts is spent, or ctx ends.
// Configuration errors are returned without retrying.
func OpenRetry(ctx context.Context, cfg Config, backoff BackoffConfig, open OpenFunc) (Port, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var rng *rand.Rand
	if backoff.Jitter {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	for attempt := 1; ; attempt++ {
		port, err := open(ctx, cfg)
		if err == nil {
			return port, nil
		}
		if backoff.MaxAttempts > 0 && attempt >= backoff.MaxAttempts {
			return nil, err
		}
		delay := NextBackoffDelay(backoff, attempt, rng)
		log.Warn().
			Str("component", "transport").
			Str("kind", string(cfg.Kind)).
			Str("address", cfg.Address).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Err(err).
			Msg("open failed")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
