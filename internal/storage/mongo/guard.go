package mongo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"

	"github.com/jayramgit94/AirBnb-DB-project/internal/domain"
)

// Guard trips after repeated infrastructure failures so requests fail fast
// while the database is unreachable. Outcomes such as "not found" pass
// through without counting against the breaker.
type Guard struct {
	cb circuitbreaker.CircuitBreaker[any]
}

// NewGuard creates a breaker that opens after 5 consecutive failures and
// probes again after 30s.
func NewGuard(logger *slog.Logger) *Guard {
	return &Guard{
		cb: circuitbreaker.New[any](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    time.Minute,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				if logger != nil {
					logger.Warn("mongo circuit breaker state change",
						"from", from.String(),
						"to", to.String())
				}
			},
		}),
	}
}

// guarded runs op through g. A nil guard runs op directly.
func guarded[T any](ctx context.Context, g *Guard, op func(context.Context) (T, error)) (T, error) {
	if g == nil {
		return op(ctx)
	}

	var (
		result  T
		outcome error
	)
	_, err := g.cb.Execute(ctx, func(ctx context.Context) (any, error) {
		v, err := op(ctx)
		// a caller that hung up says nothing about the database
		if isOutcome(err) || (err != nil && ctx.Err() != nil) {
			outcome = err
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		result = v
		return nil, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if outcome != nil {
		var zero T
		return zero, outcome
	}
	return result, nil
}

func isOutcome(err error) bool {
	return errors.Is(err, domain.ErrListingNotFound) ||
		errors.Is(err, domain.ErrUserNotFound) ||
		errors.Is(err, domain.ErrUserAlreadyExists) ||
		errors.Is(err, domain.ErrSessionNotFound)
}
