package completion

import (
	"context"
	"errors"
	"fmt"
	"time"

	obsmetrics "github.com/smallbiznis/quill/internal/observability/metrics"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const consecutiveFailuresToTrip = 5

// BreakerProvider guards a Provider with a circuit breaker. Client-side
// API errors do not count against the upstream.
type BreakerProvider struct {
	next    Provider
	name    string
	cb      *gobreaker.CircuitBreaker[*Response]
	log     *zap.Logger
	metrics *obsmetrics.Metrics
}

func NewBreakerProvider(name string, next Provider, log *zap.Logger, metrics *obsmetrics.Metrics) *BreakerProvider {
	log = log.Named("completion.breaker")
	cb := gobreaker.NewCircuitBreaker[*Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= consecutiveFailuresToTrip
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Retryable()
			}
			return errors.Is(err, ErrNotConfigured) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
	return &BreakerProvider{next: next, name: name, cb: cb, log: log, metrics: metrics}
}

func (b *BreakerProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	resp, err := b.cb.Execute(func() (*Response, error) {
		return b.next.Complete(ctx, req)
	})
	switch {
	case err == nil:
		b.metrics.RecordCompletion(ctx, b.name, "success")
		return resp, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		b.metrics.RecordCompletion(ctx, b.name, "rejected")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	default:
		b.metrics.RecordCompletion(ctx, b.name, "failure")
		return nil, err
	}
}

func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
