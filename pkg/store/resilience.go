package store

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/charmbracelet/log"
	"github.com/sony/gobreaker"

	"github.com/matzehuels/digibouquet/pkg/cache"
	"github.com/matzehuels/digibouquet/pkg/observability"
	bqerrors "github.com/matzehuels/digibouquet/pkg/errors"
)

func retryable(err error) error { return cache.Retryable(err) }

// transient marks connection-level failures as retryable.
func transient(err error) error {
	if err == nil {
		return nil
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, context.DeadlineExceeded) {
		return retryable(err)
	}
	return err
}

// =============================================================================
// Retry
// =============================================================================

// DefaultRetryPolicy allows one retry after a short pause.
var DefaultRetryPolicy = cache.RetryPolicy{Attempts: 2, Delay: 200 * time.Millisecond}

type retryStore struct {
	Store
	policy cache.RetryPolicy
}

// WithRetry retries Create and Fetch when the backend reports a retryable
// failure. Validation, not-found and conflict errors are returned as is.
func WithRetry(s Store, p cache.RetryPolicy) Store {
	return &retryStore{Store: s, policy: p}
}

// Create keeps the ID across attempts. When a retry hits a conflict, the
// earlier attempt may have been written before its error was reported; a
// stored record with the same content is then taken as success.
func (r *retryStore) Create(ctx context.Context, rec *Record) (string, error) {
	var id string
	attempts := 0
	err := r.do(ctx, "create", func() error {
		attempts++
		var err error
		id, err = r.Store.Create(ctx, rec)
		return err
	})
	if err != nil && attempts > 1 && rec != nil && rec.ID != "" && bqerrors.Is(err, bqerrors.ErrCodeConflict) {
		if stored, ferr := r.Store.Fetch(ctx, rec.ID); ferr == nil && sameContent(stored, rec) {
			return rec.ID, nil
		}
	}
	return id, err
}

func sameContent(a, b *Record) bool {
	return a.SenderName == b.SenderName &&
		a.ReceiverName == b.ReceiverName &&
		a.Message == b.Message &&
		a.Theme == b.Theme
}

func (r *retryStore) Fetch(ctx context.Context, id string) (*Record, error) {
	var rec *Record
	err := r.do(ctx, "fetch", func() error {
		var err error
		rec, err = r.Store.Fetch(ctx, id)
		return err
	})
	return rec, err
}

func (r *retryStore) do(ctx context.Context, op string, fn func() error) error {
	attempt := 0
	return cache.Retry(ctx, r.policy, func() error {
		attempt++
		err := fn()
		if err != nil && attempt < r.policy.Attempts && cache.IsRetryable(err) {
			observability.Store().OnRetry(ctx, op, attempt, err)
		}
		return err
	})
}

// =============================================================================
// Circuit breaker
// =============================================================================

// BreakerConfig configures WithBreaker.
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
	Logger           *log.Logger
}

// DefaultBreakerConfig returns the breaker settings used by Open.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      3,
		Interval:         30 * time.Second,
		Timeout:          15 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

type breakerStore struct {
	Store
	cb *gobreaker.CircuitBreaker
}

// WithBreaker guards s with a circuit breaker. While the breaker is open,
// calls fail fast with STORAGE_UNAVAILABLE. Only backend failures count
// against the breaker; missing records and rejected input do not.
func WithBreaker(s Store, cfg BreakerConfig) Store {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("store circuit breaker changed state", "name", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isBackendFailure(err)
		},
	})
	return &breakerStore{Store: s, cb: cb}
}

func (b *breakerStore) Create(ctx context.Context, rec *Record) (string, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.Store.Create(ctx, rec)
	})
	if err != nil {
		return "", breakerErr(err)
	}
	return v.(string), nil
}

func (b *breakerStore) Fetch(ctx context.Context, id string) (*Record, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.Store.Fetch(ctx, id)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	return v.(*Record), nil
}

func breakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return bqerrors.Wrap(bqerrors.ErrCodeUnavailable, err, "storage temporarily unavailable")
	}
	return err
}

func isBackendFailure(err error) bool {
	switch bqerrors.GetCode(err) {
	case bqerrors.ErrCodeNotFound, bqerrors.ErrCodeConflict, bqerrors.ErrCodeInvalidInput:
		return false
	}
	return !errors.Is(err, context.Canceled)
}
