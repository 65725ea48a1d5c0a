// ABOUTME: Provider interface, error taxonomy and factory for daily metric sources.
// ABOUTME: Variants are mock (generator), inject (synthetic write + read-back) and live (store).
package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/vitals/internal/generator"
	"github.com/harperreed/vitals/internal/models"
	"github.com/harperreed/vitals/internal/storage"
	"github.com/rs/zerolog"
)

// Provider resolves the five daily metrics for a date.
type Provider interface {
	// IsAvailable reports whether the underlying source exists at all.
	IsAvailable() bool

	// RequestAccess asks for read access. Calling it again after success is a no-op.
	RequestAccess(ctx context.Context) error

	// FetchMetrics returns the record for date. Metrics the source has no data
	// for are absent from the record rather than failing the call.
	FetchMetrics(ctx context.Context, date time.Time) (*models.Record, error)
}

var (
	// ErrAccessDenied means the user or system declined access.
	ErrAccessDenied = errors.New("access denied")
	// ErrSourceUnavailable means the platform lacks the data source entirely.
	ErrSourceUnavailable = errors.New("health data source unavailable")
	// ErrInvalidData means the caller asked for an out-of-domain input.
	ErrInvalidData = errors.New("invalid data")
	// ErrFetchFailed matches every *FetchError.
	ErrFetchFailed = errors.New("fetch failed")
	// ErrAccessUnknown matches every *AccessError.
	ErrAccessUnknown = errors.New("access request failed")
)

// FetchError is a transient or unexplained query failure. Cause is kept for diagnostics.
type FetchError struct {
	Cause error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %v", ErrFetchFailed, e.Cause)
}

func (e *FetchError) Unwrap() []error {
	return []error{ErrFetchFailed, e.Cause}
}

// AccessError is an access request that failed for a reason other than denial.
type AccessError struct {
	Cause error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%v: %v", ErrAccessUnknown, e.Cause)
}

func (e *AccessError) Unwrap() []error {
	return []error{ErrAccessUnknown, e.Cause}
}

// Kind names a provider variant.
type Kind string

const (
	KindMock   Kind = "mock"
	KindInject Kind = "inject"
	KindLive   Kind = "live"
)

// Kinds lists the variants in the order the CLI documents them.
var Kinds = []Kind{KindMock, KindInject, KindLive}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (want mock, inject or live)", s)
}

type options struct {
	log       zerolog.Logger
	latency   time.Duration
	trendDays int
	now       func() time.Time
}

// Option configures a provider built by New or the variant constructors.
type Option func(*options)

// WithLogger attaches a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithLatency adds an artificial delay to mock fetches, capped at MaxMockLatency.
func WithLatency(d time.Duration) Option {
	return func(o *options) { o.latency = d }
}

// WithTrendDays sets how many days of samples injection writes.
func WithTrendDays(days int) Option {
	return func(o *options) {
		if days > 0 {
			o.trendDays = days
		}
	}
}

// WithClock replaces time.Now. Injection anchors its trend on this clock's day.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop(), trendDays: generator.DefaultTrendDays, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New builds the provider for kind. Inject and live need a store.
func New(kind Kind, store storage.Store, opts ...Option) (Provider, error) {
	switch kind {
	case KindMock:
		return NewMock(opts...), nil
	case KindInject, KindLive:
		if store == nil {
			return nil, fmt.Errorf("provider %s: no store configured", kind)
		}
		if kind == KindInject {
			return NewInject(store, opts...), nil
		}
		return NewLive(store, opts...), nil
	}
	return nil, fmt.Errorf("unknown provider %q", kind)
}

// classify maps a store error onto the provider taxonomy.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotAuthorized), errors.Is(err, storage.ErrAuthorizationDenied):
		return fmt.Errorf("%w: %v", ErrAccessDenied, err)
	case errors.Is(err, storage.ErrUnavailable):
		return fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return &FetchError{Cause: err}
}
