package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"time"
)

// ErrBackend describes an HTTP failure from an embedding or index backend.
// Backends should return it so the retry wrappers can tell transient
// failures (429, 503) from permanent ones.
type ErrBackend struct {
	Status     int
	Body       string
	RetryAfter time.Duration // parsed from the Retry-After header; 0 if absent
}

func (e *ErrBackend) Error() string {
	return fmt.Sprintf("backend http %d: %s", e.Status, e.Body)
}

// ParseRetryAfter parses a Retry-After header value, accepting either a
// delay in seconds or an HTTP date. Returns 0 when v is empty or malformed.
func ParseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// retryConfig holds the knobs shared by the embedder and indexer wrappers.
type retryConfig struct {
	maxAttempts int
	baseDelay   time.Duration
	timeout     time.Duration // overall timeout across all attempts; 0 = no limit
	logger      *slog.Logger
}

// RetryOption configures WithEmbedRetry and WithIndexRetry.
type RetryOption func(*retryConfig)

// RetryMaxAttempts sets the maximum number of attempts (default: 3).
func RetryMaxAttempts(n int) RetryOption {
	return func(c *retryConfig) { c.maxAttempts = n }
}

// RetryBaseDelay sets the initial backoff delay before the second attempt
// (default: 1s). Each subsequent delay doubles: baseDelay, 2×baseDelay,
// 4×baseDelay, …
func RetryBaseDelay(d time.Duration) RetryOption {
	return func(c *retryConfig) { c.baseDelay = d }
}

// RetryTimeout sets the overall timeout for the entire retry sequence. If the
// total time across all attempts exceeds this duration, the retry loop gives
// up and returns the last error. The zero value (default) disables the
// timeout.
func RetryTimeout(d time.Duration) RetryOption {
	return func(c *retryConfig) { c.timeout = d }
}

// RetryLogger sets the structured logger for retry events. When set, retries
// log at WARN level and final failures after exhausting attempts log at
// ERROR. If not set, a no-op logger is used.
func RetryLogger(l *slog.Logger) RetryOption {
	return func(c *retryConfig) { c.logger = l }
}

func newRetryConfig(opts []RetryOption) retryConfig {
	cfg := retryConfig{maxAttempts: 3, baseDelay: time.Second}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// retryEmbedder wraps an Embedder and automatically retries transient HTTP
// errors (status 429 Too Many Requests and 503 Service Unavailable) with
// exponential backoff.
type retryEmbedder struct {
	inner Embedder
	cfg   retryConfig
}

// WithEmbedRetry wraps e with automatic retry on transient HTTP errors
// (429, 503). Retries use exponential backoff with jitter. When the error
// carries a Retry-After duration, the retry delay is at least that long.
// Compose inside the pipeline options:
//
//	p := ingest.NewPipeline(
//		ingest.WithEmbedder(ingest.WithEmbedRetry(myEmbedder)),
//		ingest.WithIndexer(ingest.WithIndexRetry(myIndexer, ingest.RetryMaxAttempts(5))),
//	)
func WithEmbedRetry(e Embedder, opts ...RetryOption) Embedder {
	return &retryEmbedder{inner: e, cfg: newRetryConfig(opts)}
}

func (r *retryEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	ctx, cancel := r.cfg.withTimeout(ctx)
	defer cancel()
	return retryCall(ctx, r.cfg, "embed", func() ([][]float32, error) {
		return r.inner.Embed(ctx, texts)
	})
}

// retryIndexer wraps an Indexer with the same retry behavior as retryEmbedder.
type retryIndexer struct {
	inner Indexer
	cfg   retryConfig
}

// WithIndexRetry wraps ix with automatic retry on transient HTTP errors
// (429, 503). Accepts the same RetryOption functions as WithEmbedRetry.
func WithIndexRetry(ix Indexer, opts ...RetryOption) Indexer {
	return &retryIndexer{inner: ix, cfg: newRetryConfig(opts)}
}

func (r *retryIndexer) Index(ctx context.Context, entries []Entry) error {
	ctx, cancel := r.cfg.withTimeout(ctx)
	defer cancel()
	_, err := retryCall(ctx, r.cfg, "index", func() (struct{}, error) {
		return struct{}{}, r.inner.Index(ctx, entries)
	})
	return err
}

// withTimeout returns a child context with a deadline if c.timeout is set.
// If the timeout is zero or ctx already has an earlier deadline, ctx is
// returned unchanged. The caller must call the returned CancelFunc when done.
func (c retryConfig) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	deadline := time.Now().Add(c.timeout)
	if existing, ok := ctx.Deadline(); ok && existing.Before(deadline) {
		return ctx, func() {}
	}
	return context.WithDeadline(ctx, deadline)
}

// retryCall calls fn up to cfg.maxAttempts times, sleeping between transient
// failures.
func retryCall[T any](ctx context.Context, cfg retryConfig, op string, fn func() (T, error)) (T, error) {
	var zero T
	var last error
	for i := 0; i < cfg.maxAttempts; i++ {
		result, err := fn()
		if err == nil || !isTransient(err) {
			return result, err
		}
		last = err
		cfg.logger.Warn("retrying transient error",
			"op", op,
			"status", statusOf(err),
			"attempt", i+1,
			"max_attempts", cfg.maxAttempts)
		if i < cfg.maxAttempts-1 {
			timer := time.NewTimer(retryDelay(cfg.baseDelay, i, err))
			select {
			case <-ctx.Done():
				timer.Stop()
				return zero, ctx.Err()
			case <-timer.C:
			}
		}
	}
	cfg.logger.Error("all retry attempts exhausted",
		"op", op,
		"attempts", cfg.maxAttempts,
		"error", last)
	return zero, last
}

// isTransient reports whether err is a retryable HTTP error (429 or 503).
func isTransient(err error) bool {
	var e *ErrBackend
	return errors.As(err, &e) && (e.Status == 429 || e.Status == 503)
}

// statusOf extracts the HTTP status code from an ErrBackend, or 0.
func statusOf(err error) int {
	var e *ErrBackend
	if errors.As(err, &e) {
		return e.Status
	}
	return 0
}

// retryAfterOf extracts the Retry-After duration from an ErrBackend, or 0.
func retryAfterOf(err error) time.Duration {
	var e *ErrBackend
	if errors.As(err, &e) {
		return e.RetryAfter
	}
	return 0
}

// retryDelay computes the delay before retry attempt i, using exponential
// backoff as a floor and the server's Retry-After value (if present) as a
// minimum. The effective delay is max(backoff, retryAfter).
func retryDelay(base time.Duration, i int, err error) time.Duration {
	backoff := retryBackoff(base, i)
	if ra := retryAfterOf(err); ra > backoff {
		return ra
	}
	return backoff
}

// retryBackoff returns the delay for retry i (0-indexed).
// Exponential: base * 2^i, plus up to 50% random jitter.
func retryBackoff(base time.Duration, i int) time.Duration {
	exp := base * (1 << i)
	jitter := time.Duration(rand.Int63n(int64(exp)/2 + 1))
	return exp + jitter
}

// compile-time checks
var (
	_ Embedder = (*retryEmbedder)(nil)
	_ Indexer  = (*retryIndexer)(nil)
)
