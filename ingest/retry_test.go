package ingest

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// stubEmbedder is a test Embedder that returns pre-configured results in order.
type stubEmbedder struct {
	calls   int
	results []stubResult
}

type stubResult struct {
	vecs [][]float32
	err  error
}

func (s *stubEmbedder) next() stubResult {
	i := s.calls
	s.calls++
	if i < len(s.results) {
		return s.results[i]
	}
	return stubResult{}
}

func (s *stubEmbedder) Embed(_ context.Context, _ []string) ([][]float32, error) {
	r := s.next()
	return r.vecs, r.err
}

var _ Embedder = (*stubEmbedder)(nil)

// stubIndexer is a test Indexer that returns pre-configured errors in order.
type stubIndexer struct {
	calls int
	errs  []error
}

func (s *stubIndexer) Index(_ context.Context, _ []Entry) error {
	i := s.calls
	s.calls++
	if i < len(s.errs) {
		return s.errs[i]
	}
	return nil
}

var _ Indexer = (*stubIndexer)(nil)

// --- Embed tests ---

func TestWithEmbedRetry_SucceedsFirstAttempt(t *testing.T) {
	stub := &stubEmbedder{results: []stubResult{
		{vecs: [][]float32{{1, 2}}},
	}}
	e := WithEmbedRetry(stub, RetryBaseDelay(0))

	vecs, err := e.Embed(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 1 {
		t.Errorf("got %d vectors, want 1", len(vecs))
	}
	if stub.calls != 1 {
		t.Errorf("got %d calls, want 1", stub.calls)
	}
}

func TestWithEmbedRetry_RetriesOn503(t *testing.T) {
	stub := &stubEmbedder{results: []stubResult{
		{err: &ErrBackend{Status: 503, Body: "unavailable"}},
		{vecs: [][]float32{{1}}},
	}}
	e := WithEmbedRetry(stub, RetryBaseDelay(0))

	vecs, err := e.Embed(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vecs) != 1 {
		t.Errorf("got %d vectors, want 1", len(vecs))
	}
	if stub.calls != 2 {
		t.Errorf("got %d calls, want 2", stub.calls)
	}
}

func TestWithEmbedRetry_RetriesOn429(t *testing.T) {
	stub := &stubEmbedder{results: []stubResult{
		{err: &ErrBackend{Status: 429, Body: "rate limited"}},
		{vecs: [][]float32{{1}}},
	}}
	e := WithEmbedRetry(stub, RetryBaseDelay(0))

	_, err := e.Embed(context.Background(), []string{"hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("got %d calls, want 2", stub.calls)
	}
}

func TestWithEmbedRetry_DoesNotRetryNonTransient(t *testing.T) {
	stub := &stubEmbedder{results: []stubResult{
		{err: &ErrBackend{Status: 500, Body: "internal error"}},
	}}
	e := WithEmbedRetry(stub, RetryBaseDelay(0))

	_, err := e.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if stub.calls != 1 {
		t.Errorf("got %d calls, want 1 (no retry for 500)", stub.calls)
	}
}

func TestWithEmbedRetry_ExhaustsMaxAttempts(t *testing.T) {
	transient := stubResult{err: &ErrBackend{Status: 503, Body: "unavailable"}}
	stub := &stubEmbedder{results: []stubResult{transient, transient, transient, transient}}
	e := WithEmbedRetry(stub, RetryBaseDelay(0), RetryMaxAttempts(3))

	_, err := e.Embed(context.Background(), []string{"hello"})
	if err == nil {
		t.Fatal("expected error after max attempts, got nil")
	}
	var be *ErrBackend
	if !errors.As(err, &be) || be.Status != 503 {
		t.Errorf("expected last 503 error, got %v", err)
	}
	if stub.calls != 3 {
		t.Errorf("got %d calls, want 3", stub.calls)
	}
}

func TestWithEmbedRetry_CancelledContext(t *testing.T) {
	transient := stubResult{err: &ErrBackend{Status: 429, Body: "rate limited"}}
	stub := &stubEmbedder{results: []stubResult{transient, transient}}
	e := WithEmbedRetry(stub, RetryBaseDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Embed(ctx, []string{"hello"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if stub.calls != 1 {
		t.Errorf("got %d calls, want 1", stub.calls)
	}
}

func TestWithEmbedRetry_RespectsRetryAfter(t *testing.T) {
	stub := &stubEmbedder{results: []stubResult{
		{err: &ErrBackend{Status: 429, Body: "rate limited", RetryAfter: 50 * time.Millisecond}},
		{vecs: [][]float32{{1}}},
	}}
	e := WithEmbedRetry(stub, RetryBaseDelay(0))

	start := time.Now()
	_, err := e.Embed(context.Background(), []string{"hello"})
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if elapsed < 50*time.Millisecond {
		t.Errorf("retry happened after %v, want at least 50ms (Retry-After)", elapsed)
	}
}

// --- Index tests ---

func TestWithIndexRetry_RetriesOn503(t *testing.T) {
	stub := &stubIndexer{errs: []error{
		&ErrBackend{Status: 503, Body: "unavailable"},
		nil,
	}}
	ix := WithIndexRetry(stub, RetryBaseDelay(0))

	err := ix.Index(context.Background(), []Entry{{ID: "a"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stub.calls != 2 {
		t.Errorf("got %d calls, want 2", stub.calls)
	}
}

func TestWithIndexRetry_DoesNotRetryNonTransient(t *testing.T) {
	stub := &stubIndexer{errs: []error{
		&ErrBackend{Status: 400, Body: "bad request"},
	}}
	ix := WithIndexRetry(stub, RetryBaseDelay(0))

	err := ix.Index(context.Background(), []Entry{{ID: "a"}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if stub.calls != 1 {
		t.Errorf("got %d calls, want 1 (no retry for 400)", stub.calls)
	}
}

// --- Helpers ---

func TestErrBackendError(t *testing.T) {
	err := &ErrBackend{Status: 429, Body: "slow down"}
	want := "backend http 429: slow down"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestParseRetryAfter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
	}{
		{"empty", "", 0},
		{"seconds", "30", 30 * time.Second},
		{"zero seconds", "0", 0},
		{"negative", "-5", 0},
		{"garbage", "soon", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseRetryAfter(tt.in); got != tt.want {
				t.Errorf("ParseRetryAfter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRetryAfterHTTPDate(t *testing.T) {
	future := time.Now().Add(2 * time.Minute).UTC().Format(http.TimeFormat)
	got := ParseRetryAfter(future)
	if got <= 0 || got > 2*time.Minute {
		t.Errorf("ParseRetryAfter(date 2m ahead) = %v, want within (0, 2m]", got)
	}
}
