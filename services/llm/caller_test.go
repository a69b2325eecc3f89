package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// scriptedBackend returns its responses in call order and keeps counting
// once the script runs out.
type scriptedBackend struct {
	calls     int
	responses []backendResult
}

type backendResult struct {
	raw string
	err error
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) GenerateJSON(ctx context.Context, systemPrompt, userPayload string) (string, error) {
	res := backendResult{raw: `{"text": "ok"}`}
	if b.calls < len(b.responses) {
		res = b.responses[b.calls]
	}
	b.calls++
	return res.raw, res.err
}

func newTestCaller(backend Backend, maxAttempts int) (*Caller, *[]time.Duration) {
	var slept []time.Duration
	c := &Caller{
		Backend:     backend,
		MaxAttempts: maxAttempts,
		Timeout:     time.Second,
		Sleep:       func(d time.Duration) { slept = append(slept, d) },
		Jitter:      func() float64 { return 0 },
	}
	return c, &slept
}

func TestGenerateTextRetriesTransientFailures(t *testing.T) {
	backend := &scriptedBackend{responses: []backendResult{
		{err: &RetryableError{Op: "generate", Err: errors.New("rate limited")}},
		{err: &RetryableError{Op: "generate", Err: errors.New("rate limited")}},
		{raw: `{"text": "  Finish the report intro.  "}`},
	}}
	caller, slept := newTestCaller(backend, 3)

	text, err := caller.GenerateText(context.Background(), "system", "{}")
	require.NoError(t, err)
	require.Equal(t, "Finish the report intro.", text)
	require.Equal(t, 3, backend.calls)
	require.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *slept)
}

func TestGenerateTextFatalErrorIsNotRetried(t *testing.T) {
	fatal := &FatalError{Op: "generate", Err: errors.New("invalid api key")}
	backend := &scriptedBackend{responses: []backendResult{{err: fatal}}}
	caller, slept := newTestCaller(backend, 3)

	_, err := caller.GenerateText(context.Background(), "system", "{}")
	require.Error(t, err)
	require.ErrorIs(t, err, fatal)
	require.Equal(t, 1, backend.calls)
	require.Empty(t, *slept)
}

func TestGenerateTextExhaustsAttempts(t *testing.T) {
	transient := &RetryableError{Op: "generate", Err: errors.New("connection reset")}
	backend := &scriptedBackend{responses: []backendResult{
		{err: transient}, {err: transient}, {err: transient},
	}}
	caller, _ := newTestCaller(backend, 3)

	_, err := caller.GenerateText(context.Background(), "system", "{}")
	require.Error(t, err)
	require.ErrorContains(t, err, "retries exhausted after 3 attempts")
	require.ErrorIs(t, err, transient)
	require.Equal(t, 3, backend.calls)
}

func TestGenerateTextUnparseableResponseIsNotRetried(t *testing.T) {
	backend := &scriptedBackend{responses: []backendResult{
		{raw: "I could not produce JSON, sorry."},
	}}
	caller, _ := newTestCaller(backend, 3)

	_, err := caller.GenerateText(context.Background(), "system", "{}")
	require.Error(t, err)
	require.ErrorContains(t, err, "failed to parse backend response")
	require.Equal(t, 1, backend.calls)
}

func TestGenerateTextEmptyTextPassesThrough(t *testing.T) {
	backend := &scriptedBackend{responses: []backendResult{
		{raw: `{"text": "   "}`},
	}}
	caller, _ := newTestCaller(backend, 3)

	text, err := caller.GenerateText(context.Background(), "system", "{}")
	require.NoError(t, err)
	require.Empty(t, text)
}

func TestBackoffDelaySchedule(t *testing.T) {
	require.Equal(t, 1*time.Second, BackoffDelay(1, 0))
	require.Equal(t, 2*time.Second, BackoffDelay(2, 0))
	require.Equal(t, 4*time.Second, BackoffDelay(3, 0))
	require.Equal(t, 8*time.Second, BackoffDelay(4, 0))

	// Jitter only ever extends the delay, up to 20 percent.
	require.Equal(t, 1200*time.Millisecond, BackoffDelay(1, 1.0))
	require.GreaterOrEqual(t, BackoffDelay(3, 0.5), 4*time.Second)

	// The base schedule is capped at 30s regardless of attempt count.
	require.Equal(t, 30*time.Second, BackoffDelay(10, 0))
	require.Equal(t, 30*time.Second, BackoffDelay(60, 0))
}
