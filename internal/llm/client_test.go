package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// scriptedGenerator returns results in order; a nil entry blocks until the context ends
type scriptedGenerator struct {
	mu      sync.Mutex
	results []error
	calls   int
}

func (g *scriptedGenerator) Generate(ctx context.Context, _ []*schema.Message) (string, error) {
	g.mu.Lock()
	i := g.calls
	g.calls++
	g.mu.Unlock()

	if i >= len(g.results) {
		return `{"ok": true}`, nil
	}
	if g.results[i] == nil {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return "", g.results[i]
}

type sleepRecorder struct {
	waits []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.waits = append(s.waits, d)
	return ctx.Err()
}

var msgs = []*schema.Message{schema.UserMessage("hi")}

func TestCallSucceedsFirstAttempt(t *testing.T) {
	rec := &sleepRecorder{}
	c := NewClient(&scriptedGenerator{}, Options{MaxRetries: 3, Sleep: rec.sleep})

	resp := c.Call(context.Background(), msgs, time.Second)
	require.NoError(t, resp.Err)
	assert.Equal(t, `{"ok": true}`, resp.Text)
	assert.Equal(t, 1, resp.Attempts)
	assert.Empty(t, rec.waits)
}

func TestCallRetriesThenSucceeds(t *testing.T) {
	rec := &sleepRecorder{}
	gen := &scriptedGenerator{results: []error{
		&ServiceError{StatusCode: 500, Message: "boom"},
		&NetworkError{Err: errors.New("connection reset")},
	}}
	c := NewClient(gen, Options{MaxRetries: 3, Sleep: rec.sleep})

	resp := c.Call(context.Background(), msgs, time.Second)
	require.NoError(t, resp.Err)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second}, rec.waits)
}

func TestCallExhaustsBudget(t *testing.T) {
	serviceErr := &ServiceError{StatusCode: 503, Message: "busy"}
	tests := []struct {
		name       string
		maxRetries int
	}{
		{"one attempt", 1},
		{"three attempts", 3},
		{"five attempts", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make([]error, tt.maxRetries)
			for i := range results {
				results[i] = serviceErr
			}
			gen := &scriptedGenerator{results: results}
			rec := &sleepRecorder{}
			c := NewClient(gen, Options{MaxRetries: tt.maxRetries, Sleep: rec.sleep})

			resp := c.Call(context.Background(), msgs, time.Second)
			require.ErrorIs(t, resp.Err, ErrRetriesExhausted)
			var svc *ServiceError
			assert.ErrorAs(t, resp.Err, &svc)
			assert.Equal(t, tt.maxRetries, resp.Attempts)
			assert.Equal(t, tt.maxRetries, gen.calls)
			assert.Len(t, rec.waits, tt.maxRetries-1, "no wait after the last attempt")
			assert.Empty(t, resp.Text)
		})
	}
}

func TestCallTimeoutBackoff(t *testing.T) {
	rec := &sleepRecorder{}
	gen := &scriptedGenerator{results: []error{nil, nil, nil}}
	c := NewClient(gen, Options{MaxRetries: 3, Sleep: rec.sleep})

	timeout := 10 * time.Millisecond
	start := time.Now()
	resp := c.Call(context.Background(), msgs, timeout)
	elapsed := time.Since(start)

	require.ErrorIs(t, resp.Err, ErrRetriesExhausted)
	assert.True(t, IsTimeout(resp.Err))
	assert.Equal(t, []time.Duration{3 * time.Second, 6 * time.Second}, rec.waits)

	var slept time.Duration
	for _, w := range rec.waits {
		slept += w
	}
	assert.LessOrEqual(t, elapsed+slept, MaxBlocking(3, timeout)+time.Second)
}

func TestCallStopsOnCancel(t *testing.T) {
	t.Run("before first attempt", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		gen := &scriptedGenerator{}

		resp := NewClient(gen, Options{}).Call(ctx, msgs, time.Second)
		assert.ErrorIs(t, resp.Err, context.Canceled)
		assert.Equal(t, 0, resp.Attempts)
		assert.Equal(t, 0, gen.calls)
	})

	t.Run("during backoff", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		gen := &scriptedGenerator{results: []error{errors.New("a"), errors.New("b")}}
		sleep := func(ctx context.Context, d time.Duration) error {
			cancel()
			return sleepContext(ctx, d)
		}

		start := time.Now()
		resp := NewClient(gen, Options{MaxRetries: 3, Sleep: sleep}).Call(ctx, msgs, time.Second)
		assert.ErrorIs(t, resp.Err, context.Canceled)
		assert.Equal(t, 1, resp.Attempts)
		assert.Equal(t, 1, gen.calls)
		assert.Less(t, time.Since(start), time.Second)
	})
}

func TestCallWithLimiter(t *testing.T) {
	c := NewClient(&scriptedGenerator{}, Options{Limiter: rate.NewLimiter(rate.Inf, 1)})
	resp := c.Call(context.Background(), msgs, time.Second)
	require.NoError(t, resp.Err)
	assert.Equal(t, 3, c.MaxRetries())
}

func TestMaxBlocking(t *testing.T) {
	assert.Equal(t, 3*60*time.Second+3*time.Second+6*time.Second, MaxBlocking(3, 60*time.Second))
	assert.Equal(t, 45*time.Second, MaxBlocking(1, 45*time.Second))
}

func TestSleepContext(t *testing.T) {
	require.NoError(t, sleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
}
