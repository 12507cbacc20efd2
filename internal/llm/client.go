package llm

import (
	"context"
	"fmt"
	"time"

	"lifeplan_agent/internal/logger"

	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"
)

// Generator sends one chat request and returns the raw generated text
type Generator interface {
	Generate(ctx context.Context, messages []*schema.Message) (string, error)
}

// Backoff steps: a timed-out attempt n waits n*TimeoutBackoff, any other failure n*ErrorBackoff
const (
	TimeoutBackoff = 3 * time.Second
	ErrorBackoff   = 2 * time.Second
)

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Client
type Options struct {
	MaxRetries int
	Limiter    *rate.Limiter // optional
	Sleep      SleepFunc     // defaults to a context-aware timer
}

// Response is the outcome of Call. Err is nil when Text is usable.
type Response struct {
	Text     string
	Attempts int
	Err      error
}

// Client runs a Generator under a bounded retry policy
type Client struct {
	gen        Generator
	maxRetries int
	limiter    *rate.Limiter
	sleep      SleepFunc
}

// NewClient wraps gen with the retry policy
func NewClient(gen Generator, opts Options) *Client {
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Client{
		gen:        gen,
		maxRetries: opts.MaxRetries,
		limiter:    opts.Limiter,
		sleep:      opts.Sleep,
	}
}

// MaxRetries returns the attempt budget
func (c *Client) MaxRetries() int {
	return c.maxRetries
}

// Call sends messages, giving each attempt its own timeout. It never panics and
// never returns partial text: either Err is nil or every attempt failed.
// Cancelling ctx stops the loop before the next attempt or during a backoff.
func (c *Client) Call(ctx context.Context, messages []*schema.Message, timeout time.Duration) Response {
	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Response{Attempts: attempt - 1, Err: err}
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return Response{Attempts: attempt - 1, Err: fmt.Errorf("rate limiter: %w", err)}
			}
		}

		text, err := c.attempt(ctx, messages, timeout)
		if err == nil {
			logger.Debug().Int("attempt", attempt).Msg("generation succeeded")
			return Response{Text: text, Attempts: attempt}
		}
		lastErr = err

		if ctx.Err() != nil {
			return Response{Attempts: attempt, Err: ctx.Err()}
		}
		if attempt == c.maxRetries {
			break
		}

		wait := time.Duration(attempt) * ErrorBackoff
		if IsTimeout(err) {
			wait = time.Duration(attempt) * TimeoutBackoff
		}
		logger.Warn().
			Err(err).
			Int("attempt", attempt).
			Int("max_retries", c.maxRetries).
			Dur("backoff", wait).
			Msg("generation attempt failed, retrying")

		if err := c.sleep(ctx, wait); err != nil {
			return Response{Attempts: attempt, Err: err}
		}
	}

	logger.Warn().Err(lastErr).Int("attempts", c.maxRetries).Msg("generation retries exhausted")
	return Response{
		Attempts: c.maxRetries,
		Err:      fmt.Errorf("%w after %d attempts: %w", ErrRetriesExhausted, c.maxRetries, lastErr),
	}
}

func (c *Client) attempt(ctx context.Context, messages []*schema.Message, timeout time.Duration) (string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	text, err := c.gen.Generate(attemptCtx, messages)
	if err != nil {
		if attemptCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return "", &NetworkError{Timeout: true, Err: err}
		}
		return "", err
	}
	return text, nil
}

// MaxBlocking is the longest Call can take: every attempt times out and every backoff
// uses the timeout step.
func MaxBlocking(maxRetries int, timeout time.Duration) time.Duration {
	total := time.Duration(maxRetries) * timeout
	for n := 1; n < maxRetries; n++ {
		total += time.Duration(n) * TimeoutBackoff
	}
	return total
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
