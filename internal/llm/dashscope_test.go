package llm

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifeplan_agent/internal/config"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDashScope(t *testing.T, handler http.HandlerFunc) *DashScopeGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.Default().LLM
	cfg.BaseURL = srv.URL
	cfg.APIKey = "sk-test"
	return NewDashScopeGenerator(cfg, srv.Client())
}

func TestDashScopeGenerate(t *testing.T) {
	var got dashScopeRequest
	gen := newDashScope(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, sonic.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output": {"text": "` + "```json\\n{}\\n```" + `"}, "request_id": "abc"}`))
	})

	text, err := gen.Generate(context.Background(), []*schema.Message{schema.UserMessage("制定计划")})
	require.NoError(t, err)
	assert.Equal(t, "```json\n{}\n```", text)

	assert.Equal(t, "qwen-turbo", got.Model)
	require.Len(t, got.Input.Messages, 1)
	assert.Equal(t, "user", got.Input.Messages[0].Role)
	assert.Equal(t, "制定计划", got.Input.Messages[0].Content)
	assert.InDelta(t, 0.1, got.Parameters.Temperature, 1e-9)
	assert.Equal(t, 2000, got.Parameters.MaxTokens)
}

func TestDashScopeServiceError(t *testing.T) {
	gen := newDashScope(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code": "Throttling", "message": "Requests rate limit exceeded"}`))
	})

	_, err := gen.Generate(context.Background(), msgs)
	var svc *ServiceError
	require.ErrorAs(t, err, &svc)
	assert.Equal(t, http.StatusTooManyRequests, svc.StatusCode)
	assert.Equal(t, "Throttling", svc.Code)
	assert.False(t, IsTimeout(err))
}

func TestDashScopeEmptyOutput(t *testing.T) {
	gen := newDashScope(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"output": {}}`))
	})

	_, err := gen.Generate(context.Background(), msgs)
	var svc *ServiceError
	require.ErrorAs(t, err, &svc)
}

func TestDashScopeTimeoutThroughClient(t *testing.T) {
	release := make(chan struct{})
	gen := newDashScope(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	rec := &sleepRecorder{}
	resp := NewClient(gen, Options{MaxRetries: 2, Sleep: rec.sleep}).Call(context.Background(), msgs, 20*time.Millisecond)

	require.ErrorIs(t, resp.Err, ErrRetriesExhausted)
	assert.True(t, IsTimeout(resp.Err))
	assert.Equal(t, 2, resp.Attempts)
	assert.Equal(t, []time.Duration{3 * time.Second}, rec.waits)
}

func TestDashScopeConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	cfg := config.Default().LLM
	cfg.BaseURL = url
	_, err := NewDashScopeGenerator(cfg, nil).Generate(context.Background(), msgs)

	var nerr *NetworkError
	require.ErrorAs(t, err, &nerr)
	assert.False(t, nerr.Timeout)
}
