package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"lifeplan_agent/internal/config"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
)

// DashScope native text-generation wire format

type dashScopeRequest struct {
	Model      string              `json:"model"`
	Input      dashScopeInput      `json:"input"`
	Parameters dashScopeParameters `json:"parameters"`
}

type dashScopeInput struct {
	Messages []dashScopeMessage `json:"messages"`
}

type dashScopeMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type dashScopeParameters struct {
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

type dashScopeResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

// DashScopeGenerator calls the DashScope text-generation endpoint directly
type DashScopeGenerator struct {
	url         string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
}

// NewDashScopeGenerator builds the native backend. A nil httpClient uses a client
// without its own timeout: deadlines come from the per-attempt context.
func NewDashScopeGenerator(cfg config.LLMConfig, httpClient *http.Client) *DashScopeGenerator {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &DashScopeGenerator{
		url:         cfg.BaseURL,
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  httpClient,
	}
}

// Generate implements Generator
func (g *DashScopeGenerator) Generate(ctx context.Context, messages []*schema.Message) (string, error) {
	reqBody := dashScopeRequest{
		Model:      g.model,
		Parameters: dashScopeParameters{Temperature: g.temperature, MaxTokens: g.maxTokens},
	}
	for _, m := range messages {
		reqBody.Input.Messages = append(reqBody.Input.Messages, dashScopeMessage{Role: string(m.Role), Content: m.Content})
	}

	payload, err := sonic.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", transportError(err)
	}

	var out dashScopeResponse
	decodeErr := sonic.Unmarshal(body, &out)

	if resp.StatusCode != http.StatusOK {
		msg := out.Message
		if decodeErr != nil || msg == "" {
			msg = truncate(string(body), 200)
		}
		return "", &ServiceError{StatusCode: resp.StatusCode, Code: out.Code, Message: msg}
	}
	if decodeErr != nil {
		return "", &ServiceError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("undecodable body: %v", decodeErr)}
	}
	if out.Output.Text == "" {
		return "", &ServiceError{StatusCode: resp.StatusCode, Code: out.Code, Message: "response has no output text"}
	}
	return out.Output.Text, nil
}

var _ Generator = (*DashScopeGenerator)(nil)

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
