package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/careerkit/career-assistant/pkg/metrics"
	"go.uber.org/zap"
)

const (
	anthropicAPIVersion = "2023-06-01"
	defaultBaseURL      = "https://api.anthropic.com/v1/messages"
)

type anthropicRequest struct {
	Model     string             `json:"model"`
	Messages  []anthropicMessage `json:"messages"`
	System    string             `json:"system,omitempty"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID      string             `json:"id"`
	Type    string             `json:"type"`
	Role    string             `json:"role"`
	Content []anthropicContent `json:"content"`
	Error   *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnthropicClient talks to the Anthropic Messages API over plain HTTP.
type AnthropicClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	tier       Tier
	logger     *zap.SugaredLogger
}

// Make sure we conform to Client interface
var _ Client = (*AnthropicClient)(nil)

type AnthropicOptions struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	Timeout   time.Duration
	Tier      Tier
}

func NewAnthropicClient(opts AnthropicOptions) (*AnthropicClient, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("anthropic api key is missing")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("anthropic model is missing")
	}
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 4096
	}
	if opts.Timeout == 0 {
		opts.Timeout = 120 * time.Second
	}

	return &AnthropicClient{
		httpClient: &http.Client{Timeout: opts.Timeout},
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		model:      opts.Model,
		maxTokens:  opts.MaxTokens,
		tier:       opts.Tier,
		logger:     zap.S().Named("ai"),
	}, nil
}

func (c *AnthropicClient) Model() string {
	return c.model
}

func (c *AnthropicClient) Tier() Tier {
	return c.tier
}

func (c *AnthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.call(ctx, "", prompt)
}

func (c *AnthropicClient) GenerateWithSystem(ctx context.Context, systemPrompt, prompt string) (string, error) {
	return c.call(ctx, systemPrompt, prompt)
}

func (c *AnthropicClient) call(ctx context.Context, systemPrompt, prompt string) (string, error) {
	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    systemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", NewCapabilityError(c.tier, fmt.Errorf("failed to marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", NewCapabilityError(c.tier, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicAPIVersion)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.IncreaseAiCallsTotalMetric(string(c.tier), "error")
		return "", NewCapabilityError(c.tier, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncreaseAiCallsTotalMetric(string(c.tier), "error")
		return "", NewCapabilityError(c.tier, fmt.Errorf("failed to read response: %w", err))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		metrics.IncreaseAiCallsTotalMetric(string(c.tier), "error")
		return "", NewCapabilityError(c.tier, fmt.Errorf("failed to decode response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		metrics.IncreaseAiCallsTotalMetric(string(c.tier), "error")
		if apiResp.Error != nil {
			return "", NewCapabilityError(c.tier, fmt.Errorf("api error %s: %s", apiResp.Error.Type, apiResp.Error.Message))
		}
		return "", NewCapabilityError(c.tier, fmt.Errorf("unexpected status code %d", resp.StatusCode))
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	if text == "" {
		metrics.IncreaseAiCallsTotalMetric(string(c.tier), "error")
		return "", NewCapabilityError(c.tier, fmt.Errorf("empty response from model %s", c.model))
	}

	metrics.IncreaseAiCallsTotalMetric(string(c.tier), "success")
	c.logger.Debugw("model call completed",
		"model", c.model,
		"tier", c.tier,
		"latency", time.Since(start),
		"response_chars", len(text),
	)
	return text, nil
}
