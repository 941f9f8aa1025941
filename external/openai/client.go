// Package openai calls the OpenAI chat completions API to turn stage
// results into short narrative recaps.
package openai

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/matchdayhq/tournament-engine/internal/platform/logging"
	"github.com/matchdayhq/tournament-engine/internal/platform/resilience"
	"github.com/matchdayhq/tournament-engine/internal/usecase"
)

const (
	defaultBaseURL     = "https://api.openai.com/v1"
	defaultModel       = "gpt-4o-mini"
	defaultTimeout     = 30 * time.Second
	defaultMaxTokens   = 320
	defaultTemperature = 0.7

	systemPrompt = "You are the announcer for an amateur eFootball tournament. " +
		"Keep recaps factual, name teams exactly as given, and never invent results."
)

var errOpenAITransient = crerr.New("openai transient failure")

type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	Timeout        time.Duration
	MaxRetries     int
	MaxTokens      int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *fasthttp.Client
	baseURL        string
	apiKey         string
	model          string
	timeout        time.Duration
	maxRetries     int
	maxTokens      int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         singleflight.Group
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     &fasthttp.Client{},
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		model:          model,
		timeout:        timeout,
		maxRetries:     maxInt(cfg.MaxRetries, 0),
		maxTokens:      maxTokens,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Index        int         `json:"index"`
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateSummary sends the prompt as one chat completion and returns the
// model's text. Identical prompts in flight share a single upstream call.
func (c *Client) GenerateSummary(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", crerr.New("prompt is required")
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "openai circuit breaker rejected request", "state", c.breaker.State())
			return "", fmt.Errorf("%w: summary generator is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	payload := chatCompletionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.maxTokens,
		Temperature: defaultTemperature,
	}
	body, err := sonic.Marshal(payload)
	if err != nil {
		return "", crerr.Wrap(err, "marshal completion payload")
	}

	fullURL := c.baseURL + "/chat/completions"
	curlPreview := buildCompletionCurlPreview(fullURL, truncateForLog(string(body), 2048))

	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.SetAttributes(
			attribute.String("openai.model", c.model),
			attribute.Int("openai.prompt_chars", len(prompt)),
			attribute.String("openai.request_curl_preview", curlPreview),
		)
	}
	c.logger.DebugContext(ctx, "openai completion request", "model", c.model, "curl_preview", curlPreview)

	key := c.model + "\n" + prompt
	out, err, _ := c.flight.Do(key, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL, body)
		if c.circuitEnabled {
			if reqErr != nil && isOpenAICircuitFailure(reqErr) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return "", err
	}

	raw, ok := out.([]byte)
	if !ok {
		return "", fmt.Errorf("unexpected response payload type %T", out)
	}

	var completion chatCompletionResponse
	if err := sonic.Unmarshal(raw, &completion); err != nil {
		return "", fmt.Errorf("decode completion payload: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", crerr.New("completion has no choices")
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)
	if text == "" {
		return "", crerr.New("completion text is empty")
	}

	c.logger.InfoContext(ctx, "openai completion finished",
		"model", c.model,
		"finish_reason", completion.Choices[0].FinishReason,
		"total_tokens", completion.Usage.TotalTokens,
	)

	return text, nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string, body []byte) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, status, err := c.post(ctx, fullURL, body)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %s", errOpenAITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
		} else if status >= 200 && status < 300 {
			return raw, nil
		} else if isRetryableStatus(status) {
			lastErr = fmt.Errorf("%w: completion status=%d body=%s", errOpenAITransient, status, abbreviateBody(raw))
		} else {
			return nil, fmt.Errorf("completion status=%d body=%s", status, abbreviateBody(raw))
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = crerr.New("completion request failed")
	}
	c.logger.WarnContext(ctx, "openai request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// post runs one HTTP exchange. fasthttp has no context plumbing, so the
// deadline is the shorter of the client timeout and the context deadline.
func (c *Client) post(ctx context.Context, fullURL string, body []byte) ([]byte, int, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.SetBodyRaw(body)

	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return nil, 0, err
	}

	raw := append([]byte(nil), resp.Body()...)
	return raw, resp.StatusCode(), nil
}

func buildCompletionCurlPreview(fullURL, body string) string {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	appendPart := func(part string) {
		if buf.Len() > 0 {
			_ = buf.WriteByte(' ')
		}
		_, _ = buf.WriteString(part)
	}

	appendPart("curl")
	appendPart("-X")
	appendPart("POST")
	appendPart(shellQuote(fullURL))
	appendPart("-H")
	appendPart(shellQuote("Authorization: Bearer ***"))
	appendPart("-H")
	appendPart(shellQuote("Content-Type: application/json"))
	appendPart("-d")
	appendPart(shellQuote(body))

	return buf.String()
}

func shellQuote(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "'\"'\"'") + "'"
}

func truncateForLog(value string, max int) string {
	if max <= 0 || len(value) <= max {
		return value
	}
	return value[:max] + "...(truncated)"
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return value
}

func isOpenAICircuitFailure(err error) bool {
	if err == nil {
		return false
	}
	return stderrors.Is(err, errOpenAITransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func maxInt(left, right int) int {
	if left > right {
		return left
	}
	return right
}
