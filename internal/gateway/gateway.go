// Package gateway is the single chokepoint for model provider I/O. It
// serializes a prompt specification whole into the request, invokes the
// Gemini generateContent endpoint over REST, extracts the response text, and
// classifies failures into the closed taxonomy in errors.go. It holds no
// document-domain state.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mithaq/internal/logging"
	"mithaq/internal/prompt"
)

// ============================================================================
// WIRE TYPES
// ============================================================================

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	Temperature      float64        `json:"temperature,omitempty"`
	MaxOutputTokens  int            `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason,omitempty"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ============================================================================
// CLIENT
// ============================================================================

// Config holds the provider connection settings.
type Config struct {
	APIKey          string
	BaseURL         string
	DefaultModel    string
	Timeout         time.Duration
	MaxOutputTokens int
}

// Client is a stateless wrapper around the generateContent endpoint. Create
// one per process and pass it explicitly to whatever needs model access.
type Client struct {
	apiKey          string
	baseURL         string
	defaultModel    string
	maxOutputTokens int
	httpClient      *http.Client
}

// NewClient creates a gateway client. A missing API key is not an error here;
// it surfaces as ConfigMissing on the first invocation so construction stays
// infallible.
func NewClient(cfg Config) *Client {
	model := strings.TrimSpace(cfg.DefaultModel)
	if model == "" {
		model = "gemini-2.5-pro"
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	maxTokens := cfg.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = 65536
	}
	return &Client{
		apiKey:          cfg.APIKey,
		baseURL:         baseURL,
		defaultModel:    model,
		maxOutputTokens: maxTokens,
		httpClient:      &http.Client{Timeout: timeout},
	}
}

// DefaultModel returns the model used when the caller passes none.
func (c *Client) DefaultModel() string { return c.defaultModel }

// Options tune one invocation.
type Options struct {
	Temperature     float64
	MaxOutputTokens int
	// ResponseSchema, when set, asks the model for structured JSON output
	// constrained to this schema instead of free text.
	ResponseSchema map[string]any
}

// Invoke serializes the specification, calls the model, and returns the
// response text. Free-text responses wrapped whole in a fenced code block are
// unwrapped; structured responses are returned verbatim for the caller to
// parse. All failures are *Error values from the taxonomy.
func (c *Client) Invoke(ctx context.Context, spec *prompt.Spec, modelID string, opts Options) (string, error) {
	if c.apiKey == "" {
		logging.GatewayError("Invoke: API key not configured")
		return "", &Error{Kind: KindConfigMissing}
	}
	if modelID == "" {
		modelID = c.defaultModel
	}

	payload, err := spec.JSON()
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = c.maxOutputTokens
	}
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: payload}}},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: maxTokens,
		},
	}
	if opts.ResponseSchema != nil {
		reqBody.GenerationConfig.ResponseMimeType = "application/json"
		reqBody.GenerationConfig.ResponseSchema = opts.ResponseSchema
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.httpClient.Timeout)
		defer cancel()
	}

	start := time.Now()
	logging.GatewayDebug("Invoke: model=%s prompt=%q payload_len=%d structured=%t",
		modelID, spec.PromptDetails.Title, len(payload), opts.ResponseSchema != nil)

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, modelID, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.GatewayError("Invoke: transport failure after %v: %v", time.Since(start), err)
		return "", &Error{Kind: KindNetworkError, Detail: err.Error(), cause: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Kind: KindNetworkError, Detail: err.Error(), cause: err}
	}

	if resp.StatusCode != http.StatusOK {
		logging.GatewayWarn("Invoke: status %d: %s", resp.StatusCode, truncate(string(body), 300))
		return "", classifyProviderError(resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", &Error{Kind: KindNetworkError, Detail: "unparsable provider response", cause: err}
	}
	if geminiResp.Error != nil {
		logging.GatewayWarn("Invoke: provider error %d: %s", geminiResp.Error.Code, geminiResp.Error.Message)
		return "", classifyProviderError(geminiResp.Error.Code, geminiResp.Error.Message)
	}

	var sb strings.Builder
	if len(geminiResp.Candidates) > 0 {
		for _, part := range geminiResp.Candidates[0].Content.Parts {
			sb.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(sb.String())

	if text == "" {
		if geminiResp.PromptFeedback != nil && geminiResp.PromptFeedback.BlockReason != "" {
			reason := geminiResp.PromptFeedback.BlockReason
			logging.GatewayWarn("Invoke: blocked by safety filter: %s", reason)
			return "", &Error{Kind: KindSafetyBlocked, Detail: reason}
		}
		logging.GatewayWarn("Invoke: empty response from model %s", modelID)
		return "", &Error{Kind: KindEmptyResponse}
	}

	if opts.ResponseSchema == nil {
		text = unwrapFence(text)
	}

	logging.Gateway("Invoke: model=%s completed in %v response_len=%d",
		modelID, time.Since(start), len(text))
	return text, nil
}

// classifyProviderError maps a provider status/message pair into the error
// taxonomy. This is the only string sniffing in the module.
func classifyProviderError(status int, message string) *Error {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "api key not valid") || status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &Error{Kind: KindAuthInvalid, Detail: message}
	case status == http.StatusTooManyRequests || strings.Contains(lower, "rate limit") || strings.Contains(lower, "429"):
		return &Error{Kind: KindRateLimited, Detail: message}
	default:
		return &Error{Kind: KindNetworkError, Detail: message}
	}
}

// unwrapFence strips fence markers from a response that is one fenced code
// block in its entirety. Fences appearing inside a larger response are left
// alone.
func unwrapFence(text string) string {
	if !strings.HasPrefix(text, "```") || !strings.HasSuffix(text, "```") {
		return text
	}
	inner := strings.TrimSuffix(text, "```")
	if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
		// Drop the opening fence line, language tag included.
		inner = inner[nl+1:]
	} else {
		return text
	}
	if strings.Contains(inner, "```") {
		return text
	}
	return strings.TrimSpace(inner)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
