package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mithaq/internal/document"
	"mithaq/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec(t *testing.T) *prompt.Spec {
	t.Helper()
	spec, err := prompt.Generation(document.TypeLetter, "")
	require.NoError(t, err)
	return spec
}

func newTestClient(url string) *Client {
	return NewClient(Config{
		APIKey:       "test-key",
		BaseURL:      url,
		DefaultModel: "gemini-2.5-pro",
		Timeout:      5 * time.Second,
	})
}

// textResponse builds a minimal generateContent response body.
func textResponse(text string) string {
	raw, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(raw)
}

func TestInvokeReturnsText(t *testing.T) {
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, textResponse("  النص المولد  "))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{Temperature: 1.0})
	require.NoError(t, err)
	assert.Equal(t, "النص المولد", got)

	// The structured specification travels whole as the user content.
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Contains(t, gotBody.Contents[0].Parts[0].Text, "promptDetails")
	assert.Equal(t, 1.0, gotBody.GenerationConfig.Temperature)
	assert.Empty(t, gotBody.GenerationConfig.ResponseMimeType)
}

func TestInvokeStructuredOutput(t *testing.T) {
	verdict := `{"decision":"APPROVED","reason":"ok","errors":[]}`
	var gotBody geminiRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		io.WriteString(w, textResponse(verdict))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{
		ResponseSchema: prompt.JudgeResponseSchema(),
	})
	require.NoError(t, err)
	assert.Equal(t, verdict, got)
	assert.Equal(t, "application/json", gotBody.GenerationConfig.ResponseMimeType)
	assert.NotNil(t, gotBody.GenerationConfig.ResponseSchema)
}

func TestInvokeUnwrapsFullFence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, textResponse("```markdown\n# عقد\n\nنص\n```"))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{})
	require.NoError(t, err)
	assert.Equal(t, "# عقد\n\nنص", got)
}

func TestInvokeConfigMissing(t *testing.T) {
	c := NewClient(Config{APIKey: ""})
	_, err := c.Invoke(context.Background(), testSpec(t), "", Options{})
	assert.Equal(t, KindConfigMissing, KindOf(err))
}

func TestInvokeSafetyBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{})
	require.Error(t, err)
	assert.Equal(t, KindSafetyBlocked, KindOf(err))
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestInvokeEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{})
	assert.Equal(t, KindEmptyResponse, KindOf(err))
}

func TestInvokeErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   Kind
	}{
		{"rate_limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted","status":"RESOURCE_EXHAUSTED"}}`, KindRateLimited},
		{"auth_invalid_message", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, KindAuthInvalid},
		{"auth_invalid_status", http.StatusForbidden, `{"error":{"code":403,"message":"denied"}}`, KindAuthInvalid},
		{"server_error", http.StatusInternalServerError, `{"error":{"code":500,"message":"internal"}}`, KindNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{})
			assert.Equal(t, tt.want, KindOf(err))
		})
	}
}

func TestInvokeTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	_, err := newTestClient(srv.URL).Invoke(context.Background(), testSpec(t), "", Options{})
	assert.Equal(t, KindNetworkError, KindOf(err))
}

func TestUnwrapFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "no fence here", "no fence here"},
		{"full_fence", "```\ntext\n```", "text"},
		{"language_tag", "```markdown\n# h\n```", "# h"},
		{"inner_fence_kept", "prose\n```\ncode\n```\nmore", "prose\n```\ncode\n```\nmore"},
		{"fenced_with_inner_fence", "```\na\n```\nb\n```", "```\na\n```\nb\n```"},
		{"bare_triple", "```", "```"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unwrapFence(tt.input))
		})
	}
}
