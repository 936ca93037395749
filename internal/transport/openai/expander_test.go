package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterAssistMetrics()
	os.Exit(m.Run())
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, promptTokens, totalTokens int, check func(chatRequest)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(req)
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{
				"prompt_tokens":     promptTokens,
				"completion_tokens": totalTokens - promptTokens,
				"total_tokens":      totalTokens,
			},
		})
	}))
}

func newTestExpander(url string, maxTerms int) *Expander {
	return NewExpander(&Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		MaxTerms:   maxTerms,
		Provider:   "test",
		Vocabulary: []string{"layout", "robotics", "safety", "hospital"},
		Logger:     zap.NewNop(),
	})
}

func TestExpander_Expand(t *testing.T) {
	server := completionServer(t, `{"terms": ["Layout", "robotics", "layout"]}`, 90, 100, func(req chatRequest) {
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Fatalf("expected system + user messages, got %d", len(req.Messages))
		}
		if !strings.Contains(req.Messages[0].Content, "layout, robotics, safety, hospital") {
			t.Errorf("system prompt must list the vocabulary: %q", req.Messages[0].Content)
		}
		if req.Messages[1].Content != "robots that print floor plans" {
			t.Errorf("user message = %q", req.Messages[1].Content)
		}
	})
	defer server.Close()

	exp, err := newTestExpander(server.URL, 0).Expand(context.Background(), "robots that print floor plans")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if strings.Join(exp.Terms, ",") != "layout,robotics" {
		t.Errorf("terms = %v, want [layout robotics]", exp.Terms)
	}
	if exp.PromptTokens != 90 || exp.TotalTokens != 100 {
		t.Errorf("usage = %d/%d, want 90/100", exp.PromptTokens, exp.TotalTokens)
	}
}

func TestExpander_MaxTerms(t *testing.T) {
	server := completionServer(t, `{"terms": ["a", "b", "c", "d"]}`, 1, 2, nil)
	defer server.Close()

	exp, err := newTestExpander(server.URL, 2).Expand(context.Background(), "q")
	if err != nil {
		t.Fatalf("Expand failed: %v", err)
	}
	if len(exp.Terms) != 2 {
		t.Errorf("expected 2 terms, got %v", exp.Terms)
	}
}

func TestExpander_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestExpander(server.URL, 0).Expand(context.Background(), "hello")
	if !errors.Is(err, domain.ErrAssistProviderError) {
		t.Fatalf("expected ErrAssistProviderError, got %v", err)
	}
}

func TestExpander_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"x","object":"chat.completion","choices":[]}`))
	}))
	defer server.Close()

	_, err := newTestExpander(server.URL, 0).Expand(context.Background(), "hello")
	if !errors.Is(err, domain.ErrAssistProviderError) {
		t.Fatalf("expected ErrAssistProviderError, got %v", err)
	}
}

func TestExpander_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	if err := newTestExpander(server.URL, 0).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck failed: %v", err)
	}
}

func TestParseTerms(t *testing.T) {
	tests := []struct {
		name    string
		content string
		limit   int
		want    string
	}{
		{"json", `{"terms":["Safety","BIM"]}`, 5, "safety,bim"},
		{"json dedup", `{"terms":["ai","AI"," ai "]}`, 5, "ai"},
		{"comma list", "safety, layout ,hospital", 5, "safety,layout,hospital"},
		{"bullets", "- \"safety\"\n- layout\n", 5, "safety,layout"},
		{"limit", `{"terms":["a","b","c"]}`, 2, "a,b"},
		{"empty", "", 5, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.Join(parseTerms(tc.content, tc.limit), ",")
			if got != tc.want {
				t.Errorf("parseTerms(%q) = %q, want %q", tc.content, got, tc.want)
			}
		})
	}
}

func TestParseAPIError_PlainError(t *testing.T) {
	err := parseAPIError(errors.New("dial tcp: refused"))
	if !errors.Is(err, domain.ErrAssistProviderError) {
		t.Fatalf("expected wrapped provider error, got %v", err)
	}
	err = parseAPIError(context.DeadlineExceeded)
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, domain.ErrAssistProviderError) {
		t.Fatalf("expected deadline and provider error, got %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"model not found"}`)); got != "model not found" {
		t.Errorf("detail = %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("detail = %q, want empty", got)
	}
}
