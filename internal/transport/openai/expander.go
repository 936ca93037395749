package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/divergeconnect/connect/internal/domain"
	"github.com/divergeconnect/connect/internal/metrics"
)

// DefaultMaxTerms caps the number of suggested terms per query.
const DefaultMaxTerms = 5

// Expander is an assist provider using the OpenAI-compatible chat completion API.
type Expander struct {
	client      *openai.Client
	model       string
	maxTerms    int
	temperature float32
	user        string
	provider    string
	prompt      string
	logger      *zap.Logger
}

// Config holds the assist provider settings.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTerms    int
	Temperature float32
	User        string
	Provider    string
	// Vocabulary lists the catalog terms the model may answer with.
	Vocabulary []string
	Logger     *zap.Logger
}

// NewExpander creates an OpenAI-compatible assist provider.
func NewExpander(cfg *Config) *Expander {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	maxTerms := cfg.MaxTerms
	if maxTerms <= 0 {
		maxTerms = DefaultMaxTerms
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Expander{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		maxTerms:    maxTerms,
		temperature: cfg.Temperature,
		user:        cfg.User,
		provider:    cfg.Provider,
		prompt:      systemPrompt(cfg.Vocabulary, maxTerms),
		logger:      logger,
	}
}

func systemPrompt(vocabulary []string, maxTerms int) string {
	var b strings.Builder
	b.WriteString("You map construction technology questions to catalog search terms.\n")
	fmt.Fprintf(&b, "Answer with a JSON object {\"terms\": [...]} holding at most %d terms, ", maxTerms)
	b.WriteString("most relevant first, chosen only from this list:\n")
	b.WriteString(strings.Join(vocabulary, ", "))
	return b.String()
}

// Expand implements domain.Expander with transport-level metrics.
func (e *Expander) Expand(ctx context.Context, query string) (domain.Expansion, error) {
	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: e.prompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
		Temperature: e.temperature,
		User:        e.user,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.AssistRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.AssistErrorsTotal.WithLabelValues(e.provider, e.model, "api_error").Inc()
		return domain.Expansion{}, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.AssistRequestsTotal.WithLabelValues(e.provider, e.model, "error").Inc()
		metrics.AssistErrorsTotal.WithLabelValues(e.provider, e.model, "empty_response").Inc()
		return domain.Expansion{}, fmt.Errorf("empty completion response: %w", domain.ErrAssistProviderError)
	}

	metrics.AssistRequestsTotal.WithLabelValues(e.provider, e.model, "success").Inc()
	metrics.AssistRequestDuration.WithLabelValues(e.provider, e.model).Observe(duration.Seconds())

	promptTokens := resp.Usage.PromptTokens
	totalTokens := resp.Usage.TotalTokens
	if totalTokens > 0 {
		metrics.AssistTokensTotal.WithLabelValues(e.provider, e.model, "prompt").Add(float64(promptTokens))
		metrics.AssistTokensTotal.WithLabelValues(e.provider, e.model, "total").Add(float64(totalTokens))
	}

	terms := parseTerms(resp.Choices[0].Message.Content, e.maxTerms)
	if len(terms) == 0 {
		e.logger.Debug("Assist response had no terms",
			zap.String("provider", e.provider),
			zap.String("content", resp.Choices[0].Message.Content),
		)
	}

	return domain.Expansion{
		Terms:        terms,
		PromptTokens: promptTokens,
		TotalTokens:  totalTokens,
	}, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (e *Expander) HealthCheck(ctx context.Context) error {
	if _, err := e.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseTerms reads {"terms": [...]} and falls back to a comma or newline separated list.
// Terms are lower-cased, trimmed, deduplicated and capped at limit.
func parseTerms(content string, limit int) []string {
	var raw []string
	var parsed struct {
		Terms []string `json:"terms"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err == nil {
		raw = parsed.Terms
	} else {
		raw = strings.FieldsFunc(content, func(r rune) bool { return r == ',' || r == '\n' })
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.ToLower(strings.Trim(strings.TrimSpace(t), `"'-*. `))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out
}

// parseAPIError extracts a human-readable error from the API response.
// All errors wrap domain.ErrAssistProviderError.
func parseAPIError(err error) error {
	wrap := domain.ErrAssistProviderError

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if detail := extractDetail(reqErr.Body); detail != "" {
			return fmt.Errorf("assist API error %d: %s: %w", reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("assist API error %d: %s: %w", reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("assist API error %d: %s: %w", apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("assist request: %w: %w", err, wrap)
	}
	return fmt.Errorf("assist request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
