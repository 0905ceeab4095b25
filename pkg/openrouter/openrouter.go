package openrouter

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	openaimodel "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const DefaultBaseURL = "https://openrouter.ai/api/v1"

// Models that reject or stall on reasoning unless it is explicitly excluded.
var reasoningExcluded = map[string]bool{
	"x-ai/grok-4.1-fast": true,
}

// Config describes one OpenAI-compatible endpoint, normally OpenRouter.
type Config struct {
	BaseURL             string
	APIKey              string
	Model               string
	MaxCompletionTokens int
	Temperature         float32
	Timeout             time.Duration
	SiteURL             string
	SiteName            string
	ExcludeReasoning    bool
}

func (c Config) baseURL() string {
	if trimmed := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/"); trimmed != "" {
		return trimmed
	}
	return DefaultBaseURL
}

// Headers are the OpenRouter attribution headers for the configured site.
func (c Config) Headers() http.Header {
	h := http.Header{}
	if v := strings.TrimSpace(c.SiteURL); v != "" {
		h.Set("HTTP-Referer", v)
	}
	if v := strings.TrimSpace(c.SiteName); v != "" {
		h.Set("X-Title", v)
	}
	return h
}

func (c Config) excludeReasoning() bool {
	return c.ExcludeReasoning || reasoningExcluded[strings.TrimSpace(c.Model)]
}

// HTTPClient returns a client that stamps Headers on every request.
func (c Config) HTTPClient() *http.Client {
	return &http.Client{
		Timeout:   c.Timeout,
		Transport: &headerTransport{base: http.DefaultTransport, headers: c.Headers()},
	}
}

type headerTransport struct {
	base    http.RoundTripper
	headers http.Header
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if len(t.headers) == 0 {
		return t.base.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header[k] = v
	}
	return t.base.RoundTrip(req)
}

// NewChatModel builds an eino chat model against the endpoint.
func NewChatModel(ctx context.Context, cfg Config) (model.ToolCallingChatModel, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("openrouter: api key is required")
	}

	temperature := cfg.Temperature
	conf := &openaimodel.ChatModelConfig{
		BaseURL:     cfg.baseURL(),
		APIKey:      strings.TrimSpace(cfg.APIKey),
		Model:       strings.TrimSpace(cfg.Model),
		Temperature: &temperature,
		HTTPClient:  cfg.HTTPClient(),
	}
	if cfg.MaxCompletionTokens > 0 {
		maxTokens := cfg.MaxCompletionTokens
		conf.MaxTokens = &maxTokens
	}
	if cfg.excludeReasoning() {
		conf.ExtraFields = map[string]any{
			"reasoning": map[string]any{
				"exclude": true,
				"effort":  "none",
			},
		}
	}

	m, err := openaimodel.NewChatModel(ctx, conf)
	if err != nil {
		return nil, fmt.Errorf("openrouter: create chat model: %w", err)
	}
	return m, nil
}

// NewClient creates an OpenAI SDK client for the endpoint, or nil without an
// API key. The SDK's own retries are disabled; a failed call fails the turn.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		option.WithBaseURL(cfg.baseURL()),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	for k, v := range cfg.Headers() {
		opts = append(opts, option.WithHeader(k, v[0]))
	}
	if cfg.excludeReasoning() {
		opts = append(opts, option.WithJSONSet("reasoning", map[string]any{"exclude": true, "effort": "none"}))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
