package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	openrouterx "github.com/tanpawarit/persona-agent/pkg/openrouter"
)

const (
	BackendEino = "eino"
	BackendSDK  = "sdk"
)

type Config struct {
	Backend            string        `envconfig:"BACKEND" default:"eino"`
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" default:"openai/gpt-4o-mini"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`
	ExcludeReasoning   bool          `envconfig:"EXCLUDE_REASONING" split_words:"true"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: llm api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: llm model is required", contractx.ErrValidation)
	}
	switch c.backend() {
	case BackendEino, BackendSDK:
	default:
		return fmt.Errorf("%w: unknown llm backend %q", contractx.ErrValidation, c.Backend)
	}
	return nil
}

func (c Config) backend() string {
	b := strings.ToLower(strings.TrimSpace(c.Backend))
	if b == "" {
		return BackendEino
	}
	return b
}

func (c Config) OpenRouter() openrouterx.Config {
	return openrouterx.Config{
		BaseURL:             strings.TrimSpace(c.BaseURL),
		APIKey:              strings.TrimSpace(c.APIKey),
		Model:               strings.TrimSpace(c.Model),
		MaxCompletionTokens: c.MaxCompletionToken,
		Temperature:         c.Temperature,
		Timeout:             c.Timeout,
		SiteURL:             strings.TrimSpace(c.SiteURL),
		SiteName:            strings.TrimSpace(c.SiteName),
		ExcludeReasoning:    c.ExcludeReasoning,
	}
}
