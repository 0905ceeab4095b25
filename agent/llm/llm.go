package llm

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	openrouterx "github.com/tanpawarit/persona-agent/pkg/openrouter"
)

// New builds the Completer selected by cfg.Backend.
func New(ctx context.Context, cfg Config) (contractx.Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	orCfg := cfg.OpenRouter()
	switch cfg.backend() {
	case BackendSDK:
		client := openrouterx.NewClient(orCfg)
		if client == nil {
			return nil, errors.New("openai client could not be created")
		}
		return NewSDKCompleter(client, orCfg.Model, cfg.Temperature, cfg.MaxCompletionToken), nil
	default:
		chatModel, err := openrouterx.NewChatModel(ctx, orCfg)
		if err != nil {
			return nil, fmt.Errorf("create chat model: %w", err)
		}
		return NewEinoCompleter(chatModel), nil
	}
}
