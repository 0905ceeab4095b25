package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	promptx "github.com/tanpawarit/persona-agent/agent/prompt"
	toolx "github.com/tanpawarit/persona-agent/agent/tool"
)

const (
	DefaultMaxToolRounds = 8

	finishReasonToolCalls = "tool_calls"
)

type Config struct {
	MaxToolRounds int `split_words:"true" default:"8"`
}

// Engine turns one visitor message into one assistant reply, running any
// tool calls the model asks for along the way.
type Engine struct {
	completer     contractx.Completer
	tools         *toolx.Registry
	persona       contractx.Persona
	maxToolRounds int
}

func New(completer contractx.Completer, tools *toolx.Registry, persona contractx.Persona, cfg Config) (*Engine, error) {
	if completer == nil {
		return nil, errors.New("completer is required")
	}
	if tools == nil {
		return nil, errors.New("tool registry is required")
	}

	maxRounds := cfg.MaxToolRounds
	if maxRounds <= 0 {
		maxRounds = DefaultMaxToolRounds
	}

	return &Engine{
		completer:     completer,
		tools:         tools,
		persona:       persona,
		maxToolRounds: maxRounds,
	}, nil
}

func (e *Engine) Persona() contractx.Persona {
	return e.persona
}

func (e *Engine) SystemPrompt(ctx context.Context) (string, error) {
	return promptx.SystemPrompt(ctx, e.persona)
}

// Respond runs one turn. history holds the earlier turns without the system
// prompt and is left untouched.
func (e *Engine) Respond(ctx context.Context, userMessage string, history []*schema.Message) (string, error) {
	system, err := e.SystemPrompt(ctx)
	if err != nil {
		return "", err
	}

	messages := make([]*schema.Message, 0, len(history)+2)
	messages = append(messages, schema.SystemMessage(system))
	messages = append(messages, history...)
	messages = append(messages, schema.UserMessage(userMessage))

	specs := e.tools.Specs()
	for round := 0; ; round++ {
		reply, err := e.completer.Complete(ctx, messages, specs)
		if err != nil {
			return "", err
		}
		if reply == nil {
			return "", fmt.Errorf("%w: empty completion response", contractx.ErrSchemaViolation)
		}

		if !wantsTools(reply) {
			content := strings.TrimSpace(reply.Content)
			if content == "" {
				return "", fmt.Errorf("%w: final reply is empty", contractx.ErrSchemaViolation)
			}
			log.Debug().Int("tool_rounds", round).Msg("turn complete")
			return reply.Content, nil
		}

		if round >= e.maxToolRounds {
			return "", fmt.Errorf("%w: model still requesting tools after %d rounds", contractx.ErrToolLoopExceeded, e.maxToolRounds)
		}

		results, err := e.tools.Dispatch(ctx, reply.ToolCalls)
		if err != nil {
			return "", err
		}

		messages = append(messages, reply)
		messages = append(messages, results...)
	}
}

func wantsTools(msg *schema.Message) bool {
	if len(msg.ToolCalls) > 0 {
		return true
	}
	return msg.ResponseMeta != nil && msg.ResponseMeta.FinishReason == finishReasonToolCalls
}
