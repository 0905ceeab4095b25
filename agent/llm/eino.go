package llm

import (
	"context"
	"fmt"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

// EinoCompleter adapts an eino tool-calling chat model.
type EinoCompleter struct {
	chatModel einomodel.ToolCallingChatModel
}

func NewEinoCompleter(chatModel einomodel.ToolCallingChatModel) *EinoCompleter {
	return &EinoCompleter{chatModel: chatModel}
}

func (c *EinoCompleter) Complete(ctx context.Context, messages []*schema.Message, tools []contractx.ToolSpec) (*schema.Message, error) {
	m := c.chatModel
	if len(tools) > 0 {
		infos := make([]*schema.ToolInfo, 0, len(tools))
		for _, t := range tools {
			infos = append(infos, t.ToolInfo())
		}
		bound, err := m.WithTools(infos)
		if err != nil {
			return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrTransport, err)
		}
		m = bound
	}

	msg, err := m.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("%w: generate: %v", contractx.ErrTransport, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty completion response", contractx.ErrSchemaViolation)
	}
	return msg, nil
}
