package prompt

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

//go:embed template/persona.txt
var personaRaw string

// SystemPrompt renders the persona instructions. The output depends only on
// p, never on the conversation.
func SystemPrompt(ctx context.Context, p contractx.Persona) (string, error) {
	raw := strings.TrimSpace(personaRaw)
	if raw == "" {
		return "", contractx.ErrPromptMissing
	}

	template := einoprompt.FromMessages(schema.GoTemplate, schema.SystemMessage(raw))
	msgs, err := template.Format(ctx, map[string]any{
		"name":    p.Name,
		"summary": p.Summary,
		"profile": p.Profile,
		"resume":  p.Resume,
	})
	if err != nil {
		return "", fmt.Errorf("render persona prompt: %w", err)
	}
	if len(msgs) != 1 {
		return "", fmt.Errorf("%w: persona template produced %d messages", contractx.ErrPromptMissing, len(msgs))
	}
	return msgs[0].Content, nil
}
