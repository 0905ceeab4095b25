package engine

import (
	"strings"

	"github.com/cloudwego/eino/schema"
)

// Turn is the display form of a message, as the chat widget keeps it.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ToMessages converts widget history into model messages. Only user and
// assistant turns are accepted; a client cannot smuggle in a system or tool
// message.
func ToMessages(turns []Turn) []*schema.Message {
	out := make([]*schema.Message, 0, len(turns))
	for _, t := range turns {
		switch strings.ToLower(strings.TrimSpace(t.Role)) {
		case string(schema.User):
			out = append(out, schema.UserMessage(t.Content))
		case string(schema.Assistant):
			out = append(out, schema.AssistantMessage(t.Content, nil))
		}
	}
	return out
}

// AppendExchange returns a new slice with the user message and reply added.
func AppendExchange(turns []Turn, userMessage, reply string) []Turn {
	out := make([]Turn, 0, len(turns)+2)
	out = append(out, turns...)
	return append(out,
		Turn{Role: string(schema.User), Content: userMessage},
		Turn{Role: string(schema.Assistant), Content: reply},
	)
}
