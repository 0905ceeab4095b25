package contract

import (
	"context"

	"github.com/cloudwego/eino/schema"
)

// Completer sends one chat completion request and returns the single
// assistant message the model produced.
type Completer interface {
	Complete(ctx context.Context, messages []*schema.Message, tools []ToolSpec) (*schema.Message, error)
}

// Tool is a capability the model may ask the host to run.
type Tool interface {
	Spec() ToolSpec
	Invoke(ctx context.Context, args map[string]any) (map[string]any, error)
}

// Notifier delivers a one-line message to the owner. Callers log the error
// and move on; delivery is best effort.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// Recorder keeps a durable copy of what the recording tools captured.
type Recorder interface {
	Record(ctx context.Context, rec Record) error
}
