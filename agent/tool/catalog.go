package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

// Registry is a fixed name -> tool mapping built once at startup.
type Registry struct {
	tools map[string]contractx.Tool
	specs []contractx.ToolSpec
}

func NewRegistry(tools ...contractx.Tool) (*Registry, error) {
	r := &Registry{
		tools: make(map[string]contractx.Tool, len(tools)),
		specs: make([]contractx.ToolSpec, 0, len(tools)),
	}
	for _, t := range tools {
		if t == nil {
			return nil, errors.New("tool is nil")
		}
		spec := t.Spec()
		if strings.TrimSpace(spec.Name) == "" {
			return nil, errors.New("tool name is empty")
		}
		if _, exists := r.tools[spec.Name]; exists {
			return nil, fmt.Errorf("tool %s already registered", spec.Name)
		}
		r.tools[spec.Name] = t
		r.specs = append(r.specs, spec)
	}
	return r, nil
}

// Specs lists the advertised tools in registration order.
func (r *Registry) Specs() []contractx.ToolSpec {
	return append([]contractx.ToolSpec(nil), r.specs...)
}

// Lookup is an exact, case-sensitive match on the tool name.
func (r *Registry) Lookup(name string) (contractx.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Dispatch runs every call in order and returns one tool message per call.
// Unknown tool names answer with an empty object.
func (r *Registry) Dispatch(ctx context.Context, calls []schema.ToolCall) ([]*schema.Message, error) {
	results := make([]*schema.Message, 0, len(calls))
	for _, call := range calls {
		msg, err := r.dispatchOne(ctx, call)
		if err != nil {
			return nil, err
		}
		results = append(results, msg)
	}
	return results, nil
}

func (r *Registry) dispatchOne(ctx context.Context, call schema.ToolCall) (*schema.Message, error) {
	name := call.Function.Name
	log.Info().Str("tool", name).Str("tool_call_id", call.ID).Msg("tool called")

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return nil, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrToolInvocation, name, err)
		}
		if args == nil {
			args = map[string]any{}
		}
	}

	result := map[string]any{}
	if t, ok := r.Lookup(name); ok {
		out, err := t.Invoke(ctx, args)
		if err != nil {
			return nil, fmt.Errorf("%w: tool=%s: %v", contractx.ErrToolInvocation, name, err)
		}
		if out != nil {
			result = out
		}
	} else {
		log.Warn().Str("tool", name).Msg("unknown tool requested")
	}

	content, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("%w: encode result for tool=%s: %v", contractx.ErrToolInvocation, name, err)
	}
	return schema.ToolMessage(string(content), call.ID), nil
}
