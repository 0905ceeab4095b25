package contract

import (
	"sort"
	"time"

	"github.com/cloudwego/eino/schema"
)

// Persona is the grounding the assistant speaks from. It is loaded once at
// startup and treated as read-only afterwards.
type Persona struct {
	Name    string `json:"name"`
	Profile string `json:"profile"`
	Resume  string `json:"resume"`
	Summary string `json:"summary"`
}

type ParamSpec struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required,omitempty"`
}

// ToolSpec is what gets advertised to the model. It is not enforced locally.
type ToolSpec struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Params      map[string]ParamSpec `json:"params"`
}

// JSONSchema renders the parameters as a closed JSON-Schema object.
func (s ToolSpec) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.Params))
	required := make([]string, 0, len(s.Params))
	for name, p := range s.Params {
		properties[name] = map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	return map[string]any{
		"type":                 "object",
		"properties":           properties,
		"required":             required,
		"additionalProperties": false,
	}
}

func (s ToolSpec) ToolInfo() *schema.ToolInfo {
	params := make(map[string]*schema.ParameterInfo, len(s.Params))
	for name, p := range s.Params {
		params[name] = &schema.ParameterInfo{
			Type:     schema.DataType(p.Type),
			Desc:     p.Description,
			Required: p.Required,
		}
	}
	return &schema.ToolInfo{
		Name:        s.Name,
		Desc:        s.Description,
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}
}

type RecordKind string

const (
	RecordKindContact         RecordKind = "contact"
	RecordKindUnknownQuestion RecordKind = "unknown_question"
)

// Record is one fact captured by a recording tool.
type Record struct {
	ID        string     `json:"id"`
	Kind      RecordKind `json:"kind"`
	Name      string     `json:"name,omitempty"`
	Email     string     `json:"email,omitempty"`
	Notes     string     `json:"notes,omitempty"`
	Question  string     `json:"question,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
