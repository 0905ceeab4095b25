package tool

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

type fakeNotifier struct {
	texts []string
	err   error
}

func (f *fakeNotifier) Notify(ctx context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

type fakeLedger struct {
	records []contractx.Record
	err     error
}

func (f *fakeLedger) Record(ctx context.Context, rec contractx.Record) error {
	f.records = append(f.records, rec)
	return f.err
}

func newTestRegistry(t *testing.T, n *fakeNotifier, l *fakeLedger) *Registry {
	t.Helper()

	var ledger contractx.Recorder
	if l != nil {
		ledger = l
	}
	r, err := NewRegistry(NewRecordUserDetails(n, ledger), NewRecordUnknownQuestion(n, ledger))
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	return r
}

func TestRegistrySpecsOrder(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, &fakeNotifier{}, &fakeLedger{})
	specs := r.Specs()
	if len(specs) != 2 {
		t.Fatalf("expected 2 specs, got %d", len(specs))
	}
	if specs[0].Name != ToolRecordUserDetails {
		t.Fatalf("unexpected first tool: %s", specs[0].Name)
	}
	if specs[1].Name != ToolRecordUnknownQuestion {
		t.Fatalf("unexpected second tool: %s", specs[1].Name)
	}

	s := specs[0].JSONSchema()
	if s["additionalProperties"] != false {
		t.Fatalf("expected closed schema, got %#v", s["additionalProperties"])
	}
	required, _ := s["required"].([]string)
	if len(required) != 1 || required[0] != "email" {
		t.Fatalf("unexpected required: %#v", s["required"])
	}
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	_, err := NewRegistry(NewRecordUnknownQuestion(n, nil), NewRecordUnknownQuestion(n, nil))
	if err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRecordUserDetailsDefaults(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	l := &fakeLedger{}
	out, err := NewRecordUserDetails(n, l).Invoke(context.Background(), map[string]any{
		"email": "a@b.com",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out["recorded"] != "ok" || len(out) != 1 {
		t.Fatalf("unexpected result: %#v", out)
	}
	if len(n.texts) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(n.texts))
	}
	want := "Recording Name not provided with email a@b.com and notes not provided"
	if n.texts[0] != want {
		t.Fatalf("notification = %q, want %q", n.texts[0], want)
	}
	if len(l.records) != 1 || l.records[0].Kind != contractx.RecordKindContact || l.records[0].ID == "" {
		t.Fatalf("unexpected ledger records: %#v", l.records)
	}
}

func TestRecordUserDetailsNullOptionalTakesDefault(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	_, err := NewRecordUserDetails(n, nil).Invoke(context.Background(), map[string]any{
		"email": "a@b.com",
		"name":  "Ada",
		"notes": nil,
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if n.texts[0] != "Recording Ada with email a@b.com and notes not provided" {
		t.Fatalf("unexpected notification: %q", n.texts[0])
	}
}

func TestRecordUserDetailsMissingEmail(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	if _, err := NewRecordUserDetails(n, nil).Invoke(context.Background(), map[string]any{"name": "Ada"}); err == nil {
		t.Fatal("expected error for missing email")
	}
	if len(n.texts) != 0 {
		t.Fatalf("expected no notification, got %v", n.texts)
	}
}

func TestRecordUnknownQuestionNotifiesOnce(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	out, err := NewRecordUnknownQuestion(n, nil).Invoke(context.Background(), map[string]any{
		"question": "What is your favorite color?",
	})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out["recorded"] != "ok" {
		t.Fatalf("unexpected result: %#v", out)
	}
	if len(n.texts) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(n.texts))
	}
	if !strings.Contains(n.texts[0], "What is your favorite color?") {
		t.Fatalf("notification missing question: %q", n.texts[0])
	}
}

func TestRecordingToolsIgnoreSideEffectFailures(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{err: errors.New("pushover down")}
	l := &fakeLedger{err: errors.New("db down")}
	out, err := NewRecordUnknownQuestion(n, l).Invoke(context.Background(), map[string]any{"question": "q"})
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if out["recorded"] != "ok" {
		t.Fatalf("unexpected result: %#v", out)
	}
}

func TestDispatchUnknownToolReturnsEmptyObject(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	r := newTestRegistry(t, n, nil)
	msgs, err := r.Dispatch(context.Background(), []schema.ToolCall{{
		ID:       "call_9",
		Function: schema.FunctionCall{Name: "launch_rocket", Arguments: `{"target":"moon"}`},
	}})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("expected 1 result, got %d", len(msgs))
	}
	if msgs[0].Content != "{}" || msgs[0].ToolCallID != "call_9" || msgs[0].Role != schema.Tool {
		t.Fatalf("unexpected result message: %#v", msgs[0])
	}
	if len(n.texts) != 0 {
		t.Fatalf("expected no notification, got %v", n.texts)
	}
}

func TestDispatchIsCaseSensitive(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	r := newTestRegistry(t, n, nil)
	msgs, err := r.Dispatch(context.Background(), []schema.ToolCall{{
		ID:       "call_1",
		Function: schema.FunctionCall{Name: "Record_Unknown_Question", Arguments: `{"question":"q"}`},
	}})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if msgs[0].Content != "{}" || len(n.texts) != 0 {
		t.Fatalf("expected no-op dispatch, got %q and %v", msgs[0].Content, n.texts)
	}
}

func TestRegistryLookup(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, &fakeNotifier{}, nil)

	tool, ok := r.Lookup(ToolRecordUnknownQuestion)
	if !ok || tool.Spec().Name != ToolRecordUnknownQuestion {
		t.Fatalf("Lookup(%q) = %v, %v", ToolRecordUnknownQuestion, tool, ok)
	}
	if _, ok := r.Lookup("RECORD_USER_DETAILS"); ok {
		t.Fatal("Lookup() matched a name with different case")
	}
	if _, ok := r.Lookup("send_sms"); ok {
		t.Fatal("Lookup() matched an unregistered name")
	}
}

func TestDispatchKeepsRequestOrder(t *testing.T) {
	t.Parallel()

	n := &fakeNotifier{}
	r := newTestRegistry(t, n, nil)
	msgs, err := r.Dispatch(context.Background(), []schema.ToolCall{
		{ID: "a", Function: schema.FunctionCall{Name: ToolRecordUnknownQuestion, Arguments: `{"question":"first"}`}},
		{ID: "b", Function: schema.FunctionCall{Name: ToolRecordUserDetails, Arguments: `{"email":"x@y.z"}`}},
	})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if len(msgs) != 2 || msgs[0].ToolCallID != "a" || msgs[1].ToolCallID != "b" {
		t.Fatalf("unexpected results: %#v", msgs)
	}
	if msgs[0].Content != `{"recorded":"ok"}` {
		t.Fatalf("unexpected content: %s", msgs[0].Content)
	}
	if len(n.texts) != 2 || n.texts[0] != "Recording first" {
		t.Fatalf("unexpected notifications: %v", n.texts)
	}
}

func TestDispatchMalformedArguments(t *testing.T) {
	t.Parallel()

	r := newTestRegistry(t, &fakeNotifier{}, nil)
	_, err := r.Dispatch(context.Background(), []schema.ToolCall{{
		ID:       "call_1",
		Function: schema.FunctionCall{Name: ToolRecordUnknownQuestion, Arguments: `{"question":`},
	}})
	if !errors.Is(err, contractx.ErrToolInvocation) {
		t.Fatalf("expected ErrToolInvocation, got %v", err)
	}
	if contractx.KindOf(err) != contractx.KindToolInvocationFailure {
		t.Fatalf("unexpected kind: %v", contractx.KindOf(err))
	}
}
