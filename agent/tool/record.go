package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

const (
	ToolRecordUserDetails     = "record_user_details"
	ToolRecordUnknownQuestion = "record_unknown_question"

	defaultName  = "Name not provided"
	defaultNotes = "not provided"
)

func recordedOK() map[string]any {
	return map[string]any{"recorded": "ok"}
}

type recorder struct {
	notifier contractx.Notifier
	ledger   contractx.Recorder
	now      func() time.Time
}

// emit sends exactly one notification and stores rec. Neither outcome
// changes the tool result.
func (r recorder) emit(ctx context.Context, text string, rec contractx.Record) {
	if r.notifier != nil {
		if err := r.notifier.Notify(ctx, text); err != nil {
			log.Warn().Err(err).Str("kind", string(rec.Kind)).Msg("notification dropped")
		}
	}
	if r.ledger != nil {
		rec.ID = uuid.NewString()
		rec.CreatedAt = r.now().UTC()
		if err := r.ledger.Record(ctx, rec); err != nil {
			log.Warn().Err(err).Str("kind", string(rec.Kind)).Msg("ledger write failed")
		}
	}
}

type RecordUserDetails struct {
	recorder
}

func NewRecordUserDetails(notifier contractx.Notifier, ledger contractx.Recorder) *RecordUserDetails {
	return &RecordUserDetails{recorder{notifier: notifier, ledger: ledger, now: time.Now}}
}

func (t *RecordUserDetails) Spec() contractx.ToolSpec {
	return contractx.ToolSpec{
		Name:        ToolRecordUserDetails,
		Description: "Use this tool to record that a user is interested in being in touch and provided an email address",
		Params: map[string]contractx.ParamSpec{
			"email": {Type: "string", Description: "The email address of this user", Required: true},
			"name":  {Type: "string", Description: "The user's name, if they provided it"},
			"notes": {Type: "string", Description: "Any additional information about the conversation that's worth recording to give context"},
		},
	}
}

func (t *RecordUserDetails) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	email, err := requiredString(args, "email")
	if err != nil {
		return nil, err
	}
	name := optionalString(args, "name", defaultName)
	notes := optionalString(args, "notes", defaultNotes)

	t.emit(ctx,
		fmt.Sprintf("Recording %s with email %s and notes %s", name, email, notes),
		contractx.Record{Kind: contractx.RecordKindContact, Name: name, Email: email, Notes: notes},
	)
	return recordedOK(), nil
}

type RecordUnknownQuestion struct {
	recorder
}

func NewRecordUnknownQuestion(notifier contractx.Notifier, ledger contractx.Recorder) *RecordUnknownQuestion {
	return &RecordUnknownQuestion{recorder{notifier: notifier, ledger: ledger, now: time.Now}}
}

func (t *RecordUnknownQuestion) Spec() contractx.ToolSpec {
	return contractx.ToolSpec{
		Name:        ToolRecordUnknownQuestion,
		Description: "Always use this tool to record any question that couldn't be answered as you didn't know the answer",
		Params: map[string]contractx.ParamSpec{
			"question": {Type: "string", Description: "The question that couldn't be answered", Required: true},
		},
	}
}

func (t *RecordUnknownQuestion) Invoke(ctx context.Context, args map[string]any) (map[string]any, error) {
	question, err := requiredString(args, "question")
	if err != nil {
		return nil, err
	}

	t.emit(ctx,
		fmt.Sprintf("Recording %s", question),
		contractx.Record{Kind: contractx.RecordKindUnknownQuestion, Question: question},
	)
	return recordedOK(), nil
}

// Defaults apply when a key is absent or null; anything else is formatted
// as-is.
func optionalString(args map[string]any, key, def string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	return fmt.Sprint(v), nil
}
