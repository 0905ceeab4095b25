package notify

import (
	"context"
	"errors"
	"net/url"
	"testing"

	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	pushoverx "github.com/tanpawarit/persona-agent/pkg/pushover"
	qstashx "github.com/tanpawarit/persona-agent/pkg/qstash"
)

type publishCall struct {
	destination string
	contentType string
	body        string
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(ctx context.Context, destination, contentType string, body []byte) (*qstashx.PublishResult, error) {
	f.calls = append(f.calls, publishCall{destination: destination, contentType: contentType, body: string(body)})
	if f.err != nil {
		return nil, f.err
	}
	return &qstashx.PublishResult{MessageID: "msg_1"}, nil
}

func TestQStashRelayPublishesPushoverForm(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	relay := NewQStashRelay(pub, pushoverx.Config{Token: "tok", User: "usr"})

	if err := relay.Notify(context.Background(), "Recording a question"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 publish, got %d", len(pub.calls))
	}
	call := pub.calls[0]
	if call.destination != pushoverx.DefaultURL {
		t.Fatalf("unexpected destination: %s", call.destination)
	}
	form, err := url.ParseQuery(call.body)
	if err != nil {
		t.Fatalf("parse body: %v", err)
	}
	if form.Get("message") != "Recording a question" || form.Get("token") != "tok" || form.Get("user") != "usr" {
		t.Fatalf("unexpected form: %#v", form)
	}
}

func TestQStashRelayPropagatesError(t *testing.T) {
	t.Parallel()

	relay := NewQStashRelay(&fakePublisher{err: errors.New("down")}, pushoverx.Config{})
	if err := relay.Notify(context.Background(), "x"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	t.Parallel()

	n, err := New(Config{Backend: "log"}, pushoverx.Config{}, qstashx.Config{})
	if err != nil {
		t.Fatalf("New(log) error = %v", err)
	}
	if _, ok := n.(LogNotifier); !ok {
		t.Fatalf("expected LogNotifier, got %T", n)
	}

	n, err = New(Config{}, pushoverx.Config{}, qstashx.Config{})
	if err != nil {
		t.Fatalf("New(default) error = %v", err)
	}
	if _, ok := n.(*pushoverx.Client); !ok {
		t.Fatalf("expected pushover client, got %T", n)
	}

	n, err = New(Config{Backend: "qstash"}, pushoverx.Config{}, qstashx.Config{URL: "https://qstash.example.com"})
	if err != nil {
		t.Fatalf("New(qstash) error = %v", err)
	}
	if _, ok := n.(*QStashRelay); !ok {
		t.Fatalf("expected QStashRelay, got %T", n)
	}

	if _, err := New(Config{Backend: "smoke-signal"}, pushoverx.Config{}, qstashx.Config{}); !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
