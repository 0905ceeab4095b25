package qstash

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPublishForwardsBody(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth, gotType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		raw, _ := io.ReadAll(r.Body)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		gotBody = string(raw)
		fmt.Fprint(w, `{"messageId":"msg_1"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewClient(Config{URL: server.URL, Token: "tok"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	res, err := client.Publish(context.Background(), "https://api.pushover.net/1/messages.json", "application/x-www-form-urlencoded", []byte("message=hi"))
	if err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if res.MessageID != "msg_1" {
		t.Fatalf("MessageID = %q, want msg_1", res.MessageID)
	}
	if gotPath != "/v2/publish/https://api.pushover.net/1/messages.json" {
		t.Fatalf("unexpected path: %s", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("unexpected auth: %s", gotAuth)
	}
	if gotType != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type: %s", gotType)
	}
	if gotBody != "message=hi" {
		t.Fatalf("unexpected body: %s", gotBody)
	}
}

func TestPublishRejectsBadDestination(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{URL: "https://qstash.example.com", Token: "tok"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := client.Publish(context.Background(), "not a url", "", nil); err == nil {
		t.Fatal("expected error for invalid destination")
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{URL: "  "}); err == nil {
		t.Fatal("expected error for empty url")
	}
}
