package pushover

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultURL           = "https://api.pushover.net/1/messages.json"
	maxResponseSizeBytes = 64 << 10
)

// Token and User are not checked here; a bad pair fails the first send.
type Config struct {
	URL     string        `split_words:"true" default:"https://api.pushover.net/1/messages.json"`
	Token   string        `split_words:"true"`
	User    string        `split_words:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

// Form returns the message body Pushover expects.
func (c Config) Form(message string) url.Values {
	return url.Values{
		"token":   {strings.TrimSpace(c.Token)},
		"user":    {strings.TrimSpace(c.User)},
		"message": {message},
	}
}

func (c Config) Endpoint() string {
	if u := strings.TrimSpace(c.URL); u != "" {
		return u
	}
	return DefaultURL
}

type Client struct {
	cfg        Config
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if _, err := url.ParseRequestURI(cfg.Endpoint()); err != nil {
		return nil, fmt.Errorf("invalid pushover url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// Notify posts one message. No retry.
func (c *Client) Notify(ctx context.Context, text string) error {
	if c == nil {
		return errors.New("nil pushover client")
	}

	body := c.cfg.Form(text).Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint(), strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("build pushover request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute pushover request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return fmt.Errorf("read pushover response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("pushover http status=%d body=%s", resp.StatusCode, string(raw))
	}
	return nil
}
