package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

const (
	defaultKeyPrefix     = "persona:records:"
	maxResponseSizeBytes = 2 << 20
)

type UpstashConfig struct {
	URL       string        `envconfig:"URL" split_words:"true"`
	Token     string        `envconfig:"TOKEN" split_words:"true"`
	KeyPrefix string        `split_words:"true" default:"persona:records:"`
	Timeout   time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"10s"`
}

type UpstashOption func(*UpstashLedger)

func WithHTTPClient(client *http.Client) UpstashOption {
	return func(s *UpstashLedger) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// UpstashLedger appends records to one Redis list per kind via the Upstash
// REST API.
type UpstashLedger struct {
	baseURL    string
	token      string
	keyPrefix  string
	httpClient *http.Client
}

type redisRESTResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstashLedger(cfg UpstashConfig, opts ...UpstashOption) (*UpstashLedger, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if baseURL == "" {
		return nil, errors.New("upstash redis url is required")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, fmt.Errorf("invalid redis rest url: %w", err)
	}

	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("upstash redis token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	prefix := strings.TrimSpace(cfg.KeyPrefix)
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	l := &UpstashLedger{
		baseURL:   baseURL,
		token:     token,
		keyPrefix: prefix,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l, nil
}

func (l *UpstashLedger) Record(ctx context.Context, rec contractx.Record) error {
	rec = normalize(rec)
	if strings.TrimSpace(string(rec.Kind)) == "" {
		return fmt.Errorf("%w: record kind is empty", contractx.ErrValidation)
	}

	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	_, err = l.exec(ctx, []any{"RPUSH", l.key(rec.Kind), string(payload)})
	return err
}

func (l *UpstashLedger) key(kind contractx.RecordKind) string {
	return l.keyPrefix + string(kind)
}

func (l *UpstashLedger) exec(ctx context.Context, command []any) (*redisRESTResponse, error) {
	body, err := json.Marshal(command)
	if err != nil {
		return nil, fmt.Errorf("marshal redis command: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build redis request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+l.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute redis request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("read redis response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("redis http status=%d body=%s", resp.StatusCode, string(raw))
	}

	var parsed redisRESTResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode redis response: %w", err)
	}
	if parsed.Error != "" {
		return nil, errors.New(parsed.Error)
	}
	return &parsed, nil
}
