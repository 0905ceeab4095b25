package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	pushoverx "github.com/tanpawarit/persona-agent/pkg/pushover"
	qstashx "github.com/tanpawarit/persona-agent/pkg/qstash"
)

const (
	BackendPushover = "pushover"
	BackendQStash   = "qstash"
	BackendLog      = "log"
)

type Config struct {
	Backend string `envconfig:"BACKEND" default:"pushover"`
}

// New picks the delivery path for owner notifications.
func New(cfg Config, pushoverCfg pushoverx.Config, qstashCfg qstashx.Config) (contractx.Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendPushover:
		client, err := pushoverx.NewClient(pushoverCfg)
		if err != nil {
			return nil, fmt.Errorf("create pushover client: %w", err)
		}
		return client, nil
	case BackendQStash:
		client, err := qstashx.NewClient(qstashCfg)
		if err != nil {
			return nil, fmt.Errorf("create qstash client: %w", err)
		}
		return NewQStashRelay(client, pushoverCfg), nil
	case BackendLog:
		return LogNotifier{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown notify backend %q", contractx.ErrValidation, cfg.Backend)
	}
}

type publisher interface {
	Publish(ctx context.Context, destination, contentType string, body []byte) (*qstashx.PublishResult, error)
}

// QStashRelay queues the Pushover request on QStash instead of sending it
// inline.
type QStashRelay struct {
	publisher publisher
	pushover  pushoverx.Config
}

func NewQStashRelay(p publisher, pushoverCfg pushoverx.Config) *QStashRelay {
	return &QStashRelay{publisher: p, pushover: pushoverCfg}
}

func (r *QStashRelay) Notify(ctx context.Context, text string) error {
	body := r.pushover.Form(text).Encode()
	res, err := r.publisher.Publish(ctx, r.pushover.Endpoint(), "application/x-www-form-urlencoded", []byte(body))
	if err != nil {
		return err
	}
	log.Debug().Str("message_id", res.MessageID).Msg("notification queued")
	return nil
}

// LogNotifier only logs. Useful when running locally without credentials.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, text string) error {
	log.Info().Str("notification", text).Msg("push")
	return nil
}
