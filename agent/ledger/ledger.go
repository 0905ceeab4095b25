package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/tanpawarit/persona-agent/agent/contract"
)

const (
	BackendNone     = "none"
	BackendPostgres = "postgres"
	BackendUpstash  = "upstash"
)

type Config struct {
	Backend string `envconfig:"BACKEND" default:"none"`
}

// Open builds the recorder named by cfg.Backend. The returned close func is
// never nil.
func Open(ctx context.Context, cfg Config, pgCfg PostgresConfig, upstashCfg UpstashConfig) (contractx.Recorder, func() error, error) {
	noClose := func() error { return nil }

	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendNone:
		return Discard{}, noClose, nil
	case BackendPostgres:
		store, err := NewPostgresLedger(ctx, pgCfg)
		if err != nil {
			return nil, noClose, err
		}
		return store, store.Close, nil
	case BackendUpstash:
		store, err := NewUpstashLedger(upstashCfg)
		if err != nil {
			return nil, noClose, err
		}
		return store, noClose, nil
	default:
		return nil, noClose, fmt.Errorf("%w: unknown ledger backend %q", contractx.ErrValidation, cfg.Backend)
	}
}

// Discard drops every record.
type Discard struct{}

func (Discard) Record(context.Context, contractx.Record) error {
	return nil
}

func normalize(rec contractx.Record) contractx.Record {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	} else {
		rec.CreatedAt = rec.CreatedAt.UTC()
	}
	return rec
}
