package cmd

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	enginex "github.com/tanpawarit/persona-agent/agent/engine"
	ledgerx "github.com/tanpawarit/persona-agent/agent/ledger"
	llmx "github.com/tanpawarit/persona-agent/agent/llm"
	notifyx "github.com/tanpawarit/persona-agent/agent/notify"
	personax "github.com/tanpawarit/persona-agent/agent/persona"
	toolx "github.com/tanpawarit/persona-agent/agent/tool"
	configx "github.com/tanpawarit/persona-agent/pkg/config"
	pushoverx "github.com/tanpawarit/persona-agent/pkg/pushover"
	qstashx "github.com/tanpawarit/persona-agent/pkg/qstash"
)

type app struct {
	engine *enginex.Engine
	close  func() error
}

func loadConfig[T any](prefix string) (*T, error) {
	conf, err := configx.New[T](prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: config %s: %v", contractx.ErrStartup, prefix, err)
	}
	return conf, nil
}

func loadPersona() (contractx.Persona, error) {
	cfg, err := loadConfig[personax.Config]("PERSONA")
	if err != nil {
		return contractx.Persona{}, err
	}
	return personax.Load(*cfg)
}

// bootstrap builds the engine and everything behind it. Every failure here
// is a startup failure.
func bootstrap(ctx context.Context) (*app, error) {
	persona, err := loadPersona()
	if err != nil {
		return nil, err
	}

	notifyCfg, err := loadConfig[notifyx.Config]("NOTIFY")
	if err != nil {
		return nil, err
	}
	pushoverCfg, err := loadConfig[pushoverx.Config]("PUSHOVER")
	if err != nil {
		return nil, err
	}
	qstashCfg, err := loadConfig[qstashx.Config]("QSTASH")
	if err != nil {
		return nil, err
	}
	notifier, err := notifyx.New(*notifyCfg, *pushoverCfg, *qstashCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrStartup, err)
	}

	ledgerCfg, err := loadConfig[ledgerx.Config]("LEDGER")
	if err != nil {
		return nil, err
	}
	pgCfg, err := loadConfig[ledgerx.PostgresConfig]("LEDGER_POSTGRES")
	if err != nil {
		return nil, err
	}
	upstashCfg, err := loadConfig[ledgerx.UpstashConfig]("LEDGER_UPSTASH")
	if err != nil {
		return nil, err
	}
	recorder, closeLedger, err := ledgerx.Open(ctx, *ledgerCfg, *pgCfg, *upstashCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: ledger: %v", contractx.ErrStartup, err)
	}

	registry, err := toolx.NewRegistry(
		toolx.NewRecordUserDetails(notifier, recorder),
		toolx.NewRecordUnknownQuestion(notifier, recorder),
	)
	if err != nil {
		closeLedger()
		return nil, fmt.Errorf("%w: tools: %v", contractx.ErrStartup, err)
	}

	llmCfg, err := loadConfig[llmx.Config]("LLM")
	if err != nil {
		closeLedger()
		return nil, err
	}
	completer, err := llmx.New(ctx, *llmCfg)
	if err != nil {
		closeLedger()
		return nil, fmt.Errorf("%w: llm: %v", contractx.ErrStartup, err)
	}

	engineCfg, err := loadConfig[enginex.Config]("ENGINE")
	if err != nil {
		closeLedger()
		return nil, err
	}
	engine, err := enginex.New(completer, registry, persona, *engineCfg)
	if err != nil {
		closeLedger()
		return nil, fmt.Errorf("%w: engine: %v", contractx.ErrStartup, err)
	}

	log.Info().
		Str("persona", persona.Name).
		Str("llm_backend", llmCfg.Backend).
		Str("model", llmCfg.Model).
		Str("notify_backend", notifyCfg.Backend).
		Str("ledger_backend", ledgerCfg.Backend).
		Msg("engine ready")

	return &app{engine: engine, close: closeLedger}, nil
}
