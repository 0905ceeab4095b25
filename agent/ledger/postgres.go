package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	contractx "github.com/tanpawarit/persona-agent/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type PostgresConfig struct {
	DSN     string        `envconfig:"DSN"`
	Timeout time.Duration `split_words:"true" default:"5s"`
}

type recordRow struct {
	bun.BaseModel `bun:"table:persona_records,alias:pr"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	Kind      string    `bun:"kind,notnull"`
	Name      string    `bun:"name"`
	Email     string    `bun:"email"`
	Notes     string    `bun:"notes"`
	Question  string    `bun:"question"`
	CreatedAt time.Time `bun:"created_at,notnull"`
}

func toRow(rec contractx.Record) (*recordRow, error) {
	id := uuid.New()
	if rec.ID != "" {
		parsed, err := uuid.Parse(rec.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid record id: %w", err)
		}
		id = parsed
	}
	return &recordRow{
		ID:        id,
		Kind:      string(rec.Kind),
		Name:      rec.Name,
		Email:     rec.Email,
		Notes:     rec.Notes,
		Question:  rec.Question,
		CreatedAt: rec.CreatedAt,
	}, nil
}

// PostgresLedger appends records to the persona_records table.
type PostgresLedger struct {
	db      *bun.DB
	timeout time.Duration
}

func newBunDB(dsn string) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return bun.NewDB(sqldb, pgdialect.New())
}

func NewPostgresLedger(ctx context.Context, cfg PostgresConfig) (*PostgresLedger, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}

	l := &PostgresLedger{db: newBunDB(dsn), timeout: cfg.Timeout}
	if err := l.migrate(ctx); err != nil {
		l.db.Close()
		return nil, err
	}
	return l, nil
}

func (l *PostgresLedger) migrate(ctx context.Context) error {
	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	if _, err := l.db.NewCreateTable().
		Model((*recordRow)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create persona_records: %w", err)
	}
	return nil
}

func (l *PostgresLedger) Record(ctx context.Context, rec contractx.Record) error {
	row, err := toRow(normalize(rec))
	if err != nil {
		return err
	}

	ctx, cancel := l.withTimeout(ctx)
	defer cancel()

	if _, err := l.insertQuery(row).Exec(ctx); err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (l *PostgresLedger) insertQuery(row *recordRow) *bun.InsertQuery {
	return l.db.NewInsert().Model(row)
}

func (l *PostgresLedger) Close() error {
	return l.db.Close()
}

func (l *PostgresLedger) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}
