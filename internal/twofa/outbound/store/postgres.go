package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shandysiswandi/seedotp/internal/pkg/goerror"
	"github.com/shandysiswandi/seedotp/internal/pkg/instrument"
	"github.com/shandysiswandi/seedotp/internal/twofa/entity"
)

const (
	queryCreateSeedTable = `CREATE TABLE IF NOT EXISTS twofa_seed (
	id         SMALLINT PRIMARY KEY CHECK (id = 1),
	hex_seed   TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

	queryUpsertSeed = `INSERT INTO twofa_seed (id, hex_seed, updated_at)
VALUES (1, $1, now())
ON CONFLICT (id) DO UPDATE SET hex_seed = EXCLUDED.hex_seed, updated_at = EXCLUDED.updated_at`

	querySelectSeed = `SELECT hex_seed FROM twofa_seed WHERE id = 1`

	querySeedExists = `SELECT EXISTS (SELECT 1 FROM twofa_seed WHERE id = 1)`
)

// PgxConn is the subset of *pgxpool.Pool used by Postgres.
type PgxConn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres keeps the seed in a single-row table.
type Postgres struct {
	conn PgxConn
	ins  instrument.Instrumentation
}

func NewPostgres(conn PgxConn, ins instrument.Instrumentation) *Postgres {
	return &Postgres{conn: conn, ins: ins}
}

// Migrate creates the seed table when it is missing.
func (p *Postgres) Migrate(ctx context.Context) (err error) {
	ctx, span := startSpan(ctx, p.ins, "Postgres.Migrate")
	defer func() { endSpan(span, err) }()

	_, err = p.conn.Exec(ctx, queryCreateSeedTable)
	return err
}

func (p *Postgres) Write(ctx context.Context, seed entity.HexSeed) (err error) {
	ctx, span := startSpan(ctx, p.ins, "Postgres.Write")
	defer func() { endSpan(span, err) }()

	_, err = p.conn.Exec(ctx, queryUpsertSeed, string(seed))
	return err
}

func (p *Postgres) Read(ctx context.Context) (_ entity.HexSeed, err error) {
	ctx, span := startSpan(ctx, p.ins, "Postgres.Read")
	defer func() { endSpan(span, err) }()

	var raw string
	if err = p.conn.QueryRow(ctx, querySelectSeed).Scan(&raw); err != nil {
		err = mapPgError(err)
		return "", err
	}

	return parseStored(raw)
}

func (p *Postgres) Exists(ctx context.Context) (_ bool, err error) {
	ctx, span := startSpan(ctx, p.ins, "Postgres.Exists")
	defer func() { endSpan(span, err) }()

	var ok bool
	if err = p.conn.QueryRow(ctx, querySeedExists).Scan(&ok); err != nil {
		return false, err
	}

	return ok, nil
}

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return goerror.ErrNotFound
	}
	return err
}
