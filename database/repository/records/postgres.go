package recordsRepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createRecordsTable = `
CREATE TABLE IF NOT EXISTS agendapro_records (
	name       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type postgresBackend struct {
	pool *pgxpool.Pool
}

// NewPostgresStore returns a RecordStore keeping each collection as a jsonb row.
// The table is created when missing.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (RecordStore, error) {
	if _, err := pool.Exec(ctx, createRecordsTable); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &blobStore{backend: &postgresBackend{pool: pool}}, nil
}

func (p *postgresBackend) get(ctx context.Context, collection string) ([]byte, bool, error) {
	var raw []byte
	err := p.pool.QueryRow(ctx,
		`SELECT data FROM agendapro_records WHERE name = $1`, collection,
	).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (p *postgresBackend) put(ctx context.Context, collection string, data []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO agendapro_records (name, data, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		collection, string(data))
	return err
}

func (p *postgresBackend) ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *postgresBackend) close(context.Context) error {
	p.pool.Close()
	return nil
}
