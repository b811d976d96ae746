package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres keeps the whole key space in a single kv table with jsonb
// values, so list and set updates stay single-statement atomic.
type Postgres struct {
	Pool *pgxpool.Pool
}

func NewPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Postgres{Pool: pool}, nil
}

func (p *Postgres) Close() {
	if p.Pool != nil {
		p.Pool.Close()
	}
}

func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Pool.Ping(ctx)
}

func (p *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS kv (
			k    TEXT PRIMARY KEY,
			kind TEXT NOT NULL,
			v    JSONB NOT NULL
		)`)
	return err
}

func (p *Postgres) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := p.Pool.QueryRow(ctx,
		`SELECT v #>> '{}' FROM kv WHERE k = $1 AND kind = 'scalar'`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO kv (k, kind, v) VALUES ($1, 'scalar', to_jsonb($2::text))
		ON CONFLICT (k) DO UPDATE SET kind = 'scalar', v = to_jsonb($2::text)`,
		key, value)
	return err
}

func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	var ok bool
	err := p.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM kv WHERE k = $1)`, key).Scan(&ok)
	return ok, err
}

func (p *Postgres) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := p.Pool.Exec(ctx, `DELETE FROM kv WHERE k = ANY($1)`, keys)
	return err
}

func (p *Postgres) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := p.Pool.Exec(ctx, `DELETE FROM kv WHERE k LIKE $1 || '%'`, prefix)
	return err
}

func (p *Postgres) RPush(ctx context.Context, key string, values ...string) error {
	if len(values) == 0 {
		return nil
	}
	blob, err := json.Marshal(values)
	if err != nil {
		return err
	}
	_, err = p.Pool.Exec(ctx, `
		INSERT INTO kv (k, kind, v) VALUES ($1, 'list', $2::jsonb)
		ON CONFLICT (k) DO UPDATE SET v = kv.v || EXCLUDED.v`,
		key, string(blob))
	return err
}

func (p *Postgres) LRange(ctx context.Context, key string) ([]string, error) {
	var blob []byte
	err := p.Pool.QueryRow(ctx,
		`SELECT v FROM kv WHERE k = $1 AND kind = 'list'`, key).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Postgres) LSet(ctx context.Context, key string, index int, value string) error {
	tag, err := p.Pool.Exec(ctx, `
		UPDATE kv SET v = jsonb_set(v, ARRAY[$2::text], to_jsonb($3::text))
		WHERE k = $1 AND kind = 'list' AND jsonb_array_length(v) > $2`,
		key, index, value)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (p *Postgres) LLen(ctx context.Context, key string) (int, error) {
	var n int
	err := p.Pool.QueryRow(ctx,
		`SELECT jsonb_array_length(v) FROM kv WHERE k = $1 AND kind = 'list'`, key).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (p *Postgres) SAdd(ctx context.Context, key, member string) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO kv (k, kind, v) VALUES ($1, 'set', jsonb_build_array($2::text))
		ON CONFLICT (k) DO UPDATE SET
			v = CASE WHEN kv.v ? $2 THEN kv.v ELSE kv.v || to_jsonb($2::text) END`,
		key, member)
	return err
}

func (p *Postgres) SCard(ctx context.Context, key string) (int, error) {
	var n int
	err := p.Pool.QueryRow(ctx,
		`SELECT jsonb_array_length(v) FROM kv WHERE k = $1 AND kind = 'set'`, key).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	return n, err
}
