package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the Postgres SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

// DBTX is the part of a pgx connection the store uses. Satisfied by
// *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// NewPostgresPool connects a pgx pool and checks it with a ping.
func NewPostgresPool(ctx context.Context, url string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// PostgresStore persists records in a Postgres table, with the estimate
// tree and parse stats as jsonb.
type PostgresStore struct {
	db    DBTX
	table string
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a store on the given table.
func NewPostgresStore(db DBTX, table string) *PostgresStore {
	return &PostgresStore{db: db, table: pgx.Identifier{table}.Sanitize()}
}

// EnsureSchema creates the table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS `+s.table+` (
	import_id  text PRIMARY KEY,
	tenant_id  text NOT NULL DEFAULT '',
	kind       text NOT NULL,
	file_name  text NOT NULL,
	sheet_name text NOT NULL DEFAULT '',
	estimate   jsonb,
	stats      jsonb NOT NULL,
	created_at timestamptz NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// Put inserts rec.
func (s *PostgresStore) Put(ctx context.Context, rec *Record) error {
	est, err := encodeEstimate(rec.Estimate)
	if err != nil {
		return err
	}
	stats, err := json.Marshal(rec.Stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO `+s.table+` (import_id, tenant_id, kind, file_name, sheet_name, estimate, stats, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ImportID, rec.TenantID, rec.Kind, rec.FileName, rec.SheetName, est, stats, rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrAlreadyExists
		}
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

// Get reads the record with the given id.
func (s *PostgresStore) Get(ctx context.Context, importID string) (*Record, error) {
	rec := &Record{}
	var est, stats []byte

	err := s.db.QueryRow(ctx,
		`SELECT import_id, tenant_id, kind, file_name, sheet_name, estimate, stats, created_at
FROM `+s.table+` WHERE import_id = $1`,
		importID,
	).Scan(&rec.ImportID, &rec.TenantID, &rec.Kind, &rec.FileName, &rec.SheetName, &est, &stats, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record: %w", err)
	}

	if rec.Estimate, err = decodeEstimate(est); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(stats, &rec.Stats); err != nil {
		return nil, fmt.Errorf("decode stats: %w", err)
	}
	return rec, nil
}
