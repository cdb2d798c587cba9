package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDB keeps inserted rows by import id and answers the store's queries.
type fakeDB struct {
	rows map[string][]any
	sql  []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: make(map[string][]any)}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql = append(f.sql, sql)
	if !strings.HasPrefix(sql, "INSERT") {
		return pgconn.NewCommandTag("CREATE TABLE"), nil
	}

	id := args[0].(string)
	if _, ok := f.rows[id]; ok {
		return pgconn.CommandTag{}, &pgconn.PgError{Code: uniqueViolation, Message: "duplicate key value"}
	}
	f.rows[id] = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql = append(f.sql, sql)
	row, ok := f.rows[args[0].(string)]
	if !ok {
		return fakeRow{err: pgx.ErrNoRows}
	}
	return fakeRow{values: row}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case *[]byte:
			*p = r.values[i].([]byte)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newFakeDB()
	s := NewPostgresStore(db, "estimate_imports")
	rec := sampleRecord("p1")

	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Put(ctx, rec))

	got, err := s.Get(ctx, "p1")
	require.NoError(t, err)
	assertRoundTrip(t, rec, got)

	assert.Contains(t, db.sql[0], `CREATE TABLE IF NOT EXISTS "estimate_imports"`)
	assert.Contains(t, db.sql[1], `INSERT INTO "estimate_imports"`)
}

func TestPostgresStoreQuotesTableName(t *testing.T) {
	db := newFakeDB()
	s := NewPostgresStore(db, `imports"; DROP TABLE x; --`)

	require.NoError(t, s.EnsureSchema(context.Background()))
	assert.Contains(t, db.sql[0], `"imports""; DROP TABLE x; --"`)
}

func TestPostgresStoreDuplicate(t *testing.T) {
	ctx := context.Background()
	s := NewPostgresStore(newFakeDB(), "t")

	require.NoError(t, s.Put(ctx, sampleRecord("p1")))
	assert.ErrorIs(t, s.Put(ctx, sampleRecord("p1")), ErrAlreadyExists)
}

func TestPostgresStoreNotFound(t *testing.T) {
	_, err := NewPostgresStore(newFakeDB(), "t").Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPostgresStoreScanError(t *testing.T) {
	db := newFakeDB()
	db.rows["bad"] = []any{"bad", "", KindAnalytics, "f.xlsx", "", []byte(nil), []byte("{"), time.Now()}

	_, err := NewPostgresStore(db, "t").Get(context.Background(), "bad")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
