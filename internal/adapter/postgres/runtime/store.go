// Package runtime implements the shared key-value runtime storage
// backed by PostgreSQL. Named tables (reference data, records, sync
// digests) are stored as JSONB values keyed by table name.
package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Known storage keys. Requesting any other key is a programming error
// in the caller, not a data condition, and panics.
const (
	KeyUsers             = "users"
	KeyCompanies         = "companies"
	KeyReleases          = "releases"
	KeyRecords           = "records"
	KeyDefaultDataDigest = "default_data_digest"
)

var knownKeys = map[string]bool{
	KeyUsers:             true,
	KeyCompanies:         true,
	KeyReleases:          true,
	KeyRecords:           true,
	KeyDefaultDataDigest: true,
}

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Store provides runtime key-value persistence backed by PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a new runtime store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GetByKey reads the value stored under key and JSON-decodes it into
// dest. An absent key leaves dest untouched and returns nil: an empty
// table is a valid state, not an error.
func (s *Store) GetByKey(ctx context.Context, key string, dest any) error {
	mustKnownKey(key)

	query, args, err := builder.
		Select("value").
		From("runtime_storage").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("runtime.GetByKey %s: build query: %w", key, err)
	}

	var raw []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("runtime.GetByKey %s: %w", key, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("runtime.GetByKey %s: decode value: %w", key, err)
	}
	return nil
}

// SetByKey JSON-encodes value and upserts it under key.
func (s *Store) SetByKey(ctx context.Context, key string, value any) error {
	mustKnownKey(key)

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("runtime.SetByKey %s: encode value: %w", key, err)
	}

	query, args, err := builder.
		Insert("runtime_storage").
		Columns("key", "value", "updated_at").
		Values(key, raw, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return fmt.Errorf("runtime.SetByKey %s: build query: %w", key, err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("runtime.SetByKey %s: %w", key, err)
	}
	return nil
}

func mustKnownKey(key string) {
	if !knownKeys[key] {
		panic(fmt.Sprintf("runtime: unknown storage key %q", key))
	}
}
