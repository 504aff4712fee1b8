package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"depot/internal/domain"
	"depot/internal/models"
)

// PostgresStore keeps the snapshot as one JSONB value under a well-known key
// in a key/value table. It is the remote variant of the snapshot store: the
// substrate offers plain get/set, and the revision column carries the
// conditional-save semantics across processes.
type PostgresStore struct {
	pool   *pgxpool.Pool
	table  string
	key    string
	logger *slog.Logger
}

// NewPostgresStore creates a Postgres-backed snapshot store. The table name
// is already environment-prefixed by the caller (see config.TablePrefix).
func NewPostgresStore(pool *pgxpool.Pool, table, key string, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{pool: pool, table: table, key: key, logger: logger}
}

// CreateConnectionPool creates a pgx connection pool and verifies the
// connection. Pool sizing is modest; the store issues one query per
// load/save and has no long-lived statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// EnsureSchema creates the key/value table if it does not exist.
//
// The table name is interpolated, not parameterized; it comes from
// configuration, never from callers.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key      TEXT PRIMARY KEY,
			revision BIGINT NOT NULL,
			data     JSONB NOT NULL
		)
	`, s.table)

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return &domain.UnavailableError{Op: "ensure schema", Err: err}
	}
	return nil
}

// Load fetches the snapshot under the store key. A missing row yields an
// empty snapshot at revision 0.
func (s *PostgresStore) Load(ctx context.Context) (*models.Snapshot, Revision, error) {
	query := fmt.Sprintf(`
		SELECT revision, data
		FROM %s
		WHERE key = $1
	`, s.table)

	var rev Revision
	var data []byte
	err := s.pool.QueryRow(ctx, query, s.key).Scan(&rev, &data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.NewSnapshot(), 0, nil
		}
		return nil, 0, &domain.UnavailableError{Op: "load", Err: err}
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, 0, &domain.UnavailableError{Op: "load", Err: fmt.Errorf("decode snapshot: %w", err)}
	}
	if snap.Folders == nil {
		snap.Folders = []models.Folder{}
	}
	if snap.Files == nil {
		snap.Files = []models.File{}
	}
	return &snap, rev, nil
}

// Save writes the snapshot conditionally on the stored revision. Revision 0
// inserts the row; anything else is a compare-and-set update.
func (s *PostgresStore) Save(ctx context.Context, snap *models.Snapshot, rev Revision) (Revision, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0, &domain.UnavailableError{Op: "save", Err: fmt.Errorf("encode snapshot: %w", err)}
	}

	next := rev + 1

	if rev == 0 {
		query := fmt.Sprintf(`
			INSERT INTO %s (key, revision, data)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO NOTHING
		`, s.table)

		tag, err := s.pool.Exec(ctx, query, s.key, next, data)
		if err != nil {
			return 0, &domain.UnavailableError{Op: "save", Err: err}
		}
		if tag.RowsAffected() == 0 {
			return 0, fmt.Errorf("snapshot key %q already initialized: %w", s.key, domain.ErrConflict)
		}
		return next, nil
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET revision = $1, data = $2
		WHERE key = $3 AND revision = $4
	`, s.table)

	tag, err := s.pool.Exec(ctx, query, next, data, s.key, rev)
	if err != nil {
		return 0, &domain.UnavailableError{Op: "save", Err: err}
	}
	if tag.RowsAffected() == 0 {
		return 0, fmt.Errorf("snapshot moved past revision %d: %w", rev, domain.ErrConflict)
	}
	return next, nil
}

var _ SnapshotStore = (*PostgresStore)(nil)
