package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/iwvelando/finance-dashboard/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	createTableQuery = `
		CREATE TABLE IF NOT EXISTS financial_models (
			name       TEXT PRIMARY KEY,
			document   JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`

	loadQuery = `SELECT document FROM financial_models WHERE name = $1`

	saveQuery = `
		INSERT INTO financial_models (name, document, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET
			document = EXCLUDED.document,
			updated_at = NOW()`
)

// Querier is the subset of *pgxpool.Pool the store uses.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the document as JSONB in the financial_models table,
// one row per model name.
type PostgresStore struct {
	db     Querier
	name   string
	retry  RetryPolicy
	logger *zap.Logger
	pool   *pgxpool.Pool
}

// PostgresOptions configure Connect.
type PostgresOptions struct {
	URL         string
	FallbackURL string
	ModelName   string
	Retry       RetryPolicy
}

// NewPostgresStore wraps an existing connection.
func NewPostgresStore(logger *zap.Logger, db Querier, name string, retry RetryPolicy) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, name: name, retry: retry, logger: logger}
}

// Connect opens a pool on the primary URL, retrying transient failures, and
// then tries the fallback URL. The table is created if needed.
func Connect(ctx context.Context, logger *zap.Logger, opts PostgresOptions) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for _, url := range []string{opts.URL, opts.FallbackURL} {
		if url == "" {
			continue
		}
		pool, err := openPool(ctx, logger, url, opts.Retry)
		if err != nil {
			logger.Warn("could not connect to database",
				zap.String("op", "store.Connect"),
				zap.Error(err),
			)
			lastErr = err
			continue
		}

		s := NewPostgresStore(logger, pool, opts.ModelName, opts.Retry)
		s.pool = pool
		if err := s.EnsureSchema(ctx); err != nil {
			pool.Close()
			lastErr = err
			continue
		}
		return s, nil
	}
	if lastErr == nil {
		lastErr = errors.New("no database URL configured")
	}
	return nil, fmt.Errorf("failed to connect to database: %w", lastErr)
}

func openPool(ctx context.Context, logger *zap.Logger, url string, retry RetryPolicy) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	var pool *pgxpool.Pool
	err = retry.Do(ctx, logger, "store.Connect", func(ctx context.Context) error {
		p, err := pgxpool.NewWithConfig(ctx, config)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return err
		}
		pool = p
		return nil
	})
	return pool, err
}

// EnsureSchema creates the financial_models table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	err := s.retry.Do(ctx, s.logger, "store.PostgresStore.EnsureSchema", func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, createTableQuery)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to create financial_models table: %w", err)
	}
	return nil
}

// Load reads the named document. No row yields an empty document.
func (s *PostgresStore) Load(ctx context.Context) (*model.Document, error) {
	var data []byte
	err := s.retry.Do(ctx, s.logger, "store.PostgresStore.Load", func(ctx context.Context) error {
		return s.db.QueryRow(ctx, loadQuery, s.name).Scan(&data)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Info(fmt.Sprintf("no stored model named %s, starting empty", s.name),
			zap.String("op", "store.PostgresStore.Load"),
		)
		return model.Decode(nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", s.name, err)
	}
	return model.Decode(data)
}

// Save upserts the named document.
func (s *PostgresStore) Save(ctx context.Context, doc *model.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode model: %w", err)
	}
	err = s.retry.Do(ctx, s.logger, "store.PostgresStore.Save", func(ctx context.Context) error {
		_, err := s.db.Exec(ctx, saveQuery, s.name, data)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to save model %s: %w", s.name, err)
	}
	return nil
}

// Close releases the pool opened by Connect.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
