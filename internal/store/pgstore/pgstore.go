// Package pgstore is the document-database storage backend, one table per
// collection on PostgreSQL.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"mitmail/internal/config"
	"mitmail/internal/store"
	"mitmail/pkg/metrics"
)

type Store struct {
	pool     *pgxpool.Pool
	persons  *personStore
	users    *userStore
	messages *messageStore
}

// New connects to PostgreSQL and verifies the connection.
func New(ctx context.Context, cfg config.DBConfig, logger *zap.Logger) (*Store, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	logger.Info("Initializing PostgreSQL connection pool",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
	)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	// pool settings
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnIdleTime = time.Minute

	connCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 2*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully")

	return &Store{
		pool:     pool,
		persons:  &personStore{pool: pool},
		users:    &userStore{pool: pool},
		messages: &messageStore{pool: pool},
	}, nil
}

// Setup creates the collection tables when they do not exist yet.
func (s *Store) Setup(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS persons (
			mitid_username TEXT PRIMARY KEY,
			user_emails    TEXT[] NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			email          TEXT PRIMARY KEY,
			password_hash  TEXT NOT NULL,
			account_type   TEXT NOT NULL,
			email_purpose  TEXT NOT NULL,
			mitid_username TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id             TEXT PRIMARY KEY,
			sender_email   TEXT NOT NULL,
			receiver_email TEXT NOT NULL,
			email_tag      TEXT NOT NULL,
			mitid_username TEXT NOT NULL,
			body           TEXT NOT NULL,
			created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, q := range ddl {
		if _, err := s.pool.Exec(ctx, q); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Persons() store.PersonStore   { return s.persons }
func (s *Store) Users() store.UserStore       { return s.users }
func (s *Store) Messages() store.MessageStore { return s.messages }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() { s.pool.Close() }

// observe times one storage operation for the store_op metric.
func observe(operation, collection string) func() {
	start := time.Now()
	return func() {
		metrics.RecordStoreOpDuration(operation, collection, time.Since(start))
	}
}

// mapErr translates pgx errors into the store sentinels.
func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return store.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return store.ErrConflict
	}
	return err
}
