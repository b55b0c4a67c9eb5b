package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/marketdesk/internal/client/migrations"
	"github.com/dmitrijs2005/marketdesk/internal/dbx"
)

// OpenSQLite opens (creating if needed) the session database at dsn and
// applies the embedded migrations.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations brings the schema up to date. It is safe to call repeatedly.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("migrate session db: %w", err)
	}
	return nil
}

// SQLiteKV keeps entries in the session_store table.
type SQLiteKV struct {
	db *sql.DB
	q  dbx.DBTX
}

func NewSQLiteKV(db *sql.DB) *SQLiteKV {
	return &SQLiteKV{db: db, q: db}
}

func (r *SQLiteKV) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.q.QueryRowContext(ctx, `SELECT value FROM session_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session_store[%s]: %w", key, err)
	}
	return value, nil
}

func (r *SQLiteKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO session_store (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session_store[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteKV) Delete(ctx context.Context, key string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM session_store WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete session_store[%s]: %w", key, err)
	}
	return nil
}

func (r *SQLiteKV) Clear(ctx context.Context) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM session_store`)
	if err != nil {
		return fmt.Errorf("failed to clear session_store: %w", err)
	}
	return nil
}

// DeleteMany removes keys in a single transaction.
func (r *SQLiteKV) DeleteMany(ctx context.Context, keys ...string) error {
	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		bound := &SQLiteKV{db: r.db, q: tx}
		for _, k := range keys {
			if err := bound.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}
