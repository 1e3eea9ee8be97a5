package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Row is one result row keyed by column name.
type Row map[string]any

// Executor runs parameterized statements against the store.
type Executor interface {
	// Query runs a statement and returns every row it produced, in order.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	// Exec runs a statement that returns no rows and commits it.
	Exec(ctx context.Context, query string, args ...any) error
}

// SQLExecutor acquires a dedicated connection for every call and releases it
// before returning, on success and on error alike.
type SQLExecutor struct {
	db      *sql.DB
	timeout time.Duration
}

func NewSQLExecutor(db *sql.DB, timeout time.Duration) *SQLExecutor {
	return &SQLExecutor{db: db, timeout: timeout}
}

func (e *SQLExecutor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *SQLExecutor) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("db: acquire connection: %w", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db: query: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

func (e *SQLExecutor) Exec(ctx context.Context, query string, args ...any) error {
	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	conn, err := e.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("db: acquire connection: %w", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db: begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("db: exec: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("db: commit tx: %w", err)
	}
	return nil
}

// rowScanner is the subset of *sql.Rows used by scanRows.
type rowScanner interface {
	Columns() ([]string, error)
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRows(rows rowScanner) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("db: read columns: %w", err)
	}

	result := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		dest := make([]any, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("db: scan row: %w", err)
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db: iterate rows: %w", err)
	}
	return result, nil
}
