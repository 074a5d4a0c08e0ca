package sqlite

import (
	"context"
	"database/sql"
	stderrors "errors"

	"task-manager/internal/errors"
	"task-manager/internal/storage"
)

// HandleDatabaseError converts database errors to structured app errors
func HandleDatabaseError(operation, key string, err error) error {
	return errors.NewPersistenceError(operation, key, err)
}

// HandleNoRowsError maps sql.ErrNoRows to storage.ErrNotFound
func HandleNoRowsError(err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}
	return err
}

// ValidateRowsAffected checks that a write touched at least one row
func ValidateRowsAffected(result sql.Result, key string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", key, err)
	}
	if rows == 0 {
		return HandleDatabaseError("write", key, sql.ErrNoRows)
	}
	return nil
}

// ExecuteWithRowsAffected executes a statement and validates that rows were affected
func ExecuteWithRowsAffected(ctx context.Context, db *sql.DB, query string, key string, args ...interface{}) error {
	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return HandleDatabaseError("execute statement", key, err)
	}

	return ValidateRowsAffected(result, key)
}

// QuerySingle executes a query that returns a single row and scans it
func QuerySingle[T any](ctx context.Context, db *sql.DB, query string, scanFunc func(Scanner) (*T, error), key string) (*T, error) {
	row := db.QueryRowContext(ctx, query, key)
	result, err := scanFunc(row)
	if err != nil {
		if err := HandleNoRowsError(err); err == storage.ErrNotFound {
			return nil, err
		}
		return nil, HandleDatabaseError("scan entry", key, err)
	}
	return result, nil
}
