package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Store-level errors. Handlers translate these to HTTP status codes;
// anything else is treated as a backend failure.
var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateName     = errors.New("category name already exists")
	ErrDuplicateMediaRef = errors.New("media reference already exists")
	ErrNothingToUpdate   = errors.New("nothing to update")
)

// PostgreSQL error codes
const (
	uniqueViolationCode = "23505"
	fkViolationCode     = "23503"
)

// Querier is the subset of pgxpool.Pool shared with pgx.Tx, so a repository
// can run either directly against the pool or inside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

func isFKViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == fkViolationCode
}
