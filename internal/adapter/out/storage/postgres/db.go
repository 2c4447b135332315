package postgres

import (
	"context"
	"errors"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var ErrBuildingQuery = errors.New("error building sql-query")

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// DB is the subset of *pgxpool.Pool the storages need.
//
//go:generate mockgen -source=db.go -destination=./mocks/db_mock.go -package=mocks
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// conn returns the transaction bound to ctx, or db itself outside a transaction.
func conn(ctx context.Context, getter *trmpgx.CtxGetter, db DB) DB {
	if tr, ok := db.(trmpgx.Tr); ok {
		return getter.DefaultTrOrDB(ctx, tr)
	}
	return db
}

func pgErrCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
