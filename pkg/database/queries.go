package database

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/accented-ai/genquery2/internal/util"
)

type QueryHelper struct {
	pool *Pool
}

func NewQueryHelper(pool *Pool) *QueryHelper {
	return &QueryHelper{pool: pool}
}

func (qh *QueryHelper) FetchAll(
	ctx context.Context,
	query string,
	scanFunc func(pgx.Rows) error,
	args ...any,
) error {
	rows, err := qh.pool.QueryRetrying(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := scanFunc(rows); err != nil {
			return util.WrapError("scan row", err)
		}
	}

	if err := rows.Err(); err != nil {
		return util.WrapError("iterate rows", err)
	}

	return nil
}
