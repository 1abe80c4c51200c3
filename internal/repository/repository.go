// Package repository handles all interactions with the database.
//
// Queries are built with squirrel and executed through sqlx on top of the
// pgx pool, so rows scan straight into model structs. Every method takes
// the request context; connections go back to the pool when the call
// returns.
//
// Lookups that find nothing return an error wrapping sql.ErrNoRows and a
// "table:<name>" marker, which sqlerr.HandleError turns into a 404.
package repository

import (
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// notFound tags sql.ErrNoRows with the table it came from.
func notFound(op, table string) error {
	return errors.Wrapf(sql.ErrNoRows, "%s table:%s", op, table)
}

// wrapNoRows keeps the table marker on "no rows" errors and adds a stack
// to everything else.
func wrapNoRows(err error, op, table string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(err, "%s table:%s", op, table)
	}
	return errors.Wrap(err, op)
}

func expectAffected(res sql.Result, op, table string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, op)
	}
	if n == 0 {
		return notFound(op, table)
	}
	return nil
}

// page applies offset/limit; a zero limit means no limit.
func page(b squirrel.SelectBuilder, skip, limit int) squirrel.SelectBuilder {
	if skip > 0 {
		b = b.Offset(uint64(skip))
	}
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	return b
}
