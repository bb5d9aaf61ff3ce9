// Package sql provides database-backed sources for lazy pipelines using
// database/sql. Queries are executed lazily on the first pull, so a row
// source can sit at the head of a pipeline that is never consumed without
// touching the database.
package sql

import (
	"context"
	"database/sql"

	"github.com/lguimbarda/min-data/data/core"
)

// Scanner is a function that scans the current row into a value.
type Scanner[T any] func(*sql.Rows) (T, error)

// Query creates an iterator over the rows of a query. The scanner function
// is called once per pull to convert the current row to the output type.
// The query executes on the first pull; rows are closed on exhaustion or
// failure.
func Query[T any](db *sql.DB, query string, scanner Scanner[T], args ...any) core.Iterator[T] {
	return core.Serialize[T](&rowsIterator[T]{
		db:      db,
		query:   query,
		scanner: scanner,
		args:    args,
	})
}

type rowsIterator[T any] struct {
	db      *sql.DB
	query   string
	scanner Scanner[T]
	args    []any
	rows    *sql.Rows
	started bool
	done    bool
	failed  error
}

func (r *rowsIterator[T]) Next(ctx context.Context) (core.Result[T], error) {
	if r.failed != nil {
		return core.Done[T](), r.failed
	}
	if r.done {
		return core.Done[T](), nil
	}

	if !r.started {
		rows, err := r.db.QueryContext(ctx, r.query, r.args...)
		if err != nil {
			return core.Done[T](), r.fail(err)
		}
		r.rows = rows
		r.started = true
	}

	if !r.rows.Next() {
		r.done = true
		err := r.rows.Err()
		closeErr := r.rows.Close()
		r.rows = nil
		if err != nil {
			return core.Done[T](), r.fail(err)
		}
		if closeErr != nil {
			return core.Done[T](), r.fail(closeErr)
		}
		return core.Done[T](), nil
	}

	value, err := r.scanner(r.rows)
	if err != nil {
		r.rows.Close()
		r.rows = nil
		return core.Done[T](), r.fail(err)
	}
	return core.Ok(value), nil
}

func (r *rowsIterator[T]) fail(err error) error {
	r.failed = core.TagError(err)
	return r.failed
}
