package repository

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/inventory_api/internal/models"
	"github.com/GTDGit/inventory_api/internal/query"
	"github.com/GTDGit/inventory_api/internal/utils"
)

// row is the raw storage shape of T as scanned by sqlx.
type row[T any] interface {
	model() (T, error)
}

// table runs query.Schema output against the store. Every operation is a single
// statement; nothing is wrapped in a transaction and nothing is retried.
type table[T any, R row[T]] struct {
	db      *sqlx.DB
	dialect query.Dialect
	schema  query.Schema[T]
	id      func(*T) *uint32
}

func newTable[T any, R row[T]](db *sqlx.DB, schema query.Schema[T], id func(*T) *uint32) table[T, R] {
	return table[T, R]{
		db:      db,
		dialect: query.DialectFor(db.DriverName()),
		schema:  schema,
		id:      id,
	}
}

// create inserts e and returns the id assigned by the store.
func (t table[T, R]) create(ctx context.Context, e *T) (uint32, error) {
	stmt := t.schema.Insert(e)
	var id int64
	if err := t.db.QueryRowxContext(ctx, t.db.Rebind(stmt.SQL), stmt.Args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", t.schema.Table, err)
	}
	return narrow("id", id)
}

func (t table[T, R]) query(ctx context.Context, filter *T) ([]T, error) {
	stmt := t.schema.Select(t.dialect, filter)
	var rows []R
	if err := t.db.SelectContext(ctx, &rows, t.db.Rebind(stmt.SQL), stmt.Args...); err != nil {
		return nil, fmt.Errorf("select from %s: %w", t.schema.Table, err)
	}

	out := make([]T, 0, len(rows))
	for _, r := range rows {
		m, err := r.model()
		if err != nil {
			return nil, fmt.Errorf("map %s row: %w", t.schema.Table, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func (t table[T, R]) update(ctx context.Context, e *T) (bool, error) {
	if e == nil || t.id(e) == nil {
		return false, nil
	}
	stmt, ok := t.schema.Update(e, int64(*t.id(e)))
	if !ok {
		return false, nil
	}
	return t.exec(ctx, stmt)
}

func (t table[T, R]) delete(ctx context.Context, id uint32) (bool, error) {
	return t.exec(ctx, t.schema.Delete(int64(id)))
}

func (t table[T, R]) count(ctx context.Context) (int, error) {
	var n int
	if err := t.db.GetContext(ctx, &n, t.schema.Count().SQL); err != nil {
		return 0, fmt.Errorf("count %s: %w", t.schema.Table, err)
	}
	return n, nil
}

func (t table[T, R]) exec(ctx context.Context, stmt query.Statement) (bool, error) {
	res, err := t.db.ExecContext(ctx, t.db.Rebind(stmt.SQL), stmt.Args...)
	if err != nil {
		return false, fmt.Errorf("exec on %s: %w", t.schema.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected on %s: %w", t.schema.Table, err)
	}
	return n > 0, nil
}

// narrow converts a stored 64-bit integer to uint32, rejecting values that do not fit.
func narrow(column string, v int64) (uint32, error) {
	if v < 0 || v > math.MaxUint32 {
		return 0, fmt.Errorf("%w: %s=%d", utils.ErrOutOfRange, column, v)
	}
	return uint32(v), nil
}

func nullUint32(column string, v sql.NullInt64) (*uint32, error) {
	if !v.Valid {
		return nil, nil
	}
	n, err := narrow(column, v.Int64)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func nullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	return &v.Int64
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	return &v.String
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

// nullFlag rebuilds a tri-state flag stored as 1/0/NULL.
func nullFlag(v sql.NullInt64) *bool {
	if !v.Valid {
		return nil
	}
	b := v.Int64 == 1
	return &b
}

func nullDate(column string, v sql.NullString) (*models.Date, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := models.ParseDate(v.String)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", column, err)
	}
	return &d, nil
}
