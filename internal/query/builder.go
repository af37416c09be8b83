package query

import (
	"fmt"
	"strings"
)

// Dialect carries the few SQL differences between supported stores.
type Dialect struct {
	// Like is the case-insensitive pattern operator.
	Like string
}

var (
	// SQLite's LIKE is case-insensitive for ASCII.
	SQLite   = Dialect{Like: "LIKE"}
	Postgres = Dialect{Like: "ILIKE"}
)

// DialectFor maps a database/sql driver name to its Dialect.
func DialectFor(driverName string) Dialect {
	switch driverName {
	case "postgres", "pgx":
		return Postgres
	default:
		return SQLite
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Filter renders the WHERE clause for a filter entity. A nil entity, or one with every
// field unset, yields the match-all predicate.
func (s Schema[T]) Filter(d Dialect, filter *T) (string, []any) {
	var b strings.Builder
	b.WriteString("WHERE 1=1")
	args := []any{}
	if filter == nil {
		return b.String(), args
	}

	for _, c := range s.Columns {
		v, ok := c.Get(filter)
		if !ok {
			continue
		}
		if c.Kind == Substring {
			text, _ := v.(string)
			if text == "" {
				continue
			}
			fmt.Fprintf(&b, ` AND %s %s ? ESCAPE '\'`, c.Name, d.Like)
			args = append(args, "%"+likeEscaper.Replace(text)+"%")
			continue
		}
		fmt.Fprintf(&b, " AND %s = ?", c.Name)
		args = append(args, v)
	}
	return b.String(), args
}

// Select returns every column of the rows matching filter, ordered by key.
func (s Schema[T]) Select(d Dialect, filter *T) Statement {
	where, args := s.Filter(d, filter)
	return Statement{
		SQL: fmt.Sprintf("SELECT %s FROM %s %s ORDER BY %s",
			strings.Join(s.names(), ", "), s.Table, where, s.key()),
		Args: args,
	}
}

// Update returns the assignment statement for the set fields of e, keyed by id.
// The id argument always comes last. ok is false when no field is set, in which
// case nothing should be executed.
func (s Schema[T]) Update(e *T, id any) (stmt Statement, ok bool) {
	if e == nil {
		return Statement{}, false
	}
	var sets []string
	var args []any
	for _, c := range s.Columns {
		if c.Kind == Identifier {
			continue
		}
		v, present := c.Get(e)
		if !present {
			continue
		}
		sets = append(sets, c.Name+" = ?")
		args = append(args, v)
	}
	if len(sets) == 0 {
		return Statement{}, false
	}
	args = append(args, id)
	return Statement{
		SQL:  fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", s.Table, strings.Join(sets, ", "), s.key()),
		Args: args,
	}, true
}

// Insert returns an insert of every non-key column of e, binding NULL for unset
// fields. Any key set on e is ignored; the store assigns it and returns it.
func (s Schema[T]) Insert(e *T) Statement {
	var cols, marks []string
	var args []any
	for _, c := range s.Columns {
		if c.Kind == Identifier {
			continue
		}
		cols = append(cols, c.Name)
		marks = append(marks, "?")
		var v any
		if e != nil {
			v, _ = c.Get(e)
		}
		args = append(args, v)
	}
	return Statement{
		SQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
			s.Table, strings.Join(cols, ", "), strings.Join(marks, ", "), s.key()),
		Args: args,
	}
}

// Delete removes the row with the given key.
func (s Schema[T]) Delete(id any) Statement {
	return Statement{
		SQL:  fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.Table, s.key()),
		Args: []any{id},
	}
}

// Count counts every row of the table.
func (s Schema[T]) Count() Statement {
	return Statement{SQL: "SELECT COUNT(1) FROM " + s.Table}
}
