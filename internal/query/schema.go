// Package query turns partially populated entities into parameterized SQL.
//
// An entity is described once by a Schema: an ordered list of columns, each with a
// kind and an accessor reporting whether the field is present. Filters, updates and
// inserts are all produced by walking that list, so the declaration order of the
// columns fixes both the SQL text and the order of the bound arguments.
package query

// Kind selects how a present column takes part in a filter.
type Kind int

const (
	// Identifier is the primary key. It filters by equality and is never assigned.
	Identifier Kind = iota
	// Exact columns filter by equality.
	Exact
	// Substring columns are free text and filter with a "contains" match.
	// An empty search string adds no condition.
	Substring
)

// Column describes one stored field of T.
type Column[T any] struct {
	Name     string
	Kind     Kind
	Required bool
	// Get returns the value to bind and whether the field is set.
	Get func(*T) (any, bool)
}

// Schema is the ordered column list of a table holding values of T.
type Schema[T any] struct {
	Table   string
	Columns []Column[T]
}

// Statement is SQL text with '?' placeholders plus its positional arguments.
type Statement struct {
	SQL  string
	Args []any
}

// Value is an accessor helper for pointer fields bound as-is.
func Value[V any](p *V) (any, bool) {
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Flag binds a tri-state flag as 1/0. Unset stays unset and is never read as false.
func Flag(p *bool) (any, bool) {
	if p == nil {
		return nil, false
	}
	if *p {
		return int64(1), true
	}
	return int64(0), true
}

// Wide binds a uint32 field as the store's native 64-bit integer.
func Wide(p *uint32) (any, bool) {
	if p == nil {
		return nil, false
	}
	return int64(*p), true
}

// Missing returns the names of required columns that are unset in e.
func (s Schema[T]) Missing(e *T) []string {
	var missing []string
	for _, c := range s.Columns {
		if !c.Required {
			continue
		}
		if e == nil {
			missing = append(missing, c.Name)
			continue
		}
		if _, ok := c.Get(e); !ok {
			missing = append(missing, c.Name)
		}
	}
	return missing
}

func (s Schema[T]) key() string {
	for _, c := range s.Columns {
		if c.Kind == Identifier {
			return c.Name
		}
	}
	return "id"
}

func (s Schema[T]) names() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}
