package rowx

import (
	"fmt"
	"strings"
)

// Table describes a relational table: its name, the database-assigned key
// column and every column in schema order (key included).
type Table struct {
	Name    string
	Key     string
	Columns []string
}

func (t Table) index(column string) int {
	for i, c := range t.Columns {
		if c == column {
			return i
		}
	}
	return -1
}

// Insert builds an INSERT for row returning every table column. The row must
// name known, non-key columns, each once, in schema order.
func (t Table) Insert(row Row) (string, []any, error) {
	if len(row) == 0 {
		return "", nil, fmt.Errorf("%w: empty row for %s", ErrSchemaMismatch, t.Name)
	}

	last := -1
	placeholders := make([]string, len(row))
	for i, f := range row {
		if f.Name == t.Key {
			return "", nil, fmt.Errorf("%w: %s.%s is assigned by the database", ErrSchemaMismatch, t.Name, f.Name)
		}
		idx := t.index(f.Name)
		if idx < 0 {
			return "", nil, fmt.Errorf("%w: unknown column %s.%s", ErrSchemaMismatch, t.Name, f.Name)
		}
		if idx <= last {
			return "", nil, fmt.Errorf("%w: column %s.%s out of order or repeated", ErrSchemaMismatch, t.Name, f.Name)
		}
		last = idx
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		t.Name,
		strings.Join(row.Names(), ", "),
		strings.Join(placeholders, ", "),
		strings.Join(t.Columns, ", "),
	)
	return query, row.Values(), nil
}

// Select builds a SELECT of every table column filtered by equality on the
// where columns ($1, $2, ... in order) and ordered by the key.
func (t Table) Select(where ...string) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", strings.Join(t.Columns, ", "), t.Name)

	for i, c := range where {
		if t.index(c) < 0 {
			return "", fmt.Errorf("%w: unknown column %s.%s", ErrSchemaMismatch, t.Name, c)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s = $%d", c, i+1)
	}

	fmt.Fprintf(&b, " ORDER BY %s", t.Key)
	return b.String(), nil
}
