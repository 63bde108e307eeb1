// Package rowx is the generic row representation used to move records
// between the model structs and SQL: an ordered list of column/value pairs,
// table metadata, and the query builders that check a row against it.
package rowx

import (
	"errors"
	"fmt"
)

// ErrSchemaMismatch reports a row that does not fit its table definition.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Field is one column of a row.
type Field struct {
	Name  string
	Value any
}

// Row is an ordered set of column values.
type Row []Field

// Names returns column names in row order.
func (r Row) Names() []string {
	names := make([]string, len(r))
	for i, f := range r {
		names[i] = f.Name
	}
	return names
}

// Values returns column values in row order.
func (r Row) Values() []any {
	values := make([]any, len(r))
	for i, f := range r {
		values[i] = f.Value
	}
	return values
}

// Lookup returns the value stored under name.
func (r Row) Lookup(name string) (any, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Scan reads one result row with the given columns into a Row. Values are
// left as the driver produced them; decoding happens in Decoder.
func Scan(s Scanner, columns []string) (Row, error) {
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(Row, len(columns))
	for i, c := range columns {
		row[i] = Field{Name: c, Value: values[i]}
	}
	return row, nil
}

// Decoder converts row values to Go types, remembering the first failure.
//
//	d := row.Decode()
//	id := d.Int64("user_id")
//	name := d.String("username")
//	if err := d.Err(); err != nil { ... }
type Decoder struct {
	row Row
	err error
}

// Decode starts decoding r.
func (r Row) Decode() *Decoder {
	return &Decoder{row: r}
}

// Err returns the first decoding error, wrapping ErrSchemaMismatch.
func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) value(name string) (any, bool) {
	if d.err != nil {
		return nil, false
	}
	v, ok := d.row.Lookup(name)
	if !ok {
		d.err = fmt.Errorf("%w: missing column %q", ErrSchemaMismatch, name)
		return nil, false
	}
	return v, true
}

func (d *Decoder) fail(name string, v any, want string) {
	d.err = fmt.Errorf("%w: column %q holds %T, want %s", ErrSchemaMismatch, name, v, want)
}

// Int64 decodes an integer column. NULL is a mismatch.
func (d *Decoder) Int64(name string) int64 {
	v, ok := d.value(name)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	}
	d.fail(name, v, "integer")
	return 0
}

// String decodes a text column. NULL is a mismatch.
func (d *Decoder) String(name string) string {
	v, ok := d.value(name)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case []byte:
		return string(s)
	}
	d.fail(name, v, "text")
	return ""
}

// Bytes decodes a binary column. NULL decodes to nil.
func (d *Decoder) Bytes(name string) []byte {
	v, ok := d.value(name)
	if !ok {
		return nil
	}
	switch b := v.(type) {
	case nil:
		return nil
	case []byte:
		return b
	}
	d.fail(name, v, "binary")
	return nil
}

// Bool decodes a boolean column. NULL is a mismatch.
func (d *Decoder) Bool(name string) bool {
	v, ok := d.value(name)
	if !ok {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	d.fail(name, v, "boolean")
	return false
}
