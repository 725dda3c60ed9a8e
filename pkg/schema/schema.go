// Package schema provides compile-time field descriptors for stored entities.
//
// A Table describes how one entity type maps to a relational table: an
// ordered list of columns, each with a typed getter and setter, and an
// explicit primary-key marker. Descriptors are built once per entity type
// and are immutable afterwards; the persistence engine consumes them to
// generate SQL and hydrate rows without any per-entity statements.
package schema

import "fmt"

// Field describes one column of an entity table.
type Field[T any] struct {
	// Column is the storage name of the field.
	Column string
	// SQLType is the column type used when bootstrapping the table.
	SQLType string
	// Get reads the field value from an entity.
	Get func(*T) any
	// Set assigns a scanned database value to the field.
	Set func(*T, any) error

	primaryKey bool
}

// Key marks the field as the primary key of its table.
func (f Field[T]) Key() Field[T] {
	f.primaryKey = true
	return f
}

// Table is the immutable descriptor of an entity table.
type Table[T any] struct {
	name   string
	fields []Field[T]
	pk     int
}

// New builds a Table descriptor. Exactly one field must be marked as the
// primary key; by convention it is the first field, but the engine relies on
// the explicit marker, never on the position.
func New[T any](name string, fields ...Field[T]) *Table[T] {
	if len(fields) == 0 {
		panic(fmt.Sprintf("schema: table %s has no fields", name))
	}
	pk := -1
	for i, f := range fields {
		if f.primaryKey {
			if pk >= 0 {
				panic(fmt.Sprintf("schema: table %s has more than one primary key", name))
			}
			pk = i
		}
	}
	if pk < 0 {
		panic(fmt.Sprintf("schema: table %s has no primary key", name))
	}
	return &Table[T]{name: name, fields: fields, pk: pk}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// Fields returns the ordered field descriptors.
func (t *Table[T]) Fields() []Field[T] {
	return t.fields
}

// Columns returns the ordered storage column names.
func (t *Table[T]) Columns() []string {
	cols := make([]string, len(t.fields))
	for i, f := range t.fields {
		cols[i] = f.Column
	}
	return cols
}

// PrimaryKey returns the primary-key field descriptor.
func (t *Table[T]) PrimaryKey() Field[T] {
	return t.fields[t.pk]
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table[T]) HasColumn(name string) bool {
	for _, f := range t.fields {
		if f.Column == name {
			return true
		}
	}
	return false
}

// Int builds a descriptor for an integer column.
func Int[T any](column string, get func(*T) int, set func(*T, int)) Field[T] {
	return Field[T]{
		Column:  column,
		SQLType: "integer",
		Get:     func(e *T) any { return get(e) },
		Set: func(e *T, v any) error {
			n, err := toInt(v)
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
			set(e, n)
			return nil
		},
	}
}

// Float32 builds a descriptor for a single-precision floating point column.
func Float32[T any](column string, get func(*T) float32, set func(*T, float32)) Field[T] {
	return Field[T]{
		Column:  column,
		SQLType: "real",
		Get:     func(e *T) any { return get(e) },
		Set: func(e *T, v any) error {
			f, err := toFloat32(v)
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
			set(e, f)
			return nil
		},
	}
}

// String builds a descriptor for a text column.
func String[T any](column string, get func(*T) string, set func(*T, string)) Field[T] {
	return Field[T]{
		Column:  column,
		SQLType: "text",
		Get:     func(e *T) any { return get(e) },
		Set: func(e *T, v any) error {
			s, err := toString(v)
			if err != nil {
				return fmt.Errorf("column %s: %w", column, err)
			}
			set(e, s)
			return nil
		},
	}
}

// toInt converts the integer widths drivers hand back into int.
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int16:
		return int(n), nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot assign %T to integer field", v)
	}
}

func toFloat32(v any) (float32, error) {
	switch f := v.(type) {
	case float32:
		return f, nil
	case float64:
		return float32(f), nil
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("cannot assign %T to float field", v)
	}
}

func toString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	case nil:
		return "", nil
	default:
		return "", fmt.Errorf("cannot assign %T to string field", v)
	}
}
