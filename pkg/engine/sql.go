package engine

import (
	"fmt"
	"strings"
)

// selectSQL builds the SELECT statement. An empty filter column selects the
// whole table; otherwise a single equality condition is added.
func (e *Engine[T]) selectSQL(filter string) string {
	var sql strings.Builder
	sql.WriteString("SELECT ")
	sql.WriteString(strings.Join(e.table.Columns(), ", "))
	sql.WriteString(" FROM ")
	sql.WriteString(e.table.Name())
	if filter != "" {
		sql.WriteString(" WHERE ")
		sql.WriteString(filter)
		sql.WriteString(" = $1")
	}
	return sql.String()
}

// insertSQL builds an INSERT listing every column in schema order.
func (e *Engine[T]) insertSQL() string {
	cols := e.table.Columns()
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	var sql strings.Builder
	sql.WriteString("INSERT INTO ")
	sql.WriteString(e.table.Name())
	sql.WriteString(" (")
	sql.WriteString(strings.Join(cols, ", "))
	sql.WriteString(") VALUES (")
	sql.WriteString(strings.Join(placeholders, ", "))
	sql.WriteString(")")
	return sql.String()
}

// updateSQL builds an UPDATE setting every column, keyed on the primary key.
func (e *Engine[T]) updateSQL() string {
	cols := e.table.Columns()
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}

	var sql strings.Builder
	sql.WriteString("UPDATE ")
	sql.WriteString(e.table.Name())
	sql.WriteString(" SET ")
	sql.WriteString(strings.Join(sets, ", "))
	sql.WriteString(fmt.Sprintf(" WHERE %s = $%d", e.table.PrimaryKey().Column, len(cols)+1))
	return sql.String()
}

// deleteSQL builds a DELETE keyed on the primary key.
func (e *Engine[T]) deleteSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE %s = $1", e.table.Name(), e.table.PrimaryKey().Column)
}

// nextIDSQL builds the synthetic id query.
func (e *Engine[T]) nextIDSQL() string {
	return fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) + 1 FROM %s", e.table.PrimaryKey().Column, e.table.Name())
}

// createSQL builds the bootstrap DDL for the entity's table. The descriptor's
// key marker stays an engine convention rather than a DDL constraint: order
// items share their key column across rows.
func (e *Engine[T]) createSQL() string {
	fields := e.table.Fields()
	defs := make([]string, len(fields))
	for i, f := range fields {
		defs[i] = f.Column + " " + f.SQLType
	}

	var sql strings.Builder
	sql.WriteString("CREATE TABLE IF NOT EXISTS ")
	sql.WriteString(e.table.Name())
	sql.WriteString(" (")
	sql.WriteString(strings.Join(defs, ", "))
	sql.WriteString(")")
	return sql.String()
}
