// Package engine implements the generic persistence engine.
//
// One Engine instance binds a schema descriptor to a store handle and
// translates CRUD intents into SQL. There is no hand-written SQL per entity:
// every statement is generated from the descriptor's column list, and result
// rows are hydrated back through the descriptor's setters.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/orderflow/orderflow/pkg/schema"
	"github.com/orderflow/orderflow/pkg/store"
)

// Querier is the slice of the store handle the engine needs. *store.DB
// satisfies it; tests substitute fakes.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Engine executes generic CRUD operations for one entity type.
type Engine[T any] struct {
	db    Querier
	table *schema.Table[T]
	log   *zap.Logger
}

// New binds a descriptor to a store handle.
func New[T any](db Querier, table *schema.Table[T], log *zap.Logger) *Engine[T] {
	return &Engine[T]{db: db, table: table, log: log}
}

// FindAll returns every row of the entity's table. An empty table yields a
// nil slice and no error.
func (e *Engine[T]) FindAll(ctx context.Context) ([]T, error) {
	rows, err := e.db.Query(ctx, e.selectSQL(""))
	if err != nil {
		return nil, e.fail("findAll", err)
	}
	defer rows.Close()
	return e.hydrate(rows)
}

// FindBy returns the first row whose column equals value, or
// store.ErrNotFound when no row matches.
func (e *Engine[T]) FindBy(ctx context.Context, column string, value any) (*T, error) {
	if !e.table.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s.%s", store.ErrUnknownColumn, e.table.Name(), column)
	}
	rows, err := e.db.Query(ctx, e.selectSQL(column), value)
	if err != nil {
		return nil, e.fail("findBy", err)
	}
	defer rows.Close()

	results, err := e.hydrate(rows)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, store.ErrNotFound
	}
	return &results[0], nil
}

// FindAllBy returns every row whose column equals value.
func (e *Engine[T]) FindAllBy(ctx context.Context, column string, value any) ([]T, error) {
	if !e.table.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s.%s", store.ErrUnknownColumn, e.table.Name(), column)
	}
	rows, err := e.db.Query(ctx, e.selectSQL(column), value)
	if err != nil {
		return nil, e.fail("findAllBy", err)
	}
	defer rows.Close()
	return e.hydrate(rows)
}

// Insert writes the entity as a new row. All column values are supplied in
// schema order; the caller assigns the id beforehand.
func (e *Engine[T]) Insert(ctx context.Context, entity *T) error {
	if _, err := e.db.Exec(ctx, e.insertSQL(), e.values(entity)...); err != nil {
		return e.fail("insert", err)
	}
	return nil
}

// Update rewrites every column of the row identified by the entity's current
// primary-key value.
func (e *Engine[T]) Update(ctx context.Context, entity *T) error {
	args := append(e.values(entity), e.table.PrimaryKey().Get(entity))
	if _, err := e.db.Exec(ctx, e.updateSQL(), args...); err != nil {
		return e.fail("update", err)
	}
	return nil
}

// Delete removes the row identified by the entity's primary-key value.
func (e *Engine[T]) Delete(ctx context.Context, entity *T) error {
	if _, err := e.db.Exec(ctx, e.deleteSQL(), e.table.PrimaryKey().Get(entity)); err != nil {
		return e.fail("delete", err)
	}
	return nil
}

// NextID returns the next free synthetic id: max(pk)+1. Unlike a row count,
// this never reuses the id of a deleted row.
func (e *Engine[T]) NextID(ctx context.Context) (int, error) {
	rows, err := e.db.Query(ctx, e.nextIDSQL())
	if err != nil {
		return 0, e.fail("nextID", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, e.fail("nextID", err)
		}
		return 0, e.fail("nextID", errors.New("no row returned"))
	}
	values, err := rows.Values()
	if err != nil {
		return 0, e.fail("nextID", err)
	}
	id, ok := values[0].(int32)
	if !ok {
		if id64, ok64 := values[0].(int64); ok64 {
			return int(id64), nil
		}
		return 0, fmt.Errorf("nextID on %s: unexpected value %T", e.table.Name(), values[0])
	}
	return int(id), nil
}

// EnsureTable creates the entity's table if it does not exist yet.
func (e *Engine[T]) EnsureTable(ctx context.Context) error {
	if _, err := e.db.Exec(ctx, e.createSQL()); err != nil {
		return e.fail("ensureTable", err)
	}
	return nil
}

// hydrate constructs one entity per row, assigning every descriptor field
// from the result column with the same name.
func (e *Engine[T]) hydrate(rows pgx.Rows) ([]T, error) {
	columnIdx := make(map[string]int)
	for i, fd := range rows.FieldDescriptions() {
		columnIdx[fd.Name] = i
	}

	var results []T
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, e.fail("hydrate", err)
		}
		var entity T
		for _, field := range e.table.Fields() {
			idx, ok := columnIdx[field.Column]
			if !ok {
				continue
			}
			if err := field.Set(&entity, values[idx]); err != nil {
				return nil, fmt.Errorf("hydrate %s: %w", e.table.Name(), err)
			}
		}
		results = append(results, entity)
	}
	if err := rows.Err(); err != nil {
		return nil, e.fail("hydrate", err)
	}
	return results, nil
}

// values collects every column value of the entity in schema order.
func (e *Engine[T]) values(entity *T) []any {
	fields := e.table.Fields()
	out := make([]any, len(fields))
	for i, f := range fields {
		out[i] = f.Get(entity)
	}
	return out
}

func (e *Engine[T]) fail(op string, err error) error {
	e.log.Warn("store operation failed",
		zap.String("table", e.table.Name()),
		zap.String("op", op),
		zap.Error(err))
	return fmt.Errorf("%s %s: %w", op, e.table.Name(), err)
}
