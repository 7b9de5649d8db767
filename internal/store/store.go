// Package store is the table-oriented boundary between the workflow core
// and the backing database. The core issues only equality-filtered
// selects, ordered listings, inserts, updates, and deletes; anything
// richer belongs to a dedicated repository.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Single when no row matches the filters.
var ErrNotFound = errors.New("record not found")

// Record is one row keyed by column name.
type Record map[string]any

// Filter is a single equality predicate.
type Filter struct {
	Field string
	Value any
}

// SelectSpec describes a query composed through the fluent builder.
type SelectSpec struct {
	Table     string
	Columns   []string
	Filters   []Filter
	OrderBy   string
	Ascending bool
	Limit     int
}

// Client is the primitive surface every backing store implements.
type Client interface {
	Query(ctx context.Context, spec SelectSpec) ([]Record, error)
	Insert(ctx context.Context, table string, record Record) error
	Update(ctx context.Context, table string, patch Record, filters []Filter) (int64, error)
	Delete(ctx context.Context, table string, filters []Filter) (int64, error)
}

// SelectQuery accumulates a select before execution.
type SelectQuery struct {
	client Client
	spec   SelectSpec
}

// Select starts a query against the table, fetching the given columns, or
// every column when none are named.
func Select(client Client, table string, columns ...string) *SelectQuery {
	return &SelectQuery{
		client: client,
		spec: SelectSpec{
			Table:   table,
			Columns: columns,
		},
	}
}

// Eq adds an equality filter.
func (q *SelectQuery) Eq(field string, value any) *SelectQuery {
	q.spec.Filters = append(q.spec.Filters, Filter{Field: field, Value: value})
	return q
}

// Order sets the result ordering.
func (q *SelectQuery) Order(field string, ascending bool) *SelectQuery {
	q.spec.OrderBy = field
	q.spec.Ascending = ascending
	return q
}

// Limit caps the number of returned rows.
func (q *SelectQuery) Limit(n int) *SelectQuery {
	q.spec.Limit = n
	return q
}

// All executes the query and returns every matching row.
func (q *SelectQuery) All(ctx context.Context) ([]Record, error) {
	return q.client.Query(ctx, q.spec)
}

// Single executes the query and returns exactly one row, or ErrNotFound.
func (q *SelectQuery) Single(ctx context.Context) (Record, error) {
	spec := q.spec
	spec.Limit = 1
	rows, err := q.client.Query(ctx, spec)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// WriteQuery accumulates filters for an update or delete.
type WriteQuery struct {
	client  Client
	table   string
	patch   Record
	filters []Filter
	delete  bool
}

// Update starts a patch against the table; Exec applies it to every row
// matching the filters.
func Update(client Client, table string, patch Record) *WriteQuery {
	return &WriteQuery{client: client, table: table, patch: patch}
}

// Delete starts a delete against the table.
func Delete(client Client, table string) *WriteQuery {
	return &WriteQuery{client: client, table: table, delete: true}
}

// Eq adds an equality filter.
func (q *WriteQuery) Eq(field string, value any) *WriteQuery {
	q.filters = append(q.filters, Filter{Field: field, Value: value})
	return q
}

// Exec applies the write and returns the number of affected rows.
func (q *WriteQuery) Exec(ctx context.Context) (int64, error) {
	if q.delete {
		return q.client.Delete(ctx, q.table, q.filters)
	}
	return q.client.Update(ctx, q.table, q.patch, q.filters)
}
