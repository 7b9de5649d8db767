package store

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxClient implements Client on a pgx connection pool. Table and column
// names come from code, never from request input.
type PgxClient struct {
	pool *pgxpool.Pool
}

// NewPgxClient wraps the pool.
func NewPgxClient(pool *pgxpool.Pool) *PgxClient {
	return &PgxClient{pool: pool}
}

func (c *PgxClient) Query(ctx context.Context, spec SelectSpec) ([]Record, error) {
	columns := "*"
	if len(spec.Columns) > 0 {
		columns = strings.Join(spec.Columns, ", ")
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "SELECT %s FROM %s", columns, spec.Table)

	args := appendWhere(&builder, spec.Filters, nil)

	if spec.OrderBy != "" {
		direction := "DESC"
		if spec.Ascending {
			direction = "ASC"
		}
		fmt.Fprintf(&builder, " ORDER BY %s %s", spec.OrderBy, direction)
	}
	if spec.Limit > 0 {
		fmt.Fprintf(&builder, " LIMIT %d", spec.Limit)
	}

	rows, err := c.pool.Query(ctx, builder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", spec.Table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	records := []Record{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s row: %w", spec.Table, err)
		}
		record := make(Record, len(fields))
		for i, field := range fields {
			record[string(field.Name)] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", spec.Table, err)
	}

	return records, nil
}

func (c *PgxClient) Insert(ctx context.Context, table string, record Record) error {
	columns := sortedKeys(record)
	placeholders := make([]string, len(columns))
	args := make([]any, len(columns))
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = record[column]
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	)

	if _, err := c.pool.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, err)
	}
	return nil
}

func (c *PgxClient) Update(ctx context.Context, table string, patch Record, filters []Filter) (int64, error) {
	columns := sortedKeys(patch)
	if len(columns) == 0 {
		return 0, nil
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "UPDATE %s SET ", table)

	args := make([]any, 0, len(columns)+len(filters))
	assignments := make([]string, len(columns))
	for i, column := range columns {
		args = append(args, patch[column])
		assignments[i] = fmt.Sprintf("%s = $%d", column, len(args))
	}
	builder.WriteString(strings.Join(assignments, ", "))

	args = appendWhere(&builder, filters, args)

	tag, err := c.pool.Exec(ctx, builder.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func (c *PgxClient) Delete(ctx context.Context, table string, filters []Filter) (int64, error) {
	var builder strings.Builder
	fmt.Fprintf(&builder, "DELETE FROM %s", table)

	args := appendWhere(&builder, filters, nil)

	tag, err := c.pool.Exec(ctx, builder.String(), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

func appendWhere(builder *strings.Builder, filters []Filter, args []any) []any {
	for i, filter := range filters {
		if i == 0 {
			builder.WriteString(" WHERE ")
		} else {
			builder.WriteString(" AND ")
		}
		args = append(args, filter.Value)
		fmt.Fprintf(builder, "%s = $%d", filter.Field, len(args))
	}
	return args
}

func sortedKeys(record Record) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
