package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"
)

// MemoryClient is an in-memory Client used by tests and ephemeral
// environments. Rows are copied on the way in and out, so callers never
// share map instances with the store.
type MemoryClient struct {
	mu     sync.RWMutex
	tables map[string][]Record
}

var _ Client = (*MemoryClient)(nil)

// NewMemoryClient returns an empty in-memory store.
func NewMemoryClient() *MemoryClient {
	return &MemoryClient{tables: map[string][]Record{}}
}

func (c *MemoryClient) Query(_ context.Context, spec SelectSpec) ([]Record, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := []Record{}
	for _, row := range c.tables[spec.Table] {
		if matchesAll(row, spec.Filters) {
			matched = append(matched, cloneRecord(row, spec.Columns))
		}
	}

	if spec.OrderBy != "" {
		sort.SliceStable(matched, func(i, j int) bool {
			less := compareValues(matched[i][spec.OrderBy], matched[j][spec.OrderBy])
			if spec.Ascending {
				return less < 0
			}
			return less > 0
		})
	}

	if spec.Limit > 0 && len(matched) > spec.Limit {
		matched = matched[:spec.Limit]
	}

	return matched, nil
}

func (c *MemoryClient) Insert(_ context.Context, table string, record Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tables[table] = append(c.tables[table], cloneRecord(record, nil))
	return nil
}

func (c *MemoryClient) Update(_ context.Context, table string, patch Record, filters []Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var affected int64
	for _, row := range c.tables[table] {
		if matchesAll(row, filters) {
			for key, value := range patch {
				row[key] = value
			}
			affected++
		}
	}
	return affected, nil
}

func (c *MemoryClient) Delete(_ context.Context, table string, filters []Filter) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.tables[table][:0]
	var affected int64
	for _, row := range c.tables[table] {
		if matchesAll(row, filters) {
			affected++
			continue
		}
		kept = append(kept, row)
	}
	c.tables[table] = kept
	return affected, nil
}

// Count returns the number of rows currently held by the table.
func (c *MemoryClient) Count(table string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tables[table])
}

func matchesAll(row Record, filters []Filter) bool {
	for _, filter := range filters {
		if !looseEqual(row[filter.Field], filter.Value) {
			return false
		}
	}
	return true
}

// looseEqual tolerates representational differences such as a uuid.UUID
// filter matched against its string form.
func looseEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func compareValues(a, b any) int {
	if aTime, ok := a.(time.Time); ok {
		if bTime, ok := b.(time.Time); ok {
			switch {
			case aTime.Before(bTime):
				return -1
			case aTime.After(bTime):
				return 1
			default:
				return 0
			}
		}
	}

	aStr := fmt.Sprint(a)
	bStr := fmt.Sprint(b)
	switch {
	case aStr < bStr:
		return -1
	case aStr > bStr:
		return 1
	default:
		return 0
	}
}

func cloneRecord(row Record, columns []string) Record {
	if len(columns) == 0 {
		out := make(Record, len(row))
		for key, value := range row {
			out[key] = value
		}
		return out
	}
	out := make(Record, len(columns))
	for _, column := range columns {
		if value, ok := row[column]; ok {
			out[column] = value
		}
	}
	return out
}
