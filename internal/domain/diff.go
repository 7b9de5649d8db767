package domain

import (
	"encoding/json"
	"reflect"
	"strconv"
	"time"
)

// FieldChange records the before/after pair for a single tracked field.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

// ChangeSet maps field names to their changes. An empty set means nothing
// tracked actually changed; callers skip the audit write in that case.
type ChangeSet map[string]FieldChange

// IsEmpty reports whether the change set carries no changes.
func (c ChangeSet) IsEmpty() bool {
	return len(c) == 0
}

// DiffFields compares two records over the tracked-field whitelist and
// returns only the fields whose value actually changed. Fields outside the
// whitelist never appear, even when they differ. Numeric and timestamp
// values are compared by normalized value so formatting differences do not
// produce false positives.
func DiffFields(before, after map[string]any, tracked []string) ChangeSet {
	changes := ChangeSet{}
	for _, field := range tracked {
		oldValue, hadOld := before[field]
		newValue, hadNew := after[field]
		if !hadOld && !hadNew {
			continue
		}
		if valuesEqual(oldValue, newValue) {
			continue
		}
		changes[field] = FieldChange{Old: oldValue, New: newValue}
	}
	return changes
}

func valuesEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	if aNum, aOK := normalizeNumber(a); aOK {
		if bNum, bOK := normalizeNumber(b); bOK {
			return aNum == bNum
		}
		return false
	}

	if aTime, aOK := normalizeTime(a); aOK {
		if bTime, bOK := normalizeTime(b); bOK {
			return aTime.Equal(bTime)
		}
		return false
	}

	return reflect.DeepEqual(a, b)
}

func normalizeNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case int:
		return float64(typed), true
	case int32:
		return float64(typed), true
	case int64:
		return float64(typed), true
	case float32:
		return float64(typed), true
	case float64:
		return typed, true
	case json.Number:
		parsed, err := typed.Float64()
		return parsed, err == nil
	}
	return 0, false
}

// normalizeTime accepts time.Time values and RFC3339 strings. Plain
// strings that do not parse are left to DeepEqual.
func normalizeTime(value any) (time.Time, bool) {
	switch typed := value.(type) {
	case time.Time:
		return typed, true
	case *time.Time:
		if typed == nil {
			return time.Time{}, false
		}
		return *typed, true
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, typed); err == nil {
			return parsed, true
		}
		if parsed, err := time.Parse(time.RFC3339, typed); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// MarshalJSONValue renders a change-set value the way it is persisted in
// the history table, keeping numbers stable across round trips.
func MarshalJSONValue(value any) string {
	switch typed := value.(type) {
	case nil:
		return "null"
	case string:
		encoded, _ := json.Marshal(typed)
		return string(encoded)
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64)
	default:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return "null"
		}
		return string(encoded)
	}
}
