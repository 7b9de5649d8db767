package repository

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"

	"github.com/google/uuid"
)

// Conversion helpers between store.Record values and domain types. The
// pgx-backed client hands uuid columns back as [16]byte and jsonb columns
// as decoded maps or raw bytes; the memory client returns whatever was
// inserted. Both shapes are handled here so repositories stay agnostic.

func uuidFromAny(value any) (uuid.UUID, error) {
	switch typed := value.(type) {
	case uuid.UUID:
		return typed, nil
	case [16]byte:
		return uuid.UUID(typed), nil
	case string:
		return uuid.Parse(typed)
	case nil:
		return uuid.Nil, fmt.Errorf("uuid value is null")
	}
	return uuid.Nil, fmt.Errorf("unsupported uuid representation %T", value)
}

func uuidPtrFromAny(value any) (*uuid.UUID, error) {
	if value == nil {
		return nil, nil
	}
	id, err := uuidFromAny(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func timeFromAny(value any) (time.Time, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed, nil
	case string:
		return time.Parse(time.RFC3339Nano, typed)
	case nil:
		return time.Time{}, fmt.Errorf("timestamp value is null")
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp representation %T", value)
}

func stringFromAny(value any) string {
	if value == nil {
		return ""
	}
	if typed, ok := value.(string); ok {
		return typed
	}
	return fmt.Sprint(value)
}

func stringPtrFromAny(value any) *string {
	if value == nil {
		return nil
	}
	text := stringFromAny(value)
	return &text
}

func changeSetFromAny(value any) (domain.ChangeSet, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case domain.ChangeSet:
		return typed, nil
	case []byte:
		var changes domain.ChangeSet
		if err := json.Unmarshal(typed, &changes); err != nil {
			return nil, fmt.Errorf("failed to decode change set: %w", err)
		}
		return changes, nil
	case map[string]any:
		encoded, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("failed to re-encode change set: %w", err)
		}
		var changes domain.ChangeSet
		if err := json.Unmarshal(encoded, &changes); err != nil {
			return nil, fmt.Errorf("failed to decode change set: %w", err)
		}
		return changes, nil
	}
	return nil, fmt.Errorf("unsupported change set representation %T", value)
}

func nullableUUID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return *id
}

func nullableString(text *string) any {
	if text == nil {
		return nil
	}
	return *text
}

func changeSetValue(changes domain.ChangeSet) (any, error) {
	if changes == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(changes)
	if err != nil {
		return nil, fmt.Errorf("failed to encode change set: %w", err)
	}
	return encoded, nil
}
