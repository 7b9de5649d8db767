package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TimelineItemKind tags the source stream of a merged timeline item.
type TimelineItemKind string

const (
	TimelineItemActivity     TimelineItemKind = "activity"
	TimelineItemStatusChange TimelineItemKind = "status_change"
	TimelineItemHistory      TimelineItemKind = "history"
)

// UnifiedHistoryItem is the read-time union of the three event streams.
// It is never persisted; exactly one of the record pointers is set,
// matching Kind, and Timestamp is derived from that record.
type UnifiedHistoryItem struct {
	Kind         TimelineItemKind     `json:"kind"`
	Timestamp    time.Time            `json:"timestamp"`
	Activity     *Activity            `json:"activity,omitempty"`
	StatusChange *StatusChangeHistory `json:"statusChange,omitempty"`
	History      *EntityHistory       `json:"history,omitempty"`
}

// DefaultTimelinePageSize is how many items the UI shows before the
// explicit expand action.
const DefaultTimelinePageSize = 5

// MergeTimeline combines the three event streams into one sequence ordered
// by descending timestamp. The sort is stable, so items with equal
// timestamps keep their relative input order (activities first, then
// status changes, then history entries).
//
// A transition driven through a generic update appears twice: once as an
// "updated" history entry and once as a status-change entry. Both are kept
// here; CollapseStatusDuplicates folds them when a single-event view is
// wanted.
func MergeTimeline(activities []Activity, statusChanges []StatusChangeHistory, history []EntityHistory) []UnifiedHistoryItem {
	items := make([]UnifiedHistoryItem, 0, len(activities)+len(statusChanges)+len(history))
	for i := range activities {
		activity := activities[i]
		items = append(items, UnifiedHistoryItem{
			Kind:      TimelineItemActivity,
			Timestamp: activity.CreatedAt,
			Activity:  &activity,
		})
	}
	for i := range statusChanges {
		change := statusChanges[i]
		items = append(items, UnifiedHistoryItem{
			Kind:         TimelineItemStatusChange,
			Timestamp:    change.CreatedAt,
			StatusChange: &change,
		})
	}
	for i := range history {
		entry := history[i]
		items = append(items, UnifiedHistoryItem{
			Kind:      TimelineItemHistory,
			Timestamp: entry.CreatedAt,
			History:   &entry,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})

	return items
}

// Page returns the first n items of the merged sequence. The merge always
// runs over the full input, so slicing afterwards can never change the
// relative order of what is shown. A negative n expands to the full
// sequence; zero falls back to the default page size.
func Page(items []UnifiedHistoryItem, n int) []UnifiedHistoryItem {
	if n < 0 {
		return items
	}
	if n == 0 {
		n = DefaultTimelinePageSize
	}
	if n >= len(items) {
		return items
	}
	return items[:n]
}

// CollapseStatusDuplicates drops "updated" history entries whose only
// tracked change is the status field when a status-change entry for the
// same entity sits within the tolerance window. Consumers that want one
// event per transition call this after MergeTimeline.
func CollapseStatusDuplicates(items []UnifiedHistoryItem, tolerance time.Duration) []UnifiedHistoryItem {
	out := make([]UnifiedHistoryItem, 0, len(items))
	for _, item := range items {
		if item.Kind == TimelineItemHistory && isStatusOnlyUpdate(item.History) {
			if hasNearbyStatusChange(items, item.History.EntityID, item.Timestamp, tolerance) {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func isStatusOnlyUpdate(entry *EntityHistory) bool {
	if entry == nil || entry.Action != HistoryActionUpdated {
		return false
	}
	if len(entry.Changes) != 1 {
		return false
	}
	_, ok := entry.Changes["status"]
	return ok
}

func hasNearbyStatusChange(items []UnifiedHistoryItem, entityID uuid.UUID, at time.Time, tolerance time.Duration) bool {
	for _, item := range items {
		if item.Kind != TimelineItemStatusChange || item.StatusChange == nil {
			continue
		}
		if item.StatusChange.EntityID != entityID {
			continue
		}
		delta := item.Timestamp.Sub(at)
		if delta < 0 {
			delta = -delta
		}
		if delta <= tolerance {
			return true
		}
	}
	return false
}
