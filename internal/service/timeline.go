package service

import (
	"context"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"

	"github.com/google/uuid"
)

// TimelineQuery controls the merged view. Limit applies after the full
// merge, so it can never reorder what is shown. Collapse folds the
// dual-write duplication between the generic audit stream and the
// status-change stream.
type TimelineQuery struct {
	Limit    int
	Collapse bool
}

// Timeline is the merged result plus the total before pagination.
type Timeline struct {
	Items []domain.UnifiedHistoryItem `json:"items"`
	Total int                         `json:"total"`
}

// statusDedupTolerance bounds how far apart the generic "updated" entry
// and the status-change entry of one logical transition may sit.
const statusDedupTolerance = 2 * time.Second

// TimelineService reads the three event streams and merges them for
// presentation.
type TimelineService struct {
	activities    repository.ActivityRepository
	statusChanges repository.StatusChangeRepository
	history       repository.HistoryRepository
}

// NewTimelineService wires the service.
func NewTimelineService(activities repository.ActivityRepository, statusChanges repository.StatusChangeRepository, history repository.HistoryRepository) *TimelineService {
	return &TimelineService{
		activities:    activities,
		statusChanges: statusChanges,
		history:       history,
	}
}

// ForEntity loads all three streams for the entity and merges them most
// recent first.
func (s *TimelineService) ForEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, query TimelineQuery) (Timeline, error) {
	activities, err := s.activities.ListByEntity(ctx, entityID)
	if err != nil {
		return Timeline{}, err
	}

	statusChanges, err := s.statusChanges.ListByEntity(ctx, entityID)
	if err != nil {
		return Timeline{}, err
	}

	history, err := s.history.ListByEntity(ctx, entityType, entityID)
	if err != nil {
		return Timeline{}, err
	}

	merged := domain.MergeTimeline(activities, statusChanges, history)
	if query.Collapse {
		merged = domain.CollapseStatusDuplicates(merged, statusDedupTolerance)
	}

	return Timeline{
		Items: domain.Page(merged, query.Limit),
		Total: len(merged),
	}, nil
}
