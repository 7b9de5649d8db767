package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/repository"

	"github.com/google/uuid"
)

// ActivityService owns free-form notes. The edit window is enforced here,
// on the write path, with the same injected clock the rendering helper
// uses; a stale page or skewed client clock cannot push an edit through.
type ActivityService struct {
	activities repository.ActivityRepository
	policy     domain.EditWindowPolicy
}

// NewActivityService wires the service.
func NewActivityService(activities repository.ActivityRepository, policy domain.EditWindowPolicy) *ActivityService {
	return &ActivityService{activities: activities, policy: policy}
}

// Add creates a note on the entity.
func (s *ActivityService) Add(ctx context.Context, entityID uuid.UUID, authorID *uuid.UUID, content string) (domain.Activity, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Activity{}, fmt.Errorf("activity content is required")
	}

	now := s.policy.Now()
	activity := domain.Activity{
		ID:        uuid.New(),
		EntityID:  entityID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// Edit replaces the note content while the edit window is open.
func (s *ActivityService) Edit(ctx context.Context, id uuid.UUID, content string) (domain.Activity, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.Activity{}, fmt.Errorf("activity content is required")
	}

	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return domain.Activity{}, err
	}

	if !s.policy.IsEditable(activity.CreatedAt) {
		return domain.Activity{}, fmt.Errorf("activity %s: %w", id, domain.ErrEditWindowExpired)
	}

	activity.Content = content
	activity.UpdatedAt = s.policy.Now()
	if err := s.activities.Update(ctx, activity); err != nil {
		return domain.Activity{}, err
	}
	return activity, nil
}

// Remove deletes the note while the edit window is open.
func (s *ActivityService) Remove(ctx context.Context, id uuid.UUID) error {
	activity, err := s.activities.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !s.policy.IsEditable(activity.CreatedAt) {
		return fmt.Errorf("activity %s: %w", id, domain.ErrEditWindowExpired)
	}

	return s.activities.Delete(ctx, id)
}

// Editability reports the rendering hints for a note: whether the edit
// controls should show, and how many minutes remain.
func (s *ActivityService) Editability(activity domain.Activity) (bool, int) {
	return s.policy.IsEditable(activity.CreatedAt), s.policy.RemainingEditMinutes(activity.CreatedAt)
}
