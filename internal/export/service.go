// Package export renders an entity's unified timeline as an XLSX
// workbook for download.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/helioscrm/pipeline/internal/domain"
	"github.com/helioscrm/pipeline/internal/service"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const timelineSheet = "Timeline"

// Service builds timeline workbooks.
type Service struct {
	timeline *service.TimelineService
}

// NewService wires the exporter onto the timeline reader.
func NewService(timeline *service.TimelineService) *Service {
	return &Service{timeline: timeline}
}

// WriteTimeline fetches the full merged timeline for the entity and
// writes it as an XLSX workbook. The export is never paginated; the audit
// trail is exported whole.
func (s *Service) WriteTimeline(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, w io.Writer) error {
	timeline, err := s.timeline.ForEntity(ctx, entityType, entityID, service.TimelineQuery{Limit: -1})
	if err != nil {
		return fmt.Errorf("failed to load timeline for export: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", timelineSheet); err != nil {
		return fmt.Errorf("failed to prepare workbook: %w", err)
	}

	header := []any{"Timestamp", "Kind", "Actor", "Summary"}
	if err := f.SetSheetRow(timelineSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, item := range timeline.Items {
		row := []any{
			item.Timestamp.Format(time.RFC3339),
			string(item.Kind),
			actorLabel(item),
			summarize(item),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(timelineSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write timeline row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func actorLabel(item domain.UnifiedHistoryItem) string {
	var actor *uuid.UUID
	switch item.Kind {
	case domain.TimelineItemActivity:
		actor = item.Activity.AuthorID
	case domain.TimelineItemStatusChange:
		actor = item.StatusChange.ActorID
	case domain.TimelineItemHistory:
		actor = item.History.ActorID
	}
	if actor == nil {
		return "system"
	}
	return actor.String()
}

func summarize(item domain.UnifiedHistoryItem) string {
	switch item.Kind {
	case domain.TimelineItemActivity:
		return item.Activity.Content
	case domain.TimelineItemStatusChange:
		change := item.StatusChange
		previous := "(none)"
		if change.PreviousStatus != nil {
			previous = *change.PreviousStatus
		}
		summary := fmt.Sprintf("status: %s -> %s", previous, change.NewStatus)
		if change.Comment != nil && *change.Comment != "" {
			summary += " (" + *change.Comment + ")"
		}
		return summary
	case domain.TimelineItemHistory:
		entry := item.History
		if entry.Action != domain.HistoryActionUpdated {
			return string(entry.Action)
		}
		parts := make([]string, 0, len(entry.Changes))
		for field, change := range entry.Changes {
			parts = append(parts, fmt.Sprintf("%s: %s -> %s",
				field,
				domain.MarshalJSONValue(change.Old),
				domain.MarshalJSONValue(change.New),
			))
		}
		return "updated " + strings.Join(parts, ", ")
	}
	return ""
}
