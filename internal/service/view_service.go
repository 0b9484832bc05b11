package service

import (
	"context"
	"time"

	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/repository"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// ViewService computes read-only projections over the request set. Every
// view is derived from a live query; nothing is cached or counted
// incrementally.
type ViewService struct {
	requests repository.RequestRepository
}

// KanbanBoard groups requests into the four status columns. Each request
// lands in exactly one column.
type KanbanBoard struct {
	New        []domain.RequestCard
	InProgress []domain.RequestCard
	Repaired   []domain.RequestCard
	Scrap      []domain.RequestCard
}

// CalendarEvent is a scheduled request shaped for calendar rendering; the
// type drives two-color display (preventive vs corrective).
type CalendarEvent struct {
	RequestID     string
	Title         string
	Date          time.Time
	Type          domain.RequestType
	Status        domain.RequestStatus
	EquipmentName *string
	TeamName      *string
}

// NewViewService constructs the service.
func NewViewService(requests repository.RequestRepository) *ViewService {
	return &ViewService{requests: requests}
}

// Kanban buckets all requests (optionally one team's) by status, ordered
// by creation time ascending within each column.
func (s *ViewService) Kanban(ctx context.Context, teamID *string) (*KanbanBoard, error) {
	cards, err := s.requests.ListForBoard(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	board := &KanbanBoard{
		New:        []domain.RequestCard{},
		InProgress: []domain.RequestCard{},
		Repaired:   []domain.RequestCard{},
		Scrap:      []domain.RequestCard{},
	}
	for _, card := range cards {
		switch card.Status {
		case domain.StatusNew:
			board.New = append(board.New, card)
		case domain.StatusInProgress:
			board.InProgress = append(board.InProgress, card)
		case domain.StatusRepaired:
			board.Repaired = append(board.Repaired, card)
		case domain.StatusScrap:
			board.Scrap = append(board.Scrap, card)
		}
	}
	return board, nil
}

// Calendar returns scheduled requests inside the inclusive [start, end]
// window, ascending by date. Requests without a scheduled date never appear.
func (s *ViewService) Calendar(ctx context.Context, start, end time.Time) ([]CalendarEvent, error) {
	if start.IsZero() || end.IsZero() {
		return nil, apperrors.NewValidationError("start and end dates required", nil)
	}
	if end.Before(start) {
		return nil, apperrors.NewValidationError("end must not be before start", nil)
	}

	cards, err := s.requests.ListScheduled(ctx, start, end)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	result := make([]CalendarEvent, 0, len(cards))
	for _, card := range cards {
		if card.ScheduledDate == nil {
			continue
		}
		result = append(result, CalendarEvent{
			RequestID:     card.ID,
			Title:         card.Subject,
			Date:          *card.ScheduledDate,
			Type:          card.Type,
			Status:        card.Status,
			EquipmentName: card.EquipmentName,
			TeamName:      card.TeamName,
		})
	}
	return result, nil
}

// TeamStats tallies every team's requests by status.
func (s *ViewService) TeamStats(ctx context.Context) ([]domain.TeamRequestStats, error) {
	stats, err := s.requests.StatsByTeam(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}

// ActiveRequestCount returns the live count of unresolved requests for
// one equipment id.
func (s *ViewService) ActiveRequestCount(ctx context.Context, equipmentID string) (int, error) {
	count, err := s.requests.CountActiveByEquipment(ctx, equipmentID)
	if err != nil {
		return 0, apperrors.MapError(err)
	}
	return count, nil
}

// RequestsForEquipment lists one asset's requests, optionally restricted
// to the active statuses.
func (s *ViewService) RequestsForEquipment(ctx context.Context, equipmentID string, activeOnly bool) ([]domain.RequestCard, error) {
	cards, err := s.requests.ListByEquipment(ctx, equipmentID, activeOnly)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cards, nil
}
