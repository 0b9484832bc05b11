package dto

import (
	"time"

	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/service"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	Subject       string                 `json:"subject" validate:"required"`
	Type          domain.RequestType     `json:"type" validate:"required"`
	Description   *string                `json:"description"`
	Priority      domain.RequestPriority `json:"priority"`
	EquipmentID   string                 `json:"equipment_id" validate:"required"`
	TeamID        *string                `json:"team_id"`
	AssignedToID  *string                `json:"assigned_to_id"`
	ScheduledDate *time.Time             `json:"scheduled_date"`
}

// UpdateRequestRequest patches non-status fields; absent fields stay
// unchanged and an empty string clears a reference.
type UpdateRequestRequest struct {
	Subject       *string                 `json:"subject"`
	Type          *domain.RequestType     `json:"type"`
	Description   *string                 `json:"description"`
	Priority      *domain.RequestPriority `json:"priority"`
	EquipmentID   *string                 `json:"equipment_id"`
	TeamID        *string                 `json:"team_id"`
	AssignedToID  *string                 `json:"assigned_to_id"`
	ScheduledDate *time.Time              `json:"scheduled_date"`
}

// SetStatusRequest payload for board drag-and-drop.
type SetStatusRequest struct {
	Status domain.RequestStatus `json:"status" validate:"required"`
}

// AssignRequest payload.
type AssignRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// CompleteRequest payload. DurationHours is a pointer so an absent field
// is distinguishable from an explicit zero, which is a legal duration.
type CompleteRequest struct {
	DurationHours *float64 `json:"duration_hours" validate:"required,min=0"`
}

// RequestResponse is the public shape of a maintenance request, including
// joined display fields when they were loaded.
type RequestResponse struct {
	ID             string                 `json:"id"`
	Subject        string                 `json:"subject"`
	Type           domain.RequestType     `json:"type"`
	Description    *string                `json:"description"`
	Priority       domain.RequestPriority `json:"priority"`
	Status         domain.RequestStatus   `json:"status"`
	EquipmentID    *string                `json:"equipment_id"`
	TeamID         *string                `json:"team_id"`
	AssignedToID   *string                `json:"assigned_to_id"`
	CreatedByID    *string                `json:"created_by_id"`
	ScheduledDate  *time.Time             `json:"scheduled_date"`
	DurationHours  *float64               `json:"duration_hours"`
	CompletedAt    *time.Time             `json:"completed_at"`
	EquipmentName  *string                `json:"equipment_name,omitempty"`
	SerialNumber   *string                `json:"serial_number,omitempty"`
	TeamName       *string                `json:"team_name,omitempty"`
	AssigneeName   *string                `json:"assignee_name,omitempty"`
	AssigneeAvatar *string                `json:"assignee_avatar,omitempty"`
	CreatedByName  *string                `json:"created_by_name,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// KanbanResponse groups request cards into the four status columns.
type KanbanResponse struct {
	New        []RequestResponse `json:"new"`
	InProgress []RequestResponse `json:"in_progress"`
	Repaired   []RequestResponse `json:"repaired"`
	Scrap      []RequestResponse `json:"scrap"`
}

// CalendarEventResponse is a scheduled request shaped for calendar display.
type CalendarEventResponse struct {
	RequestID     string               `json:"request_id"`
	Title         string               `json:"title"`
	Date          time.Time            `json:"date"`
	Type          domain.RequestType   `json:"type"`
	Status        domain.RequestStatus `json:"status"`
	EquipmentName *string              `json:"equipment_name,omitempty"`
	TeamName      *string              `json:"team_name,omitempty"`
}

// TeamStatsResponse tallies one team's requests by status.
type TeamStatsResponse struct {
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Total      int    `json:"total"`
	New        int    `json:"new"`
	InProgress int    `json:"in_progress"`
	Repaired   int    `json:"repaired"`
	Scrap      int    `json:"scrap"`
}

// NewRequestResponse maps a bare request.
func NewRequestResponse(req *domain.MaintenanceRequest) RequestResponse {
	return RequestResponse{
		ID:            req.ID,
		Subject:       req.Subject,
		Type:          req.Type,
		Description:   req.Description,
		Priority:      req.Priority,
		Status:        req.Status,
		EquipmentID:   req.EquipmentID,
		TeamID:        req.TeamID,
		AssignedToID:  req.AssignedToID,
		CreatedByID:   req.CreatedByID,
		ScheduledDate: req.ScheduledDate,
		DurationHours: req.DurationHours,
		CompletedAt:   req.CompletedAt,
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
}

// NewRequestCardResponse maps a request with its joined display fields.
func NewRequestCardResponse(card *domain.RequestCard) RequestResponse {
	resp := NewRequestResponse(&card.MaintenanceRequest)
	resp.EquipmentName = card.EquipmentName
	resp.SerialNumber = card.SerialNumber
	resp.TeamName = card.TeamName
	resp.AssigneeName = card.AssigneeName
	resp.AssigneeAvatar = card.AssigneeAvatar
	resp.CreatedByName = card.CreatedByName
	return resp
}

// NewRequestCardResponses maps a slice of cards.
func NewRequestCardResponses(cards []domain.RequestCard) []RequestResponse {
	items := make([]RequestResponse, 0, len(cards))
	for i := range cards {
		items = append(items, NewRequestCardResponse(&cards[i]))
	}
	return items
}

// NewKanbanResponse maps a board.
func NewKanbanResponse(board *service.KanbanBoard) KanbanResponse {
	return KanbanResponse{
		New:        NewRequestCardResponses(board.New),
		InProgress: NewRequestCardResponses(board.InProgress),
		Repaired:   NewRequestCardResponses(board.Repaired),
		Scrap:      NewRequestCardResponses(board.Scrap),
	}
}

// NewCalendarEventResponses maps calendar events.
func NewCalendarEventResponses(events []service.CalendarEvent) []CalendarEventResponse {
	items := make([]CalendarEventResponse, 0, len(events))
	for _, ev := range events {
		items = append(items, CalendarEventResponse{
			RequestID:     ev.RequestID,
			Title:         ev.Title,
			Date:          ev.Date,
			Type:          ev.Type,
			Status:        ev.Status,
			EquipmentName: ev.EquipmentName,
			TeamName:      ev.TeamName,
		})
	}
	return items
}

// NewTeamStatsResponses maps per-team tallies.
func NewTeamStatsResponses(stats []domain.TeamRequestStats) []TeamStatsResponse {
	items := make([]TeamStatsResponse, 0, len(stats))
	for _, st := range stats {
		items = append(items, TeamStatsResponse{
			TeamID:     st.TeamID,
			TeamName:   st.TeamName,
			Total:      st.Total,
			New:        st.New,
			InProgress: st.InProgress,
			Repaired:   st.Repaired,
			Scrap:      st.Scrap,
		})
	}
	return items
}
