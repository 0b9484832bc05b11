package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gearguard/internal/auth"
	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/events"
	"github.com/spec-kit/gearguard/internal/repository"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// RequestService owns the maintenance request lifecycle: creation, the
// status state machine, the scrap cascade and assignment rules.
type RequestService struct {
	requests   repository.RequestRepository
	equipment  repository.EquipmentRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
}

// RequestDependencies bundles repositories for the request service.
type RequestDependencies struct {
	RequestRepo   repository.RequestRepository
	EquipmentRepo repository.EquipmentRepository
	UserRepo      repository.UserRepository
	Dispatcher    events.Dispatcher
}

// RequestCreateInput describes request creation payload.
type RequestCreateInput struct {
	Subject       string
	Type          domain.RequestType
	Description   *string
	Priority      domain.RequestPriority
	EquipmentID   string
	TeamID        *string
	AssignedToID  *string
	ScheduledDate *time.Time
}

// RequestUpdateInput patches non-status fields. Nil pointers leave the
// field unchanged; a pointer to the empty string clears a reference.
type RequestUpdateInput struct {
	Subject       *string
	Type          *domain.RequestType
	Description   *string
	Priority      *domain.RequestPriority
	EquipmentID   *string
	TeamID        *string
	AssignedToID  *string
	ScheduledDate *time.Time
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:   deps.RequestRepo,
		equipment:  deps.EquipmentRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Create registers a new request against existing equipment. The team is
// snapshotted from the equipment when not supplied; preventive requests
// must carry a scheduled date.
func (s *RequestService) Create(ctx context.Context, actorID string, input RequestCreateInput) (*domain.MaintenanceRequest, error) {
	subject := strings.TrimSpace(input.Subject)
	if subject == "" {
		return nil, apperrors.NewValidationError("subject required", nil)
	}
	if !input.Type.Valid() {
		return nil, apperrors.NewValidationError("invalid request type", map[string]any{"type": input.Type})
	}
	if input.EquipmentID == "" {
		return nil, apperrors.NewValidationError("equipment_id required", nil)
	}
	if input.Type == domain.TypePreventive && input.ScheduledDate == nil {
		return nil, apperrors.NewValidationError("scheduled date required for preventive maintenance", nil)
	}

	eq, err := s.equipment.GetByID(ctx, input.EquipmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment", map[string]any{"equipment_id": input.EquipmentID})
		}
		return nil, apperrors.MapError(err)
	}

	teamID := input.TeamID
	if teamID == nil {
		teamID = eq.MaintenanceTeamID
	}

	priority := input.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": priority})
	}

	equipmentID := input.EquipmentID
	req := &domain.MaintenanceRequest{
		Subject:       subject,
		Type:          input.Type,
		Description:   input.Description,
		Priority:      priority,
		Status:        domain.StatusNew,
		EquipmentID:   &equipmentID,
		TeamID:        teamID,
		AssignedToID:  input.AssignedToID,
		CreatedByID:   &actorID,
		ScheduledDate: input.ScheduledDate,
	}

	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventRequestCreated,
		RequestID: req.ID,
		ActorID:   actorID,
		Payload: events.RequestCreatedPayload{
			Subject:     req.Subject,
			Type:        req.Type,
			Priority:    req.Priority,
			EquipmentID: req.EquipmentID,
			TeamID:      req.TeamID,
		},
	})
	return req, nil
}

// Get returns one request with denormalized display fields.
func (s *RequestService) Get(ctx context.Context, id string) (*domain.RequestCard, error) {
	card, err := s.requests.GetCard(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return card, nil
}

// List returns requests matching the filter, newest first.
func (s *RequestService) List(ctx context.Context, filter repository.RequestFilter) ([]domain.RequestCard, error) {
	cards, err := s.requests.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return cards, nil
}

// Update patches non-status fields. The preventive/scheduled-date rule is
// checked at creation only.
func (s *RequestService) Update(ctx context.Context, id string, input RequestUpdateInput) (*domain.MaintenanceRequest, error) {
	req, err := s.getRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, apperrors.NewValidationError("subject cannot be empty", nil)
		}
		req.Subject = subject
	}
	if input.Type != nil {
		if !input.Type.Valid() {
			return nil, apperrors.NewValidationError("invalid request type", map[string]any{"type": *input.Type})
		}
		req.Type = *input.Type
	}
	if input.Description != nil {
		req.Description = input.Description
	}
	if input.Priority != nil {
		if !input.Priority.Valid() {
			return nil, apperrors.NewValidationError("invalid priority", map[string]any{"priority": *input.Priority})
		}
		req.Priority = *input.Priority
	}
	if input.EquipmentID != nil {
		req.EquipmentID = optionalRef(*input.EquipmentID)
	}
	if input.TeamID != nil {
		req.TeamID = optionalRef(*input.TeamID)
	}
	if input.AssignedToID != nil {
		req.AssignedToID = optionalRef(*input.AssignedToID)
	}
	if input.ScheduledDate != nil {
		req.ScheduledDate = input.ScheduledDate
	}

	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

// Assign sets the assignee and forces the request into in_progress
// regardless of its prior status. Technicians may only assign to
// themselves; the check compares the actor to the proposed assignee.
func (s *RequestService) Assign(ctx context.Context, actor *domain.User, requestID, assigneeID string) (*domain.MaintenanceRequest, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	if actor.Role == domain.RoleTechnician && assigneeID != actor.ID {
		return nil, apperrors.NewForbidden("technicians can only assign requests to themselves")
	}

	if _, err := s.users.GetByID(ctx, assigneeID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	req.AssignedToID = &assigneeID
	oldStatus := req.Status
	req.Status = domain.StatusInProgress
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventRequestAssigned,
		RequestID: req.ID,
		ActorID:   actor.ID,
		Payload:   events.RequestAssignedPayload{AssignedToID: assigneeID},
	})
	if oldStatus != req.Status {
		s.publishStatusChange(ctx, actor.ID, req.ID, oldStatus, req.Status)
	}
	return req, nil
}

// Complete records the repair outcome: duration, completion timestamp and
// the repaired status. Callable from any state, matching the source system.
func (s *RequestService) Complete(ctx context.Context, actorID, requestID string, durationHours float64) (*domain.MaintenanceRequest, error) {
	if durationHours < 0 {
		return nil, apperrors.NewValidationError("duration_hours must be non-negative", map[string]any{"duration_hours": durationHours})
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	oldStatus := req.Status
	req.Status = domain.StatusRepaired
	req.DurationHours = &durationHours
	req.CompletedAt = &now
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventRequestCompleted,
		RequestID: req.ID,
		ActorID:   actorID,
		Payload:   events.RequestCompletedPayload{DurationHours: durationHours},
	})
	if oldStatus != req.Status {
		s.publishStatusChange(ctx, actorID, req.ID, oldStatus, req.Status)
	}
	return req, nil
}

// Scrap transitions the request to scrap and cascades the scrapped flag to
// its equipment as one unit of work.
func (s *RequestService) Scrap(ctx context.Context, actorID, requestID string) (*domain.MaintenanceRequest, error) {
	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return s.scrapRequest(ctx, actorID, req)
}

// SetStatus is the board drag-and-drop entry point. It dispatches through
// the same transition paths as the explicit actions: dragging a card to
// scrap cascades to the equipment exactly like Scrap does, so the actor
// needs the scrap capability for that target even though the route itself
// only requires update rights. Dragging to repaired does not fabricate
// completion metadata, since no duration is known; DurationHours and
// CompletedAt stay unset until Complete.
func (s *RequestService) SetStatus(ctx context.Context, actor *domain.User, requestID string, status domain.RequestStatus) (*domain.MaintenanceRequest, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("not authenticated")
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": status})
	}

	req, err := s.getRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == status {
		return req, nil
	}

	if status == domain.StatusScrap {
		if !auth.Allowed(actor.Role, auth.ActionScrapRequest) {
			return nil, apperrors.NewForbidden("insufficient permissions to scrap a request")
		}
		return s.scrapRequest(ctx, actor.ID, req)
	}

	oldStatus := req.Status
	req.Status = status
	if err := s.requests.Update(ctx, req); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, actor.ID, req.ID, oldStatus, status)
	return req, nil
}

// Delete removes the request permanently.
func (s *RequestService) Delete(ctx context.Context, id string) error {
	if err := s.requests.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("request", map[string]any{"request_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *RequestService) scrapRequest(ctx context.Context, actorID string, req *domain.MaintenanceRequest) (*domain.MaintenanceRequest, error) {
	oldStatus := req.Status
	scrapped, err := s.requests.MarkScrap(ctx, req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": req.ID})
		}
		return nil, apperrors.MapError(err)
	}
	s.publishStatusChange(ctx, actorID, scrapped.ID, oldStatus, scrapped.Status)
	if scrapped.EquipmentID != nil {
		s.publish(ctx, events.Event{
			Type:      events.EventEquipmentScrapped,
			RequestID: scrapped.ID,
			ActorID:   actorID,
			Payload:   events.EquipmentScrappedPayload{EquipmentID: *scrapped.EquipmentID},
		})
	}
	return scrapped, nil
}

func (s *RequestService) getRequest(ctx context.Context, id string) (*domain.MaintenanceRequest, error) {
	req, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("request", map[string]any{"request_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

func (s *RequestService) publishStatusChange(ctx context.Context, actorID, requestID string, oldStatus, newStatus domain.RequestStatus) {
	s.publish(ctx, events.Event{
		Type:      events.EventRequestStatusChanged,
		RequestID: requestID,
		ActorID:   actorID,
		Payload: events.StatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: newStatus,
		},
	})
}

func (s *RequestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func optionalRef(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
