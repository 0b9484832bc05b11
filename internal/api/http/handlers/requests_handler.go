package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gearguard/internal/api/dto"
	"github.com/spec-kit/gearguard/internal/auth"
	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/repository"
	"github.com/spec-kit/gearguard/internal/service"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// RequestsHandler manages maintenance request endpoints, including the
// kanban, calendar and stats views.
type RequestsHandler struct {
	service *service.RequestService
	views   *service.ViewService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService, viewService *service.ViewService) *RequestsHandler {
	return &RequestsHandler{service: requestService, views: viewService}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	created, err := h.service.Create(c.UserContext(), principal.User.ID, service.RequestCreateInput{
		Subject:       req.Subject,
		Type:          req.Type,
		Description:   req.Description,
		Priority:      req.Priority,
		EquipmentID:   req.EquipmentID,
		TeamID:        req.TeamID,
		AssignedToID:  req.AssignedToID,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewRequestResponse(created)})
}

// ListRequests GET /requests with optional status, type, team_id and
// assigned_to filters.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	filter := repository.RequestFilter{}
	if status := c.Query("status"); status != "" {
		s := domain.RequestStatus(status)
		if !s.Valid() {
			return apperrors.NewValidationError("invalid status filter", map[string]any{"status": status})
		}
		filter.Status = &s
	}
	if reqType := c.Query("type"); reqType != "" {
		t := domain.RequestType(reqType)
		if !t.Valid() {
			return apperrors.NewValidationError("invalid type filter", map[string]any{"type": reqType})
		}
		filter.Type = &t
	}
	if teamID := c.Query("team_id"); teamID != "" {
		filter.TeamID = &teamID
	}
	if assignedTo := c.Query("assigned_to"); assignedTo != "" {
		filter.AssignedToID = &assignedTo
	}

	cards, err := h.service.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestCardResponses(cards)})
}

// Kanban GET /requests/kanban groups requests into status columns,
// optionally for one team.
func (h *RequestsHandler) Kanban(c *fiber.Ctx) error {
	var teamID *string
	if id := c.Query("team_id"); id != "" {
		teamID = &id
	}
	board, err := h.views.Kanban(c.UserContext(), teamID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewKanbanResponse(board)})
}

// Calendar GET /requests/calendar?start=...&end=... returns scheduled
// requests inside the inclusive window.
func (h *RequestsHandler) Calendar(c *fiber.Ctx) error {
	start, err := parseDate(c.Query("start"))
	if err != nil {
		return apperrors.NewValidationError("invalid start date", nil)
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		return apperrors.NewValidationError("invalid end date", nil)
	}

	events, err := h.views.Calendar(c.UserContext(), start, end)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCalendarEventResponses(events)})
}

// TeamStats GET /requests/stats tallies every team's requests by status.
func (h *RequestsHandler) TeamStats(c *fiber.Ctx) error {
	stats, err := h.views.TeamStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTeamStatsResponses(stats)})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	card, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestCardResponse(card)})
}

// UpdateRequest PATCH /requests/:id patches non-status fields.
func (h *RequestsHandler) UpdateRequest(c *fiber.Ctx) error {
	var req dto.UpdateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	updated, err := h.service.Update(c.UserContext(), c.Params("id"), service.RequestUpdateInput{
		Subject:       req.Subject,
		Type:          req.Type,
		Description:   req.Description,
		Priority:      req.Priority,
		EquipmentID:   req.EquipmentID,
		TeamID:        req.TeamID,
		AssignedToID:  req.AssignedToID,
		ScheduledDate: req.ScheduledDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// SetStatus PATCH /requests/:id/status is the board drag-and-drop entry
// point.
func (h *RequestsHandler) SetStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.SetStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	updated, err := h.service.SetStatus(c.UserContext(), principal.User, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// Assign POST /requests/:id/assign sets the assignee and moves the
// request into progress.
func (h *RequestsHandler) Assign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	updated, err := h.service.Assign(c.UserContext(), principal.User, c.Params("id"), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// Complete POST /requests/:id/complete records the repair outcome.
func (h *RequestsHandler) Complete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	var req dto.CompleteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	updated, err := h.service.Complete(c.UserContext(), principal.User.ID, c.Params("id"), *req.DurationHours)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// Scrap POST /requests/:id/scrap transitions the request to scrap and
// cascades to its equipment.
func (h *RequestsHandler) Scrap(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("not authenticated")
	}
	updated, err := h.service.Scrap(c.UserContext(), principal.User.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestResponse(updated)})
}

// DeleteRequest DELETE /requests/:id.
func (h *RequestsHandler) DeleteRequest(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseDate(val string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", val)
}
