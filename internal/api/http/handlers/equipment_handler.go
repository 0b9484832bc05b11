package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/gearguard/internal/api/dto"
	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/service"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// EquipmentHandler manages asset registry endpoints.
type EquipmentHandler struct {
	service *service.EquipmentService
	views   *service.ViewService
}

// NewEquipmentHandler constructs handler.
func NewEquipmentHandler(equipmentService *service.EquipmentService, viewService *service.ViewService) *EquipmentHandler {
	return &EquipmentHandler{service: equipmentService, views: viewService}
}

// CreateEquipment POST /equipment.
func (h *EquipmentHandler) CreateEquipment(c *fiber.Ctx) error {
	var req dto.CreateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	eq, err := h.service.Create(c.UserContext(), service.EquipmentInput{
		Name:                req.Name,
		SerialNumber:        req.SerialNumber,
		Department:          req.Department,
		OwnerEmployee:       req.OwnerEmployee,
		Location:            req.Location,
		PurchaseDate:        req.PurchaseDate,
		WarrantyExpiry:      req.WarrantyExpiry,
		MaintenanceTeamID:   req.MaintenanceTeamID,
		DefaultTechnicianID: req.DefaultTechnicianID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEquipmentResponse(eq)})
}

// ListEquipment GET /equipment. Scrapped assets are hidden unless
// include_scrap=true.
func (h *EquipmentHandler) ListEquipment(c *fiber.Ctx) error {
	includeScrap, _ := strconv.ParseBool(c.Query("include_scrap"))
	items, err := h.service.List(c.UserContext(), includeScrap)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponses(items)})
}

// SearchEquipment GET /equipment/search?q=...
func (h *EquipmentHandler) SearchEquipment(c *fiber.Ctx) error {
	items, err := h.service.Search(c.UserContext(), c.Query("q"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponses(items)})
}

// WarrantyExpiring GET /equipment/warranty-expiring?days=30.
func (h *EquipmentHandler) WarrantyExpiring(c *fiber.Ctx) error {
	days, _ := strconv.Atoi(c.Query("days"))
	items, err := h.service.WarrantyExpiring(c.UserContext(), days)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponses(items)})
}

// GetEquipment GET /equipment/:id. The response carries the live count of
// unresolved requests for the smart-button style display.
func (h *EquipmentHandler) GetEquipment(c *fiber.Ctx) error {
	id := c.Params("id")
	eq, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	activeCount, err := h.views.ActiveRequestCount(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":                 dto.NewEquipmentSummaryResponse(eq),
		"active_request_count": activeCount,
	})
}

// ListTeamEquipment GET /teams/:id/equipment.
func (h *EquipmentHandler) ListTeamEquipment(c *fiber.Ctx) error {
	items, err := h.service.ListByTeam(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": equipmentResponses(items)})
}

// CountEquipmentRequests GET /equipment/:id/requests/count.
func (h *EquipmentHandler) CountEquipmentRequests(c *fiber.Ctx) error {
	count, err := h.views.ActiveRequestCount(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}

// ListEquipmentRequests GET /equipment/:id/requests.
func (h *EquipmentHandler) ListEquipmentRequests(c *fiber.Ctx) error {
	activeOnly, _ := strconv.ParseBool(c.Query("active_only"))
	cards, err := h.views.RequestsForEquipment(c.UserContext(), c.Params("id"), activeOnly)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRequestCardResponses(cards)})
}

// UpdateEquipment PATCH /equipment/:id.
func (h *EquipmentHandler) UpdateEquipment(c *fiber.Ctx) error {
	var req dto.UpdateEquipmentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	eq, err := h.service.Update(c.UserContext(), c.Params("id"), service.EquipmentUpdateInput{
		Name:                req.Name,
		SerialNumber:        req.SerialNumber,
		Department:          req.Department,
		OwnerEmployee:       req.OwnerEmployee,
		Location:            req.Location,
		PurchaseDate:        req.PurchaseDate,
		WarrantyExpiry:      req.WarrantyExpiry,
		MaintenanceTeamID:   req.MaintenanceTeamID,
		DefaultTechnicianID: req.DefaultTechnicianID,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEquipmentResponse(eq)})
}

// ScrapEquipment POST /equipment/:id/scrap. Retires the asset directly
// without touching any request.
func (h *EquipmentHandler) ScrapEquipment(c *fiber.Ctx) error {
	if err := h.service.Scrap(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteEquipment DELETE /equipment/:id.
func (h *EquipmentHandler) DeleteEquipment(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func equipmentResponses(items []domain.EquipmentSummary) []dto.EquipmentResponse {
	resp := make([]dto.EquipmentResponse, 0, len(items))
	for i := range items {
		resp = append(resp, dto.NewEquipmentSummaryResponse(&items[i]))
	}
	return resp
}
