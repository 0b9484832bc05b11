package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/repository"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// EquipmentService manages the asset registry and the warranty watch.
type EquipmentService struct {
	equipment           repository.EquipmentRepository
	defaultWarrantyDays int
}

// EquipmentInput describes creation payload.
type EquipmentInput struct {
	Name                string
	SerialNumber        string
	Department          *string
	OwnerEmployee       *string
	Location            *string
	PurchaseDate        *time.Time
	WarrantyExpiry      *time.Time
	MaintenanceTeamID   *string
	DefaultTechnicianID *string
}

// EquipmentUpdateInput patches fields; nil leaves a field unchanged and a
// pointer to the empty string clears a reference.
type EquipmentUpdateInput struct {
	Name                *string
	SerialNumber        *string
	Department          *string
	OwnerEmployee       *string
	Location            *string
	PurchaseDate        *time.Time
	WarrantyExpiry      *time.Time
	MaintenanceTeamID   *string
	DefaultTechnicianID *string
}

// NewEquipmentService constructs the service.
func NewEquipmentService(equipment repository.EquipmentRepository, defaultWarrantyDays int) *EquipmentService {
	if defaultWarrantyDays <= 0 {
		defaultWarrantyDays = 30
	}
	return &EquipmentService{equipment: equipment, defaultWarrantyDays: defaultWarrantyDays}
}

// Create registers a new asset.
func (s *EquipmentService) Create(ctx context.Context, input EquipmentInput) (*domain.Equipment, error) {
	name := strings.TrimSpace(input.Name)
	serial := strings.TrimSpace(input.SerialNumber)
	if name == "" || serial == "" {
		return nil, apperrors.NewValidationError("name and serial_number required", nil)
	}

	eq := &domain.Equipment{
		Name:                name,
		SerialNumber:        serial,
		Department:          input.Department,
		OwnerEmployee:       input.OwnerEmployee,
		Location:            input.Location,
		PurchaseDate:        input.PurchaseDate,
		WarrantyExpiry:      input.WarrantyExpiry,
		MaintenanceTeamID:   input.MaintenanceTeamID,
		DefaultTechnicianID: input.DefaultTechnicianID,
	}
	if err := s.equipment.Create(ctx, eq); err != nil {
		return nil, apperrors.MapError(err)
	}
	return eq, nil
}

// Get returns one asset with display names.
func (s *EquipmentService) Get(ctx context.Context, id string) (*domain.EquipmentSummary, error) {
	eq, err := s.equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("equipment", map[string]any{"equipment_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return eq, nil
}

// List returns assets, excluding scrapped ones unless asked.
func (s *EquipmentService) List(ctx context.Context, includeScrap bool) ([]domain.EquipmentSummary, error) {
	result, err := s.equipment.List(ctx, includeScrap)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// ListByTeam returns the non-scrapped assets assigned to a maintenance team.
func (s *EquipmentService) ListByTeam(ctx context.Context, teamID string) ([]domain.EquipmentSummary, error) {
	result, err := s.equipment.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Search matches non-scrapped assets on name, serial, department or location.
func (s *EquipmentService) Search(ctx context.Context, term string) ([]domain.EquipmentSummary, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationError("search query required", nil)
	}
	result, err := s.equipment.Search(ctx, term)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// WarrantyExpiring returns non-scrapped assets whose warranty expires
// within the given horizon in days, ascending by expiry. A non-positive
// horizon falls back to the configured default.
func (s *EquipmentService) WarrantyExpiring(ctx context.Context, days int) ([]domain.EquipmentSummary, error) {
	if days <= 0 {
		days = s.defaultWarrantyDays
	}
	now := time.Now()
	result, err := s.equipment.ListWarrantyExpiring(ctx, now, now.AddDate(0, 0, days))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return result, nil
}

// Update patches asset fields.
func (s *EquipmentService) Update(ctx context.Context, id string, input EquipmentUpdateInput) (*domain.Equipment, error) {
	summary, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	eq := summary.Equipment

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty", nil)
		}
		eq.Name = name
	}
	if input.SerialNumber != nil {
		serial := strings.TrimSpace(*input.SerialNumber)
		if serial == "" {
			return nil, apperrors.NewValidationError("serial_number cannot be empty", nil)
		}
		eq.SerialNumber = serial
	}
	if input.Department != nil {
		eq.Department = input.Department
	}
	if input.OwnerEmployee != nil {
		eq.OwnerEmployee = input.OwnerEmployee
	}
	if input.Location != nil {
		eq.Location = input.Location
	}
	if input.PurchaseDate != nil {
		eq.PurchaseDate = input.PurchaseDate
	}
	if input.WarrantyExpiry != nil {
		eq.WarrantyExpiry = input.WarrantyExpiry
	}
	if input.MaintenanceTeamID != nil {
		eq.MaintenanceTeamID = optionalRef(*input.MaintenanceTeamID)
	}
	if input.DefaultTechnicianID != nil {
		eq.DefaultTechnicianID = optionalRef(*input.DefaultTechnicianID)
	}

	if err := s.equipment.Update(ctx, &eq); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &eq, nil
}

// Scrap retires the asset directly, without touching any request.
func (s *EquipmentService) Scrap(ctx context.Context, id string) error {
	if err := s.equipment.SetScrapped(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("equipment", map[string]any{"equipment_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// Delete removes the asset permanently.
func (s *EquipmentService) Delete(ctx context.Context, id string) error {
	if err := s.equipment.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("equipment", map[string]any{"equipment_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}
