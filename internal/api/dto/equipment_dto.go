package dto

import (
	"time"

	"github.com/spec-kit/gearguard/internal/domain"
)

// CreateEquipmentRequest payload.
type CreateEquipmentRequest struct {
	Name                string     `json:"name" validate:"required"`
	SerialNumber        string     `json:"serial_number" validate:"required"`
	Department          *string    `json:"department"`
	OwnerEmployee       *string    `json:"owner_employee"`
	Location            *string    `json:"location"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	WarrantyExpiry      *time.Time `json:"warranty_expiry"`
	MaintenanceTeamID   *string    `json:"maintenance_team_id"`
	DefaultTechnicianID *string    `json:"default_technician_id"`
}

// UpdateEquipmentRequest patches fields; absent fields stay unchanged and
// an empty string clears a reference.
type UpdateEquipmentRequest struct {
	Name                *string    `json:"name"`
	SerialNumber        *string    `json:"serial_number"`
	Department          *string    `json:"department"`
	OwnerEmployee       *string    `json:"owner_employee"`
	Location            *string    `json:"location"`
	PurchaseDate        *time.Time `json:"purchase_date"`
	WarrantyExpiry      *time.Time `json:"warranty_expiry"`
	MaintenanceTeamID   *string    `json:"maintenance_team_id"`
	DefaultTechnicianID *string    `json:"default_technician_id"`
}

// EquipmentResponse is the public shape of an asset.
type EquipmentResponse struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	SerialNumber          string     `json:"serial_number"`
	Department            *string    `json:"department"`
	OwnerEmployee         *string    `json:"owner_employee"`
	Location              *string    `json:"location"`
	PurchaseDate          *time.Time `json:"purchase_date"`
	WarrantyExpiry        *time.Time `json:"warranty_expiry"`
	MaintenanceTeamID     *string    `json:"maintenance_team_id"`
	DefaultTechnicianID   *string    `json:"default_technician_id"`
	IsScrapped            bool       `json:"is_scrapped"`
	TeamName              *string    `json:"team_name,omitempty"`
	DefaultTechnicianName *string    `json:"default_technician_name,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// NewEquipmentResponse maps a bare asset.
func NewEquipmentResponse(eq *domain.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:                  eq.ID,
		Name:                eq.Name,
		SerialNumber:        eq.SerialNumber,
		Department:          eq.Department,
		OwnerEmployee:       eq.OwnerEmployee,
		Location:            eq.Location,
		PurchaseDate:        eq.PurchaseDate,
		WarrantyExpiry:      eq.WarrantyExpiry,
		MaintenanceTeamID:   eq.MaintenanceTeamID,
		DefaultTechnicianID: eq.DefaultTechnicianID,
		IsScrapped:          eq.IsScrapped,
		CreatedAt:           eq.CreatedAt,
		UpdatedAt:           eq.UpdatedAt,
	}
}

// NewEquipmentSummaryResponse maps an asset with joined display names.
func NewEquipmentSummaryResponse(summary *domain.EquipmentSummary) EquipmentResponse {
	resp := NewEquipmentResponse(&summary.Equipment)
	resp.TeamName = summary.TeamName
	resp.DefaultTechnicianName = summary.DefaultTechnicianName
	return resp
}
