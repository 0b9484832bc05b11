package domain

import "time"

// Equipment is a tracked physical asset.
type Equipment struct {
	ID                  string
	Name                string
	SerialNumber        string
	Department          *string
	OwnerEmployee       *string
	Location            *string
	PurchaseDate        *time.Time
	WarrantyExpiry      *time.Time
	MaintenanceTeamID   *string
	DefaultTechnicianID *string
	IsScrapped          bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// EquipmentSummary decorates equipment with display names resolved from
// its team and default technician references.
type EquipmentSummary struct {
	Equipment
	TeamName              *string
	DefaultTechnicianName *string
}
