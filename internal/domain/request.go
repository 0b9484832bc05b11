package domain

import "time"

// RequestStatus enumerates lifecycle states for maintenance requests.
type RequestStatus string

const (
	StatusNew        RequestStatus = "new"
	StatusInProgress RequestStatus = "in_progress"
	StatusRepaired   RequestStatus = "repaired"
	StatusScrap      RequestStatus = "scrap"
)

// Valid reports whether the status is one of the known values.
func (s RequestStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusRepaired, StatusScrap:
		return true
	}
	return false
}

// Active reports whether the request still needs work.
func (s RequestStatus) Active() bool {
	return s == StatusNew || s == StatusInProgress
}

// RequestType distinguishes breakdown repairs from planned maintenance.
type RequestType string

const (
	TypeCorrective RequestType = "corrective"
	TypePreventive RequestType = "preventive"
)

// Valid reports whether the type is one of the known values.
func (t RequestType) Valid() bool {
	return t == TypeCorrective || t == TypePreventive
}

// RequestPriority enumerates urgency levels.
type RequestPriority string

const (
	PriorityLow    RequestPriority = "low"
	PriorityMedium RequestPriority = "medium"
	PriorityHigh   RequestPriority = "high"
	PriorityUrgent RequestPriority = "urgent"
)

// Valid reports whether the priority is one of the known values.
func (p RequestPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// MaintenanceRequest is the workflow aggregate. DurationHours and
// CompletedAt are populated only by completion.
type MaintenanceRequest struct {
	ID            string
	Subject       string
	Type          RequestType
	Description   *string
	Priority      RequestPriority
	Status        RequestStatus
	EquipmentID   *string
	TeamID        *string
	AssignedToID  *string
	CreatedByID   *string
	ScheduledDate *time.Time
	DurationHours *float64
	CompletedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// RequestCard decorates a request with display fields resolved from its
// references, for board, calendar and list rendering.
type RequestCard struct {
	MaintenanceRequest
	EquipmentName  *string
	SerialNumber   *string
	TeamName       *string
	AssigneeName   *string
	AssigneeAvatar *string
	CreatedByName  *string
}

// TeamRequestStats tallies one team's requests by status.
type TeamRequestStats struct {
	TeamID     string
	TeamName   string
	Total      int
	New        int
	InProgress int
	Repaired   int
	Scrap      int
}
