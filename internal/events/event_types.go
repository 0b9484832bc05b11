package events

import (
	"time"

	"github.com/spec-kit/gearguard/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestCreated       EventType = "request_created"
	EventRequestStatusChanged EventType = "request_status_changed"
	EventRequestAssigned      EventType = "request_assigned"
	EventRequestCompleted     EventType = "request_completed"
	EventEquipmentScrapped    EventType = "equipment_scrapped"
)

// AllTypes lists every event type, for relay subscription.
var AllTypes = []EventType{
	EventRequestCreated,
	EventRequestStatusChanged,
	EventRequestAssigned,
	EventRequestCompleted,
	EventEquipmentScrapped,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id,omitempty"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestCreatedPayload payload.
type RequestCreatedPayload struct {
	Subject     string                 `json:"subject"`
	Type        domain.RequestType     `json:"request_type"`
	Priority    domain.RequestPriority `json:"priority"`
	EquipmentID *string                `json:"equipment_id,omitempty"`
	TeamID      *string                `json:"team_id,omitempty"`
}

// StatusChangedPayload payload.
type StatusChangedPayload struct {
	OldStatus domain.RequestStatus `json:"old_status"`
	NewStatus domain.RequestStatus `json:"new_status"`
}

// RequestAssignedPayload payload.
type RequestAssignedPayload struct {
	AssignedToID string `json:"assigned_to_id"`
}

// RequestCompletedPayload payload.
type RequestCompletedPayload struct {
	DurationHours float64 `json:"duration_hours"`
}

// EquipmentScrappedPayload payload.
type EquipmentScrappedPayload struct {
	EquipmentID string `json:"equipment_id"`
}
