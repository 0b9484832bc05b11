package domain

import "time"

// MaintenanceTeam is a named group of users that owns equipment and
// receives requests routed against that equipment.
type MaintenanceTeam struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TeamSummary decorates a team with its member count for list views.
type TeamSummary struct {
	MaintenanceTeam
	MemberCount int
}
