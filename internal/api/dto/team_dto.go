package dto

import (
	"time"

	"github.com/spec-kit/gearguard/internal/domain"
)

// CreateTeamRequest payload.
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required"`
}

// UpdateTeamRequest payload.
type UpdateTeamRequest struct {
	Name string `json:"name" validate:"required"`
}

// TeamMemberRequest payload for add/remove membership.
type TeamMemberRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// TeamResponse is the public shape of a team.
type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount *int      `json:"member_count,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTeamResponse maps a domain team.
func NewTeamResponse(team *domain.MaintenanceTeam) TeamResponse {
	return TeamResponse{
		ID:        team.ID,
		Name:      team.Name,
		CreatedAt: team.CreatedAt,
		UpdatedAt: team.UpdatedAt,
	}
}

// NewTeamSummaryResponse maps a team with its member count.
func NewTeamSummaryResponse(summary *domain.TeamSummary) TeamResponse {
	resp := NewTeamResponse(&summary.MaintenanceTeam)
	count := summary.MemberCount
	resp.MemberCount = &count
	return resp
}
