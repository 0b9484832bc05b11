package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/gearguard/internal/domain"
	"github.com/spec-kit/gearguard/internal/repository"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// TeamService manages maintenance teams and membership.
type TeamService struct {
	teams repository.TeamRepository
	users repository.UserRepository
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository, users repository.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// Create registers a team.
func (s *TeamService) Create(ctx context.Context, name string) (*domain.MaintenanceTeam, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	team := &domain.MaintenanceTeam{Name: name}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// Get returns one team.
func (s *TeamService) Get(ctx context.Context, id string) (*domain.MaintenanceTeam, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("team", map[string]any{"team_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// List returns all teams with member counts.
func (s *TeamService) List(ctx context.Context) ([]domain.TeamSummary, error) {
	teams, err := s.teams.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return teams, nil
}

// Update renames a team.
func (s *TeamService) Update(ctx context.Context, id, name string) (*domain.MaintenanceTeam, error) {
	team, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name != "" {
		team.Name = name
	}
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, apperrors.MapError(err)
	}
	return team, nil
}

// Delete removes the team permanently.
func (s *TeamService) Delete(ctx context.Context, id string) error {
	if err := s.teams.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("team", map[string]any{"team_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// AddMember adds a user to the team. Adding an existing member is a
// benign no-op.
func (s *TeamService) AddMember(ctx context.Context, teamID, userID string) error {
	if _, err := s.Get(ctx, teamID); err != nil {
		return err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return apperrors.MapError(err)
	}
	if err := s.teams.AddMember(ctx, teamID, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// RemoveMember removes a user from the team. Removing a non-member is a
// benign no-op.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	if err := s.teams.RemoveMember(ctx, teamID, userID); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// Members lists the team's users.
func (s *TeamService) Members(ctx context.Context, teamID string) ([]domain.User, error) {
	members, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return members, nil
}
