package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gearguard/internal/domain"
)

// TeamRepository manages persistence for maintenance teams and membership.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.MaintenanceTeam) error
	Update(ctx context.Context, team *domain.MaintenanceTeam) error
	GetByID(ctx context.Context, id string) (*domain.MaintenanceTeam, error)
	List(ctx context.Context) ([]domain.TeamSummary, error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, teamID, userID string) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMembers(ctx context.Context, teamID string) ([]domain.User, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.MaintenanceTeam) error {
	const query = `
        INSERT INTO maintenance_teams (name)
        VALUES ($1)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query, team.Name).
		Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.MaintenanceTeam) error {
	const query = `
        UPDATE maintenance_teams SET name=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, team.Name, team.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceTeam, error) {
	const query = `
        SELECT id, name, created_at, updated_at
        FROM maintenance_teams WHERE id=$1`
	var team domain.MaintenanceTeam
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) List(ctx context.Context) ([]domain.TeamSummary, error) {
	const query = `
        SELECT t.id, t.name, t.created_at, t.updated_at, COUNT(m.user_id)
        FROM maintenance_teams t
        LEFT JOIN team_members m ON m.team_id = t.id
        GROUP BY t.id
        ORDER BY t.name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamSummary
	for rows.Next() {
		var team domain.TeamSummary
		if err := rows.Scan(&team.ID, &team.Name, &team.CreatedAt, &team.UpdatedAt, &team.MemberCount); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM maintenance_teams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// AddMember tolerates duplicate membership as a benign no-op.
func (r *teamRepository) AddMember(ctx context.Context, teamID, userID string) error {
	const query = `
        INSERT INTO team_members (team_id, user_id)
        VALUES ($1, $2)
        ON CONFLICT (team_id, user_id) DO NOTHING`
	_, err := r.pool.Exec(ctx, query, teamID, userID)
	return err
}

// RemoveMember tolerates missing membership as a benign no-op.
func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM team_members WHERE team_id=$1 AND user_id=$2`, teamID, userID)
	return err
}

func (r *teamRepository) ListMembers(ctx context.Context, teamID string) ([]domain.User, error) {
	const query = `
        SELECT u.id, u.name, u.email, u.password_hash, u.role, u.avatar_url, u.created_at, u.updated_at
        FROM users u
        JOIN team_members m ON m.user_id = u.id
        WHERE m.team_id=$1
        ORDER BY u.name ASC`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}
