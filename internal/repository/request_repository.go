package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gearguard/internal/domain"
	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

// RequestFilter captures listing parameters.
type RequestFilter struct {
	Status       *domain.RequestStatus
	Type         *domain.RequestType
	TeamID       *string
	AssignedToID *string
}

// RequestRepository encapsulates maintenance request persistence,
// including the aggregate queries backing the read views and the
// transactional scrap cascade.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.MaintenanceRequest) error
	Update(ctx context.Context, req *domain.MaintenanceRequest) error
	GetByID(ctx context.Context, id string) (*domain.MaintenanceRequest, error)
	GetCard(ctx context.Context, id string) (*domain.RequestCard, error)
	List(ctx context.Context, filter RequestFilter) ([]domain.RequestCard, error)
	ListForBoard(ctx context.Context, teamID *string) ([]domain.RequestCard, error)
	ListScheduled(ctx context.Context, from, to time.Time) ([]domain.RequestCard, error)
	ListByEquipment(ctx context.Context, equipmentID string, activeOnly bool) ([]domain.RequestCard, error)
	CountActiveByEquipment(ctx context.Context, equipmentID string) (int, error)
	StatsByTeam(ctx context.Context) ([]domain.TeamRequestStats, error)
	MarkScrap(ctx context.Context, id string) (*domain.MaintenanceRequest, error)
	Delete(ctx context.Context, id string) error
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, subject, type, description, priority, status, equipment_id, team_id,
        assigned_to_id, created_by_id, scheduled_date, duration_hours, completed_at, created_at, updated_at`

var cardColumns = []string{
	"r.id", "r.subject", "r.type", "r.description", "r.priority", "r.status",
	"r.equipment_id", "r.team_id", "r.assigned_to_id", "r.created_by_id",
	"r.scheduled_date", "r.duration_hours", "r.completed_at", "r.created_at", "r.updated_at",
	"e.name AS equipment_name", "e.serial_number", "t.name AS team_name",
	"a.name AS assignee_name", "a.avatar_url AS assignee_avatar", "c.name AS created_by_name",
}

func cardSelect() sq.SelectBuilder {
	return sq.Select(cardColumns...).
		From("maintenance_requests r").
		LeftJoin("equipment e ON e.id = r.equipment_id").
		LeftJoin("maintenance_teams t ON t.id = r.team_id").
		LeftJoin("users a ON a.id = r.assigned_to_id").
		LeftJoin("users c ON c.id = r.created_by_id").
		PlaceholderFormat(sq.Dollar)
}

func (r *requestRepository) Create(ctx context.Context, req *domain.MaintenanceRequest) error {
	const query = `
        INSERT INTO maintenance_requests (subject, type, description, priority, status,
            equipment_id, team_id, assigned_to_id, created_by_id, scheduled_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		req.Subject,
		req.Type,
		req.Description,
		req.Priority,
		req.Status,
		req.EquipmentID,
		req.TeamID,
		req.AssignedToID,
		req.CreatedByID,
		req.ScheduledDate,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, req *domain.MaintenanceRequest) error {
	const query = `
        UPDATE maintenance_requests SET subject=$1, type=$2, description=$3, priority=$4,
            status=$5, equipment_id=$6, team_id=$7, assigned_to_id=$8, scheduled_date=$9,
            duration_hours=$10, completed_at=$11, updated_at=NOW()
        WHERE id=$12`
	cmd, err := r.pool.Exec(ctx, query,
		req.Subject,
		req.Type,
		req.Description,
		req.Priority,
		req.Status,
		req.EquipmentID,
		req.TeamID,
		req.AssignedToID,
		req.ScheduledDate,
		req.DurationHours,
		req.CompletedAt,
		req.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM maintenance_requests WHERE id=$1`
	var req domain.MaintenanceRequest
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&req.ID,
		&req.Subject,
		&req.Type,
		&req.Description,
		&req.Priority,
		&req.Status,
		&req.EquipmentID,
		&req.TeamID,
		&req.AssignedToID,
		&req.CreatedByID,
		&req.ScheduledDate,
		&req.DurationHours,
		&req.CompletedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) GetCard(ctx context.Context, id string) (*domain.RequestCard, error) {
	cards, err := r.queryCards(ctx, cardSelect().Where(sq.Eq{"r.id": id}))
	if err != nil {
		return nil, err
	}
	if len(cards) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &cards[0], nil
}

func (r *requestRepository) List(ctx context.Context, filter RequestFilter) ([]domain.RequestCard, error) {
	builder := cardSelect().OrderBy("r.created_at DESC")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"r.status": *filter.Status})
	}
	if filter.Type != nil {
		builder = builder.Where(sq.Eq{"r.type": *filter.Type})
	}
	if filter.TeamID != nil {
		builder = builder.Where(sq.Eq{"r.team_id": *filter.TeamID})
	}
	if filter.AssignedToID != nil {
		builder = builder.Where(sq.Eq{"r.assigned_to_id": *filter.AssignedToID})
	}
	return r.queryCards(ctx, builder)
}

// ListForBoard returns all requests ordered by status then creation
// time ascending, ready for bucketing into kanban columns.
func (r *requestRepository) ListForBoard(ctx context.Context, teamID *string) ([]domain.RequestCard, error) {
	builder := cardSelect().OrderBy("r.status ASC", "r.created_at ASC")
	if teamID != nil {
		builder = builder.Where(sq.Eq{"r.team_id": *teamID})
	}
	return r.queryCards(ctx, builder)
}

// ListScheduled returns requests whose scheduled date falls inside the
// inclusive [from, to] window. Unscheduled requests are excluded.
func (r *requestRepository) ListScheduled(ctx context.Context, from, to time.Time) ([]domain.RequestCard, error) {
	builder := cardSelect().
		Where(sq.NotEq{"r.scheduled_date": nil}).
		Where(sq.GtOrEq{"r.scheduled_date": from}).
		Where(sq.LtOrEq{"r.scheduled_date": to}).
		OrderBy("r.scheduled_date ASC")
	return r.queryCards(ctx, builder)
}

func (r *requestRepository) ListByEquipment(ctx context.Context, equipmentID string, activeOnly bool) ([]domain.RequestCard, error) {
	builder := cardSelect().
		Where(sq.Eq{"r.equipment_id": equipmentID}).
		OrderBy("r.created_at DESC")
	if activeOnly {
		builder = builder.Where(sq.Eq{"r.status": []domain.RequestStatus{domain.StatusNew, domain.StatusInProgress}})
	}
	return r.queryCards(ctx, builder)
}

// CountActiveByEquipment is always a live query; no stored counter exists.
func (r *requestRepository) CountActiveByEquipment(ctx context.Context, equipmentID string) (int, error) {
	query, args, err := sq.Select("COUNT(*)").
		From("maintenance_requests").
		Where(sq.Eq{"equipment_id": equipmentID}).
		Where(sq.Eq{"status": []domain.RequestStatus{domain.StatusNew, domain.StatusInProgress}}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return 0, err
	}
	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// StatsByTeam tallies every team's requests by status in one grouped query.
func (r *requestRepository) StatsByTeam(ctx context.Context) ([]domain.TeamRequestStats, error) {
	const query = `
        SELECT t.id, t.name,
               COUNT(r.id),
               COUNT(r.id) FILTER (WHERE r.status = 'new'),
               COUNT(r.id) FILTER (WHERE r.status = 'in_progress'),
               COUNT(r.id) FILTER (WHERE r.status = 'repaired'),
               COUNT(r.id) FILTER (WHERE r.status = 'scrap')
        FROM maintenance_teams t
        LEFT JOIN maintenance_requests r ON r.team_id = t.id
        GROUP BY t.id, t.name
        ORDER BY t.name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamRequestStats
	for rows.Next() {
		var stats domain.TeamRequestStats
		if err := rows.Scan(
			&stats.TeamID,
			&stats.TeamName,
			&stats.Total,
			&stats.New,
			&stats.InProgress,
			&stats.Repaired,
			&stats.Scrap,
		); err != nil {
			return nil, err
		}
		result = append(result, stats)
	}
	return result, rows.Err()
}

// MarkScrap moves the request to scrap and flags its equipment as scrapped
// in a single transaction. Both writes land together or neither does; a
// missing equipment row after the status write rolls back and surfaces a
// cascade-incomplete error.
func (r *requestRepository) MarkScrap(ctx context.Context, id string) (*domain.MaintenanceRequest, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const statusQuery = `
        UPDATE maintenance_requests SET status='scrap', updated_at=NOW()
        WHERE id=$1
        RETURNING ` + requestColumns
	var req domain.MaintenanceRequest
	if err := tx.QueryRow(ctx, statusQuery, id).Scan(
		&req.ID,
		&req.Subject,
		&req.Type,
		&req.Description,
		&req.Priority,
		&req.Status,
		&req.EquipmentID,
		&req.TeamID,
		&req.AssignedToID,
		&req.CreatedByID,
		&req.ScheduledDate,
		&req.DurationHours,
		&req.CompletedAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if req.EquipmentID != nil {
		cmd, err := tx.Exec(ctx,
			`UPDATE equipment SET is_scrapped=TRUE, updated_at=NOW() WHERE id=$1`, *req.EquipmentID)
		if err != nil {
			return nil, apperrors.NewCascadeIncomplete(req.ID, *req.EquipmentID)
		}
		if cmd.RowsAffected() == 0 {
			return nil, apperrors.NewCascadeIncomplete(req.ID, *req.EquipmentID)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM maintenance_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) queryCards(ctx context.Context, builder sq.SelectBuilder) ([]domain.RequestCard, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCards(rows)
}

func scanCards(rows pgx.Rows) ([]domain.RequestCard, error) {
	var result []domain.RequestCard
	for rows.Next() {
		var card domain.RequestCard
		if err := rows.Scan(
			&card.ID,
			&card.Subject,
			&card.Type,
			&card.Description,
			&card.Priority,
			&card.Status,
			&card.EquipmentID,
			&card.TeamID,
			&card.AssignedToID,
			&card.CreatedByID,
			&card.ScheduledDate,
			&card.DurationHours,
			&card.CompletedAt,
			&card.CreatedAt,
			&card.UpdatedAt,
			&card.EquipmentName,
			&card.SerialNumber,
			&card.TeamName,
			&card.AssigneeName,
			&card.AssigneeAvatar,
			&card.CreatedByName,
		); err != nil {
			return nil, err
		}
		result = append(result, card)
	}
	return result, rows.Err()
}
