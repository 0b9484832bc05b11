package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/gearguard/internal/domain"
)

// EquipmentRepository encapsulates asset persistence.
type EquipmentRepository interface {
	Create(ctx context.Context, eq *domain.Equipment) error
	Update(ctx context.Context, eq *domain.Equipment) error
	GetByID(ctx context.Context, id string) (*domain.EquipmentSummary, error)
	List(ctx context.Context, includeScrap bool) ([]domain.EquipmentSummary, error)
	ListByTeam(ctx context.Context, teamID string) ([]domain.EquipmentSummary, error)
	Search(ctx context.Context, term string) ([]domain.EquipmentSummary, error)
	ListWarrantyExpiring(ctx context.Context, from, to time.Time) ([]domain.EquipmentSummary, error)
	SetScrapped(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type equipmentRepository struct {
	pool *pgxpool.Pool
}

// NewEquipmentRepository instantiates repository.
func NewEquipmentRepository(pool *pgxpool.Pool) EquipmentRepository {
	return &equipmentRepository{pool: pool}
}

var equipmentColumns = []string{
	"e.id", "e.name", "e.serial_number", "e.department", "e.owner_employee", "e.location",
	"e.purchase_date", "e.warranty_expiry", "e.maintenance_team_id", "e.default_technician_id",
	"e.is_scrapped", "e.created_at", "e.updated_at",
	"t.name AS team_name", "u.name AS technician_name",
}

func equipmentSelect() sq.SelectBuilder {
	return sq.Select(equipmentColumns...).
		From("equipment e").
		LeftJoin("maintenance_teams t ON t.id = e.maintenance_team_id").
		LeftJoin("users u ON u.id = e.default_technician_id").
		PlaceholderFormat(sq.Dollar)
}

func (r *equipmentRepository) Create(ctx context.Context, eq *domain.Equipment) error {
	const query = `
        INSERT INTO equipment (name, serial_number, department, owner_employee, location,
            purchase_date, warranty_expiry, maintenance_team_id, default_technician_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, is_scrapped, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		eq.Name,
		eq.SerialNumber,
		eq.Department,
		eq.OwnerEmployee,
		eq.Location,
		eq.PurchaseDate,
		eq.WarrantyExpiry,
		eq.MaintenanceTeamID,
		eq.DefaultTechnicianID,
	).Scan(&eq.ID, &eq.IsScrapped, &eq.CreatedAt, &eq.UpdatedAt)
}

func (r *equipmentRepository) Update(ctx context.Context, eq *domain.Equipment) error {
	const query = `
        UPDATE equipment SET name=$1, serial_number=$2, department=$3, owner_employee=$4,
            location=$5, purchase_date=$6, warranty_expiry=$7, maintenance_team_id=$8,
            default_technician_id=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		eq.Name,
		eq.SerialNumber,
		eq.Department,
		eq.OwnerEmployee,
		eq.Location,
		eq.PurchaseDate,
		eq.WarrantyExpiry,
		eq.MaintenanceTeamID,
		eq.DefaultTechnicianID,
		eq.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) GetByID(ctx context.Context, id string) (*domain.EquipmentSummary, error) {
	query, args, err := equipmentSelect().Where(sq.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result, err := scanEquipment(rows)
	if err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &result[0], nil
}

func (r *equipmentRepository) List(ctx context.Context, includeScrap bool) ([]domain.EquipmentSummary, error) {
	builder := equipmentSelect().OrderBy("e.name ASC")
	if !includeScrap {
		builder = builder.Where(sq.Eq{"e.is_scrapped": false})
	}
	return r.queryEquipment(ctx, builder)
}

func (r *equipmentRepository) ListByTeam(ctx context.Context, teamID string) ([]domain.EquipmentSummary, error) {
	builder := equipmentSelect().
		Where(sq.Eq{"e.maintenance_team_id": teamID, "e.is_scrapped": false}).
		OrderBy("e.name ASC")
	return r.queryEquipment(ctx, builder)
}

func (r *equipmentRepository) Search(ctx context.Context, term string) ([]domain.EquipmentSummary, error) {
	pattern := "%" + term + "%"
	builder := equipmentSelect().
		Where(sq.Eq{"e.is_scrapped": false}).
		Where(sq.Or{
			sq.ILike{"e.name": pattern},
			sq.ILike{"e.serial_number": pattern},
			sq.ILike{"e.department": pattern},
			sq.ILike{"e.location": pattern},
		}).
		OrderBy("e.name ASC")
	return r.queryEquipment(ctx, builder)
}

// ListWarrantyExpiring returns non-scrapped assets whose warranty expires
// inside the [from, to] window, ascending by expiry.
func (r *equipmentRepository) ListWarrantyExpiring(ctx context.Context, from, to time.Time) ([]domain.EquipmentSummary, error) {
	builder := equipmentSelect().
		Where(sq.Eq{"e.is_scrapped": false}).
		Where(sq.GtOrEq{"e.warranty_expiry": from}).
		Where(sq.LtOrEq{"e.warranty_expiry": to}).
		OrderBy("e.warranty_expiry ASC")
	return r.queryEquipment(ctx, builder)
}

func (r *equipmentRepository) SetScrapped(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE equipment SET is_scrapped=TRUE, updated_at=NOW() WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM equipment WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *equipmentRepository) queryEquipment(ctx context.Context, builder sq.SelectBuilder) ([]domain.EquipmentSummary, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEquipment(rows)
}

func scanEquipment(rows pgx.Rows) ([]domain.EquipmentSummary, error) {
	var result []domain.EquipmentSummary
	for rows.Next() {
		var eq domain.EquipmentSummary
		if err := rows.Scan(
			&eq.ID,
			&eq.Name,
			&eq.SerialNumber,
			&eq.Department,
			&eq.OwnerEmployee,
			&eq.Location,
			&eq.PurchaseDate,
			&eq.WarrantyExpiry,
			&eq.MaintenanceTeamID,
			&eq.DefaultTechnicianID,
			&eq.IsScrapped,
			&eq.CreatedAt,
			&eq.UpdatedAt,
			&eq.TeamName,
			&eq.DefaultTechnicianName,
		); err != nil {
			return nil, err
		}
		result = append(result, eq)
	}
	return result, rows.Err()
}
