package repositories

import (
	"context"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type departmentRepo struct {
	db  DB
	log *ChangeLog
}

func NewDepartmentRepository(db DB) DepartmentRepository {
	return &departmentRepo{db: db}
}

/* ---------- create ---------- */

func (r *departmentRepo) Create(ctx context.Context, d *models.Department) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO departments (
			id, building_id, number, floor, occupancy, current_contract_id, retired_at,
			row_version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,1,NOW(),NOW())
		RETURNING row_version, created_at, updated_at
	`, d.ID, d.BuildingID, d.Number, d.Floor, d.Occupancy, d.CurrentContractID, d.RetiredAt)
	if err := row.Scan(&d.RowVersion, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return translatePgError(err)
	}
	after := *d
	r.log.record(Change{Entity: EntityDepartment, Action: ActionCreate, ID: d.GetID(), After: &after})
	return nil
}

/* ---------- reads ---------- */

func (r *departmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	return scanDepartment(r.db.QueryRow(ctx, baseSelectDepartment()+" WHERE id=$1", id))
}

func (r *departmentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	d, err := scanDepartment(r.db.QueryRow(ctx, baseSelectDepartment()+" WHERE id=$1 FOR UPDATE NOWAIT", id))
	return d, translatePgError(err)
}

func (r *departmentRepo) ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Department, error) {
	rows, err := r.db.Query(ctx, baseSelectDepartment()+" WHERE building_id=$1 ORDER BY floor, number", buildingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Department
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

/* ---------- update ---------- */

func (r *departmentRepo) Update(ctx context.Context, d *models.Department) error {
	before, err := r.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if before == nil {
		return checkVersion(nil, d)
	}
	if err := checkVersion(before, d); err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE departments
		SET number=$1, floor=$2, occupancy=$3, current_contract_id=$4, retired_at=$5,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$6 AND row_version=$7
		RETURNING row_version, updated_at
	`, d.Number, d.Floor, d.Occupancy, d.CurrentContractID, d.RetiredAt, d.ID, d.RowVersion)
	if err := row.Scan(&d.RowVersion, &d.UpdatedAt); err != nil {
		if isNoRows(err) {
			return checkVersion(nil, d)
		}
		return translatePgError(err)
	}
	after := *d
	r.log.record(Change{Entity: EntityDepartment, Action: ActionUpdate, ID: d.GetID(), Before: before, After: &after})
	return nil
}

/* ---------- internals ---------- */

func baseSelectDepartment() string {
	return `
		SELECT id, building_id, number, floor, occupancy, current_contract_id, retired_at,
		       row_version, created_at, updated_at
		FROM departments`
}

func scanDepartment(row pgx.Row) (*models.Department, error) {
	var d models.Department
	if err := row.Scan(
		&d.ID, &d.BuildingID, &d.Number, &d.Floor, &d.Occupancy,
		&d.CurrentContractID, &d.RetiredAt,
		&d.RowVersion, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}
