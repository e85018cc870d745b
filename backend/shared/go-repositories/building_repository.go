package repositories

import (
	"context"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type buildingRepo struct {
	db  DB
	log *ChangeLog
}

func NewBuildingRepository(db DB) BuildingRepository {
	return &buildingRepo{db: db}
}

func (r *buildingRepo) Create(ctx context.Context, b *models.Building) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO buildings (id, name, address, floor_count, unit_count, row_version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,1,NOW(),NOW())
		RETURNING row_version, created_at, updated_at
	`, b.ID, b.Name, b.Address, b.FloorCount, b.UnitCount)
	if err := row.Scan(&b.RowVersion, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return translatePgError(err)
	}
	after := *b
	r.log.record(Change{Entity: EntityBuilding, Action: ActionCreate, ID: b.GetID(), After: &after})
	return nil
}

func (r *buildingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error) {
	return scanBuilding(r.db.QueryRow(ctx, baseSelectBuilding()+" WHERE id=$1", id))
}

func (r *buildingRepo) List(ctx context.Context) ([]*models.Building, error) {
	rows, err := r.db.Query(ctx, baseSelectBuilding()+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func baseSelectBuilding() string {
	return `
		SELECT id, name, address, floor_count, unit_count,
		       row_version, created_at, updated_at
		FROM buildings`
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	if err := row.Scan(
		&b.ID, &b.Name, &b.Address, &b.FloorCount, &b.UnitCount,
		&b.RowVersion, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
