package repositories

import (
	"context"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type providerRepo struct {
	db  DB
	log *ChangeLog
}

func NewProviderRepository(db DB) ProviderRepository {
	return &providerRepo{db: db}
}

func (r *providerRepo) Create(ctx context.Context, p *models.Provider) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO providers (id, name, specialty, phone, email, active, row_version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,1,NOW(),NOW())
		RETURNING row_version, created_at, updated_at
	`, p.ID, p.Name, p.Specialty, p.Phone, p.Email, p.Active)
	if err := row.Scan(&p.RowVersion, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return translatePgError(err)
	}
	after := *p
	r.log.record(Change{Entity: EntityProvider, Action: ActionCreate, ID: p.GetID(), After: &after})
	return nil
}

func (r *providerRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error) {
	return scanProvider(r.db.QueryRow(ctx, baseSelectProvider()+" WHERE id=$1", id))
}

func (r *providerRepo) List(ctx context.Context) ([]*models.Provider, error) {
	rows, err := r.db.Query(ctx, baseSelectProvider()+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func baseSelectProvider() string {
	return `
		SELECT id, name, specialty, phone, email, active,
		       row_version, created_at, updated_at
		FROM providers`
}

func scanProvider(row pgx.Row) (*models.Provider, error) {
	var p models.Provider
	if err := row.Scan(
		&p.ID, &p.Name, &p.Specialty, &p.Phone, &p.Email, &p.Active,
		&p.RowVersion, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
