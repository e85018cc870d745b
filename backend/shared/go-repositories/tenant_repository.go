package repositories

import (
	"context"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type tenantRepo struct {
	db  DB
	log *ChangeLog
}

func NewTenantRepository(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

func (r *tenantRepo) Create(ctx context.Context, t *models.Tenant) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO tenants (
			id, full_name, email, phone, document_number, status,
			row_version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,1,NOW(),NOW())
		RETURNING row_version, created_at, updated_at
	`, t.ID, t.FullName, t.Email, t.Phone, t.DocumentNumber, t.Status)
	if err := row.Scan(&t.RowVersion, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return translatePgError(err)
	}
	after := *t
	r.log.record(Change{Entity: EntityTenant, Action: ActionCreate, ID: t.GetID(), After: &after})
	return nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return scanTenant(r.db.QueryRow(ctx, baseSelectTenant()+" WHERE id=$1", id))
}

func (r *tenantRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	t, err := scanTenant(r.db.QueryRow(ctx, baseSelectTenant()+" WHERE id=$1 FOR UPDATE NOWAIT", id))
	return t, translatePgError(err)
}

func (r *tenantRepo) List(ctx context.Context) ([]*models.Tenant, error) {
	rows, err := r.db.Query(ctx, baseSelectTenant()+" ORDER BY full_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *tenantRepo) Update(ctx context.Context, t *models.Tenant) error {
	before, err := r.GetByID(ctx, t.ID)
	if err != nil {
		return err
	}
	if before == nil {
		return checkVersion(nil, t)
	}
	if err := checkVersion(before, t); err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE tenants
		SET full_name=$1, email=$2, phone=$3, document_number=$4, status=$5,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$6 AND row_version=$7
		RETURNING row_version, updated_at
	`, t.FullName, t.Email, t.Phone, t.DocumentNumber, t.Status, t.ID, t.RowVersion)
	if err := row.Scan(&t.RowVersion, &t.UpdatedAt); err != nil {
		if isNoRows(err) {
			return checkVersion(nil, t)
		}
		return translatePgError(err)
	}
	after := *t
	r.log.record(Change{Entity: EntityTenant, Action: ActionUpdate, ID: t.GetID(), Before: before, After: &after})
	return nil
}

func baseSelectTenant() string {
	return `
		SELECT id, full_name, email, phone, document_number, status,
		       row_version, created_at, updated_at
		FROM tenants`
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	var t models.Tenant
	if err := row.Scan(
		&t.ID, &t.FullName, &t.Email, &t.Phone, &t.DocumentNumber, &t.Status,
		&t.RowVersion, &t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}
