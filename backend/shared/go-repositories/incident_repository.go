package repositories

import (
	"context"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type incidentRepo struct {
	db  DB
	log *ChangeLog
}

func NewIncidentRepository(db DB) IncidentRepository {
	return &incidentRepo{db: db}
}

func (r *incidentRepo) Create(ctx context.Context, i *models.Incident) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO incidents (
			id, tenant_id, department_id, category, description, urgency, status,
			provider_id, resolution_message, reported_at, closed_at,
			row_version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,1,NOW(),NOW())
		RETURNING row_version, created_at, updated_at
	`,
		i.ID, i.TenantID, i.DepartmentID, i.Category, i.Description, i.Urgency, i.Status,
		i.ProviderID, i.ResolutionMessage, i.ReportedAt, i.ClosedAt,
	)
	if err := row.Scan(&i.RowVersion, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return translatePgError(err)
	}
	after := *i
	r.log.record(Change{Entity: EntityIncident, Action: ActionCreate, ID: i.GetID(), After: &after})
	return nil
}

func (r *incidentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	return scanIncident(r.db.QueryRow(ctx, baseSelectIncident()+" WHERE id=$1", id))
}

func (r *incidentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	i, err := scanIncident(r.db.QueryRow(ctx, baseSelectIncident()+" WHERE id=$1 FOR UPDATE NOWAIT", id))
	return i, translatePgError(err)
}

func (r *incidentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Incident, error) {
	rows, err := r.db.Query(ctx, baseSelectIncident()+" WHERE tenant_id=$1 ORDER BY reported_at DESC", tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Incident
	for rows.Next() {
		i, err := scanIncident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (r *incidentRepo) Update(ctx context.Context, i *models.Incident) error {
	before, err := r.GetByID(ctx, i.ID)
	if err != nil {
		return err
	}
	if before == nil {
		return checkVersion(nil, i)
	}
	if err := checkVersion(before, i); err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE incidents
		SET category=$1, description=$2, urgency=$3, status=$4,
		    provider_id=$5, resolution_message=$6, closed_at=$7,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$8 AND row_version=$9
		RETURNING row_version, updated_at
	`,
		i.Category, i.Description, i.Urgency, i.Status,
		i.ProviderID, i.ResolutionMessage, i.ClosedAt,
		i.ID, i.RowVersion,
	)
	if err := row.Scan(&i.RowVersion, &i.UpdatedAt); err != nil {
		if isNoRows(err) {
			return checkVersion(nil, i)
		}
		return translatePgError(err)
	}
	after := *i
	r.log.record(Change{Entity: EntityIncident, Action: ActionUpdate, ID: i.GetID(), Before: before, After: &after})
	return nil
}

func baseSelectIncident() string {
	return `
		SELECT id, tenant_id, department_id, category, description, urgency, status,
		       provider_id, resolution_message, reported_at, closed_at,
		       row_version, created_at, updated_at
		FROM incidents`
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	var i models.Incident
	if err := row.Scan(
		&i.ID, &i.TenantID, &i.DepartmentID, &i.Category, &i.Description, &i.Urgency, &i.Status,
		&i.ProviderID, &i.ResolutionMessage, &i.ReportedAt, &i.ClosedAt,
		&i.RowVersion, &i.CreatedAt, &i.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &i, nil
}
