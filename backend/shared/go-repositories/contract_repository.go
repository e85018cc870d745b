package repositories

import (
	"context"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type contractRepo struct {
	db  DB
	log *ChangeLog
}

func NewContractRepository(db DB) ContractRepository {
	return &contractRepo{db: db}
}

/* ---------- create ---------- */

func (r *contractRepo) Create(ctx context.Context, c *models.Contract) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO contracts (
			id, tenant_id, department_id, start_date, end_date, monthly_amount, billing_day,
			status, termination_reason, terminated_at,
			row_version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,1,NOW(),NOW())
		RETURNING row_version, created_at, updated_at
	`,
		c.ID, c.TenantID, c.DepartmentID, c.StartDate, c.EndDate, c.MonthlyAmount, c.BillingDay,
		c.Status, c.TerminationReason, c.TerminatedAt,
	)
	if err := row.Scan(&c.RowVersion, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return translatePgError(err)
	}
	after := *c
	r.log.record(Change{Entity: EntityContract, Action: ActionCreate, ID: c.GetID(), After: &after})
	return nil
}

/* ---------- reads ---------- */

func (r *contractRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	return scanContract(r.db.QueryRow(ctx, baseSelectContract()+" WHERE id=$1", id))
}

func (r *contractRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Contract, error) {
	c, err := scanContract(r.db.QueryRow(ctx, baseSelectContract()+" WHERE id=$1 FOR UPDATE NOWAIT", id))
	return c, translatePgError(err)
}

func (r *contractRepo) ListActiveByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Contract, error) {
	return r.list(ctx, baseSelectContract()+" WHERE department_id=$1 AND status='ACTIVE' ORDER BY start_date", departmentID)
}

func (r *contractRepo) ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Contract, error) {
	return r.list(ctx, baseSelectContract()+" WHERE tenant_id=$1 AND status='ACTIVE' ORDER BY start_date", tenantID)
}

func (r *contractRepo) ListActiveEndedBy(ctx context.Context, t time.Time) ([]*models.Contract, error) {
	return r.list(ctx, baseSelectContract()+" WHERE status='ACTIVE' AND end_date <= $1 ORDER BY end_date", t)
}

func (r *contractRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Contract, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

/* ---------- update ---------- */

func (r *contractRepo) Update(ctx context.Context, c *models.Contract) error {
	before, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	if before == nil {
		return checkVersion(nil, c)
	}
	if err := checkVersion(before, c); err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE contracts
		SET end_date=$1, monthly_amount=$2, billing_day=$3, status=$4,
		    termination_reason=$5, terminated_at=$6,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$7 AND row_version=$8
		RETURNING row_version, updated_at
	`, c.EndDate, c.MonthlyAmount, c.BillingDay, c.Status, c.TerminationReason, c.TerminatedAt, c.ID, c.RowVersion)
	if err := row.Scan(&c.RowVersion, &c.UpdatedAt); err != nil {
		if isNoRows(err) {
			return checkVersion(nil, c)
		}
		return translatePgError(err)
	}
	after := *c
	r.log.record(Change{Entity: EntityContract, Action: ActionUpdate, ID: c.GetID(), Before: before, After: &after})
	return nil
}

/* ---------- internals ---------- */

func baseSelectContract() string {
	return `
		SELECT id, tenant_id, department_id, start_date, end_date, monthly_amount, billing_day,
		       status, termination_reason, terminated_at,
		       row_version, created_at, updated_at
		FROM contracts`
}

func scanContract(row pgx.Row) (*models.Contract, error) {
	var c models.Contract
	if err := row.Scan(
		&c.ID, &c.TenantID, &c.DepartmentID, &c.StartDate, &c.EndDate, &c.MonthlyAmount, &c.BillingDay,
		&c.Status, &c.TerminationReason, &c.TerminatedAt,
		&c.RowVersion, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}
