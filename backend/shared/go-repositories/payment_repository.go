package repositories

import (
	"context"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
)

type paymentRepo struct {
	db  DB
	log *ChangeLog
}

func NewPaymentRepository(db DB) PaymentRepository {
	return &paymentRepo{db: db}
}

/* ---------- create ---------- */

func (r *paymentRepo) CreateIfNotExists(ctx context.Context, p *models.Payment) (bool, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO payments (
			id, tenant_id, contract_id, concept, period, sequence,
			amount, scheduled_amount, due_date, status,
			method, receipt_ref, submitted_at, paid_at, voided_at,
			row_version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,1,NOW(),NOW())
		ON CONFLICT DO NOTHING
		RETURNING row_version, created_at, updated_at
	`,
		p.ID, p.TenantID, p.ContractID, p.Concept, p.Period, p.Sequence,
		p.Amount, p.ScheduledAmount, p.DueDate, p.Status,
		p.Method, p.ReceiptRef, p.SubmittedAt, p.PaidAt, p.VoidedAt,
	)
	if err := row.Scan(&p.RowVersion, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, translatePgError(err)
	}
	after := *p
	r.log.record(Change{Entity: EntityPayment, Action: ActionCreate, ID: p.GetID(), After: &after})
	return true, nil
}

/* ---------- reads ---------- */

func (r *paymentRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	return scanPayment(r.db.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1", id))
}

func (r *paymentRepo) GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	p, err := scanPayment(r.db.QueryRow(ctx, baseSelectPayment()+" WHERE id=$1 FOR UPDATE NOWAIT", id))
	return p, translatePgError(err)
}

func (r *paymentRepo) ListByContract(ctx context.Context, contractID uuid.UUID) ([]*models.Payment, error) {
	return r.list(ctx, baseSelectPayment()+" WHERE contract_id=$1 ORDER BY due_date, sequence", contractID)
}

func (r *paymentRepo) ListByContractPeriod(ctx context.Context, contractID uuid.UUID, period string) ([]*models.Payment, error) {
	return r.list(ctx, baseSelectPayment()+" WHERE contract_id=$1 AND period=$2 ORDER BY sequence", contractID, period)
}

func (r *paymentRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	return r.list(ctx, baseSelectPayment()+" WHERE tenant_id=$1 ORDER BY due_date, sequence", tenantID)
}

func (r *paymentRepo) ListPendingDueBefore(ctx context.Context, t time.Time) ([]*models.Payment, error) {
	return r.list(ctx, baseSelectPayment()+" WHERE status='PENDING' AND due_date < $1 ORDER BY due_date", t)
}

func (r *paymentRepo) list(ctx context.Context, sql string, args ...any) ([]*models.Payment, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

/* ---------- update ---------- */

func (r *paymentRepo) Update(ctx context.Context, p *models.Payment) error {
	before, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if before == nil {
		return checkVersion(nil, p)
	}
	if err := checkVersion(before, p); err != nil {
		return err
	}

	row := r.db.QueryRow(ctx, `
		UPDATE payments
		SET concept=$1, amount=$2, due_date=$3, status=$4,
		    method=$5, receipt_ref=$6, submitted_at=$7, paid_at=$8, voided_at=$9,
		    row_version=row_version+1, updated_at=NOW()
		WHERE id=$10 AND row_version=$11
		RETURNING row_version, updated_at
	`,
		p.Concept, p.Amount, p.DueDate, p.Status,
		p.Method, p.ReceiptRef, p.SubmittedAt, p.PaidAt, p.VoidedAt,
		p.ID, p.RowVersion,
	)
	if err := row.Scan(&p.RowVersion, &p.UpdatedAt); err != nil {
		if isNoRows(err) {
			return checkVersion(nil, p)
		}
		return translatePgError(err)
	}
	after := *p
	r.log.record(Change{Entity: EntityPayment, Action: ActionUpdate, ID: p.GetID(), Before: before, After: &after})
	return nil
}

/* ---------- internals ---------- */

func baseSelectPayment() string {
	return `
		SELECT id, tenant_id, contract_id, concept, period, sequence,
		       amount, scheduled_amount, due_date, status,
		       method, receipt_ref, submitted_at, paid_at, voided_at,
		       row_version, created_at, updated_at
		FROM payments`
}

func scanPayment(row pgx.Row) (*models.Payment, error) {
	var p models.Payment
	if err := row.Scan(
		&p.ID, &p.TenantID, &p.ContractID, &p.Concept, &p.Period, &p.Sequence,
		&p.Amount, &p.ScheduledAmount, &p.DueDate, &p.Status,
		&p.Method, &p.ReceiptRef, &p.SubmittedAt, &p.PaidAt, &p.VoidedAt,
		&p.RowVersion, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}
