package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentLifecycleService owns the payment state machine:
//
//	PENDING ──submit──▶ PENDING_VERIFICATION ──approve──▶ PAID
//	   ▲                        │
//	   └────────reject──────────┘
//	PENDING ──past due──▶ OVERDUE ──submit──▶ ...
//	PENDING / PENDING_VERIFICATION ──contract terminated (future due)──▶ VOID
type PaymentLifecycleService struct {
	cfg   *config.Config
	store repositories.Store
	now   Clock
}

func NewPaymentLifecycleService(cfg *config.Config, store repositories.Store, clock Clock) *PaymentLifecycleService {
	return &PaymentLifecycleService{cfg: cfg, store: store, now: clockOrDefault(clock)}
}

// SchedulePayments (re)generates the periodic payments of an active
// contract. Periods that already have a payment are left untouched.
func (s *PaymentLifecycleService) SchedulePayments(ctx context.Context, actor Actor, contractID uuid.UUID) ([]*models.Payment, error) {
	if err := actor.require(CapSchedulePayments); err != nil {
		return nil, err
	}

	var out []*models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		c, err := tx.Contracts().GetByID(ctx, contractID)
		if err != nil {
			return err
		}
		if c == nil {
			return internal_utils.NotFound("contract %s not found", contractID)
		}
		if !c.IsActive() {
			return internal_utils.Conflict("contract %s is %s", contractID, c.Status)
		}
		created, payments, err := s.scheduleInTx(ctx, tx, c, nil)
		if err != nil {
			return err
		}
		if created > 0 {
			if err := recordAudit(ctx, tx, actor, models.AuditSchedulePayments, models.TargetContract, c.ID,
				map[string]int{"created": created}); err != nil {
				return err
			}
		}
		out = payments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// scheduleInTx inserts any missing period payments for c and returns the
// number inserted together with the contract's full payment list.
func (s *PaymentLifecycleService) scheduleInTx(
	ctx context.Context,
	tx repositories.Tx,
	c *models.Contract,
	overrides map[string]decimal.Decimal,
) (int, []*models.Payment, error) {
	created := 0
	for _, sp := range BuildSchedule(c, overrides) {
		p := &models.Payment{
			ID:              ScheduledPaymentID(c.ID, sp.Period, 0),
			TenantID:        c.TenantID,
			ContractID:      utils.Ptr(c.ID),
			Concept:         fmt.Sprintf("Rent %s", sp.Period),
			Period:          sp.Period,
			Sequence:        0,
			Amount:          sp.Amount,
			ScheduledAmount: sp.Amount,
			DueDate:         sp.DueDate,
			Status:          models.PaymentStatusPending,
		}
		inserted, err := tx.Payments().CreateIfNotExists(ctx, p)
		if err != nil {
			return 0, nil, err
		}
		if inserted {
			created++
		}
	}
	payments, err := tx.Payments().ListByContract(ctx, c.ID)
	if err != nil {
		return 0, nil, err
	}
	return created, payments, nil
}

// voidFutureInTx voids the outstanding payments of a contract that fall due
// after now.
func (s *PaymentLifecycleService) voidFutureInTx(
	ctx context.Context,
	tx repositories.Tx,
	contractID uuid.UUID,
	now time.Time,
) ([]*models.Payment, error) {
	payments, err := tx.Payments().ListByContract(ctx, contractID)
	if err != nil {
		return nil, err
	}

	var voided []*models.Payment
	for _, p := range payments {
		if !p.DueDate.After(now) {
			continue
		}
		if p.Status != models.PaymentStatusPending && p.Status != models.PaymentStatusPendingVerification {
			continue
		}
		locked, err := tx.Payments().GetForUpdate(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		locked.Status = models.PaymentStatusVoid
		locked.VoidedAt = utils.Ptr(now)
		if err := tx.Payments().Update(ctx, locked); err != nil {
			return nil, err
		}
		voided = append(voided, locked)
	}
	return voided, nil
}

// SubmitReceipt records a tenant's payment claim. PayPal is confirmed by the
// gateway and settles immediately; every other method needs a receipt and
// waits for an administrator.
func (s *PaymentLifecycleService) SubmitReceipt(
	ctx context.Context,
	actor Actor,
	paymentID uuid.UUID,
	method models.PaymentMethod,
	receiptRef string,
) (*models.Payment, error) {
	if err := actor.require(CapSubmitPayment); err != nil {
		return nil, err
	}
	if !method.Valid() {
		return nil, internal_utils.Validation("unknown payment method %q", method)
	}
	receiptRef = strings.TrimSpace(receiptRef)

	var out *models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return internal_utils.NotFound("payment %s not found", paymentID)
		}
		if err := actor.requireSelfOrStaff(p.TenantID); err != nil {
			return err
		}

		switch p.Status {
		case models.PaymentStatusPending, models.PaymentStatusOverdue:
		case models.PaymentStatusPendingVerification:
			return internal_utils.Conflict("payment %s is already awaiting verification", p.ID)
		case models.PaymentStatusPaid, models.PaymentStatusVoid:
			return internal_utils.Immutable("payment %s is %s", p.ID, p.Status)
		default:
			return internal_utils.InvalidTransition("payment %s has unknown status %s", p.ID, p.Status)
		}
		if method != models.PaymentMethodPayPal && receiptRef == "" {
			return internal_utils.Validation("receipt_ref is required for %s payments", method)
		}

		now := s.now()
		p.Method = utils.Ptr(method)
		p.ReceiptRef = nil
		if receiptRef != "" {
			p.ReceiptRef = utils.Ptr(receiptRef)
		}
		p.SubmittedAt = utils.Ptr(now)
		if method == models.PaymentMethodPayPal {
			p.Status = models.PaymentStatusPaid
			p.PaidAt = utils.Ptr(now)
		} else {
			p.Status = models.PaymentStatusPendingVerification
		}
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditSubmitReceipt, models.TargetPayment, p.ID,
			map[string]any{"method": method, "status": p.Status}); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// VerifyPayment approves or rejects a submitted receipt. A rejection clears
// the submission so the tenant can try again.
func (s *PaymentLifecycleService) VerifyPayment(ctx context.Context, actor Actor, paymentID uuid.UUID, approved bool) (*models.Payment, error) {
	if err := actor.require(CapVerifyPayment); err != nil {
		return nil, err
	}

	var out *models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return internal_utils.NotFound("payment %s not found", paymentID)
		}

		switch p.Status {
		case models.PaymentStatusPendingVerification:
		case models.PaymentStatusPaid, models.PaymentStatusVoid:
			return internal_utils.Immutable("payment %s is %s", p.ID, p.Status)
		default:
			return internal_utils.Conflict("payment %s has no receipt awaiting verification (status %s)", p.ID, p.Status)
		}

		if approved {
			p.Status = models.PaymentStatusPaid
			p.PaidAt = utils.Ptr(s.now())
		} else {
			p.Status = models.PaymentStatusPending
			p.Method = nil
			p.ReceiptRef = nil
			p.SubmittedAt = nil
		}
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditVerifyPayment, models.TargetPayment, p.ID,
			map[string]bool{"approved": approved}); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Logger.WithField("payment_id", paymentID).
		WithField("status", out.Status).
		Debug("Payment verified")
	return out, nil
}

// MarkOverdue flags a pending payment whose due date has passed. Marking an
// already overdue payment is a no-op.
func (s *PaymentLifecycleService) MarkOverdue(ctx context.Context, actor Actor, paymentID uuid.UUID) (*models.Payment, error) {
	if err := actor.require(CapMarkOverdue); err != nil {
		return nil, err
	}

	var out *models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return internal_utils.NotFound("payment %s not found", paymentID)
		}

		now := s.now()
		switch p.Status {
		case models.PaymentStatusOverdue:
			out = p
			return nil
		case models.PaymentStatusPending:
			if !now.After(p.DueDate) {
				return internal_utils.Conflict("payment %s is not due until %s", p.ID, p.DueDate.Format(time.DateOnly))
			}
		case models.PaymentStatusPaid, models.PaymentStatusVoid:
			return internal_utils.Immutable("payment %s is %s", p.ID, p.Status)
		default:
			return internal_utils.Conflict("payment %s is %s", p.ID, p.Status)
		}

		p.Status = models.PaymentStatusOverdue
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditMarkOverdue, models.TargetPayment, p.ID, nil); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SplitPayment divides an unpaid payment into parts that can be settled
// separately. The first part keeps the original id; the rest take the next
// free sequence numbers of the period.
func (s *PaymentLifecycleService) SplitPayment(
	ctx context.Context,
	actor Actor,
	paymentID uuid.UUID,
	amounts []decimal.Decimal,
) ([]*models.Payment, error) {
	if err := actor.require(CapManageCharges); err != nil {
		return nil, err
	}
	if !s.cfg.LDFlag_AllowPartialPayments {
		return nil, internal_utils.Conflict("partial payments are disabled")
	}
	if len(amounts) < 2 {
		return nil, internal_utils.Validation("a split needs at least two amounts")
	}
	total := decimal.Zero
	for _, a := range amounts {
		if err := validateAmount("split amount", a); err != nil {
			return nil, err
		}
		total = total.Add(a)
	}

	var out []*models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return internal_utils.NotFound("payment %s not found", paymentID)
		}
		switch p.Status {
		case models.PaymentStatusPending, models.PaymentStatusOverdue:
		case models.PaymentStatusPaid, models.PaymentStatusVoid:
			return internal_utils.Immutable("payment %s is %s", p.ID, p.Status)
		default:
			return internal_utils.Conflict("payment %s is %s", p.ID, p.Status)
		}
		if !total.Equal(p.Amount) {
			return internal_utils.Validation("split amounts sum to %s, payment is %s", total, p.Amount)
		}

		nextSeq := p.Sequence + 1
		if p.ContractID != nil {
			siblings, err := tx.Payments().ListByContractPeriod(ctx, *p.ContractID, p.Period)
			if err != nil {
				return err
			}
			for _, sib := range siblings {
				if sib.Sequence >= nextSeq {
					nextSeq = sib.Sequence + 1
				}
			}
		}

		p.Amount = amounts[0]
		if err := tx.Payments().Update(ctx, p); err != nil {
			return err
		}
		out = append(out, p)

		for i, a := range amounts[1:] {
			seq := nextSeq + i
			part := &models.Payment{
				ID:              uuid.New(),
				TenantID:        p.TenantID,
				ContractID:      p.ContractID,
				Concept:         fmt.Sprintf("%s (part %d)", p.Concept, i+2),
				Period:          p.Period,
				Sequence:        seq,
				Amount:          a,
				ScheduledAmount: p.ScheduledAmount,
				DueDate:         p.DueDate,
				Status:          p.Status,
			}
			if p.ContractID != nil {
				part.ID = ScheduledPaymentID(*p.ContractID, p.Period, seq)
			}
			inserted, err := tx.Payments().CreateIfNotExists(ctx, part)
			if err != nil {
				return err
			}
			if !inserted {
				return internal_utils.Conflict("payment part %s/%d already exists", p.Period, seq)
			}
			out = append(out, part)
		}

		return recordAudit(ctx, tx, actor, models.AuditSplitPayment, models.TargetPayment, p.ID,
			map[string]any{"parts": len(amounts)})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateServiceCharge bills a tenant outside the rent schedule (maintenance,
// utilities). Charges have no contract and no period.
func (s *PaymentLifecycleService) CreateServiceCharge(
	ctx context.Context,
	actor Actor,
	tenantID uuid.UUID,
	concept string,
	amount decimal.Decimal,
	dueDate time.Time,
) (*models.Payment, error) {
	if err := actor.require(CapManageCharges); err != nil {
		return nil, err
	}
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return nil, internal_utils.Validation("concept is required")
	}
	if err := validateAmount("amount", amount); err != nil {
		return nil, err
	}
	if dueDate.IsZero() {
		return nil, internal_utils.Validation("due_date is required")
	}

	var out *models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		t, err := tx.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return err
		}
		if t == nil {
			return internal_utils.NotFound("tenant %s not found", tenantID)
		}
		p := &models.Payment{
			ID:              uuid.New(),
			TenantID:        tenantID,
			Concept:         concept,
			Amount:          amount,
			ScheduledAmount: amount,
			DueDate:         utils.DateOnly(dueDate),
			Status:          models.PaymentStatusPending,
		}
		if _, err := tx.Payments().CreateIfNotExists(ctx, p); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditCreate, models.TargetPayment, p.ID,
			map[string]string{"concept": concept, "amount": amount.String()}); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PaymentLifecycleService) GetPayment(ctx context.Context, actor Actor, paymentID uuid.UUID) (*models.Payment, error) {
	var out *models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if p == nil {
			return internal_utils.NotFound("payment %s not found", paymentID)
		}
		if err := actor.requireSelfOrStaff(p.TenantID); err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func (s *PaymentLifecycleService) ListContractPayments(ctx context.Context, actor Actor, contractID uuid.UUID) ([]*models.Payment, error) {
	var out []*models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		c, err := tx.Contracts().GetByID(ctx, contractID)
		if err != nil {
			return err
		}
		if c == nil {
			return internal_utils.NotFound("contract %s not found", contractID)
		}
		if err := actor.requireSelfOrStaff(c.TenantID); err != nil {
			return err
		}
		out, err = tx.Payments().ListByContract(ctx, contractID)
		return err
	})
	return out, err
}

func (s *PaymentLifecycleService) ListTenantPayments(ctx context.Context, actor Actor, tenantID uuid.UUID) ([]*models.Payment, error) {
	if err := actor.requireSelfOrStaff(tenantID); err != nil {
		return nil, err
	}
	var out []*models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Payments().ListByTenant(ctx, tenantID)
		return err
	})
	return out, err
}
