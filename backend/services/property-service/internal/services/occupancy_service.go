package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/constants"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/shopspring/decimal"
)

// ContractTerms are the commercial terms of a new contract.
type ContractTerms struct {
	StartDate     time.Time
	EndDate       time.Time
	MonthlyAmount decimal.Decimal
	// BillingDay is the day of month payments fall due; 0 means the start day.
	BillingDay int
	// PeriodAmounts overrides MonthlyAmount for specific "YYYY-MM" periods.
	PeriodAmounts map[string]decimal.Decimal
}

func (t *ContractTerms) normalize() error {
	if t.StartDate.IsZero() || t.EndDate.IsZero() {
		return internal_utils.Validation("start_date and end_date are required")
	}
	t.StartDate = utils.DateOnly(t.StartDate)
	t.EndDate = utils.DateOnly(t.EndDate)
	if !t.EndDate.After(t.StartDate) {
		return internal_utils.Validation("end_date must be after start_date")
	}
	if err := validateAmount("monthly_amount", t.MonthlyAmount); err != nil {
		return err
	}
	if t.BillingDay == 0 {
		t.BillingDay = t.StartDate.Day()
	}
	if t.BillingDay < constants.MinBillingDay || t.BillingDay > constants.MaxBillingDay {
		return internal_utils.Validation("billing_day must be between %d and %d", constants.MinBillingDay, constants.MaxBillingDay)
	}
	if len(t.PeriodAmounts) == 0 {
		return nil
	}
	periods := make(map[string]bool)
	for _, sp := range BuildSchedule(&models.Contract{
		StartDate:     t.StartDate,
		EndDate:       t.EndDate,
		MonthlyAmount: t.MonthlyAmount,
		BillingDay:    t.BillingDay,
	}, nil) {
		periods[sp.Period] = true
	}
	for period, amount := range t.PeriodAmounts {
		if _, err := time.Parse(models.PeriodLayout, period); err != nil {
			return internal_utils.Validation("period override %q is not YYYY-MM", period)
		}
		if !periods[period] {
			return internal_utils.Validation("period override %s is outside the contract", period)
		}
		if err := validateAmount("period override "+period, amount); err != nil {
			return err
		}
	}
	return nil
}

type BindResult struct {
	Contract   *models.Contract
	Department *models.Department
	Tenant     *models.Tenant
	Payments   []*models.Payment
}

type TerminateResult struct {
	Contract       *models.Contract
	Department     *models.Department
	VoidedPayments []*models.Payment
}

// OccupancyService binds tenants to departments and ends those bindings.
type OccupancyService struct {
	store    repositories.Store
	payments *PaymentLifecycleService
	now      Clock
}

func NewOccupancyService(store repositories.Store, payments *PaymentLifecycleService, clock Clock) *OccupancyService {
	return &OccupancyService{store: store, payments: payments, now: clockOrDefault(clock)}
}

// BindTenant creates an active contract between a tenant and an available
// department, occupies the department, activates the tenant and schedules
// the contract's payments, all in one unit of work.
func (s *OccupancyService) BindTenant(
	ctx context.Context,
	actor Actor,
	departmentID, tenantID uuid.UUID,
	terms ContractTerms,
) (*BindResult, error) {
	if err := actor.require(CapManageOccupancy); err != nil {
		return nil, err
	}
	if err := terms.normalize(); err != nil {
		return nil, err
	}

	var out *BindResult
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		dept, err := tx.Departments().GetForUpdate(ctx, departmentID)
		if err != nil {
			return err
		}
		if dept == nil {
			return internal_utils.NotFound("department %s not found", departmentID)
		}
		if dept.IsRetired() {
			return internal_utils.Conflict("department %s is retired", dept.ID)
		}
		if dept.Occupancy != models.OccupancyAvailable {
			return internal_utils.Conflict("department %s is %s", dept.ID, dept.Occupancy)
		}

		tenant, err := tx.Tenants().GetForUpdate(ctx, tenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return internal_utils.NotFound("tenant %s not found", tenantID)
		}
		active, err := tx.Contracts().ListActiveByTenant(ctx, tenantID)
		if err != nil {
			return err
		}
		if len(active) > 0 {
			return internal_utils.Conflict("tenant %s already holds active contract %s", tenantID, active[0].ID)
		}

		contract := &models.Contract{
			ID:            uuid.New(),
			TenantID:      tenantID,
			DepartmentID:  departmentID,
			StartDate:     terms.StartDate,
			EndDate:       terms.EndDate,
			MonthlyAmount: terms.MonthlyAmount,
			BillingDay:    terms.BillingDay,
			Status:        models.ContractStatusActive,
		}
		if err := tx.Contracts().Create(ctx, contract); err != nil {
			return err
		}

		dept.Occupancy = models.OccupancyOccupied
		dept.CurrentContractID = utils.Ptr(contract.ID)
		if err := tx.Departments().Update(ctx, dept); err != nil {
			return err
		}

		if tenant.Status != models.TenantStatusActive {
			tenant.Status = models.TenantStatusActive
			if err := tx.Tenants().Update(ctx, tenant); err != nil {
				return err
			}
		}

		_, payments, err := s.payments.scheduleInTx(ctx, tx, contract, terms.PeriodAmounts)
		if err != nil {
			return err
		}

		if err := recordAudit(ctx, tx, actor, models.AuditBindTenant, models.TargetContract, contract.ID,
			map[string]any{
				"department_id":  departmentID,
				"tenant_id":      tenantID,
				"monthly_amount": terms.MonthlyAmount.String(),
				"payments":       len(payments),
			}); err != nil {
			return err
		}

		out = &BindResult{Contract: contract, Department: dept, Tenant: tenant, Payments: payments}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Logger.WithField("contract_id", out.Contract.ID).
		WithField("department_id", departmentID).
		WithField("tenant_id", tenantID).
		Infof("Bound tenant to department, %d payments scheduled", len(out.Payments))
	return out, nil
}

// TerminateContract ends an active contract early. The department becomes
// AVAILABLE (or MAINTENANCE when flagged) and unpaid payments due after now
// are voided.
func (s *OccupancyService) TerminateContract(
	ctx context.Context,
	actor Actor,
	contractID uuid.UUID,
	reason string,
	flagMaintenance bool,
) (*TerminateResult, error) {
	if err := actor.require(CapManageOccupancy); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, internal_utils.Validation("termination reason is required")
	}

	var out *TerminateResult
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		now := s.now()
		c, err := tx.Contracts().GetForUpdate(ctx, contractID)
		if err != nil {
			return err
		}
		if c == nil || !c.IsActive() {
			return internal_utils.NotFound("no active contract %s", contractID)
		}

		c.Status = models.ContractStatusTerminated
		c.TerminationReason = utils.Ptr(reason)
		c.TerminatedAt = utils.Ptr(now)
		if err := tx.Contracts().Update(ctx, c); err != nil {
			return err
		}

		next := models.OccupancyAvailable
		if flagMaintenance {
			next = models.OccupancyMaintenance
		}
		dept, err := s.releaseDepartment(ctx, tx, c.DepartmentID, next)
		if err != nil {
			return err
		}

		voided, err := s.payments.voidFutureInTx(ctx, tx, c.ID, now)
		if err != nil {
			return err
		}

		if err := recordAudit(ctx, tx, actor, models.AuditTerminateContract, models.TargetContract, c.ID,
			map[string]any{"reason": reason, "department_status": next, "voided_payments": len(voided)}); err != nil {
			return err
		}
		out = &TerminateResult{Contract: c, Department: dept, VoidedPayments: voided}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Logger.WithFields(logrus.Fields{
		"contract_id":     contractID,
		"department_id":   out.Department.ID,
		"occupancy":       out.Department.Occupancy,
		"voided_payments": len(out.VoidedPayments),
	}).Info("Contract terminated")
	return out, nil
}

// ExpireContract closes an active contract whose end date has passed.
// Payments already scheduled stay owed.
func (s *OccupancyService) ExpireContract(ctx context.Context, actor Actor, contractID uuid.UUID) (*models.Contract, error) {
	if err := actor.require(CapExpireContracts); err != nil {
		return nil, err
	}

	var out *models.Contract
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		c, err := tx.Contracts().GetForUpdate(ctx, contractID)
		if err != nil {
			return err
		}
		if c == nil || !c.IsActive() {
			return internal_utils.NotFound("no active contract %s", contractID)
		}
		if c.EndDate.After(s.now()) {
			return internal_utils.Conflict("contract %s runs until %s", c.ID, c.EndDate.Format(time.DateOnly))
		}

		c.Status = models.ContractStatusExpired
		if err := tx.Contracts().Update(ctx, c); err != nil {
			return err
		}
		if _, err := s.releaseDepartment(ctx, tx, c.DepartmentID, models.OccupancyAvailable); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditExpireContract, models.TargetContract, c.ID, nil); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExpireDueContracts expires every active contract past its end date, one
// unit of work per contract. Failures are logged and skipped.
func (s *OccupancyService) ExpireDueContracts(ctx context.Context, actor Actor) (int, error) {
	if err := actor.require(CapExpireContracts); err != nil {
		return 0, err
	}

	var due []*models.Contract
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		due, err = tx.Contracts().ListActiveEndedBy(ctx, s.now())
		return err
	})
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, c := range due {
		if _, err := s.ExpireContract(ctx, actor, c.ID); err != nil {
			if errors.Is(err, internal_utils.ErrConflict) || errors.Is(err, internal_utils.ErrNotFound) {
				utils.Logger.WithError(err).WithField("contract_id", c.ID).Debug("Skipping contract expiry")
				continue
			}
			utils.Logger.WithError(err).WithField("contract_id", c.ID).Error("Failed to expire contract")
			continue
		}
		expired++
	}
	return expired, nil
}

// SetMaintenance moves a vacant department in or out of MAINTENANCE.
// Requesting the state the department is already in is a no-op.
func (s *OccupancyService) SetMaintenance(ctx context.Context, actor Actor, departmentID uuid.UUID, on bool) (*models.Department, error) {
	if err := actor.require(CapManageOccupancy); err != nil {
		return nil, err
	}

	target := models.OccupancyAvailable
	if on {
		target = models.OccupancyMaintenance
	}

	var out *models.Department
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		d, err := tx.Departments().GetForUpdate(ctx, departmentID)
		if err != nil {
			return err
		}
		if d == nil {
			return internal_utils.NotFound("department %s not found", departmentID)
		}
		if d.IsRetired() {
			return internal_utils.Conflict("department %s is retired", d.ID)
		}
		if d.Occupancy == models.OccupancyOccupied {
			return internal_utils.Conflict("department %s is occupied", d.ID)
		}
		if d.Occupancy == target {
			out = d
			return nil
		}

		d.Occupancy = target
		if err := tx.Departments().Update(ctx, d); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditSetMaintenance, models.TargetDepartment, d.ID,
			map[string]bool{"maintenance": on}); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RetireDepartment takes a vacant department out of service for good.
func (s *OccupancyService) RetireDepartment(ctx context.Context, actor Actor, departmentID uuid.UUID) (*models.Department, error) {
	if err := actor.require(CapManageOccupancy); err != nil {
		return nil, err
	}

	var out *models.Department
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		d, err := tx.Departments().GetForUpdate(ctx, departmentID)
		if err != nil {
			return err
		}
		if d == nil {
			return internal_utils.NotFound("department %s not found", departmentID)
		}
		if d.IsRetired() {
			out = d
			return nil
		}
		if d.Occupancy == models.OccupancyOccupied {
			return internal_utils.Conflict("department %s is occupied", d.ID)
		}

		d.RetiredAt = utils.Ptr(s.now())
		if err := tx.Departments().Update(ctx, d); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditRetireDepartment, models.TargetDepartment, d.ID, nil); err != nil {
			return err
		}
		out = d
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *OccupancyService) releaseDepartment(
	ctx context.Context,
	tx repositories.Tx,
	departmentID uuid.UUID,
	next models.OccupancyStatus,
) (*models.Department, error) {
	dept, err := tx.Departments().GetForUpdate(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	if dept == nil {
		return nil, internal_utils.NotFound("department %s not found", departmentID)
	}
	dept.Occupancy = next
	dept.CurrentContractID = nil
	if err := tx.Departments().Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}
