package services

import (
	"testing"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_OccupiedWithoutContract(t *testing.T) {
	f := newFixture(t)

	err := f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		d, err := tx.Departments().GetForUpdate(f.h.Ctx, f.dept.ID)
		require.NoError(t, err)
		d.Occupancy = models.OccupancyOccupied
		return tx.Departments().Update(f.h.Ctx, d)
	})
	requireRules(t, err, RuleDepartmentOccupiedSingleContract)
	assert.Equal(t, models.OccupancyAvailable, f.h.GetDepartment(f.dept.ID).Occupancy)
}

func TestValidator_ActiveContractNeedsDepartmentAndTenant(t *testing.T) {
	f := newFixture(t)

	err := f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		return tx.Contracts().Create(f.h.Ctx, &models.Contract{
			ID:            uuid.New(),
			TenantID:      f.tenant.ID,
			DepartmentID:  f.dept.ID,
			StartDate:     date(2025, 1, 1),
			EndDate:       date(2026, 1, 1),
			MonthlyAmount: decimal.RequireFromString("1500"),
			BillingDay:    1,
			Status:        models.ContractStatusActive,
		})
	})
	requireRules(t, err, RuleActiveContractOccupiedDepartment, RuleActiveContractActiveTenant)
}

func TestValidator_TenantSingleActiveContract(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)
	second := f.h.CreateTestDepartment(f.building.ID, "302", 3)

	err := f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		c := &models.Contract{
			ID:            uuid.New(),
			TenantID:      f.tenant.ID,
			DepartmentID:  second.ID,
			StartDate:     date(2025, 1, 1),
			EndDate:       date(2026, 1, 1),
			MonthlyAmount: decimal.RequireFromString("900"),
			BillingDay:    1,
			Status:        models.ContractStatusActive,
		}
		if err := tx.Contracts().Create(f.h.Ctx, c); err != nil {
			return err
		}
		d, err := tx.Departments().GetForUpdate(f.h.Ctx, second.ID)
		require.NoError(t, err)
		d.Occupancy = models.OccupancyOccupied
		d.CurrentContractID = utils.Ptr(c.ID)
		return tx.Departments().Update(f.h.Ctx, d)
	})
	requireRules(t, err, RuleTenantSingleActiveContract)

	active := f.h.GetContract(res.Contract.ID)
	assert.True(t, active.IsActive())
	assert.Equal(t, models.OccupancyAvailable, f.h.GetDepartment(second.ID).Occupancy)
}

func TestValidator_PaidPaymentCannotReopen(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)
	jan := paymentForPeriod(t, res.Payments, "2025-01")

	_, err := f.payments.SubmitReceipt(f.h.Ctx, f.tenantActor(f.tenant), jan.ID, models.PaymentMethodPayPal, "")
	require.NoError(t, err)

	err = f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(f.h.Ctx, jan.ID)
		require.NoError(t, err)
		p.Status = models.PaymentStatusPending
		p.PaidAt = nil
		return tx.Payments().Update(f.h.Ctx, p)
	})
	requireRules(t, err, RulePaidPaymentReopened)
	assert.Equal(t, models.PaymentStatusPaid, f.h.GetPayment(jan.ID).Status)
}

func TestValidator_VoidPaymentCannotReopen(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)
	_, err := f.occupancy.TerminateContract(f.h.Ctx, f.admin, res.Contract.ID, "leaving", false)
	require.NoError(t, err)
	dec := paymentForPeriod(t, res.Payments, "2025-12")

	err = f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(f.h.Ctx, dec.ID)
		require.NoError(t, err)
		require.Equal(t, models.PaymentStatusVoid, p.Status)
		p.Status = models.PaymentStatusPending
		return tx.Payments().Update(f.h.Ctx, p)
	})
	requireRules(t, err, RuleVoidPaymentReopened)
}

func TestValidator_PeriodOverpaid(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)
	jan := paymentForPeriod(t, res.Payments, "2025-01")

	err := f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		p, err := tx.Payments().GetForUpdate(f.h.Ctx, jan.ID)
		require.NoError(t, err)
		p.Amount = decimal.RequireFromString("2000")
		p.Status = models.PaymentStatusPaid
		p.PaidAt = utils.Ptr(f.h.Clock.Now())
		return tx.Payments().Update(f.h.Ctx, p)
	})
	requireRules(t, err, RulePeriodPaidExceedsScheduled)
}

func TestValidator_CompletedIncident(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	inc := f.reportLeak(t)

	err := f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		i, err := tx.Incidents().GetForUpdate(f.h.Ctx, inc.ID)
		require.NoError(t, err)
		i.Status = models.IncidentStatusCompleted
		return tx.Incidents().Update(f.h.Ctx, i)
	})
	requireRules(t, err, RuleCompletedIncidentClosedAt)
}

func TestValidator_AggregatesAllRules(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)
	jan := paymentForPeriod(t, res.Payments, "2025-01")
	_, err := f.payments.SubmitReceipt(f.h.Ctx, f.tenantActor(f.tenant), jan.ID, models.PaymentMethodPayPal, "")
	require.NoError(t, err)

	err = f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		d, err := tx.Departments().GetForUpdate(f.h.Ctx, f.dept.ID)
		require.NoError(t, err)
		d.Occupancy = models.OccupancyAvailable
		d.CurrentContractID = nil
		if err := tx.Departments().Update(f.h.Ctx, d); err != nil {
			return err
		}
		p, err := tx.Payments().GetForUpdate(f.h.Ctx, jan.ID)
		require.NoError(t, err)
		p.Status = models.PaymentStatusOverdue
		return tx.Payments().Update(f.h.Ctx, p)
	})
	requireRules(t, err, RuleActiveContractOccupiedDepartment, RulePaidPaymentReopened)
}

func TestValidator_CleanTransactionPasses(t *testing.T) {
	f := newFixture(t)
	v := NewInvariantValidator()

	err := f.h.Store.WithTx(f.h.Ctx, func(tx repositories.Tx) error {
		d, err := tx.Departments().GetForUpdate(f.h.Ctx, f.dept.ID)
		require.NoError(t, err)
		d.Occupancy = models.OccupancyMaintenance
		if err := tx.Departments().Update(f.h.Ctx, d); err != nil {
			return err
		}
		violations, err := v.Check(f.h.Ctx, tx, tx.Changes())
		require.NoError(t, err)
		assert.Empty(t, violations)
		return nil
	})
	require.NoError(t, err)
}
