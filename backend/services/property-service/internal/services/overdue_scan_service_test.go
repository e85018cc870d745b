package services

import (
	"testing"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverdueScan(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)
	feb := paymentForPeriod(t, res.Payments, "2025-02")

	_, err := f.payments.SubmitReceipt(f.h.Ctx, f.tenantActor(f.tenant), feb.ID, models.PaymentMethodTransfer, "BCP-123")
	require.NoError(t, err)

	f.h.Clock.Set(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))
	report, err := f.scan.RunScan(f.h.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.MarkedOverdue)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.ContractsExpired)

	for _, p := range f.h.ListContractPayments(res.Contract.ID) {
		switch p.Period {
		case "2025-01", "2025-03":
			assert.Equal(t, models.PaymentStatusOverdue, p.Status, p.Period)
		case "2025-02":
			assert.Equal(t, models.PaymentStatusPendingVerification, p.Status)
		default:
			assert.Equal(t, models.PaymentStatusPending, p.Status, p.Period)
		}
	}

	// second run has nothing left to do
	report, err = f.scan.RunScan(f.h.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.MarkedOverdue)
}

func TestOverdueScan_ExpiresEndedContracts(t *testing.T) {
	f := newFixture(t)
	res := f.bind(t)

	f.h.Clock.Set(date(2026, time.January, 3))
	report, err := f.scan.RunScan(f.h.Ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, report.MarkedOverdue)
	assert.Equal(t, 1, report.ContractsExpired)
	assert.Equal(t, models.ContractStatusExpired, f.h.GetContract(res.Contract.ID).Status)
}
