package services

import (
	"errors"
	"testing"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-testhelpers"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	h         *testhelpers.TestHelper
	cfg       *config.Config
	payments  *PaymentLifecycleService
	occupancy *OccupancyService
	incidents *IncidentWorkflowService
	scan      *OverdueScanService
	registry  *RegistryService

	admin Actor

	building *models.Building
	dept     *models.Department
	tenant   *models.Tenant
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	h := testhelpers.NewTestHelper(t, NewInvariantValidator())
	cfg := &config.Config{LDFlag_AllowPartialPayments: true}
	clock := Clock(h.Clock.Now)

	payments := NewPaymentLifecycleService(cfg, h.Store, clock)
	occupancy := NewOccupancyService(h.Store, payments, clock)

	f := &fixture{
		h:         h,
		cfg:       cfg,
		payments:  payments,
		occupancy: occupancy,
		incidents: NewIncidentWorkflowService(h.Store, clock),
		scan:      NewOverdueScanService(h.Store, payments, occupancy, clock),
		registry:  NewRegistryService(h.Store),
		admin:     Actor{UserID: uuid.New(), Role: models.RoleAdmin},
	}
	f.building = h.CreateTestBuilding("Torre Miraflores")
	f.dept = h.CreateTestDepartment(f.building.ID, "301", 3)
	f.tenant = h.CreateTestTenant("Ana Quispe", models.TenantStatusPending)
	return f
}

func (f *fixture) tenantActor(t *models.Tenant) Actor {
	return Actor{UserID: t.ID, Role: models.RoleTenant}
}

// yearTerms is a calendar-2025 contract at 1500/month due on the 5th.
func yearTerms() ContractTerms {
	return ContractTerms{
		StartDate:     date(2025, time.January, 1),
		EndDate:       date(2026, time.January, 1),
		MonthlyAmount: decimal.RequireFromString("1500"),
		BillingDay:    5,
	}
}

func (f *fixture) bind(t *testing.T) *BindResult {
	t.Helper()
	res, err := f.occupancy.BindTenant(f.h.Ctx, f.admin, f.dept.ID, f.tenant.ID, yearTerms())
	require.NoError(t, err)
	return res
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func paymentForPeriod(t *testing.T, payments []*models.Payment, period string) *models.Payment {
	t.Helper()
	for _, p := range payments {
		if p.Period == period && p.Sequence == 0 {
			return p
		}
	}
	t.Fatalf("no payment for period %s", period)
	return nil
}

func requireKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	require.Truef(t, errors.Is(err, kind), "expected %v, got %v", kind, err)
}

func requireRules(t *testing.T, err error, rules ...string) {
	t.Helper()
	requireKind(t, err, internal_utils.ErrConflict)
	ce, ok := internal_utils.AsCoreError(err)
	require.True(t, ok)
	for _, r := range rules {
		require.Contains(t, ce.Rules, r)
	}
}
