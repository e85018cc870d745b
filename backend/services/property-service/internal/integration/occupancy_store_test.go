//go:build integration

package integration

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManagers() (*services.OccupancyService, *services.PaymentLifecycleService) {
	payments := services.NewPaymentLifecycleService(cfg, h.Store, nil)
	return services.NewOccupancyService(h.Store, payments, nil), payments
}

func futureTerms() services.ContractTerms {
	start := time.Now().UTC().AddDate(0, 1, 0)
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)
	return services.ContractTerms{
		StartDate:     start,
		EndDate:       start.AddDate(0, 6, 0),
		MonthlyAmount: decimal.NewFromInt(1800),
		BillingDay:    10,
	}
}

func TestPostgresBindAndTerminate(t *testing.T) {
	occupancy, payments := newManagers()
	admin := services.Actor{UserID: uuid.New(), Role: models.RoleAdmin}

	b := h.CreateTestBuilding("Torre Integracion " + uuid.NewString()[:8])
	d := h.CreateTestDepartment(b.ID, "1001", 10)
	tnt := h.CreateTestTenant("Integracion Inquilino", models.TenantStatusPending)

	res, err := occupancy.BindTenant(h.Ctx, admin, d.ID, tnt.ID, futureTerms())
	require.NoError(t, err)
	require.Len(t, res.Payments, 6)

	stored := h.GetDepartment(d.ID)
	require.NotNil(t, stored)
	assert.Equal(t, models.OccupancyOccupied, stored.Occupancy)
	require.NotNil(t, stored.CurrentContractID)
	assert.Equal(t, res.Contract.ID, *stored.CurrentContractID)

	// Rescheduling is idempotent against the unique (contract, period, sequence) key.
	again, err := payments.SchedulePayments(h.Ctx, admin, res.Contract.ID)
	require.NoError(t, err)
	assert.Len(t, again, 6)
	assert.Len(t, h.ListContractPayments(res.Contract.ID), 6)

	term, err := occupancy.TerminateContract(h.Ctx, admin, res.Contract.ID, "integration teardown", false)
	require.NoError(t, err)
	assert.Len(t, term.VoidedPayments, 6)
	assert.Equal(t, models.OccupancyAvailable, h.GetDepartment(d.ID).Occupancy)
	assert.Equal(t, models.TenantStatusActive, h.GetTenant(tnt.ID).Status)
}

func TestPostgresConcurrentBindSingleWinner(t *testing.T) {
	occupancy, _ := newManagers()
	admin := services.Actor{UserID: uuid.New(), Role: models.RoleAdmin}

	b := h.CreateTestBuilding("Torre Concurrencia " + uuid.NewString()[:8])
	d := h.CreateTestDepartment(b.ID, "201", 2)
	tenants := []*models.Tenant{
		h.CreateTestTenant("Concurrente Uno", models.TenantStatusPending),
		h.CreateTestTenant("Concurrente Dos", models.TenantStatusPending),
		h.CreateTestTenant("Concurrente Tres", models.TenantStatusPending),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
		errs []error
	)
	for _, tnt := range tenants {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			_, err := occupancy.BindTenant(h.Ctx, admin, d.ID, tenantID, futureTerms())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				wins++
				return
			}
			errs = append(errs, err)
		}(tnt.ID)
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
	for _, err := range errs {
		assert.True(t, errors.Is(err, internal_utils.ErrConflict), "unexpected error: %v", err)
	}
	assert.Equal(t, models.OccupancyOccupied, h.GetDepartment(d.ID).Occupancy)
}

func TestPostgresUniqueDepartmentNumber(t *testing.T) {
	b := h.CreateTestBuilding("Torre Unica " + uuid.NewString()[:8])
	h.CreateTestDepartment(b.ID, "301", 3)

	registry := services.NewRegistryService(h.Store)
	admin := services.Actor{UserID: uuid.New(), Role: models.RoleAdmin}
	_, err := registry.CreateDepartment(h.Ctx, admin, services.NewDepartment{BuildingID: b.ID, Number: "301", Floor: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, internal_utils.ErrConflict)
}
