package testhelpers

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// UniqueEmail generates a unique email for testing.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@depamanager.test", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueDocument generates a unique national id number.
func UniqueDocument() string {
	return fmt.Sprintf("%08d", seq.Add(1)%1e8)
}

func (h *TestHelper) inTx(fn func(tx repositories.Tx) error) {
	require.NoError(h.T, h.Store.WithTx(h.Ctx, fn))
}

// CreateTestBuilding persists a building.
func (h *TestHelper) CreateTestBuilding(name string) *models.Building {
	b := &models.Building{
		ID:         uuid.New(),
		Name:       name,
		Address:    "Av. Arequipa 1234, Lima",
		FloorCount: 10,
		UnitCount:  40,
	}
	h.inTx(func(tx repositories.Tx) error { return tx.Buildings().Create(h.Ctx, b) })
	return b
}

// CreateTestDepartment persists an AVAILABLE department in building.
func (h *TestHelper) CreateTestDepartment(buildingID uuid.UUID, number string, floor int) *models.Department {
	d := &models.Department{
		ID:         uuid.New(),
		BuildingID: buildingID,
		Number:     number,
		Floor:      floor,
		Occupancy:  models.OccupancyAvailable,
	}
	h.inTx(func(tx repositories.Tx) error { return tx.Departments().Create(h.Ctx, d) })
	return d
}

// CreateTestTenant persists a tenant with the given status.
func (h *TestHelper) CreateTestTenant(name string, status models.TenantStatus) *models.Tenant {
	t := &models.Tenant{
		ID:             uuid.New(),
		FullName:       name,
		Email:          UniqueEmail("tenant"),
		DocumentNumber: UniqueDocument(),
		Status:         status,
	}
	h.inTx(func(tx repositories.Tx) error { return tx.Tenants().Create(h.Ctx, t) })
	return t
}

// CreateTestProvider persists a maintenance provider.
func (h *TestHelper) CreateTestProvider(name, specialty string, active bool) *models.Provider {
	p := &models.Provider{
		ID:        uuid.New(),
		Name:      name,
		Specialty: specialty,
		Active:    active,
	}
	h.inTx(func(tx repositories.Tx) error { return tx.Providers().Create(h.Ctx, p) })
	return p
}

// CreateTestServiceCharge persists an ad-hoc PENDING charge for a tenant.
func (h *TestHelper) CreateTestServiceCharge(tenantID uuid.UUID, amount string, due time.Time) *models.Payment {
	p := &models.Payment{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Concept:         "Service charge",
		Amount:          decimal.RequireFromString(amount),
		ScheduledAmount: decimal.RequireFromString(amount),
		DueDate:         due,
		Status:          models.PaymentStatusPending,
	}
	h.inTx(func(tx repositories.Tx) error {
		_, err := tx.Payments().CreateIfNotExists(h.Ctx, p)
		return err
	})
	return p
}

// GetDepartment reads a department outside any managed operation.
func (h *TestHelper) GetDepartment(id uuid.UUID) *models.Department {
	var out *models.Department
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.Departments().GetByID(h.Ctx, id)
		return err
	})
	return out
}

func (h *TestHelper) GetTenant(id uuid.UUID) *models.Tenant {
	var out *models.Tenant
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.Tenants().GetByID(h.Ctx, id)
		return err
	})
	return out
}

func (h *TestHelper) GetContract(id uuid.UUID) *models.Contract {
	var out *models.Contract
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.Contracts().GetByID(h.Ctx, id)
		return err
	})
	return out
}

func (h *TestHelper) GetPayment(id uuid.UUID) *models.Payment {
	var out *models.Payment
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.Payments().GetByID(h.Ctx, id)
		return err
	})
	return out
}

func (h *TestHelper) ListContractPayments(contractID uuid.UUID) []*models.Payment {
	var out []*models.Payment
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.Payments().ListByContract(h.Ctx, contractID)
		return err
	})
	return out
}

func (h *TestHelper) GetIncident(id uuid.UUID) *models.Incident {
	var out *models.Incident
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.Incidents().GetByID(h.Ctx, id)
		return err
	})
	return out
}

func (h *TestHelper) AuditTrail(targetID uuid.UUID) []*models.AuditLog {
	var out []*models.AuditLog
	h.inTx(func(tx repositories.Tx) (err error) {
		out, err = tx.AuditLogs().ListByTarget(h.Ctx, targetID)
		return err
	})
	return out
}
