package repositories

import (
	"context"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
)

// Store runs units of work atomically. Every successful fn is checked by the
// store's Validator (when set) against the proposed state before commit; a
// validation error rolls the whole unit back.
type Store interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
}

// Tx gives access to the repositories bound to one transaction. Reads
// observe the transaction's own writes.
type Tx interface {
	Buildings() BuildingRepository
	Departments() DepartmentRepository
	Tenants() TenantRepository
	Contracts() ContractRepository
	Payments() PaymentRepository
	Incidents() IncidentRepository
	Providers() ProviderRepository
	AuditLogs() AuditLogRepository
	Changes() []Change
}

// Validator checks the proposed state of a transaction before commit.
type Validator interface {
	Validate(ctx context.Context, tx Tx, changes []Change) error
}

/* ───────────── repository contracts ─────────────

   GetByID / GetForUpdate return (nil, nil) when the row does not exist.
   GetForUpdate locks the row until the transaction ends and fails fast
   with ErrLockNotAvailable when someone else holds it.
   Update expects the entity to carry the row version it was read with; on
   success the version is bumped in place, otherwise the error wraps
   utils.ErrRowVersionConflict.
*/

type BuildingRepository interface {
	Create(ctx context.Context, b *models.Building) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Building, error)
	List(ctx context.Context) ([]*models.Building, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, d *models.Department) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Department, error)
	Update(ctx context.Context, d *models.Department) error
	ListByBuilding(ctx context.Context, buildingID uuid.UUID) ([]*models.Department, error)
}

type TenantRepository interface {
	Create(ctx context.Context, t *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	Update(ctx context.Context, t *models.Tenant) error
	List(ctx context.Context) ([]*models.Tenant, error)
}

type ContractRepository interface {
	Create(ctx context.Context, c *models.Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Contract, error)
	Update(ctx context.Context, c *models.Contract) error
	ListActiveByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*models.Contract, error)
	ListActiveByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Contract, error)
	// ListActiveEndedBy returns ACTIVE contracts whose end date is <= t.
	ListActiveEndedBy(ctx context.Context, t time.Time) ([]*models.Contract, error)
}

type PaymentRepository interface {
	// CreateIfNotExists inserts p unless a payment with the same id or the
	// same (contract, period, sequence) exists. It reports whether a row
	// was inserted.
	CreateIfNotExists(ctx context.Context, p *models.Payment) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, p *models.Payment) error
	ListByContract(ctx context.Context, contractID uuid.UUID) ([]*models.Payment, error)
	ListByContractPeriod(ctx context.Context, contractID uuid.UUID, period string) ([]*models.Payment, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Payment, error)
	// ListPendingDueBefore returns PENDING payments with due_date < t.
	ListPendingDueBefore(ctx context.Context, t time.Time) ([]*models.Payment, error)
}

type IncidentRepository interface {
	Create(ctx context.Context, i *models.Incident) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	GetForUpdate(ctx context.Context, id uuid.UUID) (*models.Incident, error)
	Update(ctx context.Context, i *models.Incident) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Incident, error)
}

type ProviderRepository interface {
	Create(ctx context.Context, p *models.Provider) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Provider, error)
	List(ctx context.Context) ([]*models.Provider, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, entry *models.AuditLog) error
	ListByTarget(ctx context.Context, targetID uuid.UUID) ([]*models.AuditLog, error)
}
