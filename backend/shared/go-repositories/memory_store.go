package repositories

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
)

// MemoryStore is an in-process Store with the same locking and versioning
// semantics as PgStore: GetForUpdate takes a row lock that fails fast,
// Update checks the row version, and commit re-checks every written row
// against the committed state before applying the whole unit at once.
type MemoryStore struct {
	mu        sync.RWMutex
	validator Validator
	now       func() time.Time
	nextTxID  atomic.Uint64

	locks map[string]uint64

	buildings   *memTable[models.Building, *models.Building]
	departments *memTable[models.Department, *models.Department]
	tenants     *memTable[models.Tenant, *models.Tenant]
	contracts   *memTable[models.Contract, *models.Contract]
	payments    *memTable[models.Payment, *models.Payment]
	incidents   *memTable[models.Incident, *models.Incident]
	providers   *memTable[models.Provider, *models.Provider]
	auditLogs   []*models.AuditLog
}

func NewMemoryStore(validator Validator) *MemoryStore {
	return &MemoryStore{
		validator: validator,
		now:       time.Now,
		locks:     map[string]uint64{},
		buildings: newMemTable[models.Building](EntityBuilding, nil),
		departments: newMemTable[models.Department](EntityDepartment, func(d *models.Department) string {
			return d.BuildingID.String() + "/" + d.Number
		}),
		tenants: newMemTable[models.Tenant](EntityTenant, func(t *models.Tenant) string {
			return t.Email
		}),
		contracts: newMemTable[models.Contract](EntityContract, nil),
		payments: newMemTable[models.Payment](EntityPayment, func(p *models.Payment) string {
			if p.ContractID == nil {
				return "adhoc/" + p.ID.String()
			}
			return fmt.Sprintf("%s/%s/%d", p.ContractID, p.Period, p.Sequence)
		}),
		incidents: newMemTable[models.Incident](EntityIncident, nil),
		providers: newMemTable[models.Provider](EntityProvider, nil),
	}
}

// SetClock overrides the clock used for created_at / updated_at.
func (s *MemoryStore) SetClock(now func() time.Time) { s.now = now }

func (s *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (s *MemoryStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.begin()
	defer tx.releaseLocks()

	if err := fn(tx); err != nil {
		return err
	}
	if s.validator != nil {
		if err := s.validator.Validate(ctx, tx, tx.Changes()); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

func (s *MemoryStore) begin() *memTx {
	tx := &memTx{store: s, id: s.nextTxID.Add(1), log: &ChangeLog{}}
	tx.buildings = newMemTableTx(s.buildings, tx)
	tx.departments = newMemTableTx(s.departments, tx)
	tx.tenants = newMemTableTx(s.tenants, tx)
	tx.contracts = newMemTableTx(s.contracts, tx)
	tx.payments = newMemTableTx(s.payments, tx)
	tx.incidents = newMemTableTx(s.incidents, tx)
	tx.providers = newMemTableTx(s.providers, tx)
	return tx
}

/* ───────────── transaction ───────────── */

type memTx struct {
	store *MemoryStore
	id    uint64
	log   *ChangeLog
	held  []string

	buildings   *memTableTx[models.Building, *models.Building]
	departments *memTableTx[models.Department, *models.Department]
	tenants     *memTableTx[models.Tenant, *models.Tenant]
	contracts   *memTableTx[models.Contract, *models.Contract]
	payments    *memTableTx[models.Payment, *models.Payment]
	incidents   *memTableTx[models.Incident, *models.Incident]
	providers   *memTableTx[models.Provider, *models.Provider]
	auditLogs   []*models.AuditLog
}

func lockKey(kind EntityKind, id string) string { return string(kind) + ":" + id }

func (tx *memTx) lock(kind EntityKind, id string) error {
	key := lockKey(kind, id)
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	if owner, ok := tx.store.locks[key]; ok {
		if owner == tx.id {
			return nil
		}
		return fmt.Errorf("%w: %s", ErrLockNotAvailable, key)
	}
	tx.store.locks[key] = tx.id
	tx.held = append(tx.held, key)
	return nil
}

func (tx *memTx) checkNotLockedByOther(kind EntityKind, id string) error {
	key := lockKey(kind, id)
	tx.store.mu.RLock()
	defer tx.store.mu.RUnlock()
	if owner, ok := tx.store.locks[key]; ok && owner != tx.id {
		return fmt.Errorf("%w: %s", ErrLockNotAvailable, key)
	}
	return nil
}

func (tx *memTx) releaseLocks() {
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	for _, key := range tx.held {
		if tx.store.locks[key] == tx.id {
			delete(tx.store.locks, key)
		}
	}
	tx.held = nil
}

func (tx *memTx) commit() error {
	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	verifiers := []func() error{
		tx.buildings.verify, tx.departments.verify, tx.tenants.verify, tx.contracts.verify,
		tx.payments.verify, tx.incidents.verify, tx.providers.verify,
	}
	for _, verify := range verifiers {
		if err := verify(); err != nil {
			return err
		}
	}

	tx.buildings.apply()
	tx.departments.apply()
	tx.tenants.apply()
	tx.contracts.apply()
	tx.payments.apply()
	tx.incidents.apply()
	tx.providers.apply()
	s.auditLogs = append(s.auditLogs, tx.auditLogs...)
	return nil
}

func (tx *memTx) Buildings() BuildingRepository     { return &memBuildingRepo{tx: tx} }
func (tx *memTx) Departments() DepartmentRepository { return &memDepartmentRepo{tx: tx} }
func (tx *memTx) Tenants() TenantRepository         { return &memTenantRepo{tx: tx} }
func (tx *memTx) Contracts() ContractRepository     { return &memContractRepo{tx: tx} }
func (tx *memTx) Payments() PaymentRepository       { return &memPaymentRepo{tx: tx} }
func (tx *memTx) Incidents() IncidentRepository     { return &memIncidentRepo{tx: tx} }
func (tx *memTx) Providers() ProviderRepository     { return &memProviderRepo{tx: tx} }
func (tx *memTx) AuditLogs() AuditLogRepository     { return &memAuditLogRepo{tx: tx} }
func (tx *memTx) Changes() []Change                 { return tx.log.Changes() }
