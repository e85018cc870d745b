package repositories

import (
	"context"
	"sort"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
)

/* ---------- buildings ---------- */

type memBuildingRepo struct{ tx *memTx }

func (r *memBuildingRepo) Create(_ context.Context, b *models.Building) error {
	now := r.tx.store.now()
	b.CreatedAt, b.UpdatedAt = now, now
	return r.tx.buildings.insert(b)
}

func (r *memBuildingRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Building, error) {
	return r.tx.buildings.get(id.String()), nil
}

func (r *memBuildingRepo) List(_ context.Context) ([]*models.Building, error) {
	out := r.tx.buildings.list(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

/* ---------- departments ---------- */

type memDepartmentRepo struct{ tx *memTx }

func (r *memDepartmentRepo) Create(_ context.Context, d *models.Department) error {
	now := r.tx.store.now()
	d.CreatedAt, d.UpdatedAt = now, now
	return r.tx.departments.insert(d)
}

func (r *memDepartmentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Department, error) {
	return r.tx.departments.get(id.String()), nil
}

func (r *memDepartmentRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*models.Department, error) {
	return r.tx.departments.getForUpdate(id.String())
}

func (r *memDepartmentRepo) Update(_ context.Context, d *models.Department) error {
	d.UpdatedAt = r.tx.store.now()
	return r.tx.departments.update(d)
}

func (r *memDepartmentRepo) ListByBuilding(_ context.Context, buildingID uuid.UUID) ([]*models.Department, error) {
	out := r.tx.departments.list(func(d *models.Department) bool { return d.BuildingID == buildingID })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		return out[i].Number < out[j].Number
	})
	return out, nil
}

/* ---------- tenants ---------- */

type memTenantRepo struct{ tx *memTx }

func (r *memTenantRepo) Create(_ context.Context, t *models.Tenant) error {
	now := r.tx.store.now()
	t.CreatedAt, t.UpdatedAt = now, now
	return r.tx.tenants.insert(t)
}

func (r *memTenantRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.tx.tenants.get(id.String()), nil
}

func (r *memTenantRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*models.Tenant, error) {
	return r.tx.tenants.getForUpdate(id.String())
}

func (r *memTenantRepo) Update(_ context.Context, t *models.Tenant) error {
	t.UpdatedAt = r.tx.store.now()
	return r.tx.tenants.update(t)
}

func (r *memTenantRepo) List(_ context.Context) ([]*models.Tenant, error) {
	out := r.tx.tenants.list(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

/* ---------- contracts ---------- */

type memContractRepo struct{ tx *memTx }

func (r *memContractRepo) Create(_ context.Context, c *models.Contract) error {
	now := r.tx.store.now()
	c.CreatedAt, c.UpdatedAt = now, now
	return r.tx.contracts.insert(c)
}

func (r *memContractRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	return r.tx.contracts.get(id.String()), nil
}

func (r *memContractRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*models.Contract, error) {
	return r.tx.contracts.getForUpdate(id.String())
}

func (r *memContractRepo) Update(_ context.Context, c *models.Contract) error {
	c.UpdatedAt = r.tx.store.now()
	return r.tx.contracts.update(c)
}

func (r *memContractRepo) ListActiveByDepartment(_ context.Context, departmentID uuid.UUID) ([]*models.Contract, error) {
	return sortContracts(r.tx.contracts.list(func(c *models.Contract) bool {
		return c.IsActive() && c.DepartmentID == departmentID
	})), nil
}

func (r *memContractRepo) ListActiveByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Contract, error) {
	return sortContracts(r.tx.contracts.list(func(c *models.Contract) bool {
		return c.IsActive() && c.TenantID == tenantID
	})), nil
}

func (r *memContractRepo) ListActiveEndedBy(_ context.Context, t time.Time) ([]*models.Contract, error) {
	out := r.tx.contracts.list(func(c *models.Contract) bool {
		return c.IsActive() && !c.EndDate.After(t)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(out[j].EndDate) })
	return out, nil
}

func sortContracts(out []*models.Contract) []*models.Contract {
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out
}

/* ---------- payments ---------- */

type memPaymentRepo struct{ tx *memTx }

func (r *memPaymentRepo) CreateIfNotExists(_ context.Context, p *models.Payment) (bool, error) {
	if r.tx.payments.get(p.GetID()) != nil {
		return false, nil
	}
	if p.ContractID != nil {
		contractID, period, seq := *p.ContractID, p.Period, p.Sequence
		existing := r.tx.payments.list(func(o *models.Payment) bool {
			return o.BelongsToContract(contractID) && o.Period == period && o.Sequence == seq
		})
		if len(existing) > 0 {
			return false, nil
		}
	}
	now := r.tx.store.now()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := r.tx.payments.insert(p); err != nil {
		return false, err
	}
	return true, nil
}

func (r *memPaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	return r.tx.payments.get(id.String()), nil
}

func (r *memPaymentRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*models.Payment, error) {
	return r.tx.payments.getForUpdate(id.String())
}

func (r *memPaymentRepo) Update(_ context.Context, p *models.Payment) error {
	p.UpdatedAt = r.tx.store.now()
	return r.tx.payments.update(p)
}

func (r *memPaymentRepo) ListByContract(_ context.Context, contractID uuid.UUID) ([]*models.Payment, error) {
	return sortPayments(r.tx.payments.list(func(p *models.Payment) bool {
		return p.BelongsToContract(contractID)
	})), nil
}

func (r *memPaymentRepo) ListByContractPeriod(_ context.Context, contractID uuid.UUID, period string) ([]*models.Payment, error) {
	return sortPayments(r.tx.payments.list(func(p *models.Payment) bool {
		return p.BelongsToContract(contractID) && p.Period == period
	})), nil
}

func (r *memPaymentRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Payment, error) {
	return sortPayments(r.tx.payments.list(func(p *models.Payment) bool {
		return p.TenantID == tenantID
	})), nil
}

func (r *memPaymentRepo) ListPendingDueBefore(_ context.Context, t time.Time) ([]*models.Payment, error) {
	return sortPayments(r.tx.payments.list(func(p *models.Payment) bool {
		return p.Status == models.PaymentStatusPending && p.DueDate.Before(t)
	})), nil
}

func sortPayments(out []*models.Payment) []*models.Payment {
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].Sequence < out[j].Sequence
	})
	return out
}

/* ---------- incidents ---------- */

type memIncidentRepo struct{ tx *memTx }

func (r *memIncidentRepo) Create(_ context.Context, i *models.Incident) error {
	now := r.tx.store.now()
	i.CreatedAt, i.UpdatedAt = now, now
	return r.tx.incidents.insert(i)
}

func (r *memIncidentRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	return r.tx.incidents.get(id.String()), nil
}

func (r *memIncidentRepo) GetForUpdate(_ context.Context, id uuid.UUID) (*models.Incident, error) {
	return r.tx.incidents.getForUpdate(id.String())
}

func (r *memIncidentRepo) Update(_ context.Context, i *models.Incident) error {
	i.UpdatedAt = r.tx.store.now()
	return r.tx.incidents.update(i)
}

func (r *memIncidentRepo) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]*models.Incident, error) {
	out := r.tx.incidents.list(func(i *models.Incident) bool { return i.TenantID == tenantID })
	sort.Slice(out, func(a, b int) bool { return out[a].ReportedAt.After(out[b].ReportedAt) })
	return out, nil
}

/* ---------- providers ---------- */

type memProviderRepo struct{ tx *memTx }

func (r *memProviderRepo) Create(_ context.Context, p *models.Provider) error {
	now := r.tx.store.now()
	p.CreatedAt, p.UpdatedAt = now, now
	return r.tx.providers.insert(p)
}

func (r *memProviderRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Provider, error) {
	return r.tx.providers.get(id.String()), nil
}

func (r *memProviderRepo) List(_ context.Context) ([]*models.Provider, error) {
	out := r.tx.providers.list(nil)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

/* ---------- audit logs ---------- */

type memAuditLogRepo struct{ tx *memTx }

func (r *memAuditLogRepo) Create(_ context.Context, entry *models.AuditLog) error {
	entry.CreatedAt = r.tx.store.now()
	c := *entry
	r.tx.auditLogs = append(r.tx.auditLogs, &c)
	return nil
}

func (r *memAuditLogRepo) ListByTarget(_ context.Context, targetID uuid.UUID) ([]*models.AuditLog, error) {
	var out []*models.AuditLog
	r.tx.store.mu.RLock()
	for _, e := range r.tx.store.auditLogs {
		if e.TargetID == targetID {
			c := *e
			out = append(out, &c)
		}
	}
	r.tx.store.mu.RUnlock()
	for _, e := range r.tx.auditLogs {
		if e.TargetID == targetID {
			c := *e
			out = append(out, &c)
		}
	}
	return out, nil
}
