package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/google/uuid"
)

type NewBuilding struct {
	Name       string
	Address    string
	FloorCount int
	UnitCount  int
}

type NewDepartment struct {
	BuildingID uuid.UUID
	Number     string
	Floor      int
}

type NewTenant struct {
	FullName       string
	Email          string
	Phone          *string
	DocumentNumber string
}

type NewProvider struct {
	Name      string
	Specialty string
	Phone     *string
	Email     *string
}

// TenantUnit is what a tenant sees of their own tenancy.
type TenantUnit struct {
	Tenant     *models.Tenant     `json:"tenant"`
	Contract   *models.Contract   `json:"contract,omitempty"`
	Department *models.Department `json:"department,omitempty"`
}

// RegistryService maintains the reference records (buildings, departments,
// tenants, providers) the workflows operate on.
type RegistryService struct {
	store repositories.Store
}

func NewRegistryService(store repositories.Store) *RegistryService {
	return &RegistryService{store: store}
}

func (s *RegistryService) CreateBuilding(ctx context.Context, actor Actor, in NewBuilding) (*models.Building, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, internal_utils.Validation("building name is required")
	}
	if in.FloorCount < 0 || in.UnitCount < 0 {
		return nil, internal_utils.Validation("floor_count and unit_count cannot be negative")
	}

	b := &models.Building{
		ID:         uuid.New(),
		Name:       in.Name,
		Address:    strings.TrimSpace(in.Address),
		FloorCount: in.FloorCount,
		UnitCount:  in.UnitCount,
	}
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		if err := tx.Buildings().Create(ctx, b); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditCreate, models.TargetBuilding, b.ID, nil)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *RegistryService) ListBuildings(ctx context.Context, actor Actor) ([]*models.Building, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	var out []*models.Building
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Buildings().List(ctx)
		return err
	})
	return out, err
}

func (s *RegistryService) CreateDepartment(ctx context.Context, actor Actor, in NewDepartment) (*models.Department, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	in.Number = strings.TrimSpace(in.Number)
	if in.Number == "" {
		return nil, internal_utils.Validation("department number is required")
	}

	d := &models.Department{
		ID:         uuid.New(),
		BuildingID: in.BuildingID,
		Number:     in.Number,
		Floor:      in.Floor,
		Occupancy:  models.OccupancyAvailable,
	}
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		b, err := tx.Buildings().GetByID(ctx, in.BuildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return internal_utils.NotFound("building %s not found", in.BuildingID)
		}
		if err := tx.Departments().Create(ctx, d); err != nil {
			return duplicateAsConflict(err, "department %s already exists in building %s", in.Number, b.Name)
		}
		return recordAudit(ctx, tx, actor, models.AuditCreate, models.TargetDepartment, d.ID, nil)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *RegistryService) ListDepartments(ctx context.Context, actor Actor, buildingID uuid.UUID) ([]*models.Department, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	var out []*models.Department
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		b, err := tx.Buildings().GetByID(ctx, buildingID)
		if err != nil {
			return err
		}
		if b == nil {
			return internal_utils.NotFound("building %s not found", buildingID)
		}
		out, err = tx.Departments().ListByBuilding(ctx, buildingID)
		return err
	})
	return out, err
}

func (s *RegistryService) GetDepartment(ctx context.Context, actor Actor, departmentID uuid.UUID) (*models.Department, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	var out *models.Department
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		d, err := tx.Departments().GetByID(ctx, departmentID)
		if err != nil {
			return err
		}
		if d == nil {
			return internal_utils.NotFound("department %s not found", departmentID)
		}
		out = d
		return nil
	})
	return out, err
}

func (s *RegistryService) CreateTenant(ctx context.Context, actor Actor, in NewTenant) (*models.Tenant, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.FullName == "" {
		return nil, internal_utils.Validation("full_name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, internal_utils.Validation("invalid email %q", in.Email)
	}

	t := &models.Tenant{
		ID:             uuid.New(),
		FullName:       in.FullName,
		Email:          in.Email,
		Phone:          in.Phone,
		DocumentNumber: strings.TrimSpace(in.DocumentNumber),
		Status:         models.TenantStatusPending,
	}
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		if err := tx.Tenants().Create(ctx, t); err != nil {
			return duplicateAsConflict(err, "a tenant with email %s already exists", in.Email)
		}
		return recordAudit(ctx, tx, actor, models.AuditCreate, models.TargetTenant, t.ID, nil)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (s *RegistryService) GetTenant(ctx context.Context, actor Actor, tenantID uuid.UUID) (*models.Tenant, error) {
	if err := actor.requireSelfOrStaff(tenantID); err != nil {
		return nil, err
	}
	var out *models.Tenant
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		t, err := tx.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return err
		}
		if t == nil {
			return internal_utils.NotFound("tenant %s not found", tenantID)
		}
		out = t
		return nil
	})
	return out, err
}

func (s *RegistryService) ListTenants(ctx context.Context, actor Actor) ([]*models.Tenant, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	var out []*models.Tenant
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Tenants().List(ctx)
		return err
	})
	return out, err
}

// GetTenantUnit returns the tenant with their active contract and its
// department, if any.
func (s *RegistryService) GetTenantUnit(ctx context.Context, actor Actor, tenantID uuid.UUID) (*TenantUnit, error) {
	if err := actor.requireSelfOrStaff(tenantID); err != nil {
		return nil, err
	}
	var out *TenantUnit
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		t, err := tx.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return err
		}
		if t == nil {
			return internal_utils.NotFound("tenant %s not found", tenantID)
		}
		out = &TenantUnit{Tenant: t}
		active, err := tx.Contracts().ListActiveByTenant(ctx, tenantID)
		if err != nil || len(active) == 0 {
			return err
		}
		out.Contract = active[0]
		out.Department, err = tx.Departments().GetByID(ctx, active[0].DepartmentID)
		return err
	})
	return out, err
}

func (s *RegistryService) CreateProvider(ctx context.Context, actor Actor, in NewProvider) (*models.Provider, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Specialty = strings.TrimSpace(in.Specialty)
	if in.Name == "" || in.Specialty == "" {
		return nil, internal_utils.Validation("provider name and specialty are required")
	}

	p := &models.Provider{
		ID:        uuid.New(),
		Name:      in.Name,
		Specialty: in.Specialty,
		Phone:     in.Phone,
		Email:     in.Email,
		Active:    true,
	}
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		if err := tx.Providers().Create(ctx, p); err != nil {
			return err
		}
		return recordAudit(ctx, tx, actor, models.AuditCreate, models.TargetProvider, p.ID, nil)
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *RegistryService) ListProviders(ctx context.Context, actor Actor) ([]*models.Provider, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	var out []*models.Provider
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Providers().List(ctx)
		return err
	})
	return out, err
}

// AuditTrail lists the audit entries written for one record.
func (s *RegistryService) AuditTrail(ctx context.Context, actor Actor, targetID uuid.UUID) ([]*models.AuditLog, error) {
	if err := actor.require(CapManageRegistry); err != nil {
		return nil, err
	}
	var out []*models.AuditLog
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		out, err = tx.AuditLogs().ListByTarget(ctx, targetID)
		return err
	})
	return out, err
}

func duplicateAsConflict(err error, format string, args ...any) error {
	if errors.Is(err, repositories.ErrDuplicateKey) {
		return internal_utils.Conflict(format, args...)
	}
	return err
}
