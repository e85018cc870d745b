package seeding

import (
	"context"
	"fmt"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
)

const (
	DefaultTenantID      = "7e000000-0000-4000-8000-000000000001"
	DefaultTenantEmail   = "inquilino.demo@depamanager.pe"
	SecondaryTenantID    = "7e000000-0000-4000-8000-000000000002"
	SecondaryTenantEmail = "inquilina.demo@depamanager.pe"
)

// SeedDefaultTenants creates the demo tenants in PENDING status; binding them
// to a department is left to the occupancy flow.
func SeedDefaultTenants(ctx context.Context, store repositories.Store) error {
	seeds := []*models.Tenant{
		{
			ID:             uuid.MustParse(DefaultTenantID),
			FullName:       "Carlos Mendoza",
			Email:          DefaultTenantEmail,
			Phone:          utils.Ptr("+51987654321"),
			DocumentNumber: "45678912",
			Status:         models.TenantStatusPending,
		},
		{
			ID:             uuid.MustParse(SecondaryTenantID),
			FullName:       "Lucia Torres",
			Email:          SecondaryTenantEmail,
			DocumentNumber: "41239876",
			Status:         models.TenantStatusPending,
		},
	}

	return store.WithTx(ctx, func(tx repositories.Tx) error {
		for _, t := range seeds {
			existing, err := tx.Tenants().GetByID(ctx, t.ID)
			if err != nil {
				return fmt.Errorf("check existing tenant: %w", err)
			}
			if existing != nil {
				utils.Logger.Infof("seeding: tenant (id=%s) already exists; skipping", t.ID)
				continue
			}
			if err := tx.Tenants().Create(ctx, t); err != nil {
				return fmt.Errorf("create tenant %s: %w", t.Email, err)
			}
			utils.Logger.Infof("seeding: created tenant id=%s", t.ID)
		}
		return nil
	})
}
