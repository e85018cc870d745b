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
	DefaultPlumberID     = "9a000000-0000-4000-8000-000000000001"
	DefaultElectricianID = "9a000000-0000-4000-8000-000000000002"
)

// SeedDefaultProviders creates two active maintenance providers if needed.
func SeedDefaultProviders(ctx context.Context, store repositories.Store) error {
	seeds := []*models.Provider{
		{
			ID:        uuid.MustParse(DefaultPlumberID),
			Name:      "Gasfiteria Rapida SAC",
			Specialty: "plumbing",
			Phone:     utils.Ptr("+51912345678"),
			Active:    true,
		},
		{
			ID:        uuid.MustParse(DefaultElectricianID),
			Name:      "ElectroServicios Lima",
			Specialty: "electrical",
			Email:     utils.Ptr("contacto@electroservicios.pe"),
			Active:    true,
		},
	}

	return store.WithTx(ctx, func(tx repositories.Tx) error {
		for _, p := range seeds {
			existing, err := tx.Providers().GetByID(ctx, p.ID)
			if err != nil {
				return fmt.Errorf("check existing provider: %w", err)
			}
			if existing != nil {
				continue
			}
			if err := tx.Providers().Create(ctx, p); err != nil {
				return fmt.Errorf("create provider %s: %w", p.Name, err)
			}
			utils.Logger.Infof("seeding: created provider %q", p.Name)
		}
		return nil
	})
}

// SeedAll runs every seeder in dependency order.
func SeedAll(ctx context.Context, store repositories.Store) error {
	if err := SeedDefaultBuilding(ctx, store); err != nil {
		return err
	}
	if err := SeedDefaultTenants(ctx, store); err != nil {
		return err
	}
	return SeedDefaultProviders(ctx, store)
}
