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
	DefaultBuildingID = "b0000000-0000-4000-8000-000000000001"
)

var defaultDepartments = []struct {
	ID     string
	Number string
	Floor  int
}{
	{"d0000000-0000-4000-8000-000000000101", "101", 1},
	{"d0000000-0000-4000-8000-000000000102", "102", 1},
	{"d0000000-0000-4000-8000-000000000201", "201", 2},
	{"d0000000-0000-4000-8000-000000000202", "202", 2},
}

// SeedDefaultBuilding creates the demo building and its departments if needed.
func SeedDefaultBuilding(ctx context.Context, store repositories.Store) error {
	buildingID := uuid.MustParse(DefaultBuildingID)

	return store.WithTx(ctx, func(tx repositories.Tx) error {
		existing, err := tx.Buildings().GetByID(ctx, buildingID)
		if err != nil {
			return fmt.Errorf("check existing building: %w", err)
		}
		if existing == nil {
			b := &models.Building{
				ID:         buildingID,
				Name:       "Residencial Los Olivos",
				Address:    "Av. Javier Prado Este 2450, San Borja, Lima",
				FloorCount: 2,
				UnitCount:  len(defaultDepartments),
			}
			if err := tx.Buildings().Create(ctx, b); err != nil {
				return fmt.Errorf("create default building: %w", err)
			}
			utils.Logger.Infof("seeding: created default building id=%s", buildingID)
		} else {
			utils.Logger.Info("seeding: default building already present; skipping")
		}

		for _, d := range defaultDepartments {
			id := uuid.MustParse(d.ID)
			got, err := tx.Departments().GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("check department %s: %w", d.Number, err)
			}
			if got != nil {
				continue
			}
			if err := tx.Departments().Create(ctx, &models.Department{
				ID:         id,
				BuildingID: buildingID,
				Number:     d.Number,
				Floor:      d.Floor,
				Occupancy:  models.OccupancyAvailable,
			}); err != nil {
				return fmt.Errorf("create department %s: %w", d.Number, err)
			}
			utils.Logger.Infof("seeding: created department %s", d.Number)
		}
		return nil
	})
}
