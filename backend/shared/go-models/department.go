// go-models/department.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type OccupancyStatus string

const (
	OccupancyAvailable   OccupancyStatus = "AVAILABLE"
	OccupancyOccupied    OccupancyStatus = "OCCUPIED"
	OccupancyMaintenance OccupancyStatus = "MAINTENANCE"
)

func (s OccupancyStatus) Valid() bool {
	switch s {
	case OccupancyAvailable, OccupancyOccupied, OccupancyMaintenance:
		return true
	default:
		return false
	}
}

// Department is a rentable unit inside a Building. (building_id, number) is
// unique. Departments are soft-retired, never hard-deleted.
type Department struct {
	Versioned
	ID                uuid.UUID       `json:"id"`
	BuildingID        uuid.UUID       `json:"building_id"`
	Number            string          `json:"number"`
	Floor             int             `json:"floor"`
	Occupancy         OccupancyStatus `json:"occupancy"`
	CurrentContractID *uuid.UUID      `json:"current_contract_id,omitempty"`
	RetiredAt         *time.Time      `json:"retired_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (d *Department) GetID() string { return d.ID.String() }

func (d *Department) IsRetired() bool { return d.RetiredAt != nil }
