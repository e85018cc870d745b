package models

import (
	"time"

	"github.com/google/uuid"
)

// Building owns many Departments.
type Building struct {
	Versioned
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	FloorCount int       `json:"floor_count"`
	UnitCount  int       `json:"unit_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b *Building) GetID() string { return b.ID.String() }
