package models

import (
	"time"

	"github.com/google/uuid"
)

// Provider is an external maintenance contractor that incidents get assigned to.
type Provider struct {
	Versioned
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty string    `json:"specialty"`
	Phone     *string   `json:"phone,omitempty"`
	Email     *string   `json:"email,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Provider) GetID() string { return p.ID.String() }
