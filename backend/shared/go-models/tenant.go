package models

import (
	"time"

	"github.com/google/uuid"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "ACTIVE"
	TenantStatusPending   TenantStatus = "PENDING"
	TenantStatusWithdrawn TenantStatus = "WITHDRAWN"
)

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantStatusActive, TenantStatusPending, TenantStatusWithdrawn:
		return true
	default:
		return false
	}
}

// Tenant is the occupant side of a Contract. Credentials live with the auth
// service; this record only carries identity and status.
type Tenant struct {
	Versioned
	ID             uuid.UUID    `json:"id"`
	FullName       string       `json:"full_name"`
	Email          string       `json:"email"`
	Phone          *string      `json:"phone,omitempty"`
	DocumentNumber string       `json:"document_number"`
	Status         TenantStatus `json:"status"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (t *Tenant) GetID() string { return t.ID.String() }
