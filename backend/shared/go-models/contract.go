// go-models/contract.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ContractStatus string

const (
	ContractStatusActive     ContractStatus = "ACTIVE"
	ContractStatusExpired    ContractStatus = "EXPIRED"
	ContractStatusTerminated ContractStatus = "TERMINATED"
)

func (s ContractStatus) Valid() bool {
	switch s {
	case ContractStatusActive, ContractStatusExpired, ContractStatusTerminated:
		return true
	default:
		return false
	}
}

// Contract binds one Tenant to one Department for [StartDate, EndDate).
type Contract struct {
	Versioned
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	DepartmentID      uuid.UUID       `json:"department_id"`
	StartDate         time.Time       `json:"start_date"`
	EndDate           time.Time       `json:"end_date"`
	MonthlyAmount     decimal.Decimal `json:"monthly_amount"`
	BillingDay        int             `json:"billing_day"`
	Status            ContractStatus  `json:"status"`
	TerminationReason *string         `json:"termination_reason,omitempty"`
	TerminatedAt      *time.Time      `json:"terminated_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (c *Contract) GetID() string { return c.ID.String() }

func (c *Contract) IsActive() bool { return c.Status == ContractStatusActive }
