// go-models/payment.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending             PaymentStatus = "PENDING"
	PaymentStatusPendingVerification PaymentStatus = "PENDING_VERIFICATION"
	PaymentStatusPaid                PaymentStatus = "PAID"
	PaymentStatusOverdue             PaymentStatus = "OVERDUE"
	PaymentStatusVoid                PaymentStatus = "VOID"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPendingVerification,
		PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusVoid:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is permitted.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusVoid
}

type PaymentMethod string

const (
	PaymentMethodYape     PaymentMethod = "YAPE"
	PaymentMethodPlin     PaymentMethod = "PLIN"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodPayPal   PaymentMethod = "PAYPAL"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodYape, PaymentMethodPlin, PaymentMethodTransfer,
		PaymentMethodCash, PaymentMethodPayPal:
		return true
	default:
		return false
	}
}

// PeriodLayout formats Payment.Period ("2025-03").
const PeriodLayout = "2006-01"

// Payment is one charge owed by a Tenant. Scheduled rent carries its
// ContractID, Period and Sequence (0 for the scheduled record, 1.. for split
// parts). Ad-hoc service charges have no ContractID and an empty Period.
type Payment struct {
	Versioned
	ID              uuid.UUID       `json:"id"`
	TenantID        uuid.UUID       `json:"tenant_id"`
	ContractID      *uuid.UUID      `json:"contract_id,omitempty"`
	Concept         string          `json:"concept"`
	Period          string          `json:"period,omitempty"`
	Sequence        int             `json:"sequence"`
	Amount          decimal.Decimal `json:"amount"`
	ScheduledAmount decimal.Decimal `json:"scheduled_amount"`
	DueDate         time.Time       `json:"due_date"`
	Status          PaymentStatus   `json:"status"`
	Method          *PaymentMethod  `json:"method,omitempty"`
	ReceiptRef      *string         `json:"receipt_ref,omitempty"`
	SubmittedAt     *time.Time      `json:"submitted_at,omitempty"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	VoidedAt        *time.Time      `json:"voided_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func (p *Payment) GetID() string { return p.ID.String() }

func (p *Payment) BelongsToContract(contractID uuid.UUID) bool {
	return p.ContractID != nil && *p.ContractID == contractID
}
