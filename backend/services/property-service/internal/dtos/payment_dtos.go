package dtos

import "github.com/shopspring/decimal"

type SubmitReceiptRequest struct {
	Method     string `json:"method" validate:"required,oneof=YAPE PLIN TRANSFER CASH PAYPAL"`
	ReceiptRef string `json:"receipt_ref" validate:"max=128"`
}

type VerifyPaymentRequest struct {
	Approved *bool `json:"approved" validate:"required"`
}

type SplitPaymentRequest struct {
	Amounts []decimal.Decimal `json:"amounts" validate:"required,min=2"`
}

type ServiceChargeRequest struct {
	TenantID string          `json:"tenant_id" validate:"required,uuid"`
	Concept  string          `json:"concept" validate:"required,max=200"`
	Amount   decimal.Decimal `json:"amount"`
	DueDate  string          `json:"due_date" validate:"required,datetime=2006-01-02"`
}
