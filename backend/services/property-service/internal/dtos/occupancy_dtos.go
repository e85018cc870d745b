package dtos

import (
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

type BindTenantRequest struct {
	DepartmentID  string                     `json:"department_id" validate:"required,uuid"`
	TenantID      string                     `json:"tenant_id" validate:"required,uuid"`
	StartDate     string                     `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate       string                     `json:"end_date" validate:"required,datetime=2006-01-02"`
	MonthlyAmount decimal.Decimal            `json:"monthly_amount"`
	BillingDay    int                        `json:"billing_day" validate:"omitempty,min=1,max=31"`
	PeriodAmounts map[string]decimal.Decimal `json:"period_amounts,omitempty"`
}

type BindTenantResponse struct {
	Contract   *models.Contract   `json:"contract"`
	Department *models.Department `json:"department"`
	Tenant     *models.Tenant     `json:"tenant"`
	Payments   []*models.Payment  `json:"payments"`
}

type TerminateContractRequest struct {
	ContractID      string `json:"contract_id" validate:"required,uuid"`
	Reason          string `json:"reason" validate:"required,max=500"`
	FlagMaintenance bool   `json:"flag_maintenance"`
}

type TerminateContractResponse struct {
	Contract       *models.Contract   `json:"contract"`
	Department     *models.Department `json:"department"`
	VoidedPayments []*models.Payment  `json:"voided_payments"`
}

type SetMaintenanceRequest struct {
	Maintenance *bool `json:"maintenance" validate:"required"`
}
