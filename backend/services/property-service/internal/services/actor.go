package services

import (
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/constants"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
)

// Capability names an action an actor may be allowed to perform.
type Capability string

const (
	CapManageOccupancy  Capability = "manage_occupancy"
	CapSchedulePayments Capability = "schedule_payments"
	CapSubmitPayment    Capability = "submit_payment"
	CapVerifyPayment    Capability = "verify_payment"
	CapMarkOverdue      Capability = "mark_overdue"
	CapManageCharges    Capability = "manage_charges"
	CapReportIncident   Capability = "report_incident"
	CapManageIncident   Capability = "manage_incident"
	CapManageRegistry   Capability = "manage_registry"
	CapExpireContracts  Capability = "expire_contracts"
)

var roleCapabilities = map[models.RoleType]map[Capability]bool{
	models.RoleAdmin: {
		CapManageOccupancy:  true,
		CapSchedulePayments: true,
		CapSubmitPayment:    true,
		CapVerifyPayment:    true,
		CapMarkOverdue:      true,
		CapManageCharges:    true,
		CapReportIncident:   true,
		CapManageIncident:   true,
		CapManageRegistry:   true,
		CapExpireContracts:  true,
	},
	models.RoleTenant: {
		CapSubmitPayment:  true,
		CapReportIncident: true,
	},
	models.RoleSystem: {
		CapSchedulePayments: true,
		CapMarkOverdue:      true,
		CapManageRegistry:   true,
		CapExpireContracts:  true,
	},
}

// Actor is the authenticated caller of a manager operation.
type Actor struct {
	UserID uuid.UUID
	Role   models.RoleType
}

func SystemActor() Actor {
	return Actor{UserID: constants.SystemActorID, Role: models.RoleSystem}
}

func (a Actor) Can(c Capability) bool {
	return roleCapabilities[a.Role][c]
}

func (a Actor) IsTenant() bool { return a.Role == models.RoleTenant }

func (a Actor) require(c Capability) error {
	if !a.Can(c) {
		return internal_utils.Unauthorized("role %s may not %s", a.Role, c)
	}
	return nil
}

// requireSelfOrStaff lets tenants act only on their own records.
func (a Actor) requireSelfOrStaff(tenantID uuid.UUID) error {
	if a.IsTenant() && a.UserID != tenantID {
		return internal_utils.Unauthorized("tenant %s may not access records of tenant %s", a.UserID, tenantID)
	}
	if !a.Role.Valid() {
		return internal_utils.Unauthorized("unknown role %q", a.Role)
	}
	return nil
}
