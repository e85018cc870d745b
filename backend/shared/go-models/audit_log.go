// backend/shared/go-models/audit_log.go
package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate            AuditAction = "CREATE"
	AuditBindTenant        AuditAction = "BIND_TENANT"
	AuditTerminateContract AuditAction = "TERMINATE_CONTRACT"
	AuditExpireContract    AuditAction = "EXPIRE_CONTRACT"
	AuditSetMaintenance    AuditAction = "SET_MAINTENANCE"
	AuditRetireDepartment  AuditAction = "RETIRE_DEPARTMENT"
	AuditSchedulePayments  AuditAction = "SCHEDULE_PAYMENTS"
	AuditSubmitReceipt     AuditAction = "SUBMIT_RECEIPT"
	AuditVerifyPayment     AuditAction = "VERIFY_PAYMENT"
	AuditMarkOverdue       AuditAction = "MARK_OVERDUE"
	AuditSplitPayment      AuditAction = "SPLIT_PAYMENT"
	AuditReportIncident    AuditAction = "REPORT_INCIDENT"
	AuditAdvanceIncident   AuditAction = "ADVANCE_INCIDENT"
	AuditIncidentMessage   AuditAction = "INCIDENT_MESSAGE"
)

type AuditTargetType string

const (
	TargetBuilding   AuditTargetType = "BUILDING"
	TargetDepartment AuditTargetType = "DEPARTMENT"
	TargetTenant     AuditTargetType = "TENANT"
	TargetContract   AuditTargetType = "CONTRACT"
	TargetPayment    AuditTargetType = "PAYMENT"
	TargetIncident   AuditTargetType = "INCIDENT"
	TargetProvider   AuditTargetType = "PROVIDER"
)

// AuditLog is written in the same transaction as the mutation it describes.
type AuditLog struct {
	ID         uuid.UUID        `json:"id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	ActorRole  RoleType         `json:"actor_role"`
	Action     AuditAction      `json:"action"`
	TargetID   uuid.UUID        `json:"target_id"`
	TargetType AuditTargetType  `json:"target_type"`
	Details    *json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}
