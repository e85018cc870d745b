// go-models/incident.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	IncidentStatusOpen       IncidentStatus = "OPEN"
	IncidentStatusInReview   IncidentStatus = "IN_REVIEW"
	IncidentStatusAssigned   IncidentStatus = "ASSIGNED"
	IncidentStatusInProgress IncidentStatus = "IN_PROGRESS"
	IncidentStatusCompleted  IncidentStatus = "COMPLETED"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentStatusOpen, IncidentStatusInReview, IncidentStatusAssigned,
		IncidentStatusInProgress, IncidentStatusCompleted:
		return true
	default:
		return false
	}
}

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyMedium Urgency = "MEDIUM"
	UrgencyHigh   Urgency = "HIGH"
)

func (u Urgency) Valid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
		return true
	default:
		return false
	}
}

// Incident is a maintenance request reported by a Tenant against a Department.
type Incident struct {
	Versioned
	ID                uuid.UUID      `json:"id"`
	TenantID          uuid.UUID      `json:"tenant_id"`
	DepartmentID      uuid.UUID      `json:"department_id"`
	Category          string         `json:"category"`
	Description       string         `json:"description"`
	Urgency           Urgency        `json:"urgency"`
	Status            IncidentStatus `json:"status"`
	ProviderID        *uuid.UUID     `json:"provider_id,omitempty"`
	ResolutionMessage *string        `json:"resolution_message,omitempty"`
	ReportedAt        time.Time      `json:"reported_at"`
	ClosedAt          *time.Time     `json:"closed_at,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

func (i *Incident) GetID() string { return i.ID.String() }
