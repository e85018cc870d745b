package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/constants"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NextIncidentStatuses lists the statuses an incident may move to.
//
//	OPEN → IN_REVIEW → ASSIGNED → IN_PROGRESS → COMPLETED
//	          └──────→ OPEN (reclassified)
func NextIncidentStatuses(s models.IncidentStatus) []models.IncidentStatus {
	switch s {
	case models.IncidentStatusOpen:
		return []models.IncidentStatus{models.IncidentStatusInReview}
	case models.IncidentStatusInReview:
		return []models.IncidentStatus{models.IncidentStatusAssigned, models.IncidentStatusOpen}
	case models.IncidentStatusAssigned:
		return []models.IncidentStatus{models.IncidentStatusInProgress}
	case models.IncidentStatusInProgress:
		return []models.IncidentStatus{models.IncidentStatusCompleted}
	case models.IncidentStatusCompleted:
		return nil
	default:
		return nil
	}
}

type ReportIncidentInput struct {
	TenantID     uuid.UUID
	DepartmentID uuid.UUID
	Category     string
	Description  string
	Urgency      models.Urgency
}

// AdvanceOptions carry the extra data some transitions need. ProviderID is
// required (and only accepted) when moving to ASSIGNED; Category and
// Urgency may be corrected on any non-terminal transition.
type AdvanceOptions struct {
	ProviderID *uuid.UUID
	Category   *string
	Urgency    *models.Urgency
}

type IncidentWorkflowService struct {
	store repositories.Store
	now   Clock
}

func NewIncidentWorkflowService(store repositories.Store, clock Clock) *IncidentWorkflowService {
	return &IncidentWorkflowService{store: store, now: clockOrDefault(clock)}
}

// ReportIncident opens an incident. Tenants may only report for themselves
// on a department they currently rent.
func (s *IncidentWorkflowService) ReportIncident(ctx context.Context, actor Actor, in ReportIncidentInput) (*models.Incident, error) {
	if err := actor.require(CapReportIncident); err != nil {
		return nil, err
	}
	if err := actor.requireSelfOrStaff(in.TenantID); err != nil {
		return nil, err
	}
	in.Category = strings.TrimSpace(in.Category)
	in.Description = strings.TrimSpace(in.Description)
	if in.Category == "" || len(in.Category) > constants.MaxCategoryLength {
		return nil, internal_utils.Validation("category must be 1-%d characters", constants.MaxCategoryLength)
	}
	if in.Description == "" || len(in.Description) > constants.MaxDescriptionLength {
		return nil, internal_utils.Validation("description must be 1-%d characters", constants.MaxDescriptionLength)
	}
	if in.Urgency == "" {
		in.Urgency = models.UrgencyMedium
	}
	if !in.Urgency.Valid() {
		return nil, internal_utils.Validation("unknown urgency %q", in.Urgency)
	}

	var out *models.Incident
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		tenant, err := tx.Tenants().GetByID(ctx, in.TenantID)
		if err != nil {
			return err
		}
		if tenant == nil {
			return internal_utils.NotFound("tenant %s not found", in.TenantID)
		}
		dept, err := tx.Departments().GetByID(ctx, in.DepartmentID)
		if err != nil {
			return err
		}
		if dept == nil {
			return internal_utils.NotFound("department %s not found", in.DepartmentID)
		}

		if actor.IsTenant() {
			active, err := tx.Contracts().ListActiveByTenant(ctx, in.TenantID)
			if err != nil {
				return err
			}
			rents := slices.ContainsFunc(active, func(c *models.Contract) bool {
				return c.DepartmentID == in.DepartmentID
			})
			if !rents {
				return internal_utils.Unauthorized("tenant %s does not rent department %s", in.TenantID, in.DepartmentID)
			}
		}

		inc := &models.Incident{
			ID:           uuid.New(),
			TenantID:     in.TenantID,
			DepartmentID: in.DepartmentID,
			Category:     in.Category,
			Description:  in.Description,
			Urgency:      in.Urgency,
			Status:       models.IncidentStatusOpen,
			ReportedAt:   s.now(),
		}
		if err := tx.Incidents().Create(ctx, inc); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditReportIncident, models.TargetIncident, inc.ID,
			map[string]any{"category": inc.Category, "urgency": inc.Urgency}); err != nil {
			return err
		}
		out = inc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AdvanceIncident moves an incident along its workflow.
func (s *IncidentWorkflowService) AdvanceIncident(
	ctx context.Context,
	actor Actor,
	incidentID uuid.UUID,
	target models.IncidentStatus,
	opts AdvanceOptions,
) (*models.Incident, error) {
	if err := actor.require(CapManageIncident); err != nil {
		return nil, err
	}
	if !target.Valid() {
		return nil, internal_utils.Validation("unknown incident status %q", target)
	}
	if opts.Urgency != nil && !opts.Urgency.Valid() {
		return nil, internal_utils.Validation("unknown urgency %q", *opts.Urgency)
	}
	if opts.Category != nil {
		c := strings.TrimSpace(*opts.Category)
		if c == "" || len(c) > constants.MaxCategoryLength {
			return nil, internal_utils.Validation("category must be 1-%d characters", constants.MaxCategoryLength)
		}
		opts.Category = &c
	}

	var out *models.Incident
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		inc, err := tx.Incidents().GetForUpdate(ctx, incidentID)
		if err != nil {
			return err
		}
		if inc == nil {
			return internal_utils.NotFound("incident %s not found", incidentID)
		}
		if inc.Status == models.IncidentStatusCompleted {
			return internal_utils.Immutable("incident %s is completed", inc.ID)
		}
		if !slices.Contains(NextIncidentStatuses(inc.Status), target) {
			return internal_utils.InvalidTransition("incident %s cannot move from %s to %s", inc.ID, inc.Status, target)
		}

		if opts.ProviderID != nil && target != models.IncidentStatusAssigned {
			return internal_utils.Validation("provider_id is only accepted when assigning")
		}
		if target == models.IncidentStatusAssigned {
			if opts.ProviderID == nil {
				return internal_utils.Validation("provider_id is required to assign an incident")
			}
			provider, err := tx.Providers().GetByID(ctx, *opts.ProviderID)
			if err != nil {
				return err
			}
			if provider == nil || !provider.Active {
				return internal_utils.Validation("provider %s does not exist or is inactive", *opts.ProviderID)
			}
			inc.ProviderID = utils.Ptr(provider.ID)
		}
		if opts.Category != nil {
			inc.Category = *opts.Category
		}
		if opts.Urgency != nil {
			inc.Urgency = *opts.Urgency
		}

		from := inc.Status
		inc.Status = target
		if target == models.IncidentStatusCompleted {
			inc.ClosedAt = utils.Ptr(s.now())
		}
		if err := tx.Incidents().Update(ctx, inc); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditAdvanceIncident, models.TargetIncident, inc.ID,
			map[string]any{"from": from, "to": target}); err != nil {
			return err
		}
		out = inc
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.Logger.WithFields(logrus.Fields{
		"incident_id": incidentID,
		"status":      out.Status,
		"provider_id": out.ProviderID,
	}).Info("Incident advanced")
	return out, nil
}

// AttachMessage appends a timestamped line to the incident's resolution
// notes.
func (s *IncidentWorkflowService) AttachMessage(ctx context.Context, actor Actor, incidentID uuid.UUID, message string) (*models.Incident, error) {
	if err := actor.require(CapManageIncident); err != nil {
		return nil, err
	}
	message = strings.TrimSpace(message)
	if message == "" || len(message) > constants.MaxMessageLength {
		return nil, internal_utils.Validation("message must be 1-%d characters", constants.MaxMessageLength)
	}

	var out *models.Incident
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		inc, err := tx.Incidents().GetForUpdate(ctx, incidentID)
		if err != nil {
			return err
		}
		if inc == nil {
			return internal_utils.NotFound("incident %s not found", incidentID)
		}
		if inc.Status == models.IncidentStatusCompleted {
			return internal_utils.Immutable("incident %s is completed", inc.ID)
		}

		line := fmt.Sprintf("[%s] %s", s.now().Format(constants.MessageTimestampLayout), message)
		if prev := utils.Val(inc.ResolutionMessage); prev != "" {
			line = prev + "\n" + line
		}
		inc.ResolutionMessage = utils.Ptr(line)
		if err := tx.Incidents().Update(ctx, inc); err != nil {
			return err
		}
		if err := recordAudit(ctx, tx, actor, models.AuditIncidentMessage, models.TargetIncident, inc.ID, nil); err != nil {
			return err
		}
		out = inc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IncidentWorkflowService) GetIncident(ctx context.Context, actor Actor, incidentID uuid.UUID) (*models.Incident, error) {
	var out *models.Incident
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		inc, err := tx.Incidents().GetByID(ctx, incidentID)
		if err != nil {
			return err
		}
		if inc == nil {
			return internal_utils.NotFound("incident %s not found", incidentID)
		}
		if err := actor.requireSelfOrStaff(inc.TenantID); err != nil {
			return err
		}
		out = inc
		return nil
	})
	return out, err
}

func (s *IncidentWorkflowService) ListTenantIncidents(ctx context.Context, actor Actor, tenantID uuid.UUID) ([]*models.Incident, error) {
	if err := actor.requireSelfOrStaff(tenantID); err != nil {
		return nil, err
	}
	var out []*models.Incident
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		out, err = tx.Incidents().ListByTenant(ctx, tenantID)
		return err
	})
	return out, err
}
