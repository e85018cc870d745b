package services

import (
	"context"
	"fmt"
	"sort"

	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Consistency rule names reported in conflict details.
const (
	RuleDepartmentOccupiedSingleContract = "department_occupied_requires_single_active_contract"
	RuleActiveContractOccupiedDepartment = "active_contract_requires_occupied_department"
	RuleActiveContractActiveTenant       = "active_contract_requires_active_tenant"
	RuleTenantSingleActiveContract       = "tenant_single_active_contract"
	RulePaidPaymentReopened              = "paid_payment_reopened"
	RuleVoidPaymentReopened              = "void_payment_reopened"
	RulePeriodPaidExceedsScheduled       = "period_paid_exceeds_scheduled"
	RuleCompletedIncidentClosedAt        = "completed_incident_requires_closed_at"
	RuleCompletedIncidentMutated         = "completed_incident_mutated"
)

// Violation is one broken rule on one record.
type Violation struct {
	Rule   string
	Entity repositories.EntityKind
	ID     string
	Detail string
}

// InvariantValidator checks the cross-entity rules against the proposed
// state of a transaction. Only records reachable from the transaction's
// changes are inspected.
type InvariantValidator struct{}

func NewInvariantValidator() *InvariantValidator {
	return &InvariantValidator{}
}

// Validate implements repositories.Validator.
func (v *InvariantValidator) Validate(ctx context.Context, tx repositories.Tx, changes []repositories.Change) error {
	violations, err := v.Check(ctx, tx, changes)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var rules []string
	for _, vi := range violations {
		utils.Logger.WithField("rule", vi.Rule).
			WithField("entity", vi.Entity).
			WithField("id", vi.ID).
			Warn(vi.Detail)
		if !seen[vi.Rule] {
			seen[vi.Rule] = true
			rules = append(rules, vi.Rule)
		}
	}
	sort.Strings(rules)
	return internal_utils.RuleViolation(rules)
}

type periodKey struct {
	contractID uuid.UUID
	period     string
}

// Check returns every violation found; it only fails on read errors.
func (v *InvariantValidator) Check(ctx context.Context, tx repositories.Tx, changes []repositories.Change) ([]Violation, error) {
	departments := map[uuid.UUID]bool{}
	tenants := map[uuid.UUID]bool{}
	contracts := map[uuid.UUID]bool{}
	periods := map[periodKey]bool{}

	var out []Violation
	for _, ch := range changes {
		switch ch.Entity {
		case repositories.EntityDepartment:
			if d, ok := ch.After.(*models.Department); ok {
				departments[d.ID] = true
			}
		case repositories.EntityTenant:
			if t, ok := ch.After.(*models.Tenant); ok {
				tenants[t.ID] = true
			}
		case repositories.EntityContract:
			for _, c := range contractsOf(ch) {
				contracts[c.ID] = true
				departments[c.DepartmentID] = true
				tenants[c.TenantID] = true
			}
		case repositories.EntityPayment:
			after, _ := ch.After.(*models.Payment)
			before, _ := ch.Before.(*models.Payment)
			if after == nil {
				continue
			}
			if after.ContractID != nil {
				periods[periodKey{*after.ContractID, after.Period}] = true
			}
			out = append(out, checkPaymentTransition(before, after)...)
		case repositories.EntityIncident:
			after, _ := ch.After.(*models.Incident)
			before, _ := ch.Before.(*models.Incident)
			if after == nil {
				continue
			}
			out = append(out, checkIncident(before, after)...)
		}
	}

	for _, id := range sortedIDs(departments) {
		vs, err := checkDepartment(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	for _, id := range sortedIDs(contracts) {
		vs, err := checkContract(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	for _, id := range sortedIDs(tenants) {
		vs, err := checkTenant(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	for key := range periods {
		vs, err := checkPeriod(ctx, tx, key)
		if err != nil {
			return nil, err
		}
		out = append(out, vs...)
	}
	return out, nil
}

func contractsOf(ch repositories.Change) []*models.Contract {
	var out []*models.Contract
	if c, ok := ch.Before.(*models.Contract); ok && c != nil {
		out = append(out, c)
	}
	if c, ok := ch.After.(*models.Contract); ok && c != nil {
		out = append(out, c)
	}
	return out
}

func sortedIDs(set map[uuid.UUID]bool) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

func checkDepartment(ctx context.Context, tx repositories.Tx, id uuid.UUID) ([]Violation, error) {
	d, err := tx.Departments().GetByID(ctx, id)
	if err != nil || d == nil {
		return nil, err
	}
	active, err := tx.Contracts().ListActiveByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	var out []Violation
	if len(active) > 1 {
		out = append(out, Violation{
			Rule:   RuleDepartmentOccupiedSingleContract,
			Entity: repositories.EntityDepartment,
			ID:     id.String(),
			Detail: fmt.Sprintf("department has %d active contracts", len(active)),
		})
	}
	switch {
	case d.Occupancy == models.OccupancyOccupied && len(active) == 0:
		out = append(out, Violation{
			Rule:   RuleDepartmentOccupiedSingleContract,
			Entity: repositories.EntityDepartment,
			ID:     id.String(),
			Detail: "department is occupied without an active contract",
		})
	case d.Occupancy != models.OccupancyOccupied && len(active) > 0:
		out = append(out, Violation{
			Rule:   RuleActiveContractOccupiedDepartment,
			Entity: repositories.EntityDepartment,
			ID:     id.String(),
			Detail: fmt.Sprintf("department is %s with an active contract", d.Occupancy),
		})
	case d.Occupancy == models.OccupancyOccupied && d.CurrentContractID == nil:
		out = append(out, Violation{
			Rule:   RuleDepartmentOccupiedSingleContract,
			Entity: repositories.EntityDepartment,
			ID:     id.String(),
			Detail: "occupied department has no current contract",
		})
	}
	return out, nil
}

func checkContract(ctx context.Context, tx repositories.Tx, id uuid.UUID) ([]Violation, error) {
	c, err := tx.Contracts().GetByID(ctx, id)
	if err != nil || c == nil || !c.IsActive() {
		return nil, err
	}

	var out []Violation
	d, err := tx.Departments().GetByID(ctx, c.DepartmentID)
	if err != nil {
		return nil, err
	}
	if d == nil || d.Occupancy != models.OccupancyOccupied ||
		d.CurrentContractID == nil || *d.CurrentContractID != c.ID {
		out = append(out, Violation{
			Rule:   RuleActiveContractOccupiedDepartment,
			Entity: repositories.EntityContract,
			ID:     id.String(),
			Detail: "active contract does not hold its department",
		})
	}

	t, err := tx.Tenants().GetByID(ctx, c.TenantID)
	if err != nil {
		return nil, err
	}
	if t == nil || t.Status != models.TenantStatusActive {
		out = append(out, Violation{
			Rule:   RuleActiveContractActiveTenant,
			Entity: repositories.EntityContract,
			ID:     id.String(),
			Detail: "active contract references a tenant that is not active",
		})
	}
	return out, nil
}

func checkTenant(ctx context.Context, tx repositories.Tx, id uuid.UUID) ([]Violation, error) {
	t, err := tx.Tenants().GetByID(ctx, id)
	if err != nil || t == nil {
		return nil, err
	}
	active, err := tx.Contracts().ListActiveByTenant(ctx, id)
	if err != nil {
		return nil, err
	}

	var out []Violation
	if len(active) > 1 {
		out = append(out, Violation{
			Rule:   RuleTenantSingleActiveContract,
			Entity: repositories.EntityTenant,
			ID:     id.String(),
			Detail: fmt.Sprintf("tenant holds %d active contracts", len(active)),
		})
	}
	if len(active) > 0 && t.Status != models.TenantStatusActive {
		out = append(out, Violation{
			Rule:   RuleActiveContractActiveTenant,
			Entity: repositories.EntityTenant,
			ID:     id.String(),
			Detail: fmt.Sprintf("tenant is %s but holds an active contract", t.Status),
		})
	}
	return out, nil
}

func checkPaymentTransition(before, after *models.Payment) []Violation {
	if before == nil {
		return nil
	}
	switch before.Status {
	case models.PaymentStatusPaid:
		if after.Status != models.PaymentStatusPaid ||
			!after.Amount.Equal(before.Amount) ||
			!timePtrEqual(before.PaidAt, after.PaidAt) {
			return []Violation{{
				Rule:   RulePaidPaymentReopened,
				Entity: repositories.EntityPayment,
				ID:     after.ID.String(),
				Detail: fmt.Sprintf("paid payment moved to %s", after.Status),
			}}
		}
	case models.PaymentStatusVoid:
		if after.Status != models.PaymentStatusVoid {
			return []Violation{{
				Rule:   RuleVoidPaymentReopened,
				Entity: repositories.EntityPayment,
				ID:     after.ID.String(),
				Detail: fmt.Sprintf("void payment moved to %s", after.Status),
			}}
		}
	}
	return nil
}

func checkPeriod(ctx context.Context, tx repositories.Tx, key periodKey) ([]Violation, error) {
	rows, err := tx.Payments().ListByContractPeriod(ctx, key.contractID, key.period)
	if err != nil {
		return nil, err
	}
	scheduled := decimal.Zero
	paid := decimal.Zero
	for _, p := range rows {
		if p.ScheduledAmount.GreaterThan(scheduled) {
			scheduled = p.ScheduledAmount
		}
		if p.Status == models.PaymentStatusPaid {
			paid = paid.Add(p.Amount)
		}
	}
	if paid.GreaterThan(scheduled) {
		return []Violation{{
			Rule:   RulePeriodPaidExceedsScheduled,
			Entity: repositories.EntityPayment,
			ID:     fmt.Sprintf("%s/%s", key.contractID, key.period),
			Detail: fmt.Sprintf("paid %s exceeds scheduled %s", paid, scheduled),
		}}, nil
	}
	return nil, nil
}

func checkIncident(before, after *models.Incident) []Violation {
	var out []Violation
	if (after.Status == models.IncidentStatusCompleted) != (after.ClosedAt != nil) {
		out = append(out, Violation{
			Rule:   RuleCompletedIncidentClosedAt,
			Entity: repositories.EntityIncident,
			ID:     after.ID.String(),
			Detail: fmt.Sprintf("incident is %s with closed_at set=%t", after.Status, after.ClosedAt != nil),
		})
	}
	if before != nil && before.Status == models.IncidentStatusCompleted && !sameIncidentState(before, after) {
		out = append(out, Violation{
			Rule:   RuleCompletedIncidentMutated,
			Entity: repositories.EntityIncident,
			ID:     after.ID.String(),
			Detail: "completed incident was modified",
		})
	}
	return out
}

func sameIncidentState(a, b *models.Incident) bool {
	return a.Status == b.Status &&
		a.Category == b.Category &&
		a.Description == b.Description &&
		a.Urgency == b.Urgency &&
		uuidPtrEqual(a.ProviderID, b.ProviderID) &&
		utils.Val(a.ResolutionMessage) == utils.Val(b.ResolutionMessage) &&
		timePtrEqual(a.ClosedAt, b.ClosedAt)
}
