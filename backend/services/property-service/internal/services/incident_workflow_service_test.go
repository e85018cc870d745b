package services

import (
	"slices"
	"strings"
	"testing"
	"time"

	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) reportLeak(t *testing.T) *models.Incident {
	t.Helper()
	inc, err := f.incidents.ReportIncident(f.h.Ctx, f.tenantActor(f.tenant), ReportIncidentInput{
		TenantID:     f.tenant.ID,
		DepartmentID: f.dept.ID,
		Category:     "plumbing",
		Description:  "Kitchen sink is leaking",
		Urgency:      models.UrgencyHigh,
	})
	require.NoError(t, err)
	return inc
}

func TestIncident_FullWorkflow(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	provider := f.h.CreateTestProvider("Gasfitería Lima", "plumbing", true)

	inc := f.reportLeak(t)
	require.Equal(t, models.IncidentStatusOpen, inc.Status)
	require.Nil(t, inc.ClosedAt)

	_, err := f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusAssigned, AdvanceOptions{ProviderID: &provider.ID})
	requireKind(t, err, internal_utils.ErrInvalidTransition)

	inc, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusInReview, AdvanceOptions{})
	require.NoError(t, err)

	_, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusAssigned, AdvanceOptions{})
	requireKind(t, err, internal_utils.ErrValidation)

	inc, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusAssigned, AdvanceOptions{ProviderID: &provider.ID})
	require.NoError(t, err)
	require.Equal(t, provider.ID, *inc.ProviderID)

	inc, err = f.incidents.AttachMessage(f.h.Ctx, f.admin, inc.ID, "Provider arrives tomorrow 9am")
	require.NoError(t, err)

	inc, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusInProgress, AdvanceOptions{})
	require.NoError(t, err)

	f.h.Clock.Advance(26 * time.Hour)
	inc, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusCompleted, AdvanceOptions{})
	require.NoError(t, err)
	require.Equal(t, models.IncidentStatusCompleted, inc.Status)
	require.NotNil(t, inc.ClosedAt)
	assert.Equal(t, f.h.Clock.Now(), *inc.ClosedAt)

	_, err = f.incidents.AttachMessage(f.h.Ctx, f.admin, inc.ID, "one more thing")
	requireKind(t, err, internal_utils.ErrImmutable)
	_, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusOpen, AdvanceOptions{})
	requireKind(t, err, internal_utils.ErrImmutable)

	stored := f.h.GetIncident(inc.ID)
	assert.Equal(t, models.IncidentStatusCompleted, stored.Status)
	assert.Equal(t, "plumbing", stored.Category)
}

func TestIncident_Reclassify(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	inc := f.reportLeak(t)

	_, err := f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusInReview, AdvanceOptions{})
	require.NoError(t, err)

	inc, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusOpen, AdvanceOptions{
		Category: utils.Ptr("electrical"),
		Urgency:  utils.Ptr(models.UrgencyLow),
	})
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusOpen, inc.Status)
	assert.Equal(t, "electrical", inc.Category)
	assert.Equal(t, models.UrgencyLow, inc.Urgency)
}

func TestIncident_AssignRequiresActiveProvider(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	inactive := f.h.CreateTestProvider("Retired Co", "painting", false)
	inc := f.reportLeak(t)

	_, err := f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusInReview, AdvanceOptions{})
	require.NoError(t, err)

	_, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusAssigned, AdvanceOptions{ProviderID: &inactive.ID})
	requireKind(t, err, internal_utils.ErrValidation)
	assert.Equal(t, models.IncidentStatusInReview, f.h.GetIncident(inc.ID).Status)
}

func TestIncident_AttachMessageAppends(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	inc := f.reportLeak(t)

	_, err := f.incidents.AttachMessage(f.h.Ctx, f.admin, inc.ID, "first")
	require.NoError(t, err)
	inc, err = f.incidents.AttachMessage(f.h.Ctx, f.admin, inc.ID, "second")
	require.NoError(t, err)

	lines := strings.Split(*inc.ResolutionMessage, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "first"))
	assert.True(t, strings.HasSuffix(lines[1], "second"))

	_, err = f.incidents.AttachMessage(f.h.Ctx, f.tenantActor(f.tenant), inc.ID, "can I?")
	requireKind(t, err, internal_utils.ErrAuthorization)
}

func TestIncident_ReportRules(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	otherDept := f.h.CreateTestDepartment(f.building.ID, "401", 4)

	_, err := f.incidents.ReportIncident(f.h.Ctx, f.tenantActor(f.tenant), ReportIncidentInput{
		TenantID:     f.tenant.ID,
		DepartmentID: otherDept.ID,
		Category:     "noise",
		Description:  "Neighbours",
	})
	requireKind(t, err, internal_utils.ErrAuthorization)

	stranger := f.h.CreateTestTenant("Otro Inquilino", models.TenantStatusActive)
	_, err = f.incidents.ReportIncident(f.h.Ctx, f.tenantActor(stranger), ReportIncidentInput{
		TenantID:     f.tenant.ID,
		DepartmentID: f.dept.ID,
		Category:     "noise",
		Description:  "Neighbours",
	})
	requireKind(t, err, internal_utils.ErrAuthorization)

	_, err = f.incidents.ReportIncident(f.h.Ctx, f.tenantActor(f.tenant), ReportIncidentInput{
		TenantID:     f.tenant.ID,
		DepartmentID: f.dept.ID,
		Category:     "",
		Description:  "Neighbours",
	})
	requireKind(t, err, internal_utils.ErrValidation)

	// staff may report on behalf of anyone
	inc, err := f.incidents.ReportIncident(f.h.Ctx, f.admin, ReportIncidentInput{
		TenantID:     stranger.ID,
		DepartmentID: otherDept.ID,
		Category:     "lighting",
		Description:  "Hallway bulb out",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyMedium, inc.Urgency)

	mine, err := f.incidents.ListTenantIncidents(f.h.Ctx, f.tenantActor(stranger), stranger.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	_, err = f.incidents.GetIncident(f.h.Ctx, f.tenantActor(f.tenant), inc.ID)
	requireKind(t, err, internal_utils.ErrAuthorization)
}

func TestNextIncidentStatuses(t *testing.T) {
	assert.Equal(t, []models.IncidentStatus{models.IncidentStatusInReview}, NextIncidentStatuses(models.IncidentStatusOpen))
	assert.ElementsMatch(t,
		[]models.IncidentStatus{models.IncidentStatusAssigned, models.IncidentStatusOpen},
		NextIncidentStatuses(models.IncidentStatusInReview))
	assert.Empty(t, NextIncidentStatuses(models.IncidentStatusCompleted))
}

func TestIncident_InReviewCannotSkipToInProgress(t *testing.T) {
	f := newFixture(t)
	f.bind(t)
	inc := f.reportLeak(t)

	_, err := f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusInReview, AdvanceOptions{})
	require.NoError(t, err)

	_, err = f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, models.IncidentStatusInProgress, AdvanceOptions{})
	requireKind(t, err, internal_utils.ErrInvalidTransition)
	assert.Equal(t, models.IncidentStatusInReview, f.h.GetIncident(inc.ID).Status)
}

func TestIncident_IllegalTransitionsLeaveStatus(t *testing.T) {
	all := []models.IncidentStatus{
		models.IncidentStatusOpen,
		models.IncidentStatusInReview,
		models.IncidentStatusAssigned,
		models.IncidentStatusInProgress,
		models.IncidentStatusCompleted,
	}
	forward := all[1:]

	for i, from := range all {
		for _, to := range all {
			if slices.Contains(NextIncidentStatuses(from), to) {
				continue
			}
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				f := newFixture(t)
				f.bind(t)
				provider := f.h.CreateTestProvider("Electricidad Sur", "electrical", true)
				inc := f.reportLeak(t)

				for _, step := range forward[:i] {
					opts := AdvanceOptions{}
					if step == models.IncidentStatusAssigned {
						opts.ProviderID = &provider.ID
					}
					_, err := f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, step, opts)
					require.NoError(t, err)
				}
				before := f.h.GetIncident(inc.ID)
				require.Equal(t, from, before.Status)

				_, err := f.incidents.AdvanceIncident(f.h.Ctx, f.admin, inc.ID, to, AdvanceOptions{})
				if from == models.IncidentStatusCompleted {
					requireKind(t, err, internal_utils.ErrImmutable)
				} else {
					requireKind(t, err, internal_utils.ErrInvalidTransition)
				}

				after := f.h.GetIncident(inc.ID)
				assert.Equal(t, from, after.Status)
				assert.Equal(t, before.RowVersion, after.RowVersion)
			})
		}
	}
}
