package app_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/app"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/config"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-testhelpers"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiFixture struct {
	h        *testhelpers.TestHelper
	router   *mux.Router
	adminJWT string
}

func newAPIFixture(t *testing.T) *apiFixture {
	h := testhelpers.NewTestHelper(t, services.NewInvariantValidator())
	cfg := &config.Config{
		AppName:                     "property-service",
		StoreBackend:                config.StoreBackendMemory,
		RSAPublicKey:                &h.PrivateKey.PublicKey,
		LDFlag_AllowPartialPayments: true,
	}
	a := app.NewWithStore(cfg, h.Store, h.Clock.Now)
	return &apiFixture{
		h:        h,
		router:   a.NewRouter(),
		adminJWT: h.CreateJWT(uuid.New(), models.RoleAdmin),
	}
}

func (f *apiFixture) do(method, path, jwt string, body any) (int, string) {
	rec := f.h.Serve(f.router, f.h.BuildAuthRequest(method, path, jwt, body))
	return rec.Code, rec.Body.String()
}

func (f *apiFixture) doJSON(method, path, jwt string, body any, wantStatus int, out any) {
	rec := f.h.Serve(f.router, f.h.BuildAuthRequest(method, path, jwt, body))
	require.Equal(f.h.T, wantStatus, rec.Code, "body: %s", rec.Body.String())
	if out != nil {
		f.h.DecodeJSON(rec, out)
	}
}

// seedUnit creates a building, a department and a tenant through the admin API.
func (f *apiFixture) seedUnit() (models.Department, models.Tenant) {
	var b models.Building
	f.doJSON(http.MethodPost, "/api/v1/admin/buildings", f.adminJWT,
		dtos.CreateBuildingRequest{Name: "Edificio San Isidro", Address: "Calle Las Begonias 415", FloorCount: 8, UnitCount: 32},
		http.StatusCreated, &b)

	var d models.Department
	f.doJSON(http.MethodPost, "/api/v1/admin/departments", f.adminJWT,
		dtos.CreateDepartmentRequest{BuildingID: b.ID.String(), Number: "502", Floor: 5},
		http.StatusCreated, &d)

	var tnt models.Tenant
	f.doJSON(http.MethodPost, "/api/v1/admin/tenants", f.adminJWT,
		dtos.CreateTenantRequest{FullName: "Rosa Huaman", Email: testhelpers.UniqueEmail("rosa"), DocumentNumber: "70112233"},
		http.StatusCreated, &tnt)

	return d, tnt
}

func bindBody(d models.Department, tnt models.Tenant) map[string]any {
	return map[string]any{
		"department_id":  d.ID.String(),
		"tenant_id":      tnt.ID.String(),
		"start_date":     "2025-01-01",
		"end_date":       "2026-01-01",
		"monthly_amount": "1500",
		"billing_day":    5,
	}
}

func TestHealthCheck(t *testing.T) {
	f := newAPIFixture(t)
	code, body := f.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, `"OK"`)
}

func TestAuthenticationIsRequired(t *testing.T) {
	f := newAPIFixture(t)

	code, body := f.do(http.MethodGet, "/api/v1/payments/mine", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, utils.ErrCodeUnauthorized)

	expired := f.h.CreateExpiredJWT(uuid.New(), models.RoleTenant)
	code, body = f.do(http.MethodGet, "/api/v1/payments/mine", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Contains(t, body, utils.ErrCodeTokenExpired)
}

func TestAdminRoutesRejectTenants(t *testing.T) {
	f := newAPIFixture(t)
	tenantJWT := f.h.CreateJWT(uuid.New(), models.RoleTenant)

	code, body := f.do(http.MethodGet, "/api/v1/admin/tenants", tenantJWT, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Contains(t, body, utils.ErrCodeForbidden)
}

func TestBindTenantValidation(t *testing.T) {
	f := newAPIFixture(t)

	code, body := f.do(http.MethodPost, "/api/v1/occupancy/bind-tenant", f.adminJWT, map[string]any{
		"department_id": "not-a-uuid",
		"start_date":    "2025-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, utils.ErrCodeValidation)
	assert.Contains(t, body, "department_id")
	assert.Contains(t, body, "tenant_id")

	code, body = f.do(http.MethodPost, "/api/v1/occupancy/bind-tenant", f.adminJWT, map[string]any{
		"unexpected": true,
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body, utils.ErrCodeInvalidPayload)
}

func TestTenantCannotBindThemselves(t *testing.T) {
	f := newAPIFixture(t)
	d, tnt := f.seedUnit()
	tenantJWT := f.h.CreateJWT(tnt.ID, models.RoleTenant)

	code, _ := f.do(http.MethodPost, "/api/v1/occupancy/bind-tenant", tenantJWT, bindBody(d, tnt))
	assert.Equal(t, http.StatusForbidden, code)
}

func TestOccupancyAndPaymentFlow(t *testing.T) {
	f := newAPIFixture(t)
	d, tnt := f.seedUnit()
	tenantJWT := f.h.CreateJWT(tnt.ID, models.RoleTenant)

	var bound dtos.BindTenantResponse
	f.doJSON(http.MethodPost, "/api/v1/occupancy/bind-tenant", f.adminJWT, bindBody(d, tnt), http.StatusCreated, &bound)
	require.NotNil(t, bound.Contract)
	assert.Equal(t, models.ContractStatusActive, bound.Contract.Status)
	assert.Equal(t, models.OccupancyOccupied, bound.Department.Occupancy)
	assert.Equal(t, models.TenantStatusActive, bound.Tenant.Status)
	require.Len(t, bound.Payments, 12)

	// Binding the same department again conflicts.
	code, body := f.do(http.MethodPost, "/api/v1/occupancy/bind-tenant", f.adminJWT, bindBody(d, tnt))
	assert.Equal(t, http.StatusConflict, code, body)

	var unit services.TenantUnit
	f.doJSON(http.MethodGet, "/api/v1/me/unit", tenantJWT, nil, http.StatusOK, &unit)
	require.NotNil(t, unit.Department)
	assert.Equal(t, d.ID, unit.Department.ID)

	var mine []models.Payment
	f.doJSON(http.MethodGet, "/api/v1/payments/mine", tenantJWT, nil, http.StatusOK, &mine)
	assert.Len(t, mine, 12)

	first := bound.Payments[0]
	assert.Equal(t, "2025-01", first.Period)

	var submitted models.Payment
	f.doJSON(http.MethodPost, "/api/v1/payments/"+first.ID.String()+"/submit", tenantJWT,
		dtos.SubmitReceiptRequest{Method: "YAPE", ReceiptRef: "YP-884512"}, http.StatusOK, &submitted)
	assert.Equal(t, models.PaymentStatusPendingVerification, submitted.Status)

	// Tenants cannot verify their own receipts.
	code, _ = f.do(http.MethodPost, "/api/v1/payments/"+first.ID.String()+"/verify", tenantJWT, map[string]any{"approved": true})
	assert.Equal(t, http.StatusForbidden, code)

	var verified models.Payment
	f.doJSON(http.MethodPost, "/api/v1/payments/"+first.ID.String()+"/verify", f.adminJWT,
		map[string]any{"approved": true}, http.StatusOK, &verified)
	assert.Equal(t, models.PaymentStatusPaid, verified.Status)
	require.NotNil(t, verified.PaidAt)

	// A paid payment is immutable.
	code, body = f.do(http.MethodPost, "/api/v1/payments/"+first.ID.String()+"/submit", tenantJWT,
		dtos.SubmitReceiptRequest{Method: "CASH", ReceiptRef: "R-1"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, body, utils.ErrCodeImmutable)

	var terminated dtos.TerminateContractResponse
	f.doJSON(http.MethodPost, "/api/v1/occupancy/terminate-contract", f.adminJWT,
		dtos.TerminateContractRequest{ContractID: bound.Contract.ID.String(), Reason: "Mutual agreement"},
		http.StatusOK, &terminated)
	assert.Equal(t, models.ContractStatusTerminated, terminated.Contract.Status)
	assert.Equal(t, models.OccupancyAvailable, terminated.Department.Occupancy)
	assert.Len(t, terminated.VoidedPayments, 11)

	var audit []models.AuditLog
	f.doJSON(http.MethodGet, "/api/v1/admin/audit/"+bound.Contract.ID.String(), f.adminJWT, nil, http.StatusOK, &audit)
	assert.NotEmpty(t, audit)
}

func TestIncidentFlow(t *testing.T) {
	f := newAPIFixture(t)
	d, tnt := f.seedUnit()
	tenantJWT := f.h.CreateJWT(tnt.ID, models.RoleTenant)
	f.doJSON(http.MethodPost, "/api/v1/occupancy/bind-tenant", f.adminJWT, bindBody(d, tnt), http.StatusCreated, nil)

	var inc models.Incident
	f.doJSON(http.MethodPost, "/api/v1/incidents", tenantJWT, dtos.ReportIncidentRequest{
		DepartmentID: d.ID.String(),
		Category:     "plumbing",
		Description:  "Water leak under the kitchen sink",
		Urgency:      "HIGH",
	}, http.StatusCreated, &inc)
	assert.Equal(t, models.IncidentStatusOpen, inc.Status)
	assert.Equal(t, tnt.ID, inc.TenantID)

	// OPEN cannot jump to COMPLETED.
	code, body := f.do(http.MethodPost, "/api/v1/incidents/"+inc.ID.String()+"/advance", f.adminJWT,
		dtos.AdvanceIncidentRequest{Status: "COMPLETED"})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, body, utils.ErrCodeInvalidTransition)

	// Tenants cannot move the workflow.
	code, _ = f.do(http.MethodPost, "/api/v1/incidents/"+inc.ID.String()+"/advance", tenantJWT,
		dtos.AdvanceIncidentRequest{Status: "IN_REVIEW"})
	assert.Equal(t, http.StatusForbidden, code)

	var provider models.Provider
	f.doJSON(http.MethodPost, "/api/v1/admin/providers", f.adminJWT,
		dtos.CreateProviderRequest{Name: "Gasfiteria Express", Specialty: "plumbing"}, http.StatusCreated, &provider)

	f.doJSON(http.MethodPost, "/api/v1/incidents/"+inc.ID.String()+"/advance", f.adminJWT,
		dtos.AdvanceIncidentRequest{Status: "IN_REVIEW"}, http.StatusOK, &inc)
	f.doJSON(http.MethodPost, "/api/v1/incidents/"+inc.ID.String()+"/advance", f.adminJWT,
		dtos.AdvanceIncidentRequest{Status: "ASSIGNED", ProviderID: provider.ID.String()}, http.StatusOK, &inc)
	require.NotNil(t, inc.ProviderID)
	assert.Equal(t, provider.ID, *inc.ProviderID)

	f.doJSON(http.MethodPost, "/api/v1/incidents/"+inc.ID.String()+"/message", f.adminJWT,
		dtos.AttachMessageRequest{Message: "Technician visit on Monday"}, http.StatusOK, &inc)
	require.NotNil(t, inc.ResolutionMessage)
	assert.True(t, strings.HasSuffix(*inc.ResolutionMessage, "Technician visit on Monday"))

	var list []models.Incident
	f.doJSON(http.MethodGet, "/api/v1/incidents/mine", tenantJWT, nil, http.StatusOK, &list)
	require.Len(t, list, 1)
	assert.Equal(t, models.IncidentStatusAssigned, list[0].Status)
}

func TestScanEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	d, tnt := f.seedUnit()
	f.doJSON(http.MethodPost, "/api/v1/occupancy/bind-tenant", f.adminJWT, bindBody(d, tnt), http.StatusCreated, nil)

	var report services.ScanReport
	f.doJSON(http.MethodPost, "/api/v1/admin/scan", f.adminJWT, nil, http.StatusOK, &report)
	// January's payment fell due on the 5th; the clock sits on the 10th.
	assert.Equal(t, 1, report.MarkedOverdue)
	assert.Equal(t, 0, report.ContractsExpired)
}

func TestUnknownPaymentIsNotFound(t *testing.T) {
	f := newAPIFixture(t)
	code, body := f.do(http.MethodGet, "/api/v1/payments/"+uuid.NewString(), f.adminJWT, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, utils.ErrCodeNotFound)

	code, _ = f.do(http.MethodGet, "/api/v1/payments/not-a-uuid", f.adminJWT, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
