package controllers

import (
	"net/http"
	"strings"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
)

// RegistryController serves the admin reference-data endpoints plus the
// tenant's own unit view.
type RegistryController struct {
	registry *services.RegistryService
}

func NewRegistryController(registry *services.RegistryService) *RegistryController {
	return &RegistryController{registry: registry}
}

// POST /api/v1/admin/buildings
func (c *RegistryController) CreateBuildingHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateBuildingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	b, err := c.registry.CreateBuilding(r.Context(), actor, services.NewBuilding{
		Name:       strings.TrimSpace(req.Name),
		Address:    strings.TrimSpace(req.Address),
		FloorCount: req.FloorCount,
		UnitCount:  req.UnitCount,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, b)
}

// GET /api/v1/admin/buildings
func (c *RegistryController) ListBuildingsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.registry.ListBuildings(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/admin/buildings/{id}/departments
func (c *RegistryController) ListDepartmentsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.registry.ListDepartments(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// POST /api/v1/admin/departments
func (c *RegistryController) CreateDepartmentHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateDepartmentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	d, err := c.registry.CreateDepartment(r.Context(), actor, services.NewDepartment{
		BuildingID: uuid.MustParse(req.BuildingID),
		Number:     strings.TrimSpace(req.Number),
		Floor:      req.Floor,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, d)
}

// GET /api/v1/admin/departments/{id}
func (c *RegistryController) GetDepartmentHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	d, err := c.registry.GetDepartment(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, d)
}

// POST /api/v1/admin/tenants
func (c *RegistryController) CreateTenantHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	t, err := c.registry.CreateTenant(r.Context(), actor, services.NewTenant{
		FullName:       strings.TrimSpace(req.FullName),
		Email:          req.Email,
		Phone:          req.Phone,
		DocumentNumber: strings.TrimSpace(req.DocumentNumber),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, t)
}

// GET /api/v1/admin/tenants
func (c *RegistryController) ListTenantsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.registry.ListTenants(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/admin/tenants/{id}
func (c *RegistryController) GetTenantHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	t, err := c.registry.GetTenant(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, t)
}

// POST /api/v1/admin/providers
func (c *RegistryController) CreateProviderHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	var req dtos.CreateProviderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.registry.CreateProvider(r.Context(), actor, services.NewProvider{
		Name:      strings.TrimSpace(req.Name),
		Specialty: strings.TrimSpace(req.Specialty),
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// GET /api/v1/admin/providers
func (c *RegistryController) ListProvidersHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	list, err := c.registry.ListProviders(r.Context(), actor)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/admin/audit/{id}
func (c *RegistryController) AuditTrailHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	id, err := pathUUID(r, "id")
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	entries, err := c.registry.AuditTrail(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entries)
}

// GET /api/v1/me/unit
func (c *RegistryController) MyUnitHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}
	unit, err := c.registry.GetTenantUnit(r.Context(), actor, actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, unit)
}
