package controllers

import (
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
)

type IncidentController struct {
	incidents *services.IncidentWorkflowService
}

func NewIncidentController(incidents *services.IncidentWorkflowService) *IncidentController {
	return &IncidentController{incidents: incidents}
}

// POST /api/v1/incidents
func (c *IncidentController) ReportIncidentHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.ReportIncidentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tenantID := actor.UserID
	if req.TenantID != "" {
		tenantID = uuid.MustParse(req.TenantID)
	}
	inc, err := c.incidents.ReportIncident(r.Context(), actor, services.ReportIncidentInput{
		TenantID:     tenantID,
		DepartmentID: uuid.MustParse(req.DepartmentID),
		Category:     req.Category,
		Description:  req.Description,
		Urgency:      models.Urgency(req.Urgency),
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, inc)
}

// GET /api/v1/incidents/mine
func (c *IncidentController) ListMyIncidentsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	list, err := c.incidents.ListTenantIncidents(r.Context(), actor, actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

// GET /api/v1/incidents/{id}
func (c *IncidentController) GetIncidentHandler(w http.ResponseWriter, r *http.Request) {
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

	inc, err := c.incidents.GetIncident(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inc)
}

// POST /api/v1/incidents/{id}/advance
func (c *IncidentController) AdvanceIncidentHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.AdvanceIncidentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	opts := services.AdvanceOptions{Category: req.Category}
	if req.ProviderID != "" {
		pid := uuid.MustParse(req.ProviderID)
		opts.ProviderID = &pid
	}
	if req.Urgency != nil {
		u := models.Urgency(*req.Urgency)
		opts.Urgency = &u
	}

	inc, err := c.incidents.AdvanceIncident(r.Context(), actor, id, models.IncidentStatus(req.Status), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inc)
}

// POST /api/v1/incidents/{id}/message
func (c *IncidentController) AttachMessageHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.AttachMessageRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	inc, err := c.incidents.AttachMessage(r.Context(), actor, id, req.Message)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, inc)
}
