package controllers

import (
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
)

type OccupancyController struct {
	occupancy *services.OccupancyService
}

func NewOccupancyController(occupancy *services.OccupancyService) *OccupancyController {
	return &OccupancyController{occupancy: occupancy}
}

// POST /api/v1/occupancy/bind-tenant
func (c *OccupancyController) BindTenantHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.BindTenantRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	terms := services.ContractTerms{
		StartDate:     parseDate(req.StartDate),
		EndDate:       parseDate(req.EndDate),
		MonthlyAmount: req.MonthlyAmount,
		BillingDay:    req.BillingDay,
		PeriodAmounts: req.PeriodAmounts,
	}
	res, err := c.occupancy.BindTenant(r.Context(), actor,
		uuid.MustParse(req.DepartmentID), uuid.MustParse(req.TenantID), terms)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, dtos.BindTenantResponse{
		Contract:   res.Contract,
		Department: res.Department,
		Tenant:     res.Tenant,
		Payments:   res.Payments,
	})
}

// POST /api/v1/occupancy/terminate-contract
func (c *OccupancyController) TerminateContractHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.TerminateContractRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := c.occupancy.TerminateContract(r.Context(), actor, uuid.MustParse(req.ContractID), req.Reason, req.FlagMaintenance)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.TerminateContractResponse{
		Contract:       res.Contract,
		Department:     res.Department,
		VoidedPayments: res.VoidedPayments,
	})
}

// POST /api/v1/occupancy/contracts/{id}/expire
func (c *OccupancyController) ExpireContractHandler(w http.ResponseWriter, r *http.Request) {
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

	contract, err := c.occupancy.ExpireContract(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, contract)
}

// POST /api/v1/occupancy/departments/{id}/maintenance
func (c *OccupancyController) SetMaintenanceHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.SetMaintenanceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	dept, err := c.occupancy.SetMaintenance(r.Context(), actor, id, *req.Maintenance)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dept)
}

// POST /api/v1/occupancy/departments/{id}/retire
func (c *OccupancyController) RetireDepartmentHandler(w http.ResponseWriter, r *http.Request) {
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

	dept, err := c.occupancy.RetireDepartment(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dept)
}
