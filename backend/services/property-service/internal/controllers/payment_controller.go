package controllers

import (
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
)

type PaymentController struct {
	payments *services.PaymentLifecycleService
}

func NewPaymentController(payments *services.PaymentLifecycleService) *PaymentController {
	return &PaymentController{payments: payments}
}

// GET /api/v1/contracts/{id}/payments
func (c *PaymentController) ListContractPaymentsHandler(w http.ResponseWriter, r *http.Request) {
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

	payments, err := c.payments.ListContractPayments(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}

// POST /api/v1/contracts/{id}/payments/schedule
func (c *PaymentController) SchedulePaymentsHandler(w http.ResponseWriter, r *http.Request) {
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

	payments, err := c.payments.SchedulePayments(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}

// GET /api/v1/payments/mine
func (c *PaymentController) ListMyPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	payments, err := c.payments.ListTenantPayments(r.Context(), actor, actor.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, payments)
}

// GET /api/v1/payments/{id}
func (c *PaymentController) GetPaymentHandler(w http.ResponseWriter, r *http.Request) {
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

	p, err := c.payments.GetPayment(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/payments/{id}/submit
func (c *PaymentController) SubmitReceiptHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.SubmitReceiptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.payments.SubmitReceipt(r.Context(), actor, id, models.PaymentMethod(req.Method), req.ReceiptRef)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/payments/{id}/verify
func (c *PaymentController) VerifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.VerifyPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.payments.VerifyPayment(r.Context(), actor, id, *req.Approved)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/payments/{id}/overdue
func (c *PaymentController) MarkOverdueHandler(w http.ResponseWriter, r *http.Request) {
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

	p, err := c.payments.MarkOverdue(r.Context(), actor, id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

// POST /api/v1/payments/{id}/split
func (c *PaymentController) SplitPaymentHandler(w http.ResponseWriter, r *http.Request) {
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

	var req dtos.SplitPaymentRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	parts, err := c.payments.SplitPayment(r.Context(), actor, id, req.Amounts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, parts)
}

// POST /api/v1/payments/charges
func (c *PaymentController) CreateServiceChargeHandler(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		utils.HandleAppError(w, err)
		return
	}

	var req dtos.ServiceChargeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	p, err := c.payments.CreateServiceCharge(r.Context(), actor, uuid.MustParse(req.TenantID), req.Concept, req.Amount, parseDate(req.DueDate))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}
