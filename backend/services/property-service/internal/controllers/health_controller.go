package controllers

import (
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/dtos"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
)

type HealthController struct {
	store repositories.Store
}

func NewHealthController(store repositories.Store) *HealthController {
	return &HealthController{store: store}
}

func (c *HealthController) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	if err := c.store.Ping(r.Context()); err != nil {
		utils.Logger.WithError(err).Error("Store unreachable")
		utils.RespondErrorWithCode(
			w,
			http.StatusServiceUnavailable,
			utils.ErrCodeInternal,
			"Store unreachable",
			nil,
			err,
		)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, dtos.HealthCheckResponse{Status: "OK"})
}
