package controllers

import (
	"net/http"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/services"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
)

type ScanController struct {
	scan *services.OverdueScanService
}

func NewScanController(scan *services.OverdueScanService) *ScanController {
	return &ScanController{scan: scan}
}

// POST /api/v1/admin/scan runs the overdue sweep immediately.
func (c *ScanController) RunScanHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := actorFromRequest(r); err != nil {
		utils.HandleAppError(w, err)
		return
	}
	report, err := c.scan.RunScan(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}
