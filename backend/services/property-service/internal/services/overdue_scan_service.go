package services

import (
	"context"
	"errors"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/constants"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
)

type ScanReport struct {
	MarkedOverdue    int `json:"marked_overdue"`
	Skipped          int `json:"skipped"`
	ContractsExpired int `json:"contracts_expired"`
}

// OverdueScanService is the periodic sweep: past-due payments become
// OVERDUE and contracts past their end date expire. Every record is
// handled in its own unit of work so one failure never blocks the rest.
type OverdueScanService struct {
	store     repositories.Store
	payments  *PaymentLifecycleService
	occupancy *OccupancyService
	now       Clock
}

func NewOverdueScanService(
	store repositories.Store,
	payments *PaymentLifecycleService,
	occupancy *OccupancyService,
	clock Clock,
) *OverdueScanService {
	return &OverdueScanService{store: store, payments: payments, occupancy: occupancy, now: clockOrDefault(clock)}
}

func (s *OverdueScanService) RunScan(ctx context.Context) (*ScanReport, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DefaultScanTimeout)
	defer cancel()

	actor := SystemActor()
	report := &ScanReport{}

	var due []*models.Payment
	err := runTx(ctx, s.store, func(tx repositories.Tx) error {
		var err error
		due, err = tx.Payments().ListPendingDueBefore(ctx, s.now())
		return err
	})
	if err != nil {
		return nil, err
	}

	for _, p := range due {
		if _, err := s.payments.MarkOverdue(ctx, actor, p.ID); err != nil {
			report.Skipped++
			entry := utils.Logger.WithError(err).WithField("payment_id", p.ID)
			if errors.Is(err, internal_utils.ErrConflict) || errors.Is(err, internal_utils.ErrImmutable) {
				entry.Debug("Payment changed since the scan started, skipping")
			} else {
				entry.Error("Failed to mark payment overdue")
			}
			continue
		}
		report.MarkedOverdue++
	}

	expired, err := s.occupancy.ExpireDueContracts(ctx, actor)
	if err != nil {
		return report, err
	}
	report.ContractsExpired = expired

	utils.Logger.WithField("marked_overdue", report.MarkedOverdue).
		WithField("skipped", report.Skipped).
		WithField("contracts_expired", report.ContractsExpired).
		Info("Overdue scan finished")
	return report, nil
}

// Run is the cron entry point.
func (s *OverdueScanService) Run() {
	if _, err := s.RunScan(context.Background()); err != nil {
		utils.Logger.WithError(err).Error("Overdue scan failed")
	}
}
