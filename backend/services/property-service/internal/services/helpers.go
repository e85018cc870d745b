package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/constants"
	internal_utils "github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/utils"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-repositories"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Clock returns the current instant. Managers take one so tests can pin time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

// runTx executes fn in one unit of work and normalises store-level
// failures into the manager error kinds.
func runTx(ctx context.Context, store repositories.Store, fn func(tx repositories.Tx) error) error {
	return translateStoreErr(store.WithTx(ctx, fn))
}

func translateStoreErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := internal_utils.AsCoreError(err); ok {
		return err
	}
	if repositories.IsConcurrencyConflict(err) {
		return internal_utils.ConcurrentWrite(err)
	}
	return err
}

func recordAudit(
	ctx context.Context,
	tx repositories.Tx,
	actor Actor,
	action models.AuditAction,
	targetType models.AuditTargetType,
	targetID uuid.UUID,
	details any,
) error {
	var raw *json.RawMessage
	if details != nil {
		b, err := json.Marshal(details)
		if err != nil {
			return fmt.Errorf("marshal audit details: %w", err)
		}
		raw = utils.Ptr(json.RawMessage(b))
	}
	return tx.AuditLogs().Create(ctx, &models.AuditLog{
		ID:         uuid.New(),
		ActorID:    actor.UserID,
		ActorRole:  actor.Role,
		Action:     action,
		TargetID:   targetID,
		TargetType: targetType,
		Details:    raw,
	})
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// validateAmount rejects money values the store would round or overflow.
func validateAmount(field string, a decimal.Decimal) error {
	if !a.IsPositive() {
		return internal_utils.Validation("%s must be positive, got %s", field, a)
	}
	if !a.Equal(a.Round(constants.MoneyScale)) {
		return internal_utils.Validation("%s has more than %d decimal places: %s", field, constants.MoneyScale, a)
	}
	if a.GreaterThan(constants.MaxAmount) {
		return internal_utils.Validation("%s exceeds %s", field, constants.MaxAmount)
	}
	return nil
}
