package constants

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SystemActorID identifies background jobs (overdue scan, expiry) in the
// audit log.
var SystemActorID = uuid.MustParse("00000000-0000-0000-0000-00000000a11e")

// PaymentNamespace seeds the deterministic ids of scheduled payments so
// rescheduling a contract is a no-op.
var PaymentNamespace = uuid.MustParse("8a1f5b3e-4a7c-5d2e-9b61-0c3d7e2f4a90")

// MaxAmount is the largest value a NUMERIC(12,2) money column holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

const (
	// Contract terms
	MinBillingDay = 1
	MaxBillingDay = 31

	// Money amounts are stored with two decimal places.
	MoneyScale = 2

	// Incident text limits
	MaxCategoryLength    = 64
	MaxDescriptionLength = 2000
	MaxMessageLength     = 1000

	// Scan
	DefaultScanTimeout = 2 * time.Minute

	MessageTimestampLayout = time.RFC3339
)
