package services

import (
	"testing"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSchedule_MonthEndClamping(t *testing.T) {
	c := &models.Contract{
		ID:            uuid.New(),
		StartDate:     date(2025, time.January, 31),
		EndDate:       date(2025, time.May, 1),
		MonthlyAmount: decimal.RequireFromString("1200"),
		BillingDay:    31,
	}
	plan := BuildSchedule(c, nil)
	require.Len(t, plan, 4)

	wantPeriods := []string{"2025-01", "2025-02", "2025-03", "2025-04"}
	wantDue := []time.Time{
		date(2025, time.January, 31),
		date(2025, time.February, 28),
		date(2025, time.March, 31),
		date(2025, time.April, 30),
	}
	for i, sp := range plan {
		assert.Equal(t, wantPeriods[i], sp.Period)
		assert.Equal(t, wantDue[i], sp.DueDate)
	}
}

func TestBuildSchedule_BillingDayBeforeStartDay(t *testing.T) {
	c := &models.Contract{
		StartDate:     date(2025, time.March, 15),
		EndDate:       date(2025, time.June, 15),
		MonthlyAmount: decimal.RequireFromString("800"),
		BillingDay:    1,
	}
	plan := BuildSchedule(c, nil)
	require.Len(t, plan, 3)
	assert.Equal(t, date(2025, time.April, 1), plan[0].DueDate)
	assert.Equal(t, date(2025, time.May, 1), plan[1].DueDate)
	assert.Equal(t, date(2025, time.June, 1), plan[2].DueDate)
}

func TestBuildSchedule_ShortContract(t *testing.T) {
	c := &models.Contract{
		StartDate:     date(2025, time.March, 1),
		EndDate:       date(2025, time.March, 20),
		MonthlyAmount: decimal.RequireFromString("800"),
		BillingDay:    1,
	}
	plan := BuildSchedule(c, nil)
	require.Len(t, plan, 1)
	assert.Equal(t, "2025-03", plan[0].Period)
}

func TestScheduledPaymentID_Stable(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, ScheduledPaymentID(id, "2025-01", 0), ScheduledPaymentID(id, "2025-01", 0))
	assert.NotEqual(t, ScheduledPaymentID(id, "2025-01", 0), ScheduledPaymentID(id, "2025-01", 1))
	assert.NotEqual(t, ScheduledPaymentID(id, "2025-01", 0), ScheduledPaymentID(id, "2025-02", 0))
}
