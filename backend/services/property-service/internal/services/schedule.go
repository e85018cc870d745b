package services

import (
	"fmt"
	"time"

	"github.com/MillaAntonella/DepaManager--sub000/backend/services/property-service/internal/constants"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-models"
	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ScheduledPeriod is one billing period of a contract.
type ScheduledPeriod struct {
	Period  string
	Start   time.Time
	DueDate time.Time
	Amount  decimal.Decimal
}

// BuildSchedule splits [StartDate, EndDate) into monthly periods anchored on
// the start day. Overrides replace the monthly amount for the matching
// "YYYY-MM" period.
func BuildSchedule(c *models.Contract, overrides map[string]decimal.Decimal) []ScheduledPeriod {
	start := utils.DateOnly(c.StartDate)
	end := utils.DateOnly(c.EndDate)

	var out []ScheduledPeriod
	for i := 0; ; i++ {
		ps := addMonthsClamped(start, i)
		if !ps.Before(end) {
			break
		}
		label := ps.Format(models.PeriodLayout)
		amount := c.MonthlyAmount
		if o, ok := overrides[label]; ok {
			amount = o
		}
		out = append(out, ScheduledPeriod{
			Period:  label,
			Start:   ps,
			DueDate: dueDateFor(ps, c.BillingDay),
			Amount:  amount,
		})
	}
	return out
}

// addMonthsClamped moves t forward n months keeping the day of month,
// clamped to the target month's length (Jan 31 + 1 month = Feb 28/29).
func addMonthsClamped(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := min(t.Day(), utils.DaysIn(first.Year(), first.Month(), t.Location()))
	return time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, t.Location())
}

// dueDateFor returns the first date on or after periodStart whose day is
// billingDay, clamped to the month length.
func dueDateFor(periodStart time.Time, billingDay int) time.Time {
	if billingDay < constants.MinBillingDay {
		billingDay = periodStart.Day()
	}
	loc := periodStart.Location()
	y, m := periodStart.Year(), periodStart.Month()
	due := time.Date(y, m, min(billingDay, utils.DaysIn(y, m, loc)), 0, 0, 0, 0, loc)
	if due.Before(periodStart) {
		next := time.Date(y, m+1, 1, 0, 0, 0, 0, loc)
		due = time.Date(next.Year(), next.Month(), min(billingDay, utils.DaysIn(next.Year(), next.Month(), loc)), 0, 0, 0, 0, loc)
	}
	return due
}

// ScheduledPaymentID is stable per (contract, period, sequence).
func ScheduledPaymentID(contractID uuid.UUID, period string, sequence int) uuid.UUID {
	return uuid.NewSHA1(constants.PaymentNamespace, []byte(fmt.Sprintf("%s/%s/%d", contractID, period, sequence)))
}
