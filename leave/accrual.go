/*
accrual.go - Accrued-hours calculation

PURPOSE:
  Computes how many hours of leave a user has earned as of a reference
  date. This is a pure function: same inputs, same output, no clock reads,
  no mutation. Callers persist the result.

THE RULE:
  Elapsed whole days since the start date are bucketed into completed
  fixed-length periods (biweekly=14d, monthly=30d, yearly=365d) and each
  completed period earns the accrual rate. Partial periods earn nothing.

  Example: hired 2025-01-01, biweekly at 4.0 h/period, reference
  2025-01-29. 28 days passed -> 2 completed periods -> 8.0 hours.

ONE-TIME TYPES:
  One-time accrual types (comp time) are never date-driven. If a balance
  already exists its stored accrued hours are sticky - manual adjustments
  survive every recompute. Without a balance the accrual rate serves as
  the initial grant.

SEE ALSO:
  - recompute.go: bulk recompute on rule or start-date changes
  - projection.go: forward accrual from today instead of from hire date
*/
package leave

import "github.com/shopspring/decimal"

// AccruedHours computes the hours earned as of today for one leave type.
// existing is the stored accrued hours of an already-existing balance, or
// nil when no balance exists yet; it only matters for one-time types.
func AccruedHours(today Date, startDate Date, lt LeaveType, existing *decimal.Decimal) decimal.Decimal {
	if lt.OneTimeAccrual {
		if existing != nil {
			return *existing
		}
		return lt.AccrualRate
	}

	if startDate.IsZero() {
		return decimal.Zero
	}

	daysPassed := startDate.DaysUntil(today)
	if daysPassed < 0 {
		// Future hire date.
		return decimal.Zero
	}

	return periodAccrual(daysPassed, lt)
}

// FutureAccrual computes the hours that will accrue between today and a
// future date, using the same period bucketing but counting forward from
// today. A user without a start date accrues nothing, matching the
// as-of-hire calculation.
func FutureAccrual(today, asOf Date, startDate Date, lt LeaveType) decimal.Decimal {
	if lt.OneTimeAccrual || startDate.IsZero() {
		return decimal.Zero
	}

	days := today.DaysUntil(asOf)
	if days < 0 {
		return decimal.Zero
	}

	return periodAccrual(days, lt)
}

// periodAccrual converts a non-negative day count into completed periods
// times the accrual rate. Unknown periods have length 0 and yield 0.
func periodAccrual(days int, lt LeaveType) decimal.Decimal {
	periodDays := lt.AccrualPeriod.Days()
	if periodDays == 0 {
		return decimal.Zero
	}

	completed := days / periodDays // integer floor
	return lt.AccrualRate.Mul(decimal.NewFromInt(int64(completed)))
}
