package service

import (
	"time"

	"github.com/atlas-pm/portfolio-backend/internal/types"
	"github.com/shopspring/decimal"
)

var (
	lowBudgetCeiling = decimal.NewFromInt(100_000)
	highBudgetFloor  = decimal.NewFromInt(500_000)
)

// ClassifyRisk derives the risk tier from budget and schedule length.
// LOW wins over HIGH when both match (a cheap short project stays LOW),
// so the checks run in that order.
func ClassifyRisk(budget decimal.Decimal, start, expectedEnd time.Time) string {
	months := wholeMonthsBetween(start, expectedEnd)

	low := budget.LessThanOrEqual(lowBudgetCeiling) && months <= 3
	high := budget.GreaterThan(highBudgetFloor) || months > 6

	if low {
		return types.RiskLow
	}
	if high {
		return types.RiskHigh
	}
	return types.RiskMedium
}

// wholeMonthsBetween counts complete calendar months from start to end,
// truncating a trailing partial month. Jan 15 -> Apr 14 is 2 months,
// Jan 15 -> Apr 15 is 3.
func wholeMonthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
