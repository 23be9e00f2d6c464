/*
pacing.go - Goal pacing for the current month

PURPOSE:
  Compares current-month actuals against the stored goal, prorated by how
  much of the month has elapsed, and projects the full-month result by
  naive linear extrapolation:

    progressRatio = dayOfMonth / daysInMonth
    proratedGoal  = goal * progressRatio
    projected     = round(actual * daysInMonth / dayOfMonth)

  A metric is on track when its actual has reached its prorated goal.
  Absent goals render as "no target", never as "behind" — a user who set
  only a sales goal should not see eleven red rows.

  Only meaningful when the requested period is the real-world current
  month: projecting a closed month is nonsense and the caller guards it.

SEE ALSO:
  - types.go: MonthlyGoal, PacingRow
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// metricKind controls projection rounding: currency/count metrics project
// to whole units, ratio metrics keep two decimal places.
type metricKind int

const (
	kindAdditive metricKind = iota
	kindRatio
)

// ComputeGoalPacing compares a month's actuals against its goal as of
// today. goal may be nil (no row stored): every metric is "no target".
// dayOfMonth >= 1 always holds, so the projection divisor is never zero.
func ComputeGoalPacing(actual MonthlyAggregate, goal *MonthlyGoal, today time.Time) PacingRow {
	day := today.Day()
	days := DaysInMonth(actual.Year, actual.Month)
	if actual.Month == 0 {
		// Yearly row: pace against elapsed days of the year.
		days = 365
		if DaysInMonth(actual.Year, 2) == 29 {
			days = 366
		}
		day = today.YearDay()
	}

	ratio := decimal.NewFromInt(int64(day)).Div(decimal.NewFromInt(int64(days)))

	row := PacingRow{
		Year:          actual.Year,
		Month:         actual.Month,
		DayOfMonth:    day,
		DaysInMonth:   days,
		ProgressRatio: ratio.Round(4),
	}

	for _, m := range pacingMetrics(actual, goal) {
		row.Metrics = append(row.Metrics, paceMetric(m, ratio, day, days))
	}
	return row
}

type pacingInput struct {
	name   string
	actual decimal.Decimal
	goal   decimal.NullDecimal
	kind   metricKind
}

func paceMetric(in pacingInput, ratio decimal.Decimal, day, days int) MetricPace {
	projected := in.actual.
		Mul(decimal.NewFromInt(int64(days))).
		Div(decimal.NewFromInt(int64(day)))
	if in.kind == kindAdditive {
		projected = projected.Round(0)
	} else {
		projected = projected.Round(2)
	}

	pace := MetricPace{
		Metric:    in.name,
		Actual:    in.actual,
		Goal:      in.goal,
		Projected: projected,
		State:     PaceNoTarget,
	}
	if !in.goal.Valid {
		return pace
	}

	prorated := in.goal.Decimal.Mul(ratio).Round(1)
	pace.ProratedGoal = nullDec(prorated)
	if in.actual.GreaterThanOrEqual(prorated) {
		pace.State = PaceOnTrack
	} else {
		pace.State = PaceBehind
	}
	return pace
}

func pacingMetrics(actual MonthlyAggregate, goal *MonthlyGoal) []pacingInput {
	var g MonthlyGoal
	if goal != nil {
		g = *goal
	}
	fromInt := func(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }

	return []pacingInput{
		{"sales", actual.TotalSales, g.Sales, kindAdditive},
		{"profit", actual.TotalProfit, g.Profit, kindAdditive},
		{"sold_count", fromInt(actual.SoldCount), g.SoldCount, kindAdditive},
		{"purchased_count", fromInt(actual.PurchasedCount), g.PurchasedCount, kindAdditive},
		{"listed_count", fromInt(actual.ListedCount), g.ListedCount, kindAdditive},
		{"purchase_value", actual.PurchaseValue, g.PurchaseValue, kindAdditive},
		{"profit_rate", actual.ProfitRate, g.ProfitRate, kindRatio},
		{"avg_sale_price", actual.AvgSalePrice, g.AvgSalePrice, kindAdditive},
		{"avg_purchase_price", actual.AvgPurchasePrice, g.AvgPurchasePrice, kindAdditive},
		{"stock_count_turnover_pct", actual.StockCountTurnoverPct, g.StockCountTurnoverPct, kindRatio},
		{"sales_turnover_pct", actual.SalesTurnoverPct, g.SalesTurnoverPct, kindRatio},
		{"cost_turnover_pct", actual.CostTurnoverPct, g.CostTurnoverPct, kindRatio},
		{"overall_profitability_pct", actual.OverallProfitabilityPct, g.OverallProfitabilityPct, kindRatio},
		{"gmroi", actual.GMROI, g.GMROI, kindRatio},
	}
}
