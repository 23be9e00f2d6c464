/*
ratios.go - Turnover and profitability KPIs

PURPOSE:
  Derives the ratio KPIs from a period's totals and its opening/closing
  stock snapshots. Average inventory is the simple mean of the two
  endpoint snapshots.

ZERO GUARDS:
  Every ratio is zero — never NaN or Infinity — when its denominator is
  zero. A brand-new shop with no prior inventory gets an all-zero KPI row,
  not an error. The guards are explicit comparisons, not an artifact of
  floating-point behavior (all math is decimal).

ROUNDING:
  Percentages round to one decimal place; GMROI is a ratio rounded to two.
*/
package engine

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TurnoverKPIs are the ratio metrics for one period.
type TurnoverKPIs struct {
	AvgStockCount decimal.Decimal
	AvgStockValue decimal.Decimal

	StockCountTurnoverPct   decimal.Decimal
	SalesTurnoverPct        decimal.Decimal
	CostTurnoverPct         decimal.Decimal
	OverallProfitabilityPct decimal.Decimal
	GMROI                   decimal.Decimal
}

// ComputeTurnoverKPIs derives the ratio KPIs for a period from its totals
// and the snapshots at its boundaries.
func ComputeTurnoverKPIs(
	soldCount int,
	totalSales, costOfGoodsSold, totalProfit decimal.Decimal,
	opening, closing StockSnapshot,
) TurnoverKPIs {
	two := decimal.NewFromInt(2)
	avgCount := decimal.NewFromInt(int64(opening.Count + closing.Count)).Div(two)
	avgValue := opening.Value.Add(closing.Value).Div(two)

	k := TurnoverKPIs{
		AvgStockCount:           avgCount,
		AvgStockValue:           avgValue,
		StockCountTurnoverPct:   decimal.Zero,
		SalesTurnoverPct:        decimal.Zero,
		CostTurnoverPct:         decimal.Zero,
		OverallProfitabilityPct: decimal.Zero,
		GMROI:                   decimal.Zero,
	}

	if avgCount.IsPositive() {
		k.StockCountTurnoverPct = decimal.NewFromInt(int64(soldCount)).Div(avgCount).Mul(hundred).Round(1)
	}
	if avgValue.IsPositive() {
		k.SalesTurnoverPct = totalSales.Div(avgValue).Mul(hundred).Round(1)
		k.CostTurnoverPct = costOfGoodsSold.Div(avgValue).Mul(hundred).Round(1)
		k.OverallProfitabilityPct = totalProfit.Div(avgValue).Mul(hundred).Round(1)
		k.GMROI = totalProfit.Div(avgValue).Round(2)
	}
	return k
}
