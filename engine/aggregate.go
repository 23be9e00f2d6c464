/*
aggregate.go - Monthly and yearly KPI rows

PURPOSE:
  Buckets the unified event stream and the raw purchase/listing activity
  into twelve MonthlyAggregate rows per year, plus a yearly total. Each
  month also carries the opening/closing stock snapshot and the turnover
  KPIs derived from it.

KEY INSIGHT:
  Yearly ratios are NOT averages of monthly ratios. Additive fields sum
  across the twelve rows, but the four turnover percentages and GMROI are
  recomputed from the January opening and December closing snapshots —
  averaging monthly ratios would weight thin months the same as heavy ones.

  Opening(month) == Closing(month-1) by construction: the twelve rows are
  built from a single chain of thirteen month-end snapshots.

BUCKETING:
  Sale events land in the month of their sale date, purchases in the month
  of their purchase date, listings in the month of their listing date.
  Rows with unusable dates simply fall out of every bucket — "unknown",
  not an error.

SEE ALSO:
  - stock.go: the snapshot chain
  - ratios.go: the KPI math
*/
package engine

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// FILTERS
// =============================================================================

// SalesTypeFilter restricts aggregation to wholesale or retail destinations.
type SalesTypeFilter string

const (
	FilterAll SalesTypeFilter = "all"
	FilterToB SalesTypeFilter = "toB"
	FilterToC SalesTypeFilter = "toC"
)

// AggregateOptions configures an aggregation pass.
type AggregateOptions struct {
	SalesType SalesTypeFilter // zero value means FilterAll
}

// =============================================================================
// MONTHLY AGGREGATES
// =============================================================================

// ComputeMonthlyAggregates produces the twelve KPI rows for a year.
func ComputeMonthlyAggregates(d *Dataset, events []UnifiedSaleEvent, year int, opts AggregateOptions) []MonthlyAggregate {
	events = filterBySalesType(events, opts.SalesType, d.destinationSalesTypes())

	// One chain of thirteen month-end snapshots: prior December through
	// this December. Guarantees opening(m) == closing(m-1).
	snapshots := make([]StockSnapshot, 13)
	snapshots[0] = ComputeStockSnapshot(EndOfMonth(year-1, 12), d.SingleItems, d.BulkLots, d.BulkAllocations)
	for m := 1; m <= 12; m++ {
		snapshots[m] = ComputeStockSnapshot(EndOfMonth(year, m), d.SingleItems, d.BulkLots, d.BulkAllocations)
	}

	rows := make([]MonthlyAggregate, 0, 12)
	for m := 1; m <= 12; m++ {
		row := aggregateBucket(d, events, year, m, yearMonthKey(year, m))
		row.OpeningStockCount = snapshots[m-1].Count
		row.OpeningStockValue = snapshots[m-1].Value
		row.ClosingStockCount = snapshots[m].Count
		row.ClosingStockValue = snapshots[m].Value

		kpis := ComputeTurnoverKPIs(row.SoldCount, row.TotalSales, row.CostOfGoodsSold, row.TotalProfit, snapshots[m-1], snapshots[m])
		row.StockCountTurnoverPct = kpis.StockCountTurnoverPct
		row.SalesTurnoverPct = kpis.SalesTurnoverPct
		row.CostTurnoverPct = kpis.CostTurnoverPct
		row.OverallProfitabilityPct = kpis.OverallProfitabilityPct
		row.GMROI = kpis.GMROI

		rows = append(rows, row)
	}
	return rows
}

// ComputeYearlyTotal sums the additive fields across the twelve monthly
// rows and recomputes the ratio KPIs from the year-boundary snapshots.
func ComputeYearlyTotal(d *Dataset, events []UnifiedSaleEvent, year int, opts AggregateOptions) MonthlyAggregate {
	months := ComputeMonthlyAggregates(d, events, year, opts)

	total := MonthlyAggregate{
		Year:              year,
		Month:             0,
		TotalSales:        decimal.Zero,
		CostOfGoodsSold:   decimal.Zero,
		TotalCommission:   decimal.Zero,
		TotalShipping:     decimal.Zero,
		TotalProfit:       decimal.Zero,
		PurchaseValue:     decimal.Zero,
		OpeningStockCount: months[0].OpeningStockCount,
		OpeningStockValue: months[0].OpeningStockValue,
		ClosingStockCount: months[11].ClosingStockCount,
		ClosingStockValue: months[11].ClosingStockValue,
	}
	total.Single.Sales, total.Single.Profit = decimal.Zero, decimal.Zero
	total.Bulk.Sales, total.Bulk.Profit = decimal.Zero, decimal.Zero
	total.Manual.Sales, total.Manual.Profit = decimal.Zero, decimal.Zero

	for _, m := range months {
		total.SoldCount += m.SoldCount
		total.PurchasedCount += m.PurchasedCount
		total.ListedCount += m.ListedCount
		total.TotalSales = total.TotalSales.Add(m.TotalSales)
		total.CostOfGoodsSold = total.CostOfGoodsSold.Add(m.CostOfGoodsSold)
		total.TotalCommission = total.TotalCommission.Add(m.TotalCommission)
		total.TotalShipping = total.TotalShipping.Add(m.TotalShipping)
		total.TotalProfit = total.TotalProfit.Add(m.TotalProfit)
		total.PurchaseValue = total.PurchaseValue.Add(m.PurchaseValue)
		total.MissingCostCount += m.MissingCostCount

		total.Single = addBreakdown(total.Single, m.Single)
		total.Bulk = addBreakdown(total.Bulk, m.Bulk)
		total.Manual = addBreakdown(total.Manual, m.Manual)
	}

	total.ProfitRate = profitRate(total.TotalProfit, total.TotalSales)
	total.AvgSalePrice = averageOver(total.TotalSales, total.SoldCount)
	total.AvgProfit = averageOver(total.TotalProfit, total.SoldCount)
	total.AvgPurchasePrice = averageOver(total.PurchaseValue, total.PurchasedCount)

	opening := StockSnapshot{Count: total.OpeningStockCount, Value: total.OpeningStockValue}
	closing := StockSnapshot{Count: total.ClosingStockCount, Value: total.ClosingStockValue}
	kpis := ComputeTurnoverKPIs(total.SoldCount, total.TotalSales, total.CostOfGoodsSold, total.TotalProfit, opening, closing)
	total.StockCountTurnoverPct = kpis.StockCountTurnoverPct
	total.SalesTurnoverPct = kpis.SalesTurnoverPct
	total.CostTurnoverPct = kpis.CostTurnoverPct
	total.OverallProfitabilityPct = kpis.OverallProfitabilityPct
	total.GMROI = kpis.GMROI

	return total
}

// aggregateBucket sums one month's events and raw activity.
func aggregateBucket(d *Dataset, events []UnifiedSaleEvent, year, month int, bucket string) MonthlyAggregate {
	row := MonthlyAggregate{
		Year:            year,
		Month:           month,
		TotalSales:      decimal.Zero,
		CostOfGoodsSold: decimal.Zero,
		TotalCommission: decimal.Zero,
		TotalShipping:   decimal.Zero,
		TotalProfit:     decimal.Zero,
		PurchaseValue:   decimal.Zero,
	}
	row.Single.Sales, row.Single.Profit = decimal.Zero, decimal.Zero
	row.Bulk.Sales, row.Bulk.Profit = decimal.Zero, decimal.Zero
	row.Manual.Sales, row.Manual.Profit = decimal.Zero, decimal.Zero

	for _, ev := range events {
		if NormalizeYearMonth(ev.SaleDate) != bucket {
			continue
		}
		row.SoldCount += ev.Quantity
		row.TotalSales = row.TotalSales.Add(ev.SalePrice)
		row.CostOfGoodsSold = row.CostOfGoodsSold.Add(ev.PurchaseCost)
		row.TotalCommission = row.TotalCommission.Add(ev.Commission)
		row.TotalShipping = row.TotalShipping.Add(ev.ShippingCost)
		row.TotalProfit = row.TotalProfit.Add(ev.Profit)
		if ev.MissingCost {
			row.MissingCostCount++
		}

		switch ev.SourceType {
		case SourceSingle:
			row.Single = addEvent(row.Single, ev)
		case SourceBulk:
			row.Bulk = addEvent(row.Bulk, ev)
		case SourceManual:
			row.Manual = addEvent(row.Manual, ev)
		}
	}

	for _, item := range d.SingleItems {
		if NormalizeYearMonth(item.PurchaseDate) == bucket {
			row.PurchasedCount++
			row.PurchaseValue = row.PurchaseValue.Add(orZero(item.PurchaseTotal))
		}
		if NormalizeYearMonth(item.ListingDate) == bucket {
			row.ListedCount++
		}
	}

	row.ProfitRate = profitRate(row.TotalProfit, row.TotalSales)
	row.AvgSalePrice = averageOver(row.TotalSales, row.SoldCount)
	row.AvgProfit = averageOver(row.TotalProfit, row.SoldCount)
	row.AvgPurchasePrice = averageOver(row.PurchaseValue, row.PurchasedCount)

	return row
}

// =============================================================================
// DESTINATION SUMMARY
// =============================================================================

// ComputeDestinationSummary groups events by sale destination, sorted by
// revenue descending. Empty destinations bucket under "unknown".
func ComputeDestinationSummary(events []UnifiedSaleEvent) []DestinationSummary {
	byName := make(map[string]*DestinationSummary)
	for _, ev := range events {
		name := ev.SaleDestination
		if name == "" {
			name = "unknown"
		}
		s, ok := byName[name]
		if !ok {
			s = &DestinationSummary{
				Name:       name,
				Sales:      decimal.Zero,
				Purchase:   decimal.Zero,
				Commission: decimal.Zero,
				Shipping:   decimal.Zero,
				Profit:     decimal.Zero,
			}
			byName[name] = s
		}
		s.Count += ev.Quantity
		s.Sales = s.Sales.Add(ev.SalePrice)
		s.Purchase = s.Purchase.Add(ev.PurchaseCost)
		s.Commission = s.Commission.Add(ev.Commission)
		s.Shipping = s.Shipping.Add(ev.ShippingCost)
		s.Profit = s.Profit.Add(ev.Profit)
	}

	out := make([]DestinationSummary, 0, len(byName))
	for _, s := range byName {
		s.ProfitRate = profitRate(s.Profit, s.Sales)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Sales.Equal(out[j].Sales) {
			return out[i].Sales.GreaterThan(out[j].Sales)
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// =============================================================================
// AVAILABLE YEARS
// =============================================================================

// AvailableYears is the distinct set of years that appear in sale or
// purchase dates, plus the current year, newest first.
func AvailableYears(events []UnifiedSaleEvent, singles []RawSingleItem, now time.Time) []int {
	years := map[int]bool{now.Year(): true}
	for _, ev := range events {
		if y, ok := ExtractYear(ev.SaleDate); ok {
			years[y] = true
		}
	}
	for _, item := range singles {
		if y, ok := ExtractYear(item.PurchaseDate); ok {
			years[y] = true
		}
	}

	out := make([]int, 0, len(years))
	for y := range years {
		out = append(out, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// FilterEventsByMonth returns the events whose sale date falls in
// (year, month); month 0 means the whole year.
func FilterEventsByMonth(events []UnifiedSaleEvent, year, month int) []UnifiedSaleEvent {
	var out []UnifiedSaleEvent
	for _, ev := range events {
		y, ok := ExtractYear(ev.SaleDate)
		if !ok || y != year {
			continue
		}
		if month != 0 {
			if m, ok := ExtractMonth(ev.SaleDate); !ok || m != month {
				continue
			}
		}
		out = append(out, ev)
	}
	return out
}

func filterBySalesType(events []UnifiedSaleEvent, filter SalesTypeFilter, types map[string]SalesType) []UnifiedSaleEvent {
	if filter == "" || filter == FilterAll {
		return events
	}
	want := SalesTypeToC
	if filter == FilterToB {
		want = SalesTypeToB
	}
	var out []UnifiedSaleEvent
	for _, ev := range events {
		if types[ev.SaleDestination] == want {
			out = append(out, ev)
		}
	}
	return out
}

func addEvent(b SourceBreakdown, ev UnifiedSaleEvent) SourceBreakdown {
	b.Count += ev.Quantity
	b.Sales = b.Sales.Add(ev.SalePrice)
	b.Profit = b.Profit.Add(ev.Profit)
	return b
}

func addBreakdown(a, b SourceBreakdown) SourceBreakdown {
	a.Count += b.Count
	a.Sales = a.Sales.Add(b.Sales)
	a.Profit = a.Profit.Add(b.Profit)
	return a
}

// averageOver is total/count rounded to whole currency units, zero when
// the count is zero.
func averageOver(total decimal.Decimal, count int) decimal.Decimal {
	if count <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(0)
}
