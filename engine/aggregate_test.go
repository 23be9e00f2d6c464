package engine_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/resale-engine/engine"
)

func testDataset() *engine.Dataset {
	feb := soldSingle("s1") // bought 2024-01-10, sold 2024-02-05 for 5000, profit 1200

	mar := soldSingle("s2")
	mar.PurchaseDate = "2024-02-15"
	mar.SaleDate = "2024-03-20"
	mar.SalePrice = ndec(8000)
	mar.PurchaseTotal = ndec(4000)
	mar.Commission = ndec(800)
	mar.ShippingCost = ndec(200)
	mar.SaleDestination = "wholesale partner"

	unsold := soldSingle("s3")
	unsold.PurchaseDate = "2024-03-01"
	unsold.ListingDate = "2024-03-05"
	unsold.SaleDate = ""
	unsold.SaleDestination = ""
	unsold.PurchaseTotal = ndec(2000)

	lot := engine.RawBulkLot{ID: "lot1", Genre: "cameras", PurchaseDate: "2024-01-20", TotalAmount: dec(10000), TotalQuantity: 10}
	alloc := engine.RawBulkAllocation{
		ID: "a1", BulkLotID: "lot1", SaleDate: "2024-03-10", SaleDestination: "yahoo auction",
		Quantity: 3, SaleAmount: dec(4500), Commission: dec(200), ShippingCost: dec(150),
	}

	manual := engine.RawManualSale{
		ID: "m1", SaleDate: "2024-05-12", SaleDestination: "mercari",
		SalePrice: ndec(3000), PurchaseTotal: ndec(1000), Profit: ndec(1800),
	}

	return &engine.Dataset{
		SingleItems:     []engine.RawSingleItem{feb, mar, unsold},
		BulkLots:        []engine.RawBulkLot{lot},
		BulkAllocations: []engine.RawBulkAllocation{alloc},
		ManualSales:     []engine.RawManualSale{manual},
		Platforms: []engine.Platform{
			{ID: "p1", Name: "mercari", SalesType: engine.SalesTypeToC},
			{ID: "p2", Name: "yahoo auction", SalesType: engine.SalesTypeToC},
			{ID: "p3", Name: "wholesale partner", SalesType: engine.SalesTypeToB},
		},
	}
}

// =============================================================================
// MONTHLY ROWS
// =============================================================================

func TestMonthlyAggregates_BucketsBySaleMonth(t *testing.T) {
	// GIVEN: sales in Feb, Mar (single + bulk), and May
	// WHEN: computing the twelve monthly rows for 2024
	// THEN: each sale lands in its sale month; quiet months are zero rows

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	rows := engine.ComputeMonthlyAggregates(d, events, 2024, engine.AggregateOptions{})

	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}

	feb := rows[1]
	if feb.SoldCount != 1 || !feb.TotalSales.Equal(dec(5000)) || !feb.TotalProfit.Equal(dec(1200)) {
		t.Errorf("feb: expected 1 sold / 5000 sales / 1200 profit, got %d / %s / %s",
			feb.SoldCount, feb.TotalSales, feb.TotalProfit)
	}

	mar := rows[2]
	// single (1 unit, 8000, profit 3000) + bulk allocation (3 units, 4500, profit 1150)
	if mar.SoldCount != 4 {
		t.Errorf("mar: expected 4 sold (counts scale by quantity), got %d", mar.SoldCount)
	}
	if !mar.TotalSales.Equal(dec(12500)) {
		t.Errorf("mar: expected 12500 sales, got %s", mar.TotalSales)
	}
	if !mar.TotalProfit.Equal(dec(4150)) {
		t.Errorf("mar: expected 4150 profit, got %s", mar.TotalProfit)
	}
	if mar.Single.Count != 1 || mar.Bulk.Count != 3 {
		t.Errorf("mar: expected source breakdown 1 single / 3 bulk, got %d / %d",
			mar.Single.Count, mar.Bulk.Count)
	}

	may := rows[4]
	if may.Manual.Count != 1 || !may.TotalProfit.Equal(dec(1800)) {
		t.Errorf("may: expected 1 manual sale with stored profit 1800, got %d / %s",
			may.Manual.Count, may.TotalProfit)
	}

	if rows[6].SoldCount != 0 || !rows[6].TotalSales.IsZero() {
		t.Errorf("jul: expected a zero row for a quiet month")
	}
}

func TestMonthlyAggregates_PurchaseAndListingActivity(t *testing.T) {
	// GIVEN: single-item purchases in Jan, Feb, Mar and one listing in Mar
	// WHEN: computing the monthly rows
	// THEN: purchased/listed counts follow their own dates, not sale dates

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	rows := engine.ComputeMonthlyAggregates(d, events, 2024, engine.AggregateOptions{})

	if rows[0].PurchasedCount != 1 || !rows[0].PurchaseValue.Equal(dec(3000)) {
		t.Errorf("jan: expected 1 purchase worth 3000, got %d / %s", rows[0].PurchasedCount, rows[0].PurchaseValue)
	}
	if rows[2].PurchasedCount != 1 || rows[2].ListedCount != 1 {
		t.Errorf("mar: expected 1 purchase and 1 listing, got %d / %d", rows[2].PurchasedCount, rows[2].ListedCount)
	}
}

func TestMonthlyAggregates_SnapshotContinuity(t *testing.T) {
	// GIVEN: any dataset
	// WHEN: computing the monthly rows
	// THEN: each month's opening snapshot equals the previous month's closing

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	rows := engine.ComputeMonthlyAggregates(d, events, 2024, engine.AggregateOptions{})

	for m := 1; m < 12; m++ {
		prev, cur := rows[m-1], rows[m]
		if cur.OpeningStockCount != prev.ClosingStockCount {
			t.Errorf("month %d: opening count %d != prior closing %d",
				m+1, cur.OpeningStockCount, prev.ClosingStockCount)
		}
		if !cur.OpeningStockValue.Equal(prev.ClosingStockValue) {
			t.Errorf("month %d: opening value %s != prior closing %s",
				m+1, cur.OpeningStockValue, prev.ClosingStockValue)
		}
	}
}

func TestMonthlyAggregates_SalesTypeFilter(t *testing.T) {
	// GIVEN: one wholesale destination and two retail ones
	// WHEN: aggregating with the toB filter
	// THEN: only the wholesale sale remains

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	rows := engine.ComputeMonthlyAggregates(d, events, 2024, engine.AggregateOptions{SalesType: engine.FilterToB})

	var sold int
	for _, r := range rows {
		sold += r.SoldCount
	}
	if sold != 1 {
		t.Errorf("expected only the wholesale sale, got %d sold", sold)
	}
	if !rows[2].TotalSales.Equal(dec(8000)) {
		t.Errorf("expected the 8000 wholesale sale in March, got %s", rows[2].TotalSales)
	}
}

// =============================================================================
// YEARLY TOTAL
// =============================================================================

func TestYearlyTotal_AdditiveFieldsSumAcrossMonths(t *testing.T) {
	// GIVEN: the twelve monthly rows
	// WHEN: computing the yearly total
	// THEN: additive fields equal the sum of the months

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	months := engine.ComputeMonthlyAggregates(d, events, 2024, engine.AggregateOptions{})
	total := engine.ComputeYearlyTotal(d, events, 2024, engine.AggregateOptions{})

	var sold int
	sales := decimal.Zero
	profit := decimal.Zero
	for _, m := range months {
		sold += m.SoldCount
		sales = sales.Add(m.TotalSales)
		profit = profit.Add(m.TotalProfit)
	}

	if total.Month != 0 {
		t.Errorf("expected yearly row to carry month 0, got %d", total.Month)
	}
	if total.SoldCount != sold {
		t.Errorf("expected %d sold, got %d", sold, total.SoldCount)
	}
	if !total.TotalSales.Equal(sales) || !total.TotalProfit.Equal(profit) {
		t.Errorf("expected sales %s / profit %s, got %s / %s",
			sales, profit, total.TotalSales, total.TotalProfit)
	}
}

func TestYearlyTotal_RatiosRecomputedFromYearBoundaries(t *testing.T) {
	// GIVEN: the yearly total
	// WHEN: comparing its snapshots and KPIs against the monthly chain
	// THEN: opening is January's opening, closing is December's closing, and
	//       the ratios are recomputed from those endpoints (not averaged)

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	months := engine.ComputeMonthlyAggregates(d, events, 2024, engine.AggregateOptions{})
	total := engine.ComputeYearlyTotal(d, events, 2024, engine.AggregateOptions{})

	if total.OpeningStockCount != months[0].OpeningStockCount {
		t.Errorf("expected yearly opening %d, got %d", months[0].OpeningStockCount, total.OpeningStockCount)
	}
	if total.ClosingStockCount != months[11].ClosingStockCount {
		t.Errorf("expected yearly closing %d, got %d", months[11].ClosingStockCount, total.ClosingStockCount)
	}

	opening := engine.StockSnapshot{Count: total.OpeningStockCount, Value: total.OpeningStockValue}
	closing := engine.StockSnapshot{Count: total.ClosingStockCount, Value: total.ClosingStockValue}
	want := engine.ComputeTurnoverKPIs(total.SoldCount, total.TotalSales, total.CostOfGoodsSold, total.TotalProfit, opening, closing)
	if !total.SalesTurnoverPct.Equal(want.SalesTurnoverPct) || !total.GMROI.Equal(want.GMROI) {
		t.Errorf("expected yearly ratios recomputed from boundary snapshots")
	}
}

// =============================================================================
// DESTINATION SUMMARY
// =============================================================================

func TestDestinationSummary_GroupsAndSorts(t *testing.T) {
	// GIVEN: sales across three destinations plus one with no destination
	// WHEN: summarizing
	// THEN: rows group by destination, empty buckets under "unknown", sorted
	//       by revenue descending

	d := testDataset()
	noDest := engine.RawManualSale{ID: "m2", SaleDate: "2024-06-01", SalePrice: ndec(100)}
	d.ManualSales = append(d.ManualSales, noDest)

	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	summary := engine.ComputeDestinationSummary(events)

	if len(summary) != 4 {
		t.Fatalf("expected 4 destinations, got %d", len(summary))
	}
	// mercari (5000 + 3000) ties wholesale partner (8000); ties break by name
	if summary[0].Name != "mercari" || !summary[0].Sales.Equal(dec(8000)) {
		t.Errorf("expected mercari first with 8000 sales, got %s / %s",
			summary[0].Name, summary[0].Sales)
	}
	if summary[1].Name != "wholesale partner" {
		t.Errorf("expected wholesale partner second, got %q", summary[1].Name)
	}
	if summary[len(summary)-1].Name != "unknown" {
		t.Errorf("expected empty destination bucketed as unknown, got %q", summary[len(summary)-1].Name)
	}
}

// =============================================================================
// AVAILABLE YEARS / MONTH FILTER
// =============================================================================

func TestAvailableYears(t *testing.T) {
	// GIVEN: activity in 2024 and a clock reading 2026
	// WHEN: listing available years
	// THEN: the current year is always present, newest first

	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})
	now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	years := engine.AvailableYears(events, d.SingleItems, now)
	if len(years) != 2 || years[0] != 2026 || years[1] != 2024 {
		t.Errorf("expected [2026 2024], got %v", years)
	}
}

func TestFilterEventsByMonth(t *testing.T) {
	d := testDataset()
	events := d.BuildUnifiedSales(engine.NormalizeOptions{})

	mar := engine.FilterEventsByMonth(events, 2024, 3)
	if len(mar) != 2 {
		t.Errorf("expected 2 March events, got %d", len(mar))
	}

	// month 0 means the whole year
	all := engine.FilterEventsByMonth(events, 2024, 0)
	if len(all) != 4 {
		t.Errorf("expected 4 events in 2024, got %d", len(all))
	}

	none := engine.FilterEventsByMonth(events, 2023, 0)
	if len(none) != 0 {
		t.Errorf("expected no 2023 events, got %d", len(none))
	}
}
