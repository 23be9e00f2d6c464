/*
stock.go - Point-in-time inventory reconstruction

PURPOSE:
  Answers "how many unsold units were on hand at the end of day D, and what
  did they cost?" without a persisted stock ledger. The snapshot is rebuilt
  from purchase and sale timestamps on every query: an item is in stock at D
  if it was purchased on or before D and not yet sold by D.

KEY INSIGHT:
  Single items and bulk lots are reconstructed independently and summed.
  A bulk lot depletes gradually: its remaining quantity at D is the lot
  size minus every allocation sold on or before D, valued at the lot's
  unrounded unit cost.

LOSSY RULE (deliberate):
  A single item with a valid purchase date but free-text noise in its sale
  date (not empty, not a parseable date) is treated as sold-and-excluded
  from stock. The noise means "something happened to this item"; counting
  it as sellable inventory overstates stock.

SEE ALSO:
  - aggregate.go: opening/closing snapshots per month
  - dates.go: lexical YYYY-MM-DD comparisons
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// SNAPSHOT - Unsold inventory as of end of day
// =============================================================================

// ComputeStockSnapshot reconstructs the unsold inventory as of the end of
// asOf. Pure: reads the raw collections, mutates nothing.
func ComputeStockSnapshot(
	asOf time.Time,
	singles []RawSingleItem,
	lots []RawBulkLot,
	allocations []RawBulkAllocation,
) StockSnapshot {
	asOfKey := asOf.Format("2006-01-02")

	snap := singleStock(asOfKey, singles)
	bulk := bulkStock(asOfKey, lots, allocations)

	snap.Count += bulk.Count
	snap.Value = snap.Value.Add(bulk.Value)
	return snap
}

// OpeningStock is the snapshot at the end of the previous month.
func OpeningStock(year, month int, singles []RawSingleItem, lots []RawBulkLot, allocations []RawBulkAllocation) StockSnapshot {
	return ComputeStockSnapshot(EndOfPreviousMonth(year, month), singles, lots, allocations)
}

// ClosingStock is the snapshot at the end of (year, month).
func ClosingStock(year, month int, singles []RawSingleItem, lots []RawBulkLot, allocations []RawBulkAllocation) StockSnapshot {
	return ComputeStockSnapshot(EndOfMonth(year, month), singles, lots, allocations)
}

// =============================================================================
// SINGLE ITEMS
// =============================================================================

func singleStock(asOfKey string, singles []RawSingleItem) StockSnapshot {
	var snap StockSnapshot
	snap.Value = decimal.Zero

	for _, item := range singles {
		if !singleInStock(item, asOfKey) {
			continue
		}
		snap.Count++
		cost := item.PurchaseTotal
		if !cost.Valid {
			cost = item.PurchasePrice
		}
		snap.Value = snap.Value.Add(orZero(cost))
	}
	return snap
}

func singleInStock(item RawSingleItem, asOfKey string) bool {
	purchased := NormalizeDate(item.PurchaseDate)
	if purchased == "" || purchased > asOfKey {
		return false
	}
	// Returned items never count as stock, whatever the sale date says.
	if item.SaleDestination == ReturnMarker {
		return false
	}
	if item.SaleDate == "" {
		return true
	}
	if sold := NormalizeDate(item.SaleDate); sold != "" {
		return sold > asOfKey
	}
	// Non-empty, non-date sale field: treated as sold-and-excluded.
	return false
}

// =============================================================================
// BULK LOTS
// =============================================================================

func bulkStock(asOfKey string, lots []RawBulkLot, allocations []RawBulkAllocation) StockSnapshot {
	soldByLot := make(map[string]int, len(lots))
	for _, alloc := range allocations {
		sold := NormalizeDate(alloc.SaleDate)
		if sold == "" || sold > asOfKey {
			continue
		}
		soldByLot[alloc.BulkLotID] += alloc.Quantity
	}

	count := 0
	value := decimal.Zero
	for _, lot := range lots {
		purchased := NormalizeDate(lot.PurchaseDate)
		if purchased == "" || purchased > asOfKey {
			continue
		}
		remaining := lot.TotalQuantity - soldByLot[lot.ID]
		if remaining <= 0 {
			continue
		}
		count += remaining
		if lot.TotalQuantity > 0 {
			// Unrounded unit cost; the total is rounded once at the end.
			unitCost := lot.TotalAmount.Div(decimal.NewFromInt(int64(lot.TotalQuantity)))
			value = value.Add(unitCost.Mul(decimal.NewFromInt(int64(remaining))))
		}
	}

	return StockSnapshot{Count: count, Value: value.Round(0)}
}
