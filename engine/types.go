/*
Package engine reconciles resale inventory records into one reportable stream.

PURPOSE:
  Three record families are entered independently — single-item purchase/sale
  rows, bulk lots sold off in partial allocations, and free-form manual sale
  entries. Before any reporting question ("how much did we sell in March, at
  what margin, how fast did stock turn?") can be answered, the three families
  must be normalized into one canonical sale-event shape with a consistent
  profit definition.

KEY CONCEPTS IN THIS FILE (types.go):
  - RawSingleItem / RawBulkLot / RawBulkAllocation / RawManualSale:
    the three source families exactly as the CRUD layer stores them
  - UnifiedSaleEvent: the canonical, source-agnostic sale representation
  - StockSnapshot: reconstructed {count, value} of unsold inventory
  - MonthlyAggregate: one row of the monthly KPI table
  - MonthlyGoal / PacingRow: user targets and goal-pacing comparison

DESIGN PRINCIPLES:
  1. Immutability: the engine never mutates raw records; derived values are
     recomputed per query
  2. Precision: decimal.Decimal for every money and ratio value
  3. Explicit absence: nullable economic fields are decimal.NullDecimal —
     a missing cost is not the same datum as a zero cost, even though both
     contribute zero to sums
  4. Tagged union: SourceType discriminates event variants so downstream
     dispatch is exhaustive

SEE ALSO:
  - normalize.go: raw records -> UnifiedSaleEvent
  - stock.go: point-in-time inventory reconstruction
  - aggregate.go: monthly/yearly KPI rows
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// SOURCE FAMILIES - Tagged union discriminant
// =============================================================================

// SourceType identifies which record family a unified event came from.
type SourceType string

const (
	SourceSingle SourceType = "single"
	SourceBulk   SourceType = "bulk"
	SourceManual SourceType = "manual"
)

// ItemStatus is the lifecycle state of a single inventory item.
// The engine reads it for display only; the sale-event emission gate is
// destination + sale date, not status.
type ItemStatus string

const (
	StatusInStock  ItemStatus = "in_stock"
	StatusListed   ItemStatus = "listed"
	StatusSold     ItemStatus = "sold"
	StatusReturned ItemStatus = "returned"
)

// ReturnMarker is the destination value that flags a returned sale.
// Returned rows are excluded from both the event stream and stock counts.
const ReturnMarker = "return"

// =============================================================================
// RAW RECORDS - Owned and mutated by external CRUD collaborators
// =============================================================================

// RawSingleItem is one individually purchased and (possibly) sold item.
// Date fields are free text: users paste "2024/03/05", "2024-03-05 14:00",
// or noise like "unknown". The date normalizer decides what is usable.
type RawSingleItem struct {
	ID              string
	InventoryNumber string
	ProductName     string
	BrandName       string
	Category        string
	Status          ItemStatus

	PurchasePrice decimal.NullDecimal
	PurchaseTotal decimal.NullDecimal // net cost incl. extras; preferred over PurchasePrice
	SalePrice     decimal.NullDecimal
	Commission    decimal.NullDecimal
	ShippingCost  decimal.NullDecimal
	OtherCost     decimal.NullDecimal
	DepositAmount decimal.NullDecimal

	PurchaseDate string
	ListingDate  string
	SaleDate     string

	PurchaseSource  string
	SaleDestination string
	Memo            string
}

// RawBulkLot is a single purchase of many units at one aggregate price.
type RawBulkLot struct {
	ID             string
	Genre          string
	PurchaseDate   string
	PurchaseSource string
	TotalAmount    decimal.Decimal
	TotalQuantity  int
}

// RawBulkAllocation is one partial sale drawn from a bulk lot.
// Product fields and cost fields are optional per-allocation overrides.
type RawBulkAllocation struct {
	ID              string
	BulkLotID       string
	SaleDate        string
	ListingDate     string
	SaleDestination string
	Quantity        int
	SaleAmount      decimal.Decimal
	Commission      decimal.Decimal
	ShippingCost    decimal.Decimal

	ProductName string
	BrandName   string
	Category    string

	PurchasePrice decimal.NullDecimal // override; unit cost * quantity when absent
	OtherCost     decimal.NullDecimal
	DepositAmount decimal.NullDecimal
	Memo          string
}

// RawManualSale is a free-form sale entry. Its stored Profit and ProfitRate
// are authoritative when present; the normalizer only recomputes them when
// the user left them blank.
type RawManualSale struct {
	ID              string
	InventoryNumber string
	ProductName     string
	BrandName       string
	Category        string

	PurchasePrice decimal.NullDecimal
	PurchaseTotal decimal.NullDecimal
	SalePrice     decimal.NullDecimal
	Commission    decimal.NullDecimal
	ShippingCost  decimal.NullDecimal
	OtherCost     decimal.NullDecimal
	DepositAmount decimal.NullDecimal
	Profit        decimal.NullDecimal
	ProfitRate    decimal.NullDecimal

	PurchaseDate string
	ListingDate  string
	SaleDate     string

	PurchaseSource  string
	SaleDestination string
	Memo            string
}

// =============================================================================
// PLATFORM MASTER - Destination classification (read-only to this engine)
// =============================================================================

// SalesType classifies a sale destination as wholesale or retail.
type SalesType string

const (
	SalesTypeToB SalesType = "toB" // wholesale
	SalesTypeToC SalesType = "toC" // retail
)

// Platform is one sale destination from the master list.
type Platform struct {
	ID        string
	Name      string
	SalesType SalesType
}

// =============================================================================
// UNIFIED SALE EVENT - Canonical derived representation of one sale
// =============================================================================

// UnifiedSaleEvent is the source-agnostic shape of one sale. Ephemeral:
// rebuilt from the raw collections on every query, never persisted.
//
// Invariant: Quantity >= 1. For bulk events Quantity is the allocation's
// sold quantity, not the lot size; money fields are already totals for the
// whole allocation.
type UnifiedSaleEvent struct {
	SourceType SourceType
	SourceID   string

	InventoryNumber string
	ProductName     string
	BrandName       string
	Category        string
	PurchaseSource  string
	SaleDestination string

	SalePrice     decimal.Decimal
	Commission    decimal.Decimal
	ShippingCost  decimal.Decimal
	OtherCost     decimal.Decimal
	PurchaseCost  decimal.Decimal // allocated net cost
	DepositAmount decimal.NullDecimal
	Profit        decimal.Decimal
	ProfitRate    decimal.Decimal // whole percent of sale price

	PurchaseDate string // normalized YYYY-MM-DD when valid, raw text otherwise
	ListingDate  string
	SaleDate     string

	TurnoverDays *int // nil when either date is unusable or the span is negative
	Quantity     int
	Memo         string

	// MissingCost marks events whose raw record carried no purchase cost at
	// all. Sums treat the cost as zero; reports can footnote the count.
	MissingCost bool
}

// =============================================================================
// STOCK SNAPSHOT - Reconstructed unsold inventory at a point in time
// =============================================================================

// StockSnapshot is the unsold inventory as of the end of a given day,
// reconstructed from purchase and sale timestamps. No ledger is persisted;
// the snapshot is recomputed from the raw collections on demand.
type StockSnapshot struct {
	Count int
	Value decimal.Decimal
}

// =============================================================================
// MONTHLY AGGREGATE - One row of the KPI table
// =============================================================================

// SourceBreakdown is the per-family share of a period's sales.
type SourceBreakdown struct {
	Count  int
	Sales  decimal.Decimal
	Profit decimal.Decimal
}

// MonthlyAggregate holds every KPI for one (year, month) bucket.
// A yearly total uses the same shape with Month == 0.
type MonthlyAggregate struct {
	Year  int
	Month int

	SoldCount      int
	PurchasedCount int
	ListedCount    int

	TotalSales      decimal.Decimal
	CostOfGoodsSold decimal.Decimal
	TotalCommission decimal.Decimal
	TotalShipping   decimal.Decimal
	TotalProfit     decimal.Decimal
	PurchaseValue   decimal.Decimal // single-item purchases made in the month

	ProfitRate       decimal.Decimal // whole percent
	AvgSalePrice     decimal.Decimal
	AvgProfit        decimal.Decimal
	AvgPurchasePrice decimal.Decimal

	OpeningStockCount int
	ClosingStockCount int
	OpeningStockValue decimal.Decimal
	ClosingStockValue decimal.Decimal

	StockCountTurnoverPct   decimal.Decimal // one decimal place
	SalesTurnoverPct        decimal.Decimal
	CostTurnoverPct         decimal.Decimal
	OverallProfitabilityPct decimal.Decimal
	GMROI                   decimal.Decimal // ratio, two decimal places

	Single SourceBreakdown
	Bulk   SourceBreakdown
	Manual SourceBreakdown

	// Events whose raw record carried no purchase cost (data-quality count,
	// not an error: the sums treated those costs as zero).
	MissingCostCount int
}

// DestinationSummary is revenue and profit grouped by sale destination.
type DestinationSummary struct {
	Name       string
	Count      int
	Sales      decimal.Decimal
	Purchase   decimal.Decimal
	Commission decimal.Decimal
	Shipping   decimal.Decimal
	Profit     decimal.Decimal
	ProfitRate decimal.Decimal
}

// =============================================================================
// MONTHLY GOAL & PACING - User targets vs actuals
// =============================================================================

// MonthlyGoal is the user-authored target row for one (user, year, month).
// Every target is optional: an absent target renders as "no target" rather
// than "behind".
type MonthlyGoal struct {
	UserID string
	Year   int
	Month  int

	Sales          decimal.NullDecimal
	Profit         decimal.NullDecimal
	SoldCount      decimal.NullDecimal
	PurchasedCount decimal.NullDecimal
	ListedCount    decimal.NullDecimal
	PurchaseValue  decimal.NullDecimal
	ProfitRate     decimal.NullDecimal

	AvgSalePrice     decimal.NullDecimal
	AvgPurchasePrice decimal.NullDecimal

	StockCountTurnoverPct   decimal.NullDecimal
	SalesTurnoverPct        decimal.NullDecimal
	CostTurnoverPct         decimal.NullDecimal
	OverallProfitabilityPct decimal.NullDecimal
	GMROI                   decimal.NullDecimal
}

// PaceState compares a metric's actual against its prorated goal.
type PaceState string

const (
	PaceOnTrack  PaceState = "on_track"
	PaceBehind   PaceState = "behind"
	PaceNoTarget PaceState = "no_target"
)

// MetricPace is one metric's goal-pacing comparison.
type MetricPace struct {
	Metric       string
	Actual       decimal.Decimal
	Goal         decimal.NullDecimal
	ProratedGoal decimal.NullDecimal
	Projected    decimal.Decimal // naive linear full-month extrapolation
	State        PaceState
}

// PacingRow is the full goal-pacing comparison for the current month.
type PacingRow struct {
	Year          int
	Month         int
	DayOfMonth    int
	DaysInMonth   int
	ProgressRatio decimal.Decimal
	Metrics       []MetricPace
}

// =============================================================================
// SMALL HELPERS
// =============================================================================

// orZero collapses an absent value to zero for summation. The absence
// itself is tracked separately (MissingCost / MissingCostCount).
func orZero(d decimal.NullDecimal) decimal.Decimal {
	if !d.Valid {
		return decimal.Zero
	}
	return d.Decimal
}

// nullDec wraps a concrete decimal as a present NullDecimal.
func nullDec(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: d, Valid: true}
}
