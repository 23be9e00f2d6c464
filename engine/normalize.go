/*
normalize.go - Record normalizers: raw families -> UnifiedSaleEvent

PURPOSE:
  Maps each of the three raw record families to zero or one canonical sale
  event per row. This is where the engine commits to one profit definition,
  one quantity meaning, and one set of emission gates, so every downstream
  sum works on comparable events.

EMISSION GATES (a row that fails its gate produces no event, no error):
  Single: sale destination present, not the return marker, sale date present
  Bulk:   parent lot exists (orphaned allocations are dropped silently)
  Manual: sale date present

PROFIT FORMULAS:
  The source system grew two irreconcilable profit definitions, so the
  choice is an explicit configuration rather than a silent pick:

  ProfitFormulaGross (default, feeds the monthly/yearly KPI reports):
    profit = sale_price - purchase_cost - commission - shipping

  ProfitFormulaDeposit (matches the deposit-based summary view):
    profit = deposit_amount - purchase_cost
    where deposit_amount defaults to sale - commission - shipping when the
    row carries none.

  Manual rows with a stored profit are authoritative under both formulas.

KEY INSIGHT:
  For bulk events, money fields are totals for the whole allocation and
  Quantity is the allocation's sold unit count. Counts multiply by
  Quantity downstream; money fields are already quantity-scaled.

SEE ALSO:
  - types.go: UnifiedSaleEvent shape
  - aggregate.go: consumes the event stream
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROFIT FORMULA CONFIGURATION
// =============================================================================

// ProfitFormula selects which of the two historical profit definitions the
// normalizers apply.
type ProfitFormula string

const (
	ProfitFormulaGross   ProfitFormula = "gross"
	ProfitFormulaDeposit ProfitFormula = "deposit-based"
)

// NormalizeOptions configures the normalizer pass.
type NormalizeOptions struct {
	Formula ProfitFormula // zero value falls back to ProfitFormulaGross
}

func (o NormalizeOptions) formula() ProfitFormula {
	if o.Formula == ProfitFormulaDeposit {
		return ProfitFormulaDeposit
	}
	return ProfitFormulaGross
}

// =============================================================================
// BUILD UNIFIED SALES - The reconciliation entry point
// =============================================================================

// BuildUnifiedSales normalizes the three record families into one canonical
// event stream. Pure: inputs are read-only, output order is singles, then
// bulk allocations, then manual entries, each in input order.
func BuildUnifiedSales(
	singles []RawSingleItem,
	lots []RawBulkLot,
	allocations []RawBulkAllocation,
	manuals []RawManualSale,
	opts NormalizeOptions,
) []UnifiedSaleEvent {
	events := make([]UnifiedSaleEvent, 0, len(singles)+len(allocations)+len(manuals))

	lotByID := make(map[string]RawBulkLot, len(lots))
	for _, lot := range lots {
		lotByID[lot.ID] = lot
	}

	for _, item := range singles {
		if ev, ok := normalizeSingle(item, opts); ok {
			events = append(events, ev)
		}
	}
	for _, alloc := range allocations {
		lot, found := lotByID[alloc.BulkLotID]
		if !found {
			continue // orphaned allocation: parent lot was deleted
		}
		events = append(events, normalizeBulk(alloc, lot, opts))
	}
	for _, m := range manuals {
		if ev, ok := normalizeManual(m, opts); ok {
			events = append(events, ev)
		}
	}
	return events
}

// =============================================================================
// SINGLE ITEMS
// =============================================================================

func normalizeSingle(item RawSingleItem, opts NormalizeOptions) (UnifiedSaleEvent, bool) {
	if item.SaleDestination == "" || item.SaleDestination == ReturnMarker || item.SaleDate == "" {
		return UnifiedSaleEvent{}, false
	}

	salePrice := orZero(item.SalePrice)
	commission := orZero(item.Commission)
	shipping := orZero(item.ShippingCost)

	// Net cost: purchase_total already includes extras; fall back to the
	// bare purchase price when no total was entered.
	purchaseCost := orZero(item.PurchaseTotal)
	missingCost := !item.PurchaseTotal.Valid
	if missingCost && item.PurchasePrice.Valid {
		purchaseCost = item.PurchasePrice.Decimal
		missingCost = false
	}

	profit := profitFor(opts.formula(), salePrice, purchaseCost, commission, shipping, item.DepositAmount)

	return UnifiedSaleEvent{
		SourceType:      SourceSingle,
		SourceID:        item.ID,
		InventoryNumber: item.InventoryNumber,
		ProductName:     item.ProductName,
		BrandName:       item.BrandName,
		Category:        item.Category,
		PurchaseSource:  item.PurchaseSource,
		SaleDestination: item.SaleDestination,
		SalePrice:       salePrice,
		Commission:      commission,
		ShippingCost:    shipping,
		OtherCost:       orZero(item.OtherCost),
		PurchaseCost:    purchaseCost,
		DepositAmount:   item.DepositAmount,
		Profit:          profit,
		ProfitRate:      profitRate(profit, salePrice),
		PurchaseDate:    normalizedOrRaw(item.PurchaseDate),
		ListingDate:     normalizedOrRaw(item.ListingDate),
		SaleDate:        normalizedOrRaw(item.SaleDate),
		TurnoverDays:    turnoverDays(item.PurchaseDate, item.SaleDate),
		Quantity:        1,
		Memo:            item.Memo,
		MissingCost:     missingCost,
	}, true
}

// =============================================================================
// BULK ALLOCATIONS
// =============================================================================

func normalizeBulk(alloc RawBulkAllocation, lot RawBulkLot, opts NormalizeOptions) UnifiedSaleEvent {
	quantity := alloc.Quantity
	if quantity < 1 {
		quantity = 1
	}

	unitCost := decimal.Zero
	if lot.TotalQuantity > 0 {
		unitCost = lot.TotalAmount.
			Div(decimal.NewFromInt(int64(lot.TotalQuantity))).
			Round(0)
	}

	purchaseCost := unitCost.Mul(decimal.NewFromInt(int64(quantity)))
	if alloc.PurchasePrice.Valid {
		purchaseCost = alloc.PurchasePrice.Decimal
	}
	if alloc.OtherCost.Valid {
		purchaseCost = purchaseCost.Add(alloc.OtherCost.Decimal)
	}

	profit := profitFor(opts.formula(), alloc.SaleAmount, purchaseCost, alloc.Commission, alloc.ShippingCost, alloc.DepositAmount)

	productName := alloc.ProductName
	if productName == "" {
		productName = fmt.Sprintf("[bulk] %s × %d", lot.Genre, quantity)
	}
	category := alloc.Category
	if category == "" {
		category = lot.Genre
	}

	return UnifiedSaleEvent{
		SourceType:      SourceBulk,
		SourceID:        alloc.ID,
		ProductName:     productName,
		BrandName:       alloc.BrandName,
		Category:        category,
		PurchaseSource:  lot.PurchaseSource,
		SaleDestination: alloc.SaleDestination,
		SalePrice:       alloc.SaleAmount,
		Commission:      alloc.Commission,
		ShippingCost:    alloc.ShippingCost,
		OtherCost:       orZero(alloc.OtherCost),
		PurchaseCost:    purchaseCost,
		DepositAmount:   alloc.DepositAmount,
		Profit:          profit,
		ProfitRate:      profitRate(profit, alloc.SaleAmount),
		PurchaseDate:    normalizedOrRaw(lot.PurchaseDate),
		ListingDate:     normalizedOrRaw(alloc.ListingDate),
		SaleDate:        normalizedOrRaw(alloc.SaleDate),
		TurnoverDays:    turnoverDays(lot.PurchaseDate, alloc.SaleDate),
		Quantity:        quantity,
		Memo:            alloc.Memo,
	}
}

// =============================================================================
// MANUAL ENTRIES
// =============================================================================

func normalizeManual(m RawManualSale, opts NormalizeOptions) (UnifiedSaleEvent, bool) {
	if m.SaleDate == "" {
		return UnifiedSaleEvent{}, false
	}

	salePrice := orZero(m.SalePrice)
	commission := orZero(m.Commission)
	shipping := orZero(m.ShippingCost)
	purchaseCost := orZero(m.PurchaseTotal)

	// Stored profit and rate are authoritative: the user typed them in.
	profit := profitFor(opts.formula(), salePrice, purchaseCost, commission, shipping, m.DepositAmount)
	if m.Profit.Valid {
		profit = m.Profit.Decimal
	}
	rate := profitRate(profit, salePrice)
	if m.ProfitRate.Valid {
		rate = m.ProfitRate.Decimal
	}

	productName := m.ProductName
	if productName == "" {
		productName = "(manual entry)"
	}

	return UnifiedSaleEvent{
		SourceType:      SourceManual,
		SourceID:        m.ID,
		InventoryNumber: m.InventoryNumber,
		ProductName:     productName,
		BrandName:       m.BrandName,
		Category:        m.Category,
		PurchaseSource:  m.PurchaseSource,
		SaleDestination: m.SaleDestination,
		SalePrice:       salePrice,
		Commission:      commission,
		ShippingCost:    shipping,
		OtherCost:       orZero(m.OtherCost),
		PurchaseCost:    purchaseCost,
		DepositAmount:   m.DepositAmount,
		Profit:          profit,
		ProfitRate:      rate,
		PurchaseDate:    normalizedOrRaw(m.PurchaseDate),
		ListingDate:     normalizedOrRaw(m.ListingDate),
		SaleDate:        normalizedOrRaw(m.SaleDate),
		TurnoverDays:    turnoverDays(m.PurchaseDate, m.SaleDate),
		Quantity:        1,
		Memo:            m.Memo,
		MissingCost:     !m.PurchaseTotal.Valid,
	}, true
}

// =============================================================================
// SHARED MATH
// =============================================================================

func profitFor(formula ProfitFormula, sale, cost, commission, shipping decimal.Decimal, deposit decimal.NullDecimal) decimal.Decimal {
	switch formula {
	case ProfitFormulaDeposit:
		dep := sale.Sub(commission).Sub(shipping)
		if deposit.Valid {
			dep = deposit.Decimal
		}
		return dep.Sub(cost)
	default:
		return sale.Sub(cost).Sub(commission).Sub(shipping)
	}
}

// profitRate is profit as a whole percent of the sale price, zero when the
// sale price is zero.
func profitRate(profit, salePrice decimal.Decimal) decimal.Decimal {
	if !salePrice.IsPositive() {
		return decimal.Zero
	}
	return profit.Div(salePrice).Mul(decimal.NewFromInt(100)).Round(0)
}

// turnoverDays is the elapsed days between acquisition and sale, nil when
// either date is unusable or the span is negative.
func turnoverDays(purchaseDate, saleDate string) *int {
	purchase, ok := parseDay(purchaseDate)
	if !ok {
		return nil
	}
	sale, ok := parseDay(saleDate)
	if !ok {
		return nil
	}
	days := daysBetween(purchase, sale)
	if days < 0 {
		return nil
	}
	return &days
}

// normalizedOrRaw canonicalizes valid dates and passes noise through
// untouched so the raw text stays visible in event listings.
func normalizedOrRaw(s string) string {
	if norm := NormalizeDate(s); norm != "" {
		return norm
	}
	return s
}
