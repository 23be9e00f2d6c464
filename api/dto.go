/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY FIELDS:
  Internally every amount is a decimal. At the API boundary they convert to
  float64 so clients get plain JSON numbers; sums were already settled in
  decimal space, so the conversion is display-only.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/resale-engine/engine"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// UnifiedSaleDTO is one canonical sale event.
type UnifiedSaleDTO struct {
	SourceType      string   `json:"source_type"`
	SourceID        string   `json:"source_id"`
	InventoryNumber string   `json:"inventory_number,omitempty"`
	ProductName     string   `json:"product_name"`
	BrandName       string   `json:"brand_name,omitempty"`
	Category        string   `json:"category,omitempty"`
	PurchaseSource  string   `json:"purchase_source,omitempty"`
	SaleDestination string   `json:"sale_destination,omitempty"`
	SalePrice       float64  `json:"sale_price"`
	Commission      float64  `json:"commission"`
	ShippingCost    float64  `json:"shipping_cost"`
	OtherCost       float64  `json:"other_cost"`
	PurchaseCost    float64  `json:"purchase_cost"`
	DepositAmount   *float64 `json:"deposit_amount,omitempty"`
	Profit          float64  `json:"profit"`
	ProfitRate      float64  `json:"profit_rate"`
	PurchaseDate    string   `json:"purchase_date,omitempty"`
	ListingDate     string   `json:"listing_date,omitempty"`
	SaleDate        string   `json:"sale_date"`
	TurnoverDays    *int     `json:"turnover_days,omitempty"`
	Quantity        int      `json:"quantity"`
	Memo            string   `json:"memo,omitempty"`
	MissingCost     bool     `json:"missing_cost,omitempty"`
}

// SourceBreakdownDTO is the per-family share of a period.
type SourceBreakdownDTO struct {
	Count  int     `json:"count"`
	Sales  float64 `json:"sales"`
	Profit float64 `json:"profit"`
}

// MonthlyRowDTO is one row of the monthly KPI table. The yearly total uses
// the same shape with month 0.
type MonthlyRowDTO struct {
	Year  int `json:"year"`
	Month int `json:"month"`

	SoldCount      int `json:"sold_count"`
	PurchasedCount int `json:"purchased_count"`
	ListedCount    int `json:"listed_count"`

	TotalSales      float64 `json:"total_sales"`
	CostOfGoodsSold float64 `json:"cost_of_goods_sold"`
	TotalCommission float64 `json:"total_commission"`
	TotalShipping   float64 `json:"total_shipping"`
	TotalProfit     float64 `json:"total_profit"`
	PurchaseValue   float64 `json:"purchase_value"`

	ProfitRate       float64 `json:"profit_rate"`
	AvgSalePrice     float64 `json:"avg_sale_price"`
	AvgProfit        float64 `json:"avg_profit"`
	AvgPurchasePrice float64 `json:"avg_purchase_price"`

	OpeningStockCount int     `json:"opening_stock_count"`
	ClosingStockCount int     `json:"closing_stock_count"`
	OpeningStockValue float64 `json:"opening_stock_value"`
	ClosingStockValue float64 `json:"closing_stock_value"`

	StockCountTurnoverPct   float64 `json:"stock_count_turnover_pct"`
	SalesTurnoverPct        float64 `json:"sales_turnover_pct"`
	CostTurnoverPct         float64 `json:"cost_turnover_pct"`
	OverallProfitabilityPct float64 `json:"overall_profitability_pct"`
	GMROI                   float64 `json:"gmroi"`

	Single SourceBreakdownDTO `json:"single"`
	Bulk   SourceBreakdownDTO `json:"bulk"`
	Manual SourceBreakdownDTO `json:"manual"`

	MissingCostCount int `json:"missing_cost_count,omitempty"`
}

// MonthlyReportDTO wraps the twelve rows and the yearly total.
type MonthlyReportDTO struct {
	Year   int             `json:"year"`
	Months []MonthlyRowDTO `json:"months"`
	Yearly MonthlyRowDTO   `json:"yearly"`
}

// StockSnapshotDTO is the reconstructed inventory at end of day.
type StockSnapshotDTO struct {
	AsOf  string  `json:"as_of"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// DestinationSummaryDTO is revenue grouped by sale destination.
type DestinationSummaryDTO struct {
	Name       string  `json:"name"`
	Count      int     `json:"count"`
	Sales      float64 `json:"sales"`
	Purchase   float64 `json:"purchase"`
	Commission float64 `json:"commission"`
	Shipping   float64 `json:"shipping"`
	Profit     float64 `json:"profit"`
	ProfitRate float64 `json:"profit_rate"`
}

// PlatformDTO is one destination master row.
type PlatformDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SalesType string `json:"sales_type"`
}

// GoalDTO carries the optional targets for one month. Nil means "no target
// for this metric", which pacing renders as no_target rather than behind.
type GoalDTO struct {
	UserID string `json:"user_id,omitempty"`
	Year   int    `json:"year"`
	Month  int    `json:"month"`

	Sales          *float64 `json:"sales,omitempty"`
	Profit         *float64 `json:"profit,omitempty"`
	SoldCount      *float64 `json:"sold_count,omitempty"`
	PurchasedCount *float64 `json:"purchased_count,omitempty"`
	ListedCount    *float64 `json:"listed_count,omitempty"`
	PurchaseValue  *float64 `json:"purchase_value,omitempty"`
	ProfitRate     *float64 `json:"profit_rate,omitempty"`

	AvgSalePrice     *float64 `json:"avg_sale_price,omitempty"`
	AvgPurchasePrice *float64 `json:"avg_purchase_price,omitempty"`

	StockCountTurnoverPct   *float64 `json:"stock_count_turnover_pct,omitempty"`
	SalesTurnoverPct        *float64 `json:"sales_turnover_pct,omitempty"`
	CostTurnoverPct         *float64 `json:"cost_turnover_pct,omitempty"`
	OverallProfitabilityPct *float64 `json:"overall_profitability_pct,omitempty"`
	GMROI                   *float64 `json:"gmroi,omitempty"`
}

// MetricPaceDTO is one metric's goal-pacing comparison.
type MetricPaceDTO struct {
	Metric       string   `json:"metric"`
	Actual       float64  `json:"actual"`
	Goal         *float64 `json:"goal,omitempty"`
	ProratedGoal *float64 `json:"prorated_goal,omitempty"`
	Projected    float64  `json:"projected"`
	State        string   `json:"state"`
}

// PacingDTO is the full goal-pacing response.
type PacingDTO struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	DayOfMonth    int             `json:"day_of_month"`
	DaysInMonth   int             `json:"days_in_month"`
	ProgressRatio float64         `json:"progress_ratio"`
	Metrics       []MetricPaceDTO `json:"metrics"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func f64(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func f64Ptr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.InexactFloat64()
	return &v
}

func toNullDec(p *float64) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: decimal.NewFromFloat(*p), Valid: true}
}

func toSaleDTO(ev engine.UnifiedSaleEvent) UnifiedSaleDTO {
	return UnifiedSaleDTO{
		SourceType:      string(ev.SourceType),
		SourceID:        ev.SourceID,
		InventoryNumber: ev.InventoryNumber,
		ProductName:     ev.ProductName,
		BrandName:       ev.BrandName,
		Category:        ev.Category,
		PurchaseSource:  ev.PurchaseSource,
		SaleDestination: ev.SaleDestination,
		SalePrice:       f64(ev.SalePrice),
		Commission:      f64(ev.Commission),
		ShippingCost:    f64(ev.ShippingCost),
		OtherCost:       f64(ev.OtherCost),
		PurchaseCost:    f64(ev.PurchaseCost),
		DepositAmount:   f64Ptr(ev.DepositAmount),
		Profit:          f64(ev.Profit),
		ProfitRate:      f64(ev.ProfitRate),
		PurchaseDate:    ev.PurchaseDate,
		ListingDate:     ev.ListingDate,
		SaleDate:        ev.SaleDate,
		TurnoverDays:    ev.TurnoverDays,
		Quantity:        ev.Quantity,
		Memo:            ev.Memo,
		MissingCost:     ev.MissingCost,
	}
}

func toSaleDTOs(events []engine.UnifiedSaleEvent) []UnifiedSaleDTO {
	dtos := make([]UnifiedSaleDTO, len(events))
	for i, ev := range events {
		dtos[i] = toSaleDTO(ev)
	}
	return dtos
}

func toBreakdownDTO(b engine.SourceBreakdown) SourceBreakdownDTO {
	return SourceBreakdownDTO{Count: b.Count, Sales: f64(b.Sales), Profit: f64(b.Profit)}
}

func toMonthlyRowDTO(m engine.MonthlyAggregate) MonthlyRowDTO {
	return MonthlyRowDTO{
		Year:                    m.Year,
		Month:                   m.Month,
		SoldCount:               m.SoldCount,
		PurchasedCount:          m.PurchasedCount,
		ListedCount:             m.ListedCount,
		TotalSales:              f64(m.TotalSales),
		CostOfGoodsSold:         f64(m.CostOfGoodsSold),
		TotalCommission:         f64(m.TotalCommission),
		TotalShipping:           f64(m.TotalShipping),
		TotalProfit:             f64(m.TotalProfit),
		PurchaseValue:           f64(m.PurchaseValue),
		ProfitRate:              f64(m.ProfitRate),
		AvgSalePrice:            f64(m.AvgSalePrice),
		AvgProfit:               f64(m.AvgProfit),
		AvgPurchasePrice:        f64(m.AvgPurchasePrice),
		OpeningStockCount:       m.OpeningStockCount,
		ClosingStockCount:       m.ClosingStockCount,
		OpeningStockValue:       f64(m.OpeningStockValue),
		ClosingStockValue:       f64(m.ClosingStockValue),
		StockCountTurnoverPct:   f64(m.StockCountTurnoverPct),
		SalesTurnoverPct:        f64(m.SalesTurnoverPct),
		CostTurnoverPct:         f64(m.CostTurnoverPct),
		OverallProfitabilityPct: f64(m.OverallProfitabilityPct),
		GMROI:                   f64(m.GMROI),
		Single:                  toBreakdownDTO(m.Single),
		Bulk:                    toBreakdownDTO(m.Bulk),
		Manual:                  toBreakdownDTO(m.Manual),
		MissingCostCount:        m.MissingCostCount,
	}
}

func toDestinationDTOs(rows []engine.DestinationSummary) []DestinationSummaryDTO {
	dtos := make([]DestinationSummaryDTO, len(rows))
	for i, s := range rows {
		dtos[i] = DestinationSummaryDTO{
			Name:       s.Name,
			Count:      s.Count,
			Sales:      f64(s.Sales),
			Purchase:   f64(s.Purchase),
			Commission: f64(s.Commission),
			Shipping:   f64(s.Shipping),
			Profit:     f64(s.Profit),
			ProfitRate: f64(s.ProfitRate),
		}
	}
	return dtos
}

func toGoalDTO(g engine.MonthlyGoal) GoalDTO {
	return GoalDTO{
		UserID:                  g.UserID,
		Year:                    g.Year,
		Month:                   g.Month,
		Sales:                   f64Ptr(g.Sales),
		Profit:                  f64Ptr(g.Profit),
		SoldCount:               f64Ptr(g.SoldCount),
		PurchasedCount:          f64Ptr(g.PurchasedCount),
		ListedCount:             f64Ptr(g.ListedCount),
		PurchaseValue:           f64Ptr(g.PurchaseValue),
		ProfitRate:              f64Ptr(g.ProfitRate),
		AvgSalePrice:            f64Ptr(g.AvgSalePrice),
		AvgPurchasePrice:        f64Ptr(g.AvgPurchasePrice),
		StockCountTurnoverPct:   f64Ptr(g.StockCountTurnoverPct),
		SalesTurnoverPct:        f64Ptr(g.SalesTurnoverPct),
		CostTurnoverPct:         f64Ptr(g.CostTurnoverPct),
		OverallProfitabilityPct: f64Ptr(g.OverallProfitabilityPct),
		GMROI:                   f64Ptr(g.GMROI),
	}
}

func toGoal(dto GoalDTO) engine.MonthlyGoal {
	return engine.MonthlyGoal{
		UserID:                  dto.UserID,
		Year:                    dto.Year,
		Month:                   dto.Month,
		Sales:                   toNullDec(dto.Sales),
		Profit:                  toNullDec(dto.Profit),
		SoldCount:               toNullDec(dto.SoldCount),
		PurchasedCount:          toNullDec(dto.PurchasedCount),
		ListedCount:             toNullDec(dto.ListedCount),
		PurchaseValue:           toNullDec(dto.PurchaseValue),
		ProfitRate:              toNullDec(dto.ProfitRate),
		AvgSalePrice:            toNullDec(dto.AvgSalePrice),
		AvgPurchasePrice:        toNullDec(dto.AvgPurchasePrice),
		StockCountTurnoverPct:   toNullDec(dto.StockCountTurnoverPct),
		SalesTurnoverPct:        toNullDec(dto.SalesTurnoverPct),
		CostTurnoverPct:         toNullDec(dto.CostTurnoverPct),
		OverallProfitabilityPct: toNullDec(dto.OverallProfitabilityPct),
		GMROI:                   toNullDec(dto.GMROI),
	}
}

func toPacingDTO(row engine.PacingRow) PacingDTO {
	metrics := make([]MetricPaceDTO, len(row.Metrics))
	for i, m := range row.Metrics {
		metrics[i] = MetricPaceDTO{
			Metric:       m.Metric,
			Actual:       f64(m.Actual),
			Goal:         f64Ptr(m.Goal),
			ProratedGoal: f64Ptr(m.ProratedGoal),
			Projected:    f64(m.Projected),
			State:        string(m.State),
		}
	}
	return PacingDTO{
		Year:          row.Year,
		Month:         row.Month,
		DayOfMonth:    row.DayOfMonth,
		DaysInMonth:   row.DaysInMonth,
		ProgressRatio: f64(row.ProgressRatio),
		Metrics:       metrics,
	}
}
