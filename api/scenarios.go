/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the store with realistic
	data for testing and demos. Each scenario creates raw records across
	the three families plus the platform master list.

AVAILABLE SCENARIOS:

	starter-shop:  A few single items over two months, one still unsold
	bulk-flipper:  A bulk lot sold off in partial allocations
	full-year:     Activity across a whole year with a goal row

HOW SCENARIOS WORK:
 1. Reset the store (clear all data)
 2. Insert platforms
 3. Insert raw records
 4. Optionally insert a goal row

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "bulk-flipper"}

ADDING NEW SCENARIOS:
 1. Add to 'scenarios' slice with ID, name, description
 2. Create loader function: loadXxxScenario(ctx, seeder)
 3. Add case to LoadScenario handler

NOTE:

	Scenarios reset the store. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: LoadScenario, ListScenarios handlers
  - store/sqlite: the Seeder implementation
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/warp/resale-engine/engine"
)

// Seeder is the write surface scenarios need. The SQLite store implements
// it; the reporting engine itself never writes raw records.
type Seeder interface {
	ResetAll(ctx context.Context) error
	InsertSingleItem(ctx context.Context, item engine.RawSingleItem) error
	InsertBulkLot(ctx context.Context, lot engine.RawBulkLot) error
	InsertBulkAllocation(ctx context.Context, a engine.RawBulkAllocation) error
	InsertManualSale(ctx context.Context, m engine.RawManualSale) error
	InsertPlatform(ctx context.Context, p engine.Platform) error
}

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "starter-shop",
		Name:        "Starter Shop",
		Description: "A handful of single items over two months, one still unsold",
	},
	{
		ID:          "bulk-flipper",
		Name:        "Bulk Flipper",
		Description: "One bulk lot sold off in partial allocations",
	},
	{
		ID:          "full-year",
		Name:        "Full Year",
		Description: "Mixed activity across a whole year with a monthly goal",
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	if h.currentScenario == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == h.currentScenario {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: h.currentScenario, Name: h.currentScenario})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	if h.Seeder == nil {
		writeError(w, http.StatusNotImplemented, "Scenario loading is disabled", nil)
		return
	}

	var req struct {
		ScenarioID string `json:"scenario_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	if err := h.Seeder.ResetAll(ctx); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset store", err)
		return
	}
	h.currentScenario = ""

	var err error
	switch req.ScenarioID {
	case "starter-shop":
		err = loadStarterShopScenario(ctx, h.Seeder)
	case "bulk-flipper":
		err = loadBulkFlipperScenario(ctx, h.Seeder)
	case "full-year":
		err = loadFullYearScenario(ctx, h.Seeder, h.Source)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario_id": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func seedPlatforms(ctx context.Context, s Seeder) error {
	for _, p := range []engine.Platform{
		{Name: "mercari", SalesType: engine.SalesTypeToC},
		{Name: "yahoo auction", SalesType: engine.SalesTypeToC},
		{Name: "wholesale partner", SalesType: engine.SalesTypeToB},
	} {
		if err := s.InsertPlatform(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func money(n int64) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.NewFromInt(n), Valid: true}
}

func loadStarterShopScenario(ctx context.Context, s Seeder) error {
	if err := seedPlatforms(ctx, s); err != nil {
		return err
	}

	items := []engine.RawSingleItem{
		{
			ProductName: "vintage leather jacket", BrandName: "Schott", Category: "outerwear",
			Status: engine.StatusSold, PurchaseTotal: money(8000), SalePrice: money(15000),
			Commission: money(1500), ShippingCost: money(700),
			PurchaseDate: "2024-01-08", ListingDate: "2024-01-12", SaleDate: "2024-02-03",
			PurchaseSource: "flea market", SaleDestination: "mercari",
		},
		{
			ProductName: "mechanical keyboard", Category: "electronics",
			Status: engine.StatusSold, PurchaseTotal: money(4500), SalePrice: money(9800),
			Commission: money(980), ShippingCost: money(520),
			PurchaseDate: "2024-01-15", ListingDate: "2024-01-20", SaleDate: "2024-02-18",
			PurchaseSource: "recycle shop", SaleDestination: "yahoo auction",
		},
		{
			ProductName: "film camera", BrandName: "Olympus", Category: "cameras",
			Status: engine.StatusListed, PurchaseTotal: money(6200),
			PurchaseDate: "2024-02-10", ListingDate: "2024-02-14",
			PurchaseSource: "estate sale",
		},
	}
	for _, item := range items {
		if err := s.InsertSingleItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func loadBulkFlipperScenario(ctx context.Context, s Seeder) error {
	if err := seedPlatforms(ctx, s); err != nil {
		return err
	}

	lot := engine.RawBulkLot{
		ID: "lot-novels", Genre: "paperback novels",
		PurchaseDate: "2024-01-20", PurchaseSource: "library sale",
		TotalAmount: decimal.NewFromInt(12000), TotalQuantity: 40,
	}
	if err := s.InsertBulkLot(ctx, lot); err != nil {
		return err
	}

	allocations := []engine.RawBulkAllocation{
		{
			BulkLotID: "lot-novels", SaleDate: "2024-02-09", SaleDestination: "mercari",
			Quantity: 12, SaleAmount: decimal.NewFromInt(7200),
			Commission: decimal.NewFromInt(720), ShippingCost: decimal.NewFromInt(600),
		},
		{
			BulkLotID: "lot-novels", SaleDate: "2024-03-14", SaleDestination: "yahoo auction",
			Quantity: 18, SaleAmount: decimal.NewFromInt(9900),
			Commission: decimal.NewFromInt(880), ShippingCost: decimal.NewFromInt(900),
		},
	}
	for _, a := range allocations {
		if err := s.InsertBulkAllocation(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func loadFullYearScenario(ctx context.Context, s Seeder, src engine.Source) error {
	if err := seedPlatforms(ctx, s); err != nil {
		return err
	}

	// One sold single per quarter plus a wholesale manual entry.
	quarters := []struct{ purchase, listing, sale string }{
		{"2024-01-05", "2024-01-10", "2024-02-01"},
		{"2024-04-02", "2024-04-06", "2024-05-11"},
		{"2024-07-08", "2024-07-12", "2024-08-25"},
		{"2024-10-03", "2024-10-07", "2024-11-16"},
	}
	for i, q := range quarters {
		item := engine.RawSingleItem{
			ProductName: fmt.Sprintf("quarterly find #%d", i+1), Category: "misc",
			Status: engine.StatusSold, PurchaseTotal: money(3000 + int64(i)*500),
			SalePrice: money(7000 + int64(i)*1000), Commission: money(700), ShippingCost: money(400),
			PurchaseDate: q.purchase, ListingDate: q.listing, SaleDate: q.sale,
			SaleDestination: "mercari",
		}
		if err := s.InsertSingleItem(ctx, item); err != nil {
			return err
		}
	}

	manual := engine.RawManualSale{
		ProductName: "consignment batch", SaleDate: "2024-06-20",
		SalePrice: money(30000), PurchaseTotal: money(18000),
		Commission: money(1500), SaleDestination: "wholesale partner",
	}
	if err := s.InsertManualSale(ctx, manual); err != nil {
		return err
	}

	return src.UpsertGoal(ctx, engine.MonthlyGoal{
		UserID: DefaultUserID, Year: 2024, Month: 6,
		Sales:  money(250000),
		Profit: money(60000),
	})
}
