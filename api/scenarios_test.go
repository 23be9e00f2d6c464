/*
scenarios_test.go - Tests for demo scenario loading

Loads each scenario into an in-memory SQLite store through the HTTP
surface and verifies the resulting reports.
*/
package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/warp/resale-engine/store/sqlite"
)

func scenarioHandler(t *testing.T) *Handler {
	t.Helper()
	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewHandler(st, st)
}

func loadScenario(t *testing.T, h *Handler, id string) {
	t.Helper()
	rec := doRequest(h, http.MethodPost, "/api/scenarios/load",
		[]byte(`{"scenario_id":"`+id+`"}`))
	if rec.Code != http.StatusOK {
		t.Fatalf("failed to load %s: %d %s", id, rec.Code, rec.Body.String())
	}
}

func fetchMonthly(t *testing.T, h *Handler, year string) MonthlyReportDTO {
	t.Helper()
	rec := doRequest(h, http.MethodGet, "/api/reports/monthly?year="+year, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("monthly report failed: %d %s", rec.Code, rec.Body.String())
	}
	var report MonthlyReportDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	return report
}

func TestListScenarios(t *testing.T) {
	h := scenarioHandler(t)
	rec := doRequest(h, http.MethodGet, "/api/scenarios/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []ScenarioDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(list) != 3 {
		t.Errorf("expected 3 scenarios, got %d", len(list))
	}
}

func TestLoadStarterShopScenario(t *testing.T) {
	// GIVEN: the starter shop scenario
	// WHEN: loading it and reading the 2024 monthly report
	// THEN: both February sales land with their expected profits and the
	//       unsold camera stays in closing stock

	h := scenarioHandler(t)
	loadScenario(t, h, "starter-shop")

	report := fetchMonthly(t, h, "2024")
	feb := report.Months[1]
	if feb.SoldCount != 2 {
		t.Fatalf("expected 2 February sales, got %d", feb.SoldCount)
	}
	// jacket 15000-8000-1500-700, keyboard 9800-4500-980-520
	if feb.TotalSales != 24800 || feb.TotalProfit != 8600 {
		t.Errorf("feb: expected 24800 / 8600, got %v / %v", feb.TotalSales, feb.TotalProfit)
	}
	if feb.ClosingStockCount != 1 {
		t.Errorf("expected the unsold camera in closing stock, got %d", feb.ClosingStockCount)
	}

	// Current scenario reflects the load.
	rec := doRequest(h, http.MethodGet, "/api/scenarios/current", nil)
	var current ScenarioDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &current); err != nil {
		t.Fatalf("failed to decode current scenario: %v", err)
	}
	if current.ID != "starter-shop" {
		t.Errorf("expected current scenario starter-shop, got %q", current.ID)
	}
}

func TestLoadBulkFlipperScenario(t *testing.T) {
	// GIVEN: one 40-unit lot at 12000 (unit cost 300) with two allocations
	// WHEN: loading and reporting
	// THEN: each allocation lands in its month with cost from the lot

	h := scenarioHandler(t)
	loadScenario(t, h, "bulk-flipper")

	report := fetchMonthly(t, h, "2024")
	feb, mar := report.Months[1], report.Months[2]

	// 7200 - 12*300 - 720 - 600
	if feb.SoldCount != 12 || feb.TotalProfit != 2280 {
		t.Errorf("feb: expected 12 units / 2280, got %d / %v", feb.SoldCount, feb.TotalProfit)
	}
	// 9900 - 18*300 - 880 - 900
	if mar.SoldCount != 18 || mar.TotalProfit != 2720 {
		t.Errorf("mar: expected 18 units / 2720, got %d / %v", mar.SoldCount, mar.TotalProfit)
	}
	if report.Yearly.Bulk.Count != 2 {
		t.Errorf("expected 2 bulk events in the yearly breakdown, got %d", report.Yearly.Bulk.Count)
	}
}

func TestLoadFullYearScenario(t *testing.T) {
	// GIVEN: the full-year scenario with its June goal row
	// WHEN: loading and reading the goal back
	// THEN: the stored targets survive the seed

	h := scenarioHandler(t)
	loadScenario(t, h, "full-year")

	rec := doRequest(h, http.MethodGet, "/api/goals/2024/6", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected the seeded goal, got %d", rec.Code)
	}
	var goal GoalDTO
	if err := json.Unmarshal(rec.Body.Bytes(), &goal); err != nil {
		t.Fatalf("failed to decode goal: %v", err)
	}
	if goal.Sales == nil || *goal.Sales != 250000 {
		t.Errorf("expected sales goal 250000, got %v", goal.Sales)
	}

	report := fetchMonthly(t, h, "2024")
	if report.Yearly.SoldCount != 5 {
		t.Errorf("expected 5 sales across the year, got %d", report.Yearly.SoldCount)
	}
	if report.Yearly.Manual.Count != 1 {
		t.Errorf("expected 1 manual sale in the breakdown, got %d", report.Yearly.Manual.Count)
	}
}

func TestLoadScenario_Reloading(t *testing.T) {
	// GIVEN: a loaded scenario
	// WHEN: loading a different one
	// THEN: the previous data is gone, not merged

	h := scenarioHandler(t)
	loadScenario(t, h, "starter-shop")
	loadScenario(t, h, "bulk-flipper")

	report := fetchMonthly(t, h, "2024")
	if report.Yearly.Single.Count != 0 {
		t.Errorf("expected no single sales after reload, got %d", report.Yearly.Single.Count)
	}
}

func TestLoadScenario_Unknown(t *testing.T) {
	h := scenarioHandler(t)
	rec := doRequest(h, http.MethodPost, "/api/scenarios/load",
		[]byte(`{"scenario_id":"nope"}`))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown scenario, got %d", rec.Code)
	}
}
