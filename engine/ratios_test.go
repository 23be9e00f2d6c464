package engine_test

import (
	"testing"

	"github.com/warp/resale-engine/engine"
)

func TestTurnoverKPIs_ZeroInventoryYieldsZeros(t *testing.T) {
	// GIVEN: sales activity but empty opening and closing stock
	// WHEN: computing the turnover KPIs
	// THEN: every ratio is zero, never NaN or a division error

	k := engine.ComputeTurnoverKPIs(5, dec(10000), dec(6000), dec(4000),
		engine.StockSnapshot{}, engine.StockSnapshot{})

	for name, v := range map[string]interface{ IsZero() bool }{
		"stock count turnover":  k.StockCountTurnoverPct,
		"sales turnover":        k.SalesTurnoverPct,
		"cost turnover":         k.CostTurnoverPct,
		"overall profitability": k.OverallProfitabilityPct,
		"gmroi":                 k.GMROI,
	} {
		if !v.IsZero() {
			t.Errorf("expected %s to be zero with no inventory", name)
		}
	}
}

func TestTurnoverKPIs_AveragesAndRounding(t *testing.T) {
	// GIVEN: opening 10 units / 20000 value, closing 20 units / 40000 value,
	//        period sold 5 units for 12000 sales, 7000 cogs, 4000 profit
	// WHEN: computing the turnover KPIs
	// THEN: averages are the endpoint means; percentages round to one
	//       decimal place and GMROI to two

	opening := engine.StockSnapshot{Count: 10, Value: dec(20000)}
	closing := engine.StockSnapshot{Count: 20, Value: dec(40000)}

	k := engine.ComputeTurnoverKPIs(5, dec(12000), dec(7000), dec(4000), opening, closing)

	if !k.AvgStockCount.Equal(dec(15)) {
		t.Errorf("expected avg count 15, got %s", k.AvgStockCount)
	}
	if !k.AvgStockValue.Equal(dec(30000)) {
		t.Errorf("expected avg value 30000, got %s", k.AvgStockValue)
	}
	// 5/15*100 = 33.33... -> 33.3
	if got := k.StockCountTurnoverPct.String(); got != "33.3" {
		t.Errorf("expected stock count turnover 33.3, got %s", got)
	}
	// 12000/30000*100 = 40
	if !k.SalesTurnoverPct.Equal(dec(40)) {
		t.Errorf("expected sales turnover 40, got %s", k.SalesTurnoverPct)
	}
	// 7000/30000*100 = 23.33... -> 23.3
	if got := k.CostTurnoverPct.String(); got != "23.3" {
		t.Errorf("expected cost turnover 23.3, got %s", got)
	}
	// 4000/30000*100 = 13.33... -> 13.3
	if got := k.OverallProfitabilityPct.String(); got != "13.3" {
		t.Errorf("expected overall profitability 13.3, got %s", got)
	}
	// 4000/30000 = 0.1333... -> 0.13
	if got := k.GMROI.String(); got != "0.13" {
		t.Errorf("expected GMROI 0.13, got %s", got)
	}
}
