/*
source.go - Persistence collaborator contract and request-scoped snapshots

PURPOSE:
  Defines the interface between the pure computation core and whatever
  stores the raw collections. The engine never writes to the raw tables;
  the only write path is the MonthlyGoal upsert, a single atomic keyed
  operation owned by the store.

PAGED RETRIEVAL CONTRACT:
  Implementations fetch raw collections in fixed FetchPageSize pages until
  a short page signals end-of-data. A mid-loop failure is logged once and
  the rows fetched so far are returned with a nil error: the engine
  degrades to partial data rather than failing the whole report. Only
  context cancellation surfaces as an error.

REQUEST-SCOPED SNAPSHOTS:
  Each report request loads its own immutable Dataset and computes from
  that. There is no ambient shared state between concurrent requests, so
  no locking is needed in the computation layer.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - engine/store: in-memory store for tests and demos

SEE ALSO:
  - normalize.go: consumes Dataset collections
  - aggregate.go: consumes Dataset collections and platforms
*/
package engine

import "context"

// FetchPageSize is the fixed page size for bulk retrieval of raw records.
const FetchPageSize = 1000

// Source is the persistence collaborator. Reads are idempotent and
// order-independent before normalization.
type Source interface {
	// FetchSingleItems returns all single-item rows, internally paginating.
	FetchSingleItems(ctx context.Context) ([]RawSingleItem, error)

	// FetchBulkLots returns all bulk lot rows.
	FetchBulkLots(ctx context.Context) ([]RawBulkLot, error)

	// FetchBulkAllocations returns all partial-sale allocations.
	FetchBulkAllocations(ctx context.Context) ([]RawBulkAllocation, error)

	// FetchManualSales returns all manual sale entries.
	FetchManualSales(ctx context.Context) ([]RawManualSale, error)

	// ListPlatforms returns the destination master list.
	ListPlatforms(ctx context.Context) ([]Platform, error)

	// GetGoal returns the stored goal for (userID, year, month), or nil
	// when none exists.
	GetGoal(ctx context.Context, userID string, year, month int) (*MonthlyGoal, error)

	// UpsertGoal atomically inserts or replaces the goal row keyed by
	// (UserID, Year, Month).
	UpsertGoal(ctx context.Context, goal MonthlyGoal) error
}

// =============================================================================
// DATASET - Immutable per-request snapshot of the raw collections
// =============================================================================

// Dataset is one request's private copy of everything the engine reads.
type Dataset struct {
	SingleItems     []RawSingleItem
	BulkLots        []RawBulkLot
	BulkAllocations []RawBulkAllocation
	ManualSales     []RawManualSale
	Platforms       []Platform
}

// LoadDataset fetches every raw collection from the source into one
// snapshot. An error here means cancellation or a store-level failure that
// left nothing usable; row-level fetch failures were already degraded to
// partial lists inside the source.
func LoadDataset(ctx context.Context, src Source) (*Dataset, error) {
	singles, err := src.FetchSingleItems(ctx)
	if err != nil {
		return nil, err
	}
	lots, err := src.FetchBulkLots(ctx)
	if err != nil {
		return nil, err
	}
	allocations, err := src.FetchBulkAllocations(ctx)
	if err != nil {
		return nil, err
	}
	manuals, err := src.FetchManualSales(ctx)
	if err != nil {
		return nil, err
	}
	platforms, err := src.ListPlatforms(ctx)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		SingleItems:     singles,
		BulkLots:        lots,
		BulkAllocations: allocations,
		ManualSales:     manuals,
		Platforms:       platforms,
	}, nil
}

// BuildUnifiedSales reconciles this dataset's record families into the
// canonical event stream.
func (d *Dataset) BuildUnifiedSales(opts NormalizeOptions) []UnifiedSaleEvent {
	return BuildUnifiedSales(d.SingleItems, d.BulkLots, d.BulkAllocations, d.ManualSales, opts)
}

// Snapshot reconstructs the unsold inventory at the end of the given day.
func (d *Dataset) Snapshot(asOfKey string) (StockSnapshot, bool) {
	day, ok := parseDay(asOfKey)
	if !ok {
		return StockSnapshot{}, false
	}
	return ComputeStockSnapshot(day, d.SingleItems, d.BulkLots, d.BulkAllocations), true
}

// destinationSalesTypes maps destination name -> toB/toC classification.
func (d *Dataset) destinationSalesTypes() map[string]SalesType {
	m := make(map[string]SalesType, len(d.Platforms))
	for _, p := range d.Platforms {
		m[p.Name] = p.SalesType
	}
	return m
}
