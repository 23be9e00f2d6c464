/*
Package sqlite provides a SQLite-backed implementation of engine.Source.

PURPOSE:
  Persists the three raw record families, the platform master list, and the
  monthly goal rows. In production the same patterns apply to PostgreSQL -
  only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  engine.Source: paged reads of the raw collections plus goal get/upsert

PAGED FETCHES:
  Each collection is read in fixed engine.FetchPageSize pages, sequentially,
  until a short page signals end-of-data. A mid-loop failure is logged once
  and the rows fetched so far are returned with a nil error - reports degrade
  to partial data instead of failing outright. Context cancellation between
  pages does surface as an error.

KEY TABLES:
  single_items:     Individually purchased/sold items
  bulk_lots:        Aggregate purchases of many units
  bulk_allocations: Partial sales drawn from a lot
  manual_sales:     Free-form sale entries
  platforms:        Sale destination master list
  monthly_goals:    One goal row per (user_id, year, month)

MONEY COLUMNS:
  Stored as TEXT holding decimal strings. NULL means "never entered", which
  the engine distinguishes from an explicit zero.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/resale.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - engine/source.go: Interface definition and paging contract
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/resale-engine/engine"
)

// Store implements engine.Source using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Single items (one row per individually purchased item)
	CREATE TABLE IF NOT EXISTS single_items (
		id TEXT PRIMARY KEY,
		inventory_number TEXT,
		product_name TEXT,
		brand_name TEXT,
		category TEXT,
		status TEXT,
		purchase_price TEXT,
		purchase_total TEXT,
		sale_price TEXT,
		commission TEXT,
		shipping_cost TEXT,
		other_cost TEXT,
		deposit_amount TEXT,
		purchase_date TEXT,
		listing_date TEXT,
		sale_date TEXT,
		purchase_source TEXT,
		sale_destination TEXT,
		memo TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_single_items_sale_date
		ON single_items(sale_date);
	CREATE INDEX IF NOT EXISTS idx_single_items_purchase_date
		ON single_items(purchase_date);

	-- Bulk lots (one aggregate purchase of many units)
	CREATE TABLE IF NOT EXISTS bulk_lots (
		id TEXT PRIMARY KEY,
		genre TEXT,
		purchase_date TEXT,
		purchase_source TEXT,
		total_amount TEXT NOT NULL,
		total_quantity INTEGER NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Bulk allocations (partial sales drawn from a lot)
	CREATE TABLE IF NOT EXISTS bulk_allocations (
		id TEXT PRIMARY KEY,
		bulk_lot_id TEXT NOT NULL,
		sale_date TEXT,
		listing_date TEXT,
		sale_destination TEXT,
		quantity INTEGER NOT NULL,
		sale_amount TEXT NOT NULL,
		commission TEXT,
		shipping_cost TEXT,
		product_name TEXT,
		brand_name TEXT,
		category TEXT,
		purchase_price TEXT,
		other_cost TEXT,
		deposit_amount TEXT,
		memo TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bulk_allocations_lot
		ON bulk_allocations(bulk_lot_id);
	CREATE INDEX IF NOT EXISTS idx_bulk_allocations_sale_date
		ON bulk_allocations(sale_date);

	-- Manual sales (free-form entries)
	CREATE TABLE IF NOT EXISTS manual_sales (
		id TEXT PRIMARY KEY,
		inventory_number TEXT,
		product_name TEXT,
		brand_name TEXT,
		category TEXT,
		purchase_price TEXT,
		purchase_total TEXT,
		sale_price TEXT,
		commission TEXT,
		shipping_cost TEXT,
		other_cost TEXT,
		deposit_amount TEXT,
		profit TEXT,
		profit_rate TEXT,
		purchase_date TEXT,
		listing_date TEXT,
		sale_date TEXT,
		purchase_source TEXT,
		sale_destination TEXT,
		memo TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_manual_sales_sale_date
		ON manual_sales(sale_date);

	-- Platforms (sale destination master)
	CREATE TABLE IF NOT EXISTS platforms (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		sales_type TEXT NOT NULL DEFAULT 'toC',
		created_at TEXT NOT NULL
	);

	-- Monthly goals (one row per user/year/month)
	CREATE TABLE IF NOT EXISTS monthly_goals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL,
		sales TEXT,
		profit TEXT,
		sold_count TEXT,
		purchased_count TEXT,
		listed_count TEXT,
		purchase_value TEXT,
		profit_rate TEXT,
		avg_sale_price TEXT,
		avg_purchase_price TEXT,
		stock_count_turnover_pct TEXT,
		sales_turnover_pct TEXT,
		cost_turnover_pct TEXT,
		overall_profitability_pct TEXT,
		gmroi TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE(user_id, year, month)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PAGED FETCHES (engine.Source interface)
// =============================================================================

// fetchPaged drives one paged read loop. scanPage reads a single page at the
// given offset and reports how many rows it appended.
func fetchPaged(ctx context.Context, table string, scanPage func(offset int) (int, error)) error {
	for offset := 0; ; offset += engine.FetchPageSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := scanPage(offset)
		if err != nil {
			// Partial results beat a dead report. Log once and stop paging.
			log.Printf("sqlite: %s page at offset %d failed, returning %d rows: %v", table, offset, offset+n, err)
			return nil
		}
		if n < engine.FetchPageSize {
			return nil
		}
	}
}

// FetchSingleItems returns all single-item rows, internally paginating.
func (s *Store) FetchSingleItems(ctx context.Context) ([]engine.RawSingleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, inventory_number, product_name, brand_name, category, status,
		       purchase_price, purchase_total, sale_price, commission, shipping_cost,
		       other_cost, deposit_amount, purchase_date, listing_date, sale_date,
		       purchase_source, sale_destination, memo
		FROM single_items
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	var items []engine.RawSingleItem
	err := fetchPaged(ctx, "single_items", func(offset int) (int, error) {
		rows, err := s.db.QueryContext(ctx, query, engine.FetchPageSize, offset)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		n := 0
		for rows.Next() {
			var item engine.RawSingleItem
			var strs [18]sql.NullString
			if err := rows.Scan(
				&item.ID, &strs[0], &strs[1], &strs[2], &strs[3], &strs[4],
				&strs[5], &strs[6], &strs[7], &strs[8], &strs[9],
				&strs[10], &strs[11], &strs[12], &strs[13], &strs[14],
				&strs[15], &strs[16], &strs[17],
			); err != nil {
				return n, err
			}
			item.InventoryNumber = strs[0].String
			item.ProductName = strs[1].String
			item.BrandName = strs[2].String
			item.Category = strs[3].String
			item.Status = engine.ItemStatus(strs[4].String)
			item.PurchasePrice = scanDecimal(strs[5])
			item.PurchaseTotal = scanDecimal(strs[6])
			item.SalePrice = scanDecimal(strs[7])
			item.Commission = scanDecimal(strs[8])
			item.ShippingCost = scanDecimal(strs[9])
			item.OtherCost = scanDecimal(strs[10])
			item.DepositAmount = scanDecimal(strs[11])
			item.PurchaseDate = strs[12].String
			item.ListingDate = strs[13].String
			item.SaleDate = strs[14].String
			item.PurchaseSource = strs[15].String
			item.SaleDestination = strs[16].String
			item.Memo = strs[17].String
			items = append(items, item)
			n++
		}
		return n, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchBulkLots returns all bulk lot rows.
func (s *Store) FetchBulkLots(ctx context.Context) ([]engine.RawBulkLot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, genre, purchase_date, purchase_source, total_amount, total_quantity
		FROM bulk_lots
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	var lots []engine.RawBulkLot
	err := fetchPaged(ctx, "bulk_lots", func(offset int) (int, error) {
		rows, err := s.db.QueryContext(ctx, query, engine.FetchPageSize, offset)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		n := 0
		for rows.Next() {
			var lot engine.RawBulkLot
			var genre, purchaseDate, source sql.NullString
			var amount string
			if err := rows.Scan(&lot.ID, &genre, &purchaseDate, &source, &amount, &lot.TotalQuantity); err != nil {
				return n, err
			}
			lot.Genre = genre.String
			lot.PurchaseDate = purchaseDate.String
			lot.PurchaseSource = source.String
			lot.TotalAmount = mustDecimal(amount)
			lots = append(lots, lot)
			n++
		}
		return n, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return lots, nil
}

// FetchBulkAllocations returns all partial-sale allocations.
func (s *Store) FetchBulkAllocations(ctx context.Context) ([]engine.RawBulkAllocation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, bulk_lot_id, sale_date, listing_date, sale_destination, quantity,
		       sale_amount, commission, shipping_cost, product_name, brand_name,
		       category, purchase_price, other_cost, deposit_amount, memo
		FROM bulk_allocations
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	var allocs []engine.RawBulkAllocation
	err := fetchPaged(ctx, "bulk_allocations", func(offset int) (int, error) {
		rows, err := s.db.QueryContext(ctx, query, engine.FetchPageSize, offset)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		n := 0
		for rows.Next() {
			var a engine.RawBulkAllocation
			var amount string
			var saleDate, listingDate, dest sql.NullString
			var commission, shipping sql.NullString
			var name, brand, category, price, other, deposit, memo sql.NullString
			if err := rows.Scan(
				&a.ID, &a.BulkLotID, &saleDate, &listingDate, &dest, &a.Quantity,
				&amount, &commission, &shipping, &name, &brand,
				&category, &price, &other, &deposit, &memo,
			); err != nil {
				return n, err
			}
			a.SaleDate = saleDate.String
			a.ListingDate = listingDate.String
			a.SaleDestination = dest.String
			a.SaleAmount = mustDecimal(amount)
			a.Commission = scanDecimal(commission).Decimal
			a.ShippingCost = scanDecimal(shipping).Decimal
			a.ProductName = name.String
			a.BrandName = brand.String
			a.Category = category.String
			a.PurchasePrice = scanDecimal(price)
			a.OtherCost = scanDecimal(other)
			a.DepositAmount = scanDecimal(deposit)
			a.Memo = memo.String
			allocs = append(allocs, a)
			n++
		}
		return n, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return allocs, nil
}

// FetchManualSales returns all manual sale entries.
func (s *Store) FetchManualSales(ctx context.Context) ([]engine.RawManualSale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, inventory_number, product_name, brand_name, category,
		       purchase_price, purchase_total, sale_price, commission, shipping_cost,
		       other_cost, deposit_amount, profit, profit_rate,
		       purchase_date, listing_date, sale_date, purchase_source, sale_destination, memo
		FROM manual_sales
		ORDER BY id
		LIMIT ? OFFSET ?
	`

	var sales []engine.RawManualSale
	err := fetchPaged(ctx, "manual_sales", func(offset int) (int, error) {
		rows, err := s.db.QueryContext(ctx, query, engine.FetchPageSize, offset)
		if err != nil {
			return 0, err
		}
		defer rows.Close()

		n := 0
		for rows.Next() {
			var m engine.RawManualSale
			var strs [19]sql.NullString
			if err := rows.Scan(
				&m.ID, &strs[0], &strs[1], &strs[2], &strs[3],
				&strs[4], &strs[5], &strs[6], &strs[7], &strs[8],
				&strs[9], &strs[10], &strs[11], &strs[12],
				&strs[13], &strs[14], &strs[15], &strs[16], &strs[17], &strs[18],
			); err != nil {
				return n, err
			}
			m.InventoryNumber = strs[0].String
			m.ProductName = strs[1].String
			m.BrandName = strs[2].String
			m.Category = strs[3].String
			m.PurchasePrice = scanDecimal(strs[4])
			m.PurchaseTotal = scanDecimal(strs[5])
			m.SalePrice = scanDecimal(strs[6])
			m.Commission = scanDecimal(strs[7])
			m.ShippingCost = scanDecimal(strs[8])
			m.OtherCost = scanDecimal(strs[9])
			m.DepositAmount = scanDecimal(strs[10])
			m.Profit = scanDecimal(strs[11])
			m.ProfitRate = scanDecimal(strs[12])
			m.PurchaseDate = strs[13].String
			m.ListingDate = strs[14].String
			m.SaleDate = strs[15].String
			m.PurchaseSource = strs[16].String
			m.SaleDestination = strs[17].String
			m.Memo = strs[18].String
			sales = append(sales, m)
			n++
		}
		return n, rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// ListPlatforms returns the destination master list.
func (s *Store) ListPlatforms(ctx context.Context) ([]engine.Platform, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, sales_type FROM platforms ORDER BY name",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var platforms []engine.Platform
	for rows.Next() {
		var p engine.Platform
		var salesType string
		if err := rows.Scan(&p.ID, &p.Name, &salesType); err != nil {
			return nil, err
		}
		p.SalesType = engine.SalesType(salesType)
		platforms = append(platforms, p)
	}
	return platforms, rows.Err()
}

// =============================================================================
// MONTHLY GOALS
// =============================================================================

// GetGoal returns the stored goal for (userID, year, month), or nil when
// none exists.
func (s *Store) GetGoal(ctx context.Context, userID string, year, month int) (*engine.MonthlyGoal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT user_id, year, month, sales, profit, sold_count, purchased_count,
		       listed_count, purchase_value, profit_rate, avg_sale_price,
		       avg_purchase_price, stock_count_turnover_pct, sales_turnover_pct,
		       cost_turnover_pct, overall_profitability_pct, gmroi
		FROM monthly_goals
		WHERE user_id = ? AND year = ? AND month = ?
	`

	var g engine.MonthlyGoal
	var strs [14]sql.NullString
	err := s.db.QueryRowContext(ctx, query, userID, year, month).Scan(
		&g.UserID, &g.Year, &g.Month,
		&strs[0], &strs[1], &strs[2], &strs[3], &strs[4], &strs[5], &strs[6],
		&strs[7], &strs[8], &strs[9], &strs[10], &strs[11], &strs[12], &strs[13],
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	g.Sales = scanDecimal(strs[0])
	g.Profit = scanDecimal(strs[1])
	g.SoldCount = scanDecimal(strs[2])
	g.PurchasedCount = scanDecimal(strs[3])
	g.ListedCount = scanDecimal(strs[4])
	g.PurchaseValue = scanDecimal(strs[5])
	g.ProfitRate = scanDecimal(strs[6])
	g.AvgSalePrice = scanDecimal(strs[7])
	g.AvgPurchasePrice = scanDecimal(strs[8])
	g.StockCountTurnoverPct = scanDecimal(strs[9])
	g.SalesTurnoverPct = scanDecimal(strs[10])
	g.CostTurnoverPct = scanDecimal(strs[11])
	g.OverallProfitabilityPct = scanDecimal(strs[12])
	g.GMROI = scanDecimal(strs[13])
	return &g, nil
}

// UpsertGoal atomically inserts or replaces the goal row keyed by
// (UserID, Year, Month).
func (s *Store) UpsertGoal(ctx context.Context, goal engine.MonthlyGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO monthly_goals
		(id, user_id, year, month, sales, profit, sold_count, purchased_count,
		 listed_count, purchase_value, profit_rate, avg_sale_price, avg_purchase_price,
		 stock_count_turnover_pct, sales_turnover_pct, cost_turnover_pct,
		 overall_profitability_pct, gmroi, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, year, month) DO UPDATE SET
			sales = excluded.sales,
			profit = excluded.profit,
			sold_count = excluded.sold_count,
			purchased_count = excluded.purchased_count,
			listed_count = excluded.listed_count,
			purchase_value = excluded.purchase_value,
			profit_rate = excluded.profit_rate,
			avg_sale_price = excluded.avg_sale_price,
			avg_purchase_price = excluded.avg_purchase_price,
			stock_count_turnover_pct = excluded.stock_count_turnover_pct,
			sales_turnover_pct = excluded.sales_turnover_pct,
			cost_turnover_pct = excluded.cost_turnover_pct,
			overall_profitability_pct = excluded.overall_profitability_pct,
			gmroi = excluded.gmroi,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, query,
		uuid.NewString(), goal.UserID, goal.Year, goal.Month,
		dbDecimal(goal.Sales), dbDecimal(goal.Profit),
		dbDecimal(goal.SoldCount), dbDecimal(goal.PurchasedCount),
		dbDecimal(goal.ListedCount), dbDecimal(goal.PurchaseValue),
		dbDecimal(goal.ProfitRate), dbDecimal(goal.AvgSalePrice),
		dbDecimal(goal.AvgPurchasePrice), dbDecimal(goal.StockCountTurnoverPct),
		dbDecimal(goal.SalesTurnoverPct), dbDecimal(goal.CostTurnoverPct),
		dbDecimal(goal.OverallProfitabilityPct), dbDecimal(goal.GMROI),
		now, now,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert goal: %v", engine.ErrStoreFailed, err)
	}
	return nil
}

// =============================================================================
// SEEDING - Writes owned by the CRUD layer; these exist for demos and tests
// =============================================================================

// InsertSingleItem stores one raw single-item row, generating an ID when blank.
func (s *Store) InsertSingleItem(ctx context.Context, item engine.RawSingleItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	query := `
		INSERT INTO single_items
		(id, inventory_number, product_name, brand_name, category, status,
		 purchase_price, purchase_total, sale_price, commission, shipping_cost,
		 other_cost, deposit_amount, purchase_date, listing_date, sale_date,
		 purchase_source, sale_destination, memo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		item.ID, item.InventoryNumber, item.ProductName, item.BrandName, item.Category, string(item.Status),
		dbDecimal(item.PurchasePrice), dbDecimal(item.PurchaseTotal), dbDecimal(item.SalePrice),
		dbDecimal(item.Commission), dbDecimal(item.ShippingCost),
		dbDecimal(item.OtherCost), dbDecimal(item.DepositAmount),
		item.PurchaseDate, item.ListingDate, item.SaleDate,
		item.PurchaseSource, item.SaleDestination, item.Memo,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// InsertBulkLot stores one raw bulk lot row.
func (s *Store) InsertBulkLot(ctx context.Context, lot engine.RawBulkLot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if lot.ID == "" {
		lot.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bulk_lots (id, genre, purchase_date, purchase_source, total_amount, total_quantity, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		lot.ID, lot.Genre, lot.PurchaseDate, lot.PurchaseSource,
		lot.TotalAmount.String(), lot.TotalQuantity,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// InsertBulkAllocation stores one raw allocation row.
func (s *Store) InsertBulkAllocation(ctx context.Context, a engine.RawBulkAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `
		INSERT INTO bulk_allocations
		(id, bulk_lot_id, sale_date, listing_date, sale_destination, quantity,
		 sale_amount, commission, shipping_cost, product_name, brand_name,
		 category, purchase_price, other_cost, deposit_amount, memo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		a.ID, a.BulkLotID, a.SaleDate, a.ListingDate, a.SaleDestination, a.Quantity,
		a.SaleAmount.String(), a.Commission.String(), a.ShippingCost.String(),
		a.ProductName, a.BrandName, a.Category,
		dbDecimal(a.PurchasePrice), dbDecimal(a.OtherCost), dbDecimal(a.DepositAmount),
		a.Memo,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// InsertManualSale stores one raw manual sale row.
func (s *Store) InsertManualSale(ctx context.Context, m engine.RawManualSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	query := `
		INSERT INTO manual_sales
		(id, inventory_number, product_name, brand_name, category,
		 purchase_price, purchase_total, sale_price, commission, shipping_cost,
		 other_cost, deposit_amount, profit, profit_rate,
		 purchase_date, listing_date, sale_date, purchase_source, sale_destination, memo, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		m.ID, m.InventoryNumber, m.ProductName, m.BrandName, m.Category,
		dbDecimal(m.PurchasePrice), dbDecimal(m.PurchaseTotal), dbDecimal(m.SalePrice),
		dbDecimal(m.Commission), dbDecimal(m.ShippingCost),
		dbDecimal(m.OtherCost), dbDecimal(m.DepositAmount),
		dbDecimal(m.Profit), dbDecimal(m.ProfitRate),
		m.PurchaseDate, m.ListingDate, m.SaleDate,
		m.PurchaseSource, m.SaleDestination, m.Memo,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// InsertPlatform stores one destination master row.
func (s *Store) InsertPlatform(ctx context.Context, p engine.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO platforms (id, name, sales_type, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET sales_type = excluded.sales_type`,
		p.ID, p.Name, string(p.SalesType),
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// ResetAll clears every table (for testing/demo).
func (s *Store) ResetAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"single_items", "bulk_lots", "bulk_allocations", "manual_sales", "platforms", "monthly_goals"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// scanDecimal maps a nullable TEXT column to a NullDecimal. Unparseable
// values are treated as absent rather than failing the whole fetch.
func scanDecimal(s sql.NullString) decimal.NullDecimal {
	if !s.Valid || s.String == "" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// mustDecimal parses a NOT NULL TEXT money column, zero on garbage.
func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// dbDecimal maps a NullDecimal to its TEXT column value.
func dbDecimal(d decimal.NullDecimal) any {
	if !d.Valid {
		return nil
	}
	return d.Decimal.String()
}
