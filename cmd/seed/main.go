// backend-go/cmd/seed/main.go
//
// Seeds demo inventory data: a small network of locations, a medical item
// catalog, and a chained transaction history so the analytics endpoints have
// something to classify out of the box.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/urfave/cli/v2"

	"github.com/medstock/backend-go/migrations"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(db, "."); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func mustDB(c *cli.Context) *sql.DB {
	return c.Context.Value(dbKey).(*sql.DB)
}

func main() {
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "seed",
		Usage: "Seed and reset demo inventory data",
		Commands: []*cli.Command{
			{
				Name:  "demo",
				Usage: "Load demo locations, items, and a chained transaction history",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Days of transaction history to generate",
						Value: 30,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed for reproducible demo data",
						Value: 42,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: seedDemo,
			},
			{
				Name:   "reset",
				Usage:  "Delete all transactions, items, and locations",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: resetAll,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type demoLocation struct {
	name, locType, region string
}

type demoItem struct {
	name, category, unit string
	leadTimeDays         int
	minStock             int
	dailyUsage           int // baseline consumption for history generation
}

var demoLocations = []demoLocation{
	{"Apollo Hospital - Mumbai", "hospital", "West"},
	{"City Clinic - Delhi", "clinic", "North"},
	{"Regional Warehouse - Chennai", "warehouse", "South"},
}

var demoItems = []demoItem{
	{"Paracetamol 500mg", "painkiller", "tablets", 7, 100, 20},
	{"Amoxicillin 250mg", "antibiotic", "capsules", 5, 50, 12},
	{"Insulin Vials", "hormone", "vials", 14, 30, 4},
	{"Surgical Gloves", "consumable", "pairs", 3, 500, 80},
	{"Saline IV 500ml", "fluid", "bags", 4, 60, 15},
	{"Gauze Rolls", "consumable", "rolls", 3, 200, 25},
}

func seedDemo(c *cli.Context) error {
	db := mustDB(c)
	days := c.Int("days")
	if days < 1 {
		return fmt.Errorf("days must be >= 1")
	}
	rng := rand.New(rand.NewSource(c.Int64("seed")))

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	locationIDs := make([]int64, 0, len(demoLocations))
	for _, loc := range demoLocations {
		var id int64
		err := tx.QueryRowContext(c.Context,
			`INSERT INTO locations (name, type, region) VALUES ($1, $2, $3) RETURNING id`,
			loc.name, loc.locType, loc.region).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert location %q: %w", loc.name, err)
		}
		locationIDs = append(locationIDs, id)
	}

	itemIDs := make([]int64, 0, len(demoItems))
	for _, item := range demoItems {
		var id int64
		err := tx.QueryRowContext(c.Context,
			`INSERT INTO items (name, category, unit, lead_time_days, min_stock)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			item.name, item.category, item.unit, item.leadTimeDays, item.minStock).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert item %q: %w", item.name, err)
		}
		itemIDs = append(itemIDs, id)
	}

	// History runs up to yesterday so "today" entries come in through the API.
	end := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	start := end.AddDate(0, 0, -(days - 1))

	inserted := 0
	for li, locationID := range locationIDs {
		for ii, itemID := range itemIDs {
			item := demoItems[ii]

			// warehouses hold deeper stock than the clinics they feed
			stock := item.minStock * (2 + li)
			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				opening := stock
				received := 0
				if rng.Intn(4) == 0 { // roughly twice a week
					received = item.dailyUsage * (3 + rng.Intn(4))
				}

				issued := item.dailyUsage/2 + rng.Intn(item.dailyUsage+1)
				if issued > opening+received {
					issued = opening + received
				}

				stock = opening + received - issued
				_, err := tx.ExecContext(c.Context,
					`INSERT INTO inventory_transactions
					    (location_id, item_id, date, opening_stock, received, issued, closing_stock, entered_by)
					 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					locationID, itemID, d, opening, received, issued, stock, "seed")
				if err != nil {
					return fmt.Errorf("failed to insert transaction: %w", err)
				}
				inserted++
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	log.Printf("seeded %d locations, %d items, %d transactions (%s to %s)",
		len(locationIDs), len(itemIDs), inserted,
		start.Format("2006-01-02"), end.Format("2006-01-02"))
	return nil
}

func resetAll(c *cli.Context) error {
	db := mustDB(c)

	tx, err := db.BeginTx(c.Context, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"inventory_transactions", "items", "locations"} {
		res, err := tx.ExecContext(c.Context, "DELETE FROM "+table)
		if err != nil {
			return fmt.Errorf("failed to wipe %s: %w", table, err)
		}
		n, _ := res.RowsAffected()
		log.Printf("deleted %d rows from %s", n, table)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}
