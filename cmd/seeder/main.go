package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Categories seeded into the catalog. The category column is VARCHAR(16),
// so every value here must stay within that limit.
var categories = []string{"Laptop", "Computer", "Headset", "Monitor"}

// Short vendor prefixes keep generated names within the VARCHAR(16) name column.
var vendors = []string{"Apex", "Nova", "Volt", "Echo", "Zen", "Flux", "Onyx", "Core"}

var descriptions = map[string][]string{
	"Laptop":   {"14 inch ultrabook", "15 inch workstation", "convertible 2-in-1", "gaming laptop with dedicated GPU"},
	"Computer": {"compact desktop tower", "small form factor PC", "workstation with ECC memory", "mini PC for digital signage"},
	"Headset":  {"wireless over-ear headset", "USB headset with boom mic", "noise-cancelling headset", "lightweight on-ear headset"},
	"Monitor":  {"24 inch IPS display", "27 inch QHD display", "32 inch 4K display", "ultrawide curved display"},
}

// seedProduct mirrors the products table row shape.
type seedProduct struct {
	Name         string
	Category     string
	Description  string
	Quantity     int
	CreatedDate  time.Time
	ModifiedDate time.Time
}

func generateProducts(count int, rng *rand.Rand) []seedProduct {
	products := make([]seedProduct, 0, count)
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	for i := 0; i < count; i++ {
		category := categories[rng.Intn(len(categories))]
		vendor := vendors[rng.Intn(len(vendors))]

		// e.g. "Nova-MON-042", always unique and at most 12 characters
		name := fmt.Sprintf("%s-%s-%03d", vendor, category[:3], i)

		variants := descriptions[category]
		description := fmt.Sprintf("%s %s", vendor, variants[rng.Intn(len(variants))])

		// spread records across the past year plus a month of scheduled
		// arrivals, so date sorting has something to chew on
		created := today.AddDate(0, 0, 30-rng.Intn(395))
		modified := created.AddDate(0, 0, rng.Intn(30))

		products = append(products, seedProduct{
			Name:         name,
			Category:     category,
			Description:  description,
			Quantity:     1 + rng.Intn(50),
			CreatedDate:  created,
			ModifiedDate: modified,
		})
	}
	return products
}

func saveProducts(ctx context.Context, pool *pgxpool.Pool, products []seedProduct) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (
				name, category, description, quantity, created_date, last_modified_date
			) VALUES (
				$1, $2, $3, $4, $5, $6
			) ON CONFLICT DO NOTHING`,
			p.Name, p.Category, p.Description, p.Quantity, p.CreatedDate, p.ModifiedDate,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range products {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func main() {
	var (
		count    = flag.Int("count", 100, "Number of products to generate")
		seed     = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		dryRun   = flag.Bool("dry-run", false, "Preview generated products without modifying the database")
		force    = flag.Bool("force", false, "Seed even when the products table is not empty")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "stockroom"),
		getEnv("DB_PASSWORD", "stockroom_dev"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "stockroom"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// Seed only an empty catalog unless forced.
	var existing int64
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM products").Scan(&existing); err != nil {
		logger.Error("failed to count products", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if existing > 0 && !*force {
		logger.Info("products table is not empty, skipping seed",
			slog.Int64("existing_products", existing))
		return
	}

	seedValue := *seed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seedValue))

	products := generateProducts(*count, rng)
	logger.Info("generated products",
		slog.Int("count", len(products)),
		slog.Int64("seed", seedValue))

	if *dryRun {
		for _, p := range products {
			fmt.Printf("%-16s %-10s qty=%-3d %s\n", p.Name, p.Category, p.Quantity, p.Description)
		}
		fmt.Println("\n[DRY RUN] No changes were made to the database")
		return
	}

	if err := saveProducts(ctx, pool, products); err != nil {
		logger.Error("failed to save products", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed operation completed", slog.Int("products_created", len(products)))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
