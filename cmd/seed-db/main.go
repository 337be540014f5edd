// Command seed-db populates a fresh database with demo catalog data, a
// sample package, and the default API key used by local clients.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sorenh/crmdash/internal/domain/auth"
	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/domain/pack"
	"github.com/sorenh/crmdash/internal/repository"
)

type productJSON struct {
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Stock          int             `json:"stock"`
	WarrantyMonths int             `json:"warranty_months"`
}

func main() {
	var (
		databaseURL  string
		productsFile string
		apiKey       string
		apiKeyPepper string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&productsFile, "products-file", "db/seed/products.json", "path to products JSON file")
	flag.StringVar(&apiKey, "api-key", "", "API key to seed (or CRM_SEED_API_KEY env)")
	flag.StringVar(&apiKeyPepper, "api-key-pepper", "", "HMAC pepper for API key hashing (or CRM_API_KEY_PEPPER env)")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("CRM_SEED_API_KEY")
	}
	if apiKey == "" {
		slog.Error("API key is required: set --api-key or CRM_SEED_API_KEY")
		os.Exit(1)
	}
	if apiKeyPepper == "" {
		apiKeyPepper = os.Getenv("CRM_API_KEY_PEPPER")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, databaseURL, productsFile, apiKey, apiKeyPepper); err != nil {
		slog.Error("seed failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("seed completed successfully")
}

func run(ctx context.Context, databaseURL, productsFile, apiKey, pepper string) error {
	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	slog.Info("running migrations")

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products := repository.NewProductRepository(pool)
	packs := repository.NewPackRepository(pool)
	apikeys := repository.NewAPIKeyRepository(pool)

	bySKU, err := seedProducts(ctx, products, productsFile)
	if err != nil {
		return errors.Wrap(err, "seed products")
	}

	if err := seedPack(ctx, packs, bySKU); err != nil {
		return errors.Wrap(err, "seed package")
	}

	if err := seedAPIKey(ctx, apikeys, apiKey, pepper); err != nil {
		return errors.Wrap(err, "seed api key")
	}

	return nil
}

// seedProducts upserts products from the JSON file and returns the stored
// records keyed by SKU. Upserts conflict on SKU, so re-running the tool
// keeps previously assigned product IDs.
func seedProducts(ctx context.Context, products *repository.ProductRepository, productsFile string) (map[string]catalog.Product, error) {
	slog.Info("reading products file", slog.String("path", productsFile))

	data, err := os.ReadFile(productsFile)
	if err != nil {
		return nil, errors.Wrap(err, "read products file")
	}

	var records []productJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, "parse products JSON")
	}

	slog.Info("upserting products", slog.Int("count", len(records)))

	for _, rec := range records {
		p := catalog.Product{
			ID:             uuid.New().String(),
			SKU:            rec.SKU,
			Name:           rec.Name,
			Price:          rec.Price,
			Stock:          rec.Stock,
			WarrantyMonths: rec.WarrantyMonths,
			Active:         true,
		}
		if err := products.Upsert(ctx, p); err != nil {
			return nil, errors.Wrapf(err, "upsert product %s", rec.SKU)
		}

		slog.Info("upserted product", slog.String("sku", rec.SKU), slog.String("name", rec.Name))
	}

	stored, err := products.ListActive(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list stored products")
	}

	bySKU := make(map[string]catalog.Product, len(stored))
	for _, p := range stored {
		bySKU[p.SKU] = p
	}
	return bySKU, nil
}

// seedPack creates a demo bundle from two seeded products, reusing the
// existing package record when the tool runs against a seeded database.
func seedPack(ctx context.Context, packs *repository.PackRepository, bySKU map[string]catalog.Product) error {
	const packName = "Starter Heating Bundle"

	boiler, ok := bySKU["BOILER-24"]
	if !ok {
		slog.Info("skipping demo package: product BOILER-24 not seeded")
		return nil
	}
	filter, ok := bySKU["FILTER-STD"]
	if !ok {
		slog.Info("skipping demo package: product FILTER-STD not seeded")
		return nil
	}

	existing, err := packs.List(ctx)
	if err != nil {
		return errors.Wrap(err, "list packages")
	}

	p := &pack.Pack{
		ID:          uuid.New().String(),
		Name:        packName,
		Description: "Boiler with two replacement filters at a bundle price",
		BasePrice:   boiler.Price.Add(filter.Price.Mul(decimal.NewFromInt(2))).Mul(decimal.NewFromFloat(0.9)).Round(2),
		Active:      true,
	}
	for _, e := range existing {
		if e.Name == packName {
			p.ID = e.ID
			break
		}
	}

	if err := packs.Upsert(ctx, p); err != nil {
		return errors.Wrapf(err, "upsert package %s", packName)
	}

	items, err := packs.ListItems(ctx, p.ID)
	if err != nil {
		return errors.Wrap(err, "list package items")
	}
	if len(items) > 0 {
		slog.Info("package already has items", slog.String("name", packName))
		return nil
	}

	lines := []pack.Item{
		{ID: uuid.New().String(), PackID: p.ID, ProductID: boiler.ID, Quantity: 1, UnitPrice: boiler.Price},
		{ID: uuid.New().String(), PackID: p.ID, ProductID: filter.ID, Quantity: 2, UnitPrice: filter.Price},
	}
	for i := range lines {
		if err := packs.InsertItem(ctx, &lines[i]); err != nil {
			return errors.Wrapf(err, "insert package item %s", lines[i].ProductID)
		}
	}

	slog.Info("upserted package", slog.String("name", packName), slog.Int("items", len(lines)))
	return nil
}

func seedAPIKey(ctx context.Context, apikeys *repository.APIKeyRepository, apiKey, pepper string) error {
	slog.Info("seeding default API key")

	key := auth.APIKey{
		ID:      uuid.New().String(),
		Name:    "Default local key",
		KeyHash: auth.HashKey([]byte(pepper), apiKey),
		Scopes:  []string{"dashboard"},
		Active:  true,
	}

	if err := apikeys.Upsert(ctx, key); err != nil {
		return errors.Wrap(err, "upsert default API key")
	}

	slog.Info("upserted API key", slog.String("name", key.Name))
	return nil
}
