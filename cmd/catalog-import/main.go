// Command catalog-import loads a product catalog export into the database.
//
// The export is a gzip-compressed NDJSON file: one product object per line
// with sku, name, price, stock, warranty_months and active fields. Records
// are streamed and written concurrently, so arbitrarily large exports work
// in constant memory.
package main

import (
	"bufio"
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	pgzip "github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/sorenh/crmdash/internal/domain/catalog"
	"github.com/sorenh/crmdash/internal/repository"
)

const progressEvery = 10_000

func main() {
	var (
		catalogFile string
		databaseURL string
		workers     int
	)

	flag.StringVar(&catalogFile, "catalog-file", "data/catalog.ndjson.gz", "path to gzipped NDJSON catalog export")
	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.IntVar(&workers, "workers", runtime.NumCPU(), "number of concurrent database writers")
	flag.Parse()

	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		slog.Error("database URL is required: set --database-url or DATABASE_URL")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, catalogFile, databaseURL, workers); err != nil {
		slog.Error("catalog import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	slog.Info("catalog import completed successfully")
}

func run(ctx context.Context, catalogFile, databaseURL string, workers int) error {
	if _, err := os.Stat(catalogFile); err != nil {
		return errors.Wrapf(err, "check file %s", catalogFile)
	}

	slog.Info("connecting to database")

	pool, err := repository.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	products := repository.NewProductRepository(pool)

	g, ctx := errgroup.WithContext(ctx)
	records := make(chan catalog.Product, workers*2)

	g.Go(func() error {
		defer close(records)
		return streamCatalog(ctx, catalogFile, records)
	})

	for range workers {
		g.Go(func() error {
			for p := range records {
				if err := products.Upsert(ctx, p); err != nil {
					return errors.Wrapf(err, "import product %s", p.SKU)
				}
			}
			return nil
		})
	}

	return g.Wait()
}

// streamCatalog reads the gzipped export line by line and sends decoded
// products on out until the file is exhausted or ctx is done.
func streamCatalog(ctx context.Context, path string, out chan<- catalog.Product) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return errors.Wrapf(err, "create gzip reader for %s", path)
	}
	defer func() { _ = gz.Close() }()

	var count uint64
	scanner := bufio.NewScanner(gz)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		p, err := decodeProduct(line)
		if err != nil {
			return errors.Wrapf(err, "decode line %d", count+1)
		}

		select {
		case out <- p:
		case <-ctx.Done():
			return ctx.Err()
		}

		count++
		if count%progressEvery == 0 {
			slog.Info("import progress", slog.Uint64("records", count))
		}
	}

	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "scan %s", path)
	}

	slog.Info("catalog stream complete", slog.Uint64("records", count))
	return nil
}

func decodeProduct(line []byte) (catalog.Product, error) {
	p := catalog.Product{Active: true}
	d := jx.DecodeBytes(line)

	if err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "id":
			v, err := d.Str()
			p.ID = v
			return err
		case "sku":
			v, err := d.Str()
			p.SKU = v
			return err
		case "name":
			v, err := d.Str()
			p.Name = v
			return err
		case "price":
			n, err := d.Num()
			if err != nil {
				return err
			}
			p.Price, err = decimal.NewFromString(n.String())
			return err
		case "stock":
			v, err := d.Int()
			p.Stock = v
			return err
		case "warranty_months":
			v, err := d.Int()
			p.WarrantyMonths = v
			return err
		case "active":
			v, err := d.Bool()
			p.Active = v
			return err
		default:
			return d.Skip()
		}
	}); err != nil {
		return catalog.Product{}, err
	}

	if p.SKU == "" {
		return catalog.Product{}, errors.New("missing sku")
	}
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return p, nil
}
