// Package app wires the dashboard API service together: storage, domain
// services, HTTP transport, health probes, and graceful shutdown.
package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/sorenh/crmdash/internal/domain/invoice"
	"github.com/sorenh/crmdash/internal/domain/lead"
	"github.com/sorenh/crmdash/internal/domain/order"
	"github.com/sorenh/crmdash/internal/domain/pack"
	"github.com/sorenh/crmdash/internal/handler"
	"github.com/sorenh/crmdash/internal/notify"
	"github.com/sorenh/crmdash/internal/repository"
	"github.com/sorenh/crmdash/internal/session"
	"github.com/sorenh/crmdash/pkg/health"
	"github.com/sorenh/crmdash/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := repository.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Repositories.
	productRepo := repository.NewProductRepository(pool)
	packCatRepo := repository.NewPackCatalogRepository(pool)
	packRepo := repository.NewPackRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	inventoryRepo := repository.NewInventoryRepository(pool)
	warrantyRepo := repository.NewWarrantyRepository(pool)
	customerRepo := repository.NewCustomerRepository(pool)
	leadRepo := repository.NewLeadRepository(pool)
	invoiceRepo := repository.NewInvoiceRepository(pool)
	apikeyRepo := repository.NewAPIKeyRepository(pool)

	// Domain services.
	notifier := notify.NewLogNotifier()
	orderService := order.NewService(orderRepo, inventoryRepo, warrantyRepo, notifier)
	packService := pack.NewService(packRepo)
	leadService := lead.NewService(leadRepo, customerRepo, notifier)
	invoiceService := invoice.NewService(invoiceRepo, orderRepo)

	// Draft sessions with background expiry.
	sessions := session.NewStore(cfg.DraftTTL)
	sessions.StartSweep(ctx)

	// HTTP handlers.
	h := handler.NewHandler(
		handler.Config{AutosaveDelay: cfg.AutosaveDelay},
		handler.Deps{
			Products:       productRepo,
			PacksCat:       packCatRepo,
			Packs:          packRepo,
			Orders:         orderRepo,
			Customers:      customerRepo,
			Leads:          leadRepo,
			Invoices:       invoiceRepo,
			OrderService:   orderService,
			PackService:    packService,
			LeadService:    leadService,
			InvoiceService: invoiceService,
			Sessions:       sessions,
		},
	)

	api := http.NewServeMux()
	h.Routes(api)
	protected := handler.APIKeyAuth(apikeyRepo, []byte(cfg.APIKeyPepper))(api)

	// Mux: health endpoints stay outside the API key boundary.
	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", protected)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type", "Authorization", handler.APIKeyHeader},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("crmdash-api", m.TracerProvider(), m.MeterProvider()),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
