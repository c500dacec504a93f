package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zakolabs/zako-backend/internal/domain/catalog"
	"github.com/zakolabs/zako-backend/internal/handler"
	"github.com/zakolabs/zako-backend/internal/notify"
	"github.com/zakolabs/zako-backend/internal/state"
	"github.com/zakolabs/zako-backend/internal/storage/localstore"
	"github.com/zakolabs/zako-backend/internal/tracking"
	"github.com/zakolabs/zako-backend/pkg/health"
	"github.com/zakolabs/zako-backend/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server and the tracking
// worker, and handles graceful shutdown. It is the single wiring point for
// the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr), zap.String("data_dir", cfg.DataDir))

	// Persistence adapter.
	store, err := localstore.New(cfg.DataDir)
	if err != nil {
		return errors.Wrap(err, "open local store")
	}

	// Notification gateway. Permission is requested once at startup, mirroring
	// the client asking on first load.
	decision := notify.PermissionGranted
	if !cfg.Notifications.AutoGrant {
		decision = notify.PermissionDenied
	}
	gateway := notify.NewLocalGateway(lg.Named("notify"),
		notify.WithDecision(func() notify.Permission { return decision }))
	gateway.RequestPermission()

	// Pressing catalog.
	var cat catalog.Repository
	if cfg.CatalogFile != "" {
		cat, err = catalog.NewFileRepository(cfg.CatalogFile)
		if err != nil {
			return errors.Wrap(err, "load catalog")
		}
		lg.Info("Catalog loaded", zap.String("file", cfg.CatalogFile))
	} else {
		cat = catalog.NewStaticRepository()
	}

	// State manager: rehydrate the persisted session before serving.
	mgr := state.NewManager(store, gateway, lg.Named("state"))
	mgr.Rehydrate()

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddReadinessCheck("localstore", time.Second, health.CheckerFunc(store.Check))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP handlers.
	h := handler.New(mgr, cat, gateway, lg.Named("http"))

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Router())

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
				AllowHeaders:     []string{"Content-Type", "Authorization"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("zako-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Tracking.Enabled {
		advancer := tracking.New(mgr, cfg.Tracking.Delay, lg.Named("tracking"))
		g.Go(func() error {
			return advancer.Run(ctx)
		})
	}

	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	g.Go(func() error {
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
		return nil
	})

	return g.Wait()
}
