package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"solarfarm/internal/audit"
	"solarfarm/internal/auth"
	"solarfarm/internal/logging"
	"solarfarm/internal/observability/metrics"
	panelapp "solarfarm/internal/panels/application"
	panels "solarfarm/internal/panels/domain"
	"solarfarm/internal/panels/infrastructure/memory"
	"solarfarm/internal/panels/infrastructure/sqlstore"
	"solarfarm/internal/panels/interfaces/console"
	panelhttp "solarfarm/internal/panels/interfaces/http"
	"solarfarm/internal/panels/interfaces/report"
	"solarfarm/internal/storage"
)

const serviceName = "solarfarm"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var outputs []string
	if cfg.LogOutput != "" {
		outputs = append(outputs, cfg.LogOutput)
	} else if cfg.Mode == modeConsole {
		// keep stdout for the menu
		outputs = append(outputs, "stderr")
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, serviceName, outputs...)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, db, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	metrics.Init(panelCounter(repo), logger)

	service, err := panelapp.NewPanelService(repo, panelapp.WithClock(systemClock{}), panelapp.WithLogger(logger))
	if err != nil {
		return err
	}

	if cfg.Mode == modeConsole {
		return runConsole(ctx, service, logger)
	}
	return serveHTTP(ctx, cfg, service, db, logger)
}

func openRepository(ctx context.Context, cfg config, logger *zap.Logger) (panels.PanelRepository, *sqlx.DB, error) {
	if cfg.StoreDriver == driverMemory {
		logger.Info("using in-memory panel store")
		return memory.NewPanelRepository(), nil, nil
	}
	db, err := storage.Open(ctx, cfg.storageConfig(), logger)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("panel store ready", zap.String("driver", cfg.StoreDriver))
	return sqlstore.NewPanelRepository(db), db, nil
}

// panelCounter feeds the stored panels gauge from the active repository.
func panelCounter(repo panels.PanelRepository) metrics.PanelCounter {
	switch r := repo.(type) {
	case *sqlstore.PanelRepository:
		return r.Count
	case *memory.PanelRepository:
		return func(context.Context) (int, error) { return r.Count(), nil }
	default:
		return nil
	}
}

func runConsole(ctx context.Context, service *panelapp.PanelService, logger *zap.Logger) error {
	view := console.NewView(console.NewIO(os.Stdin, os.Stdout))
	controller, err := console.NewController(service, view, logger)
	if err != nil {
		return err
	}
	if err := controller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func serveHTTP(ctx context.Context, cfg config, service *panelapp.PanelService, db *sqlx.DB, logger *zap.Logger) error {
	opts := []panelhttp.Option{panelhttp.WithLogger(logger)}
	if cfg.AuditEnabled {
		if db == nil {
			logger.Warn("audit enabled but no SQL store configured; audit disabled")
		} else {
			opts = append(opts, panelhttp.WithAuditLogger(audit.NewRepository(db)))
		}
	}
	if cfg.Report.S3Bucket != "" {
		archiver, err := report.NewArchiver(ctx, report.ArchiveConfig{
			Bucket:    cfg.Report.S3Bucket,
			Region:    cfg.Report.S3Region,
			Endpoint:  cfg.Report.S3Endpoint,
			PathStyle: cfg.Report.S3PathStyle,
		})
		if err != nil {
			return fmt.Errorf("report archiver: %w", err)
		}
		opts = append(opts, panelhttp.WithArchiver(archiver))
	}
	panelHandler, err := panelhttp.NewHandler(service, opts...)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/solar-panel", panelHandler)
	mux.Handle("/solar-panel/", panelHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var handler http.Handler = mux
	if cfg.JWTSecret != "" {
		policy := auth.NewDefaultPolicy([]string{"/healthz", "/metrics"}, nil)
		handler = auth.NewMiddleware([]byte(cfg.JWTSecret), policy, logger).Wrap(handler)
	} else {
		logger.Warn("AUTH_JWT_SECRET not set; solar panel endpoints are unauthenticated")
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           loggingMiddleware(handler, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("http shutting down")
	return server.Shutdown(shutdownCtx)
}

func loggingMiddleware(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		resp := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(resp, r)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", resp.status),
			zap.Duration("duration", time.Since(start)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// ---- Adapters ----

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }
