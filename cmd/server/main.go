package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/smahadik/goldtea/internal/config"
	"github.com/smahadik/goldtea/internal/domain/models"
	"github.com/smahadik/goldtea/internal/repository"
	"github.com/smahadik/goldtea/internal/repository/excel"
	"github.com/smahadik/goldtea/internal/repository/mongodb"
	"github.com/smahadik/goldtea/internal/repository/sheets"
	"github.com/smahadik/goldtea/internal/scheduler"
	"github.com/smahadik/goldtea/internal/server/handlers"
	"github.com/smahadik/goldtea/internal/server/router"
	catalogsvc "github.com/smahadik/goldtea/internal/service/catalog"
	reportingsvc "github.com/smahadik/goldtea/internal/service/reporting"
	salessvc "github.com/smahadik/goldtea/internal/service/sales"
	"github.com/smahadik/goldtea/pkg/clients/webhook"
	"github.com/smahadik/goldtea/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, cleanup, err := openStore(cfg, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.Error(err), zap.String("backend", cfg.Store.Backend))
	}
	defer cleanup()

	if err := store.SeedDefaults(context.Background(), models.DefaultPriceList()); err != nil {
		baseLogger.Fatal("failed to seed store defaults", zap.Error(err))
	}

	salesSvc := salessvc.NewService(store, cfg.Business.BrandName, baseLogger.Named("svc.sales"))
	reportingSvc := reportingsvc.NewService(store, baseLogger.Named("svc.reporting"))
	catalogSvc := catalogsvc.NewService(store, baseLogger.Named("svc.catalog"))

	salesHandler := handlers.NewSalesHandler(salesSvc, baseLogger.Named("handlers.sales"))
	reportHandler := handlers.NewReportHandler(reportingSvc, baseLogger.Named("handlers.reports"))
	catalogHandler := handlers.NewCatalogHandler(catalogSvc, baseLogger.Named("handlers.catalog"))
	engine := router.New(salesHandler, reportHandler, catalogHandler, baseLogger.Named("router"))

	var exporter webhook.Client
	if cfg.Reporting.ExportWebhookURL != "" {
		exporter = webhook.NewClient(cfg.Reporting.ExportWebhookURL)
		baseLogger.Info("snapshot export webhook enabled")
	}

	sched := scheduler.NewScheduler(*cfg, reportingSvc, exporter, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("backend", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openStore builds the configured row store. The returned cleanup releases
// any held connections and is safe to call once.
func openStore(cfg *config.Config, baseLogger *zap.Logger) (repository.Store, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendSheets:
		store, err := sheets.New(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	case config.BackendMongo:
		store, err := mongodb.New(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := store.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}
		return store, cleanup, nil
	default:
		return excel.New(cfg.Excel.FilePath, baseLogger.Named("repo.excel")), func() {}, nil
	}
}
