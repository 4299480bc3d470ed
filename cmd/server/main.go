package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"sitecraft/internal/config"
	"sitecraft/internal/domain/models/schema"
	"sitecraft/internal/domain/repositories"
	"sitecraft/internal/handler"
	"sitecraft/internal/middleware"
	"sitecraft/internal/repository/memory"
	"sitecraft/internal/repository/postgres"
	"sitecraft/internal/service/convert"
	"sitecraft/internal/service/convert/lorem"
	"sitecraft/internal/service/export"
	pageService "sitecraft/internal/service/page"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Page storage: Postgres when configured, otherwise in-process
	var pageRepo repositories.PageRepository
	var txManager repositories.TransactionManager
	if cfg.DatabaseURL != "" {
		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to create connection pool: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)
		if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to prepare schema: %v", err)
		}

		repoConfig := &postgres.RepositoryConfig{
			Pool:   pool,
			Tables: tables,
			Logger: logger,
		}
		pageRepo = postgres.NewPageRepository(repoConfig)
		txManager = postgres.NewTransactionManager(repoConfig)
		logger.Info("database connected", "pages_table", tables.Pages)
	} else {
		pageRepo = memory.NewPageRepository()
		txManager = memory.NewTransactionManager()
		logger.Warn("DATABASE_URL not set, pages are kept in memory")
	}

	// Services
	library := pageService.DefaultLibrary()
	pageSvc := pageService.NewPageService(pageRepo, txManager, library, logger)
	registry := export.NewExporterRegistry(cfg.MinifyHTML)
	importer := export.NewBuilderImporter(library)
	converter := convert.NewConverter(
		library,
		lorem.NewProvider(),
		cfg.ComplexityThreshold,
		schema.Domain(cfg.DefaultDomain),
		logger,
	)

	handlers := &handler.Handlers{
		Page:    handler.NewPageHandler(pageSvc, library, logger),
		Widget:  handler.NewWidgetHandler(pageSvc, library, logger),
		Export:  handler.NewExportHandler(pageSvc, registry, importer, library, logger),
		Convert: handler.NewConvertHandler(converter, pageSvc, logger),
	}

	logger.Info("services initialized",
		"widget_types", len(library.Types()),
		"export_formats", registry.Formats(),
	)

	mux := http.NewServeMux()
	handlers.Register(mux)

	// Order: CORS → Recovery → RequestLogger → Routes
	var h http.Handler = mux
	h = middleware.RequestLogger(logger)(h)
	h = middleware.Recovery(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})
	h = corsHandler.Handler(h)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}
	logger.Info("server stopped")
}
