package main

import (
	"context"
	"flag"
	"log"

	"github.com/joho/godotenv"

	"sitecraft/internal/config"
	"sitecraft/internal/repository/postgres"
	pageService "sitecraft/internal/service/page"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop the page table before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed pages")
	clearData := flag.Bool("clear-data", false, "Delete all pages (keep schema)")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// Destructive operations are never allowed against production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("BLOCKED: --drop-tables and --clear-data are disabled in the prod environment")
	}
	if cfg.DatabaseURL == "" {
		log.Fatalf("DATABASE_URL is required for seeding")
	}

	logger, logCloser, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	logger.Info("seeding", "environment", cfg.Environment, "pages_table", tables.Pages)

	if *dropTables {
		if err := postgres.DropSchema(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		logger.Info("tables dropped")
	}

	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	logger.Info("schema ready")

	if *schemaOnly {
		return
	}

	if err := postgres.ClearPages(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to clear pages: %v", err)
	}
	if *clearData {
		logger.Info("pages cleared")
		return
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	library := pageService.DefaultLibrary()
	svc := pageService.NewPageService(
		postgres.NewPageRepository(repoConfig),
		postgres.NewTransactionManager(repoConfig),
		library,
		logger,
	)

	for i, sample := range samplePages() {
		doc, err := seedPage(ctx, svc, sample)
		if err != nil {
			logger.Error("failed to seed page", "name", sample.Name, "error", err)
			continue
		}
		logger.Info("page seeded",
			"n", i+1,
			"id", doc.ID,
			"slug", doc.Slug,
			"widget_count", doc.WidgetCount(),
		)
	}
}
