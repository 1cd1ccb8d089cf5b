package main

import (
	"context"
	"flag"
	"log"
	"os"

	"lectern/internal/config"
	"lectern/internal/database"
	"lectern/internal/layout"
	"lectern/internal/repository/postgres"
	"lectern/internal/seed"
	serviceLesson "lectern/internal/service/lesson"
	"lectern/internal/storage"

	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all lesson tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed lessons")
	clearData := flag.Bool("clear-data", false, "Delete all lessons (keep schema) and exit")
	fixturePath := flag.String("fixture", "", "YAML fixture to seed (defaults to the embedded sample course)")
	dryRun := flag.Bool("dry-run", false, "Seed into in-memory storage to validate the fixture; touches no database")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && (*dropTables || *clearData) {
		log.Fatalf("🚫 BLOCKED: Cannot run destructive operations (--drop-tables or --clear-data) in production environment")
	}

	logger, logCloser, err := config.NewLogger(cfg, "seed")
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logCloser.Close()

	fixture, err := loadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("Failed to load fixture: %v", err)
	}

	ctx := context.Background()

	var repos *storage.Repositories
	if *dryRun {
		log.Printf("🧪 Dry run: seeding into memory")
		repos = storage.NewMemory()
	} else {
		if cfg.DatabaseURL == "" {
			log.Fatalf("DATABASE_URL is required (use --dry-run to validate a fixture without a database)")
		}
		log.Printf("🌱 Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

		pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer pool.Close()

		tables := postgres.NewTableNames(cfg.TablePrefix)

		if *dropTables {
			log.Println("🗑️  Dropping all tables...")
			dropped, err := database.DropAll(ctx, pool, tables)
			if err != nil {
				log.Fatalf("Failed to drop tables: %v", err)
			}
			for _, table := range dropped {
				log.Printf("  ✓ Dropped %s", table)
			}
		}

		log.Println("📋 Ensuring database schema is up to date...")
		if err := database.EnsureSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
			log.Fatalf("Failed to run schema: %v", err)
		}
		log.Println("✅ Schema ready")

		if *schemaOnly {
			return
		}

		if *clearData {
			if err := database.ClearData(ctx, pool, tables); err != nil {
				log.Fatalf("Failed to clear data: %v", err)
			}
			log.Println("✅ Data cleared")
			return
		}

		repos = storage.NewPostgres(pool, tables, logger)
	}

	catalog, err := layout.NewCatalog()
	if err != nil {
		log.Fatalf("Failed to load layout catalog: %v", err)
	}
	svc := serviceLesson.SetupServices(repos, catalog, serviceLesson.VersionPolicy{
		RequireLayoutType: cfg.RequireLayoutType,
	}, logger)

	summary, err := seed.NewSeeder(svc, logger).Run(ctx, fixture)
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("🎉 Seeding complete: %d lessons, %d versions (%d published), %d blocks, %d assets, %d progress records",
		summary.Lessons, summary.Versions, summary.Published, summary.Blocks, summary.Assets, summary.Progress)
}

func loadFixture(path string) (*seed.Fixture, error) {
	if path == "" {
		return seed.DefaultFixture()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return seed.ParseFixture(data)
}
