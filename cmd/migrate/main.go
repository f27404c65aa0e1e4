package main

import (
	"log"
	"os"

	"fsnb-matcher-be/internal/model"
	"fsnb-matcher-be/pkg/database"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	color.Cyan("Starting GORM Migration...")

	// 3. Pre-Migration: extensions GORM AutoMigrate doesn't handle
	color.Cyan("Step 1: Setting up extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			color.Yellow("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate all models
	color.Cyan("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.CatalogItem{},
		&model.CatalogEmbedding{},
		&model.ReviewSession{},
		&model.ReviewRow{},
		&model.TrainingRecord{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		color.Red("Error: AutoMigrate failed: %v", err)
		os.Exit(1)
	}

	// 5. Vector index for the candidate search path. Cosine opclass matches
	// the <=> operator used by SearchSimilar.
	color.Cyan("Step 3: Creating vector index...")
	indexSQL := `CREATE INDEX IF NOT EXISTS idx_catalog_embeddings_value
		ON catalog_embeddings USING hnsw (embedding_value vector_cosine_ops);`
	if err := db.Exec(indexSQL).Error; err != nil {
		color.Yellow("Warn: Failed to create vector index: %v. Sequential scan still works.", err)
	}

	color.Green("✅ Migration completed successfully")
}
