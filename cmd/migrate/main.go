// Command migrate creates the drive schema in the configured Postgres database.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"drive-service/internal/config"
	"drive-service/pkg/database"

	"github.com/joho/godotenv"
)

const (
	envFilePath    = ".env"
	migrateTimeout = time.Minute
)

func main() {
	if err := godotenv.Load(envFilePath); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.SetOutput(os.Stderr)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		log.Fatalf("METADATA_DRIVER is %q, migrate only manages postgres", cfg.Database.Driver)
	}

	fmt.Println("=== Setting Up Database ===")

	db, err := database.Connect(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	fmt.Println("Schema applied")

	missing := 0
	for _, table := range database.Tables {
		exists, err := db.TableExists(ctx, table)
		switch {
		case err != nil:
			fmt.Printf("Error checking table '%s': %v\n", table, err)
			missing++
		case exists:
			fmt.Printf("Table '%s' ready\n", table)
		default:
			fmt.Printf("Table '%s' NOT created\n", table)
			missing++
		}
	}

	if missing > 0 {
		os.Exit(1)
	}
	fmt.Println("=== Database Setup Complete ===")
}
