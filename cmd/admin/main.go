package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"expensez/internal/infrastructure/postgres"
	"expensez/internal/shared/config"
)

const usage = `Usage: admin <command>

Commands:
  migrate                 apply pending database migrations
  purge-refresh-tokens    clear expired refresh-token state for all users
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "migrate":
		runMigrate(db, os.Args[2:])
	case "purge-refresh-tokens":
		runPurgeRefreshTokens(db, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n%s", os.Args[1], usage)
		os.Exit(2)
	}
}

func runMigrate(db *postgres.DB, args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	fs.Parse(args)

	if err := db.Migrate(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")
}

func runPurgeRefreshTokens(db *postgres.DB, args []string) {
	fs := flag.NewFlagSet("purge-refresh-tokens", flag.ExitOnError)
	fs.Parse(args)

	users := postgres.NewUserRepository(db)
	affected, err := users.PurgeExpiredRefreshTokens(context.Background())
	if err != nil {
		log.Fatalf("Purge failed: %v", err)
	}
	log.Printf("Cleared expired refresh tokens for %d user(s)", affected)
}
