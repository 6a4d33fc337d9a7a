package main

import (
	"access-service/internal/config"
	"access-service/internal/db/migrate"
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

const verifyTimeout = 10 * time.Second

var tables = []string{
	"users",
	"organizations",
	"organization_members",
	"projects",
	"roles",
	"groups",
	"role_assignments",
	"audit_events",
}

func main() {
	direction := flag.String("direction", migrate.DirectionUp, "migration direction: up or down")
	verify := flag.Bool("verify", true, "check that every table exists after migrating up")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Error loading .env file: %v\n", err)
	}

	dbCfg, err := config.LoadDatabase()
	if err != nil {
		log.Fatalf("Failed to load database config: %v", err)
	}

	fmt.Printf("=== Migrating %s ===\n", *direction)
	if err := migrate.Run(dbCfg.URL(), *direction); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	fmt.Println("Migrations applied")

	if *direction != migrate.DirectionUp || !*verify {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	if err := verifyTables(ctx, dbCfg.URL()); err != nil {
		log.Fatalf("Verification failed: %v", err)
	}
}

func verifyTables(ctx context.Context, url string) error {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close(ctx)

	fmt.Println("=== Verifying Tables ===")
	missing := 0
	for _, table := range tables {
		var exists bool
		query := `SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)`
		if err := conn.QueryRow(ctx, query, table).Scan(&exists); err != nil {
			return fmt.Errorf("check table %q: %w", table, err)
		}
		if exists {
			fmt.Printf("Table '%s' present\n", table)
		} else {
			fmt.Printf("Table '%s' MISSING\n", table)
			missing++
		}
	}

	if missing > 0 {
		return fmt.Errorf("%d table(s) missing", missing)
	}
	return nil
}
