// Command reconcile-counters recomputes post love/share counters from the
// post_interactions table. Run it after repairing interaction rows by hand.
//
// Usage:
//
//	DATABASE_URL=postgres://... go run ./cmd/reconcile-counters
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	_ "github.com/lib/pq"

	"github.com/huydotcode/handbook-server-sub001/internal/config"
	"github.com/huydotcode/handbook-server-sub001/internal/core/interactions"
	postgresRepo "github.com/huydotcode/handbook-server-sub001/internal/db/postgres"
)

func main() {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal(config.ErrMissingDatabaseURL)
	}

	log.Printf("Connecting to database...")
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Warning: failed to close database: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	service := interactions.NewInteractionService(postgresRepo.NewInteractionRepository(db))

	start := time.Now()
	changed, err := service.ReconcileCounters(ctx)
	if err != nil {
		log.Fatalf("Failed to reconcile counters: %v", err)
	}

	log.Printf("Reconciled counters in %s: %d posts corrected", time.Since(start).Round(time.Millisecond), changed)
}
