package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/huydotcode/handbook-server-sub001/internal/api/middleware"
	"github.com/huydotcode/handbook-server-sub001/internal/config"
)

// gentoken mints an HS256 bearer token for local testing against the API.
// The secret comes from AUTH_SECRET, the same variable the server reads.
//
// Usage:
//
//	go run ./cmd/gentoken -user 0190a000-0000-7000-8000-000000000001
//	go run ./cmd/gentoken -user <uuid> -ttl 2h
func main() {
	userFlag := flag.String("user", "", "user id (UUID) to put in the token subject")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	userID, err := uuid.Parse(*userFlag)
	if err != nil || userID == uuid.Nil {
		log.Fatalf("A valid -user UUID is required: %q", *userFlag)
	}

	cfg := config.Load()
	if cfg.AuthSecret == "" {
		log.Fatal(config.ErrMissingAuthSecret)
	}

	token, err := middleware.SignToken(cfg.AuthSecret, userID, *ttl)
	if err != nil {
		log.Fatalf("Failed to sign token: %v", err)
	}

	fmt.Println(token)
}
