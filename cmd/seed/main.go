package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-api/config"
	"github.com/oksasatya/go-user-api/internal/application"
	pginfra "github.com/oksasatya/go-user-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-api/pkg/helpers"
	"github.com/oksasatya/go-user-api/pkg/pagination"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	db := pginfra.NewBunDB(pool, cfg.Env)
	defer func() { _ = db.Close() }()

	mgr := application.NewUserManager(db, pagination.NewCodec(cfg.PageTokenSecret))

	emails := []string{
		"alice@example.com",
		"bob@example.com",
		"carol@example.com",
	}
	password := "Password1"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	rows := make([]map[string]any, 0, len(emails))
	for _, email := range emails {
		rows = append(rows, map[string]any{
			"email":      email,
			"password":   hash,
			"created_at": now,
			"updated_at": now,
		})
	}

	if err := mgr.CreateBulk(ctx, rows); err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}
	fmt.Printf("seeded %d users (password %q)\n", len(rows), password)
}
