// seed creates a verified development account for local testing: go run ./cmd/seed.
// Idempotent: does nothing if dev@example.com already exists.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"authify/backend/internal/account/domain"
	"authify/backend/internal/account/repository"
	"authify/backend/internal/config"
	"authify/backend/internal/db"
	"authify/backend/internal/security"
)

const (
	devName     = "Dev User"
	devEmail    = "dev@example.com"
	devPassword = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var repo repository.Repository
	switch cfg.StoreDriver {
	case config.StorePostgres:
		sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db: %v", err)
		}
		defer sqlDB.Close()
		repo = repository.NewPostgresRepository(sqlDB)
	case config.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("mongo: %v", err)
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		mr := repository.NewMongoRepository(client.Database(cfg.MongoDatabase))
		if err := mr.EnsureIndexes(ctx); err != nil {
			log.Fatalf("mongo indexes: %v", err)
		}
		repo = mr
	default:
		log.Fatalf("seed: STORE_DRIVER=%s keeps nothing between runs; use postgres or mongo", cfg.StoreDriver)
	}

	if err := seed(ctx, repo, security.NewHasher(cfg.BcryptCost), time.Now().UTC()); err != nil {
		log.Fatalf("seed: %v", err)
	}
}

func seed(ctx context.Context, repo repository.Repository, hasher *security.Hasher, now time.Time) error {
	exists, err := repo.ExistsByEmail(ctx, devEmail)
	if err != nil {
		return err
	}
	if exists {
		log.Printf("seed: %s already exists, nothing to do", devEmail)
		return nil
	}
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		return err
	}
	acc := &domain.Account{
		ID:           uuid.New().String(),
		Email:        devEmail,
		Name:         devName,
		PasswordHash: hash,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.Upsert(ctx, acc); err != nil {
		return err
	}
	log.Printf("seed: created %s (password %q)", devEmail, devPassword)
	return nil
}
