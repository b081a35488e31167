package main

import (
	"context"
	"log"
	"os"

	"web3_annotate/internal/db"
	"web3_annotate/internal/repository"
	"web3_annotate/internal/service"
)

func main() {
	// expects DATABASE_URL and JWT_SECRET env vars
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewUserRepository(pool)
	ctx := context.Background()

	address := os.Getenv("TEST_WALLET_ADDRESS")
	if address == "" {
		address = "11111111111111111111111111111111"
	}

	userID, err := repo.Resolve(ctx, address)
	if err != nil {
		log.Fatalf("resolve user failed: %v", err)
	}
	log.Printf("user id=%d address=%s\n", userID, address)

	// verify read
	u, err := repo.GetByAddress(ctx, address)
	if err != nil {
		log.Fatalf("get by address failed: %v", err)
	}
	if u.ID != userID {
		log.Fatalf("address lookup returned id=%d, resolve returned id=%d", u.ID, userID)
	}
	log.Printf("fetched user id=%d address=%s created_at=%v\n", u.ID, u.Address, u.CreatedAt)

	service.InitJWT(secret)
	token, err := service.GenerateJWT(u.ID)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}
	log.Printf("token=%s\n", token)
}
