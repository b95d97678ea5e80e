// Command seed-admin creates a dashboard account.  Passwords are stored as
// bcrypt hashes, so accounts must be created through this tool rather than
// inserted by hand.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/iliyamo/flight-seat-reservation/internal/config"
	"github.com/iliyamo/flight-seat-reservation/internal/database"
	"github.com/iliyamo/flight-seat-reservation/internal/repository"
)

func main() {
	username := flag.String("username", "", "admin username")
	password := flag.String("password", "", "admin password (or ADMIN_PASSWORD env)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("load .env: %v", err)
	}
	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}
	cfg := config.LoadDB()

	db, err := database.Open(cfg.User, cfg.Pass, cfg.Host, cfg.Port, cfg.Name)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}
	id, err := repository.NewAdminRepo(db).Create(ctx, *username, *password, cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			log.Fatalf("admin %q already exists", *username)
		}
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created admin %q (id=%d)", *username, id)
}
