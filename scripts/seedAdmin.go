package main

import (
	"context"
	"flag"
	"os"

	"vaultgrow/config"
	"vaultgrow/database"
	"vaultgrow/middleware"
	"vaultgrow/services"
	"vaultgrow/utils"
)

// Creates the first admin account, or promotes an existing one.
//
//	go run ./scripts -email admin@example.com -password ... -name "Platform Admin"
func main() {
	cfg := config.LoadConfig()
	log := utils.NewLogger(cfg.LogLevel, cfg.LogFormat)

	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", "Platform Admin", "admin display name")
	phone := flag.String("phone", "", "admin phone")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("email and password are required (flags or ADMIN_EMAIL / ADMIN_PASSWORD)")
	}

	store, err := database.Connect(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to the database")
	}
	defer store.Close()

	tokens := middleware.NewTokenService(cfg.JWTKey, cfg.TokenTTL)
	svc := services.New(store.Db, services.RulesFromConfig(cfg), tokens, log)

	admin, err := svc.Credentials.EnsureAdmin(context.Background(), *name, *email, *phone, *password)
	if err != nil {
		store.Close()
		log.WithError(err).Fatal("Failed to seed admin")
	}
	log.WithField("userId", admin.ID).Info("Admin account ready")
}
