package main

import (
	"log"
	"net/http"
	"time"

	"parcel-tracking-service/internal/adapters/auth"
	"parcel-tracking-service/internal/adapters/presence"
	"parcel-tracking-service/internal/adapters/repositories"
	"parcel-tracking-service/internal/api"
	"parcel-tracking-service/internal/config"
	"parcel-tracking-service/internal/platform/db"
	"parcel-tracking-service/internal/ports"
	"parcel-tracking-service/internal/realtime"
	"parcel-tracking-service/internal/services"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, JWT) behind ports and starts
// the HTTP server with the websocket endpoint mounted alongside the REST API.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	database, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	// Initialize schema and seed the office directory on startup for local runs.
	if err := repositories.InitSchema(database); err != nil {
		log.Fatal(err)
	}
	if err := repositories.SeedFromJSON(database, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	parcelRepo := repositories.NewPostgresParcelRepository(database)
	statusHistory := repositories.NewPostgresStatusHistory(database)
	messageRepo := repositories.NewPostgresMessageRepository(database)
	userRepo := repositories.NewPostgresUserRepository(database)
	officeRepo := repositories.NewPostgresOfficeRepository(database)

	hub := realtime.NewHub()

	// Presence lives in-process by default; point REDIS_ADDR at a Redis
	// instance to share it across replicas.
	var presenceStore ports.PresenceStore = realtime.NewTracker()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		presenceStore = presence.NewRedisStore(client)
		log.Printf("Presence tracking addr=%s backend=redis", cfg.RedisAddr)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)

	audit := &services.BestEffortAudit{Ledger: statusHistory}
	registry := &services.ParcelRegistry{Repo: parcelRepo, Audit: audit, Events: hub}
	messages := &services.MessageStore{Repo: messageRepo, Users: userRepo, Events: hub}

	ws := &realtime.Handler{
		Hub:      hub,
		Presence: presenceStore,
		Authenticate: func(token string) error {
			_, err := tokens.Verify(token)
			return err
		},
	}

	router := api.NewRouter(api.Deps{
		Parcels:  registry,
		Messages: messages,
		Users:    userRepo,
		Offices:  officeRepo,
		Tokens:   tokens,
		Realtime: ws,
	})

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// WriteTimeout stays zero so websocket connections are not cut off.
		IdleTimeout: 60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
