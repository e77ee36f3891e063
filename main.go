package main

import (
	"context"
	"log"

	"github.com/outlndrr-pr/pixel-wars/internal/config"
	"github.com/outlndrr-pr/pixel-wars/internal/game"
	"github.com/outlndrr-pr/pixel-wars/internal/logging"
	"github.com/outlndrr-pr/pixel-wars/internal/server"
	"github.com/outlndrr-pr/pixel-wars/internal/storage"
)

func main() {
	log.Println("=== STARTING PIXEL WARS ===")

	cfg := config.FromEnv()
	logging.Debug = cfg.Debug

	// Optional persistence, memory-only without a DSN
	var st *storage.Store
	if cfg.DatabaseURL != "" {
		db, err := storage.New(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("Database init failed:", err)
		}
		st = storage.NewStore(db)
	} else {
		log.Println("DATABASE_URL not set, running memory-only")
	}

	// Init game state
	log.Println("Creating game...")
	g := game.New(game.Config{
		AnonCooldown: cfg.AnonCooldown,
		AuthCooldown: cfg.AuthCooldown,
	})
	if err := server.Hydrate(context.Background(), st, g); err != nil {
		log.Println("Hydration failed, starting empty:", err)
	}

	// Start broadcaster and event scheduler in background
	log.Println("Creating broadcaster...")
	broadcaster := server.NewBroadcaster(g)
	go broadcaster.Run()

	stop := make(chan struct{})
	defer close(stop)
	go g.Events.Run(stop, broadcaster.BroadcastStats)

	// Setup and start server
	log.Println("Setting up router...")
	r := server.SetupRouter(broadcaster, g, st)
	log.Printf("Server starting at port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed:", err)
	}
}
