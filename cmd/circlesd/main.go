package main

import (
	"context"
	"fmt"
	"log"

	"circlepack/internal/config"
	"circlepack/internal/server"
	"circlepack/internal/store"
)

// ============================================================
// Circlepack Service
// ============================================================

func main() {
	cfg := config.Load()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer st.Close()

	if err := st.Init(context.Background()); err != nil {
		log.Fatalf("init db: %v", err)
	}

	app := server.New(cfg, st)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Circlepack Service on %s (env: %s, max shapes: %d)", addr, cfg.Environment, cfg.MaxShapes)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
