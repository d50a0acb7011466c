// Package server is the HTTP front end: it renders jobs and built-in layouts
// to SVG and serves the run history.
package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"

	"circlepack/internal/config"
	"circlepack/internal/store"
)

// New builds the app with its middleware and routes.
func New(cfg *config.Config, st *store.Store) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		AppName:      "Circlepack Service",
	})
	h := NewHandler(st, cfg.MaxShapes, time.Duration(cfg.WriteTimeout)*time.Second)

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", h.Live)
	app.Get("/health/ready", h.Ready)

	// ============================================================
	// Render Routes
	// ============================================================

	app.Post("/render", h.RenderJob)
	app.Get("/layouts", h.ListLayouts)
	app.Get("/layouts/:name", h.RenderLayout)

	// ============================================================
	// Run History Routes
	// ============================================================

	app.Get("/runs", h.ListRuns)
	app.Get("/runs/:id", h.GetRun)

	return app
}
