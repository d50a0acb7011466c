package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"circlepack/internal/geometry"
	"circlepack/internal/job"
	"circlepack/internal/layout"
	"circlepack/internal/pack"
	"circlepack/internal/store"
	"circlepack/internal/svg"
)

const (
	DEFAULT_RUNS_LIMIT = 20
	MAX_RUNS_LIMIT     = 100
)

// ============================================================
// Render Handler
// ============================================================

type Handler struct {
	store     *store.Store
	maxShapes int
	timeout   time.Duration
}

func NewHandler(st *store.Store, maxShapes int, timeout time.Duration) *Handler {
	return &Handler{
		store:     st,
		maxShapes: maxShapes,
		timeout:   timeout,
	}
}

func seedFrom(s string) (int64, error) {
	if s == "" {
		return time.Now().UnixNano(), nil
	}
	return strconv.ParseInt(s, 10, 64)
}

// sendScene writes the scene as SVG and records the run.
func (h *Handler) sendScene(c fiber.Ctx, source string, seed int64, scene *geometry.Scene, requested, placed int, page svg.Page) error {
	var buf bytes.Buffer
	if err := svg.Write(&buf, scene, page); err != nil {
		log.Printf("[RENDER] Write error: %v", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	id := uuid.NewString()
	run := store.Run{
		ID:        id,
		Source:    source,
		Seed:      seed,
		Requested: requested,
		Placed:    placed,
		Shapes:    scene.Len(),
	}
	if err := h.store.Record(context.Background(), run); err != nil {
		log.Printf("[RENDER] Failed to record run %s: %v", id, err)
	}

	log.Printf("[RENDER] %s run=%s placed %d/%d", source, id, placed, requested)
	c.Set("X-Run-ID", id)
	c.Set("Content-Type", "image/svg+xml")
	return c.Send(buf.Bytes())
}

// RenderJob packs a JSON or YAML job document and returns the page as SVG.
func (h *Handler) RenderJob(c fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "body required"})
	}

	j, err := job.Parse(body, job.FormatFor(c.Get("Content-Type")))
	if err != nil {
		log.Printf("[RENDER] Parse error: %v", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if n := j.Requested(); n > h.maxShapes {
		return c.Status(http.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error":     "too many circles requested",
			"requested": n,
			"limit":     h.maxShapes,
		})
	}

	seed := time.Now().UnixNano()
	if j.Seed != nil {
		seed = *j.Seed
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()
	res, err := job.Run(ctx, j, pack.NewSeeded(seed))
	if err != nil {
		log.Printf("[RENDER] Run error: %v", err)
		if errors.Is(err, context.DeadlineExceeded) {
			return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"error": "render timed out"})
		}
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	requested, placed := res.Totals()
	source := "job"
	if j.Name != "" {
		source = "job:" + j.Name
	}
	return h.sendScene(c, source, seed, res.Scene, requested, placed, j.Page.SVG())
}

// ============================================================
// Layout Handlers
// ============================================================

func (h *Handler) ListLayouts(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"layouts": layout.Names()})
}

// RenderLayout returns a built-in layout as SVG. ?seed= fixes the packing.
func (h *Handler) RenderLayout(c fiber.Ctx) error {
	name := c.Params("name")
	seed, err := seedFrom(c.Query("seed"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid seed"})
	}

	scene, tally, err := layout.Build(name, pack.NewSeeded(seed))
	if err != nil {
		if errors.Is(err, layout.ErrUnknownLayout) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		log.Printf("[RENDER] Layout %s error: %v", name, err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return h.sendScene(c, "layout:"+name, seed, scene, tally.Requested, tally.Placed, svg.A4())
}

// ============================================================
// Run History Handlers
// ============================================================

func (h *Handler) GetRun(c fiber.Ctx) error {
	run, err := h.store.Get(context.Background(), c.Params("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "run not found"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(run)
}

// ListRuns returns the most recent runs, ?limit= of them.
func (h *Handler) ListRuns(c fiber.Ctx) error {
	limit := DEFAULT_RUNS_LIMIT
	if q := c.Query("limit"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "invalid limit"})
		}
		limit = min(n, MAX_RUNS_LIMIT)
	}

	runs, err := h.store.Recent(context.Background(), limit)
	if err != nil {
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"runs": runs})
}

// ============================================================
// Health Check Handlers
// ============================================================

func (h *Handler) Live(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "alive"})
}

// Ready reports whether the run store answers.
func (h *Handler) Ready(c fiber.Ctx) error {
	if err := h.store.Ping(context.Background()); err != nil {
		return c.Status(http.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "error": err.Error()})
	}
	return c.JSON(fiber.Map{"status": "ready"})
}
