package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"

	"circlepack/internal/config"
	"circlepack/internal/store"
)

const jobJSON = `{"name":"square","seed":3,"panels":[{
	"shapes":[{"kind":"rect","origin":{"x":0,"y":0},"size":{"x":50,"y":50}}],
	"packs":[{"min":{"x":0,"y":0},"max":{"x":50,"y":50},"count":6,"radius":4,"space":1}]}]}`

const jobYAML = `
seed: 3
panels:
  - packs:
      - {min: {x: 0, y: 0}, max: {x: 40, y: 40}, count: 4, radius: 3}
`

func newTestApp(t *testing.T, maxShapes int) *fiber.App {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "circles.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	cfg := &config.Config{ReadTimeout: 5, WriteTimeout: 5, MaxShapes: maxShapes}
	return New(cfg, st)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, string) {
	t.Helper()
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(body)
}

func post(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	return req
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, 100)
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp, body := do(t, app, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d: %s", path, resp.StatusCode, body)
		}
	}
}

func TestRenderJSONJob(t *testing.T) {
	app := newTestApp(t, 100)
	resp, body := do(t, app, post(jobJSON, "application/json"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("Unexpected content type %q", ct)
	}
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "<rect") || !strings.Contains(body, "<circle") {
		t.Errorf("Unexpected document:\n%s", body)
	}

	id := resp.Header.Get("X-Run-ID")
	if id == "" {
		t.Fatal("Missing X-Run-ID")
	}
	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/runs/"+id, nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected the run to be recorded, got %d", resp.StatusCode)
	}
	var run store.Run
	if err := json.Unmarshal([]byte(body), &run); err != nil {
		t.Fatal(err)
	}
	if run.Source != "job:square" || run.Seed != 3 || run.Requested != 6 {
		t.Errorf("Unexpected run %+v", run)
	}
	if run.Shapes != run.Placed+1 {
		t.Errorf("Expected outline plus %d circles, got %d shapes", run.Placed, run.Shapes)
	}
}

func TestRenderYAMLJob(t *testing.T) {
	app := newTestApp(t, 100)
	resp, body := do(t, app, post(jobYAML, "application/yaml"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", resp.StatusCode, body)
	}
}

func TestRenderRejects(t *testing.T) {
	app := newTestApp(t, 5)
	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty", "", http.StatusBadRequest},
		{"broken", `{"panels":`, http.StatusBadRequest},
		{"schema", `{"panels":[{"packs":[{"count":1}]}]}`, http.StatusBadRequest},
		{"too many", jobJSON, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, app, post(tt.body, "application/json"))
			if resp.StatusCode != tt.want {
				t.Errorf("Expected %d, got %d: %s", tt.want, resp.StatusCode, body)
			}
		})
	}
}

func TestRenderLayout(t *testing.T) {
	app := newTestApp(t, 100)
	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/layouts/hexnet?seed=1", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "<polyline") {
		t.Errorf("Unexpected hexnet response %d:\n%s", resp.StatusCode, body)
	}

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/layouts/spiral", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown layout, got %d", resp.StatusCode)
	}
	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/layouts/tab?seed=x", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad seed, got %d", resp.StatusCode)
	}

	resp, body = do(t, app, httptest.NewRequest(http.MethodGet, "/layouts", nil))
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "hexnet") {
		t.Errorf("Unexpected layout list %d: %s", resp.StatusCode, body)
	}
}

func TestRuns(t *testing.T) {
	app := newTestApp(t, 100)
	resp, _ := do(t, app, httptest.NewRequest(http.MethodGet, "/runs/missing", nil))
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", resp.StatusCode)
	}

	do(t, app, httptest.NewRequest(http.MethodGet, "/layouts/hexnet", nil))
	do(t, app, post(jobYAML, "application/yaml"))

	resp, body := do(t, app, httptest.NewRequest(http.MethodGet, "/runs?limit=1", nil))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	var list struct {
		Runs []store.Run `json:"runs"`
	}
	if err := json.Unmarshal([]byte(body), &list); err != nil {
		t.Fatal(err)
	}
	if len(list.Runs) != 1 || list.Runs[0].Source != "job" {
		t.Errorf("Expected the latest job run, got %+v", list.Runs)
	}

	resp, _ = do(t, app, httptest.NewRequest(http.MethodGet, "/runs?limit=-2", nil))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad limit, got %d", resp.StatusCode)
	}
}
