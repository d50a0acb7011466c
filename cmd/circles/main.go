package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"circlepack/internal/geometry"
	"circlepack/internal/job"
	"circlepack/internal/layout"
	"circlepack/internal/pack"
	"circlepack/internal/plot"
	"circlepack/internal/preview"
	"circlepack/internal/raster"
	"circlepack/internal/script"
	"circlepack/internal/store"
	"circlepack/internal/svg"
)

type options struct {
	layout   string
	job      string
	script   string
	out      string
	html     bool
	png      string
	preview  bool
	seed     int64
	optimize bool
	db       string
	verbose  bool
}

// drawing is a built scene plus what it took to pack it.
type drawing struct {
	source string
	seed   int64
	scene  *geometry.Scene
	page   svg.Page
	rows   []preview.Row
}

func (d *drawing) totals() (requested, placed int) {
	for _, r := range d.rows {
		requested += r.Requested
		placed += r.Placed
	}
	return requested, placed
}

func main() {
	var opts options
	flag.StringVar(&opts.layout, "layout", "", "Built-in layout to draw ("+strings.Join(layout.Names(), "|")+")")
	flag.StringVar(&opts.job, "job", "", "Job file to run (.yaml, .yml or .json)")
	flag.StringVar(&opts.script, "script", "", "Lua script to run")
	flag.StringVar(&opts.out, "o", "circles.svg", "Output SVG file (- for stdout)")
	flag.BoolVar(&opts.html, "html", false, "Wrap the SVG in a minimal HTML page")
	flag.StringVar(&opts.png, "png", "", "Also write a PNG preview to this file")
	flag.BoolVar(&opts.preview, "preview", false, "Draw the result in the terminal")
	flag.Int64Var(&opts.seed, "seed", 0, "Random seed (0 picks one from the clock)")
	flag.BoolVar(&opts.optimize, "optimize", false, "Drop duplicates and reorder shapes for pen plotting")
	flag.StringVar(&opts.db, "db", "", "Record the run in this SQLite database")
	flag.BoolVar(&opts.verbose, "v", false, "Verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `circles - circle packed line art

Usage:
  circles -layout tabs [options]
  circles -job page.yaml [options]
  circles -script page.lua [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  circles -layout tabs -seed 42 -o tabs.svg -preview
  circles -job page.yaml -optimize -png page.png -v
`)
	}

	flag.Parse()

	sources := 0
	for _, s := range []string{opts.layout, opts.job, opts.script} {
		if s != "" {
			sources++
		}
	}
	if sources != 1 {
		fmt.Fprintln(os.Stderr, "Error: exactly one of -layout, -job or -script is required")
		flag.Usage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, shutting down...")
		cancel()
	}()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	var logger *log.Logger
	if opts.verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	seed := opts.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	d, err := build(ctx, opts, seed, logger)
	if err != nil {
		return err
	}

	if opts.optimize {
		scene := plot.RemoveDuplicates(d.scene, logger)
		scene = plot.Join(scene, logger)
		var stats plot.Stats
		d.scene, stats = plot.Optimize(scene, logger)
		if logger != nil {
			logger.Printf("Pen-up travel before/after Optimize: %.2f / %.2f", stats.Before, stats.After)
		}
	}

	if err := writeOutput(opts, d); err != nil {
		return err
	}
	if opts.png != "" {
		if err := writeFile(opts.png, func(w io.Writer) error {
			return raster.WritePNG(w, d.scene, raster.DefaultOptions())
		}); err != nil {
			return err
		}
	}
	if opts.db != "" {
		if err := record(ctx, opts.db, d); err != nil {
			return err
		}
	}

	if opts.preview {
		fmt.Println(preview.Render(d.scene, preview.Options{Title: d.source}))
	}
	fmt.Println(preview.Summary(fmt.Sprintf("%s (seed %d)", d.source, d.seed), d.rows))
	return nil
}

// build draws the selected source. A job's own seed wins unless -seed was
// given.
func build(ctx context.Context, opts options, seed int64, logger *log.Logger) (*drawing, error) {
	p := pack.NewSeeded(seed).SetLogger(logger)
	switch {
	case opts.layout != "":
		scene, tally, err := layout.Build(opts.layout, p)
		if err != nil {
			return nil, err
		}
		return &drawing{
			source: "layout:" + opts.layout,
			seed:   seed,
			scene:  scene,
			page:   svg.A4(),
			rows:   []preview.Row{{Label: opts.layout, Requested: tally.Requested, Placed: tally.Placed}},
		}, nil

	case opts.job != "":
		j, err := job.Load(opts.job)
		if err != nil {
			return nil, err
		}
		if j.Seed != nil && opts.seed == 0 {
			seed = *j.Seed
			p = pack.NewSeeded(seed).SetLogger(logger)
		}
		res, err := job.Run(ctx, j, p)
		if err != nil {
			return nil, err
		}
		d := &drawing{source: "job:" + opts.job, seed: seed, scene: res.Scene, page: j.Page.SVG()}
		for _, s := range res.Stats {
			d.rows = append(d.rows, preview.Row{
				Label:     fmt.Sprintf("panel %d r=%g", s.Panel, s.Radius),
				Requested: s.Requested,
				Placed:    s.Placed,
			})
		}
		return d, nil

	default:
		r := script.New(p).SetLogger(logger)
		defer r.Close()
		scene, err := r.RunFile(ctx, opts.script)
		if err != nil {
			return nil, err
		}
		tally := r.Tally()
		return &drawing{
			source: "script:" + opts.script,
			seed:   seed,
			scene:  scene,
			page:   svg.A4(),
			rows:   []preview.Row{{Label: "script", Requested: tally.Requested, Placed: tally.Placed}},
		}, nil
	}
}

func writeOutput(opts options, d *drawing) error {
	write := func(w io.Writer) error {
		if opts.html {
			return svg.WriteHTML(w, d.scene, d.page)
		}
		return svg.Write(w, d.scene, d.page)
	}
	if opts.out == "-" {
		return write(os.Stdout)
	}
	return writeFile(opts.out, write)
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("error writing %s: %w", path, err)
	}
	return f.Close()
}

func record(ctx context.Context, path string, d *drawing) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()
	if err := st.Init(ctx); err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	requested, placed := d.totals()
	err = st.Record(ctx, store.Run{
		ID:        uuid.NewString(),
		Source:    d.source,
		Seed:      d.seed,
		Requested: requested,
		Placed:    placed,
		Shapes:    d.scene.Len(),
	})
	return err
}
