// Package job reads packing jobs: a page and a list of panels, each with
// fixed shapes and packing passes. Jobs are YAML or JSON and are checked
// against an embedded JSON Schema before use.
package job

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatFor picks a format from a file name or content type; anything that
// does not mention yaml is JSON.
func FormatFor(name string) Format {
	n := strings.ToLower(name)
	if strings.HasSuffix(n, ".yaml") || strings.HasSuffix(n, ".yml") || strings.Contains(n, "yaml") {
		return FormatYAML
	}
	return FormatJSON
}

var ErrInvalidJob = errors.New("invalid job")

type XY struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Style struct {
	Fill        string   `json:"fill,omitempty"`
	Stroke      string   `json:"stroke,omitempty"`
	StrokeWidth *float64 `json:"strokeWidth,omitempty"`
}

type Page struct {
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	Units       string  `json:"units,omitempty"`
	StrokeUnits string  `json:"strokeUnits,omitempty"`
	Digits      *int    `json:"digits,omitempty"`
	ViewBox     string  `json:"viewBox,omitempty"`
	Stylesheet  string  `json:"stylesheet,omitempty"`
}

type Shape struct {
	Kind   string  `json:"kind"`
	Center XY      `json:"center"`
	Radius float64 `json:"radius,omitempty"`
	Origin XY      `json:"origin"`
	Size   XY      `json:"size"`
	RX     float64 `json:"rx,omitempty"`
	RY     float64 `json:"ry,omitempty"`
	Start  XY      `json:"start"`
	End    XY      `json:"end"`
	Points []XY    `json:"points,omitempty"`
	Style  *Style  `json:"style,omitempty"`
}

type Gradient struct {
	From XY `json:"from"`
	To   XY `json:"to"`
}

type Pack struct {
	Min        XY        `json:"min"`
	Max        XY        `json:"max"`
	Count      int       `json:"count"`
	Radius     float64   `json:"radius"`
	Space      *float64  `json:"space,omitempty"`
	Tries      *int      `json:"tries,omitempty"`
	Crosshairs bool      `json:"crosshairs,omitempty"`
	Gradient   *Gradient `json:"gradient,omitempty"`
	Style      *Style    `json:"style,omitempty"`
}

type Panel struct {
	Name   string  `json:"name,omitempty"`
	Offset XY      `json:"offset"`
	Shapes []Shape `json:"shapes,omitempty"`
	Packs  []Pack  `json:"packs,omitempty"`
}

type Job struct {
	Name   string  `json:"name,omitempty"`
	Seed   *int64  `json:"seed,omitempty"`
	Page   Page    `json:"page"`
	Panels []Panel `json:"panels"`
}

// Requested is the number of circles all packs ask for together.
func (j *Job) Requested() int {
	n := 0
	for _, panel := range j.Panels {
		for _, p := range panel.Packs {
			n += p.Count
		}
	}
	return n
}

//go:embed schema.json
var schemaJSON []byte

const SCHEMA_URL = "mem://circlepack/job.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(SCHEMA_URL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add job schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile(SCHEMA_URL)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("failed to compile job schema: %w", schemaErr)
		}
	})
	return schema, schemaErr
}

// toJSON turns a YAML document into JSON so both formats are validated and
// decoded the same way.
func toJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return json.Marshal(doc)
}

// Parse decodes and validates a job document.
func Parse(data []byte, format Format) (*Job, error) {
	if format == FormatYAML {
		converted, err := toJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%w: yaml: %v", ErrInvalidJob, err)
		}
		data = converted
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: json: %v", ErrInvalidJob, err)
	}

	s, err := compiledSchema()
	if err != nil {
		return nil, err
	}
	if err := s.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}
	return &j, nil
}

// Load reads a job file, choosing the format by extension.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job: %w", err)
	}
	j, err := Parse(data, FormatFor(filepath.Ext(path)))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return j, nil
}
