// Package pipeline provides the document → SVG → raster pipeline for boxsvg.
//
// This package implements the complete parse → layout → render pipeline that
// is shared by the CLI and the HTTP API, so caching, defaults and format
// handling behave the same for every entry point.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Read a JSON document (file, bytes or an in-memory tree)
//  2. Layout: Resolve the box of every node (only materialized for JSON output)
//  3. Render: Generate output in various formats (SVG, PNG, PDF, JSON)
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "card.json",
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/boxsvg/pkg/cache"
	"github.com/matzehuels/boxsvg/pkg/errors"
	"github.com/matzehuels/boxsvg/pkg/node"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the viewport width used when neither the options nor
	// the document set one. 1200x630 is the common social preview size.
	DefaultWidth = 1200.0

	// DefaultHeight is the default viewport height in pixels.
	DefaultHeight = 630.0

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0

	// DefaultConcurrency bounds how many sibling subtrees render at once.
	DefaultConcurrency = 4
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input options. Exactly one source is used, in this order.
	Document *node.Document `json:"document,omitempty"`
	Data     []byte         `json:"-"` // raw JSON document
	Input    string         `json:"-"` // path to a JSON document

	// Viewport overrides; zero keeps the document's value.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Text options; set values override the document's.
	Locale         string            `json:"locale,omitempty"`
	GraphemeImages map[string]string `json:"grapheme_images,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	EmbedFonts  bool     `json:"embed_fonts,omitempty"`
	Concurrency int      `json:"concurrency,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed document with option overrides applied.
	Document *node.Document

	// DocHash is the content hash of Document, the artifact cache key base.
	DocHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	ParseTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == nil && len(o.Data) == 0 && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "document, data or input path is required")
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "viewport size must not be negative")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// Apply writes the option overrides into doc and fills in the default
// viewport.
func (o *Options) Apply(doc *node.Document) {
	if o.Width > 0 {
		doc.Width = o.Width
	}
	if o.Height > 0 {
		doc.Height = o.Height
	}
	if doc.Width == 0 {
		doc.Width = DefaultWidth
	}
	if doc.Height == 0 {
		doc.Height = DefaultHeight
	}
	if o.Locale != "" {
		doc.Locale = o.Locale
	}
	if len(o.GraphemeImages) > 0 {
		doc.GraphemeImages = o.GraphemeImages
	}
}

// ArtifactKeyOpts returns cache key options for one artifact of doc.
// fonts identifies the registered font set.
func (o *Options) ArtifactKeyOpts(doc *node.Document, format, fonts string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:     format,
		Width:      doc.Width,
		Height:     doc.Height,
		EmbedFonts: o.EmbedFonts,
		Locale:     doc.Locale,
		Fonts:      fonts,
	}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	return k
}

// DocumentHash returns the content hash of doc.
func DocumentHash(doc *node.Document) (string, error) {
	var buf bytes.Buffer
	if err := node.WriteJSON(doc, &buf); err != nil {
		return "", fmt.Errorf("hash document: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}
