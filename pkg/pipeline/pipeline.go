// Package pipeline runs the load → layout → render pipeline for framegrid.
//
// The CLI and the HTTP API both go through a [Runner], so a description
// produces the same snapshot and artifacts no matter where it is submitted.
//
// # Stages
//
//  1. Load: parse a TOML (or JSON) frameset description and apply overrides
//  2. Layout: build the frameset tree, restore resize deltas and lay it out
//  3. Render: draw the snapshot in the requested formats
//
// Layout snapshots and artifacts are cached under content hashes, so
// repeating a request with the same description, size and deltas skips the
// work.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path:    "mail.toml",
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/framegrid/pkg/cache"
	"github.com/matzehuels/framegrid/pkg/config"
	"github.com/matzehuels/framegrid/pkg/core/frameset"
	"github.com/matzehuels/framegrid/pkg/errors"
	"github.com/matzehuels/framegrid/pkg/session"
	"github.com/matzehuels/framegrid/pkg/snapshot"
)

// MaxExtent bounds the layout width and height.
const MaxExtent = config.MaxViewport

// DefaultScale is the PNG resolution multiplier.
const DefaultScale = 2

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatText = "txt"
	FormatDOT  = "dot"
	FormatTree = "tree"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatText, FormatDOT, FormatTree, FormatJSON}

// Options configures a pipeline run. It is also the request body of the
// HTTP API.
type Options struct {
	// Input, exactly one of Document, Source or Path.
	Document *config.Document `json:"document,omitempty"`
	Source   string           `json:"source,omitempty"` // TOML text
	Path     string           `json:"-"`

	// Layout options. Zero width or height keeps the description's size.
	Width  int                            `json:"width,omitempty"`
	Height int                            `json:"height,omitempty"`
	Deltas map[string]frameset.AxisDeltas `json:"deltas,omitempty"`

	// Render options.
	Formats  []string `json:"formats,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`
	Scale    int      `json:"scale,omitempty"`
	Color    bool     `json:"-"`

	// Refresh bypasses cached layouts and artifacts.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result holds the outputs of a pipeline run.
type Result struct {
	Document *config.Document

	// DocHash identifies the loaded description.
	DocHash string

	Snapshot snapshot.Snapshot

	// LayoutHash identifies the snapshot and keys the artifact cache.
	LayoutHash string

	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run statistics.
type Stats struct {
	FrameCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(Formats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(Formats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateForLoad checks that exactly one input is set.
func (o *Options) ValidateForLoad() error {
	n := 0
	for _, set := range []bool{o.Document != nil, o.Source != "", o.Path != ""} {
		if set {
			n++
		}
	}
	switch n {
	case 0:
		return errors.New(errors.ErrCodeInvalidInput, "a frameset description is required")
	case 1:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "only one of document, source and path may be set")
	}
	o.setLogger()
	return nil
}

// ValidateForLayout checks the size overrides and the resize deltas.
func (o *Options) ValidateForLayout() error {
	if o.Width < 0 || o.Height < 0 || o.Width > MaxExtent || o.Height > MaxExtent {
		return errors.New(errors.ErrCodeInvalidInput, "size %dx%d out of range", o.Width, o.Height)
	}
	if err := session.ValidateDeltas(o.Deltas); err != nil {
		return err
	}
	o.setLogger()
	return nil
}

// ValidateForRender applies render defaults and checks the formats.
func (o *Options) ValidateForRender() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 || o.Scale > 8 {
		return errors.New(errors.ErrCodeInvalidInput, "scale %d out of range 1-8", o.Scale)
	}
	o.setLogger()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults validates all stages.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

func (o *Options) setLogger() {
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SourceName describes where the description came from, for logs and hooks.
func (o *Options) SourceName() string {
	switch {
	case o.Path != "":
		return o.Path
	case o.Source != "":
		return "inline"
	default:
		return "document"
	}
}

// LayoutKeyOpts returns the cache key options for a document of the given
// resolved size.
func (o *Options) LayoutKeyOpts(width, height int) cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{Width: width, Height: height, Deltas: session.HashDeltas(o.Deltas)}
}

// ArtifactKeyOpts returns the cache key options for one format. Options
// that do not affect the format are left out so they share entries.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG, FormatPDF:
		k.Labels = o.Labels
	case FormatPNG:
		k.Labels, k.Scale = o.Labels, o.Scale
	case FormatText:
		k.Color = o.Color
	case FormatDOT, FormatTree:
		k.Detailed = o.Detailed
	}
	return k
}
