// Package pipeline provides the generation pipeline for lasercard.
//
// The pipeline turns a configuration into output artifacts in five stages:
//
//  1. Config: defaults, then the config file, then flag overrides, validated
//  2. Layout: the dovetail pin plan for both edges
//  3. Assets: logo files read and sub-paths resolved
//  4. Assemble: the card drawing tree
//  5. Render: one artifact per requested format (SVG, PDF, PNG, DXF, JSON)
//
// Nothing is written to disk here; callers store [Result.Artifacts] once the
// whole run has succeeded, so a failing stage never leaves partial output.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    ConfigPath: "card.toml",
//	    Formats:    []string{"svg", "dxf"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/dovetail"
	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/errors"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultOutput is the output file when none is given.
	DefaultOutput = "card.svg"

	// DefaultPNGDPI is the PNG resolution. 300 dpi is a common print
	// resolution and renders the reference card at 1050x600 pixels.
	DefaultPNGDPI = 300.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatPNG  = "png"
	FormatDXF  = "dxf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPDF:  true,
	FormatPNG:  true,
	FormatDXF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// ConfigPath is an optional .toml or .hcl file overlaid on the defaults.
	ConfigPath string

	// Overrides are applied after the file, before validation.
	Overrides []config.Override

	// Formats lists the artifacts to render. Defaults to svg.
	Formats []string

	// PNGDPI is the PNG resolution. Defaults to DefaultPNGDPI.
	PNGDPI float64

	// Title is written as the SVG <title> when set.
	Title string

	Logger *log.Logger

	validated bool
}

// ValidateAndSetDefaults checks the formats and applies defaults. Calling it
// more than once has no further effect.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.Formats = dedupe(o.Formats)
	if o.PNGDPI == 0 {
		o.PNGDPI = DefaultPNGDPI
	}
	if o.PNGDPI < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "png dpi must be > 0, got %g", o.PNGDPI)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Config is the effective, validated configuration.
	Config config.Config

	// Layout is the dovetail plan.
	Layout dovetail.Layout

	// Document is the assembled drawing tree.
	Document *drawing.Document

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Formats lists the rendered formats in request order.
	Formats []string

	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Pins         int
	TextLines    int
	ConfigTime   time.Duration
	LayoutTime   time.Duration
	AssetTime    time.Duration
	AssembleTime time.Duration
	RenderTime   time.Duration

	// Digests holds the SHA-256 of each artifact, keyed by format.
	Digests map[string]string
}

// Total returns the summed stage time.
func (s Stats) Total() time.Duration {
	return s.ConfigTime + s.LayoutTime + s.AssetTime + s.AssembleTime + s.RenderTime
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, pdf, png, dxf, json)", format)
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

// ParseFormats splits a comma-separated list such as "svg, dxf" into
// validated, lower-cased formats.
func ParseFormats(s string) ([]string, error) {
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			formats = append(formats, f)
		}
	}
	if len(formats) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "no output format given")
	}
	if err := ValidateFormats(formats); err != nil {
		return nil, err
	}
	return dedupe(formats), nil
}

// OutputPath returns the file an artifact of the given format is written
// to. A base ending in the format's extension is used as is; a base ending
// in another format's extension has it swapped; anything else gets the
// extension appended.
func OutputPath(base, format string) string {
	ext := filepath.Ext(base)
	switch e := strings.ToLower(strings.TrimPrefix(ext, ".")); {
	case e == format:
		return base
	case ValidFormats[e]:
		return strings.TrimSuffix(base, ext) + "." + format
	default:
		return base + "." + format
	}
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
