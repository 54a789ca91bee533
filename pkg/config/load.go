package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/matzehuels/lasercard/pkg/errors"
)

// Load returns the defaults overlaid with the file at path. An empty path
// yields the defaults. The format is chosen by extension: .toml or .hcl.
//
// Relative logo paths in the file are resolved against the file's directory.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeIO, err, "stat config file %s", path)
	}

	var err error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = loadTOML(path, &cfg)
	case ".hcl":
		err = loadHCL(path, &cfg)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (must be .toml or .hcl)", ext)
	}
	if err != nil {
		return Config{}, err
	}

	dir := filepath.Dir(path)
	cfg.Logo.Asset = resolveRelative(dir, cfg.Logo.Asset)
	cfg.Logo.Image = resolveRelative(dir, cfg.Logo.Image)
	return cfg, nil
}

func resolveRelative(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// =============================================================================
// TOML
// =============================================================================

func loadTOML(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// WriteTOML encodes cfg as TOML. The output can be loaded back with [Load].
func WriteTOML(w io.Writer, cfg Config) error {
	enc := toml.NewEncoder(w)
	enc.Indent = "  "
	if err := enc.Encode(cfg); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "encode config")
	}
	return nil
}

// =============================================================================
// HCL
// =============================================================================

// hclConfig mirrors Config with optional fields so that absent attributes
// and blocks leave the defaults untouched.
type hclConfig struct {
	Card     *hclCard     `hcl:"card,block"`
	Dovetail *hclDovetail `hcl:"dovetail,block"`
	Text     *hclText     `hcl:"text,block"`
	Logo     *hclLogo     `hcl:"logo,block"`
}

type hclCard struct {
	Width  *float64 `hcl:"width,optional"`
	Height *float64 `hcl:"height,optional"`
	Radius *float64 `hcl:"radius,optional"`
	Margin *float64 `hcl:"margin,optional"`
}

type hclDovetail struct {
	Depth         *float64 `hcl:"depth,optional"`
	Count         *int     `hcl:"count,optional"`
	Angle         *float64 `hcl:"angle,optional"`
	NeckHeight    *float64 `hcl:"neck_height,optional"`
	BlindFraction *float64 `hcl:"blind_fraction,optional"`
}

type hclLine struct {
	Text      *string  `hcl:"text,optional"`
	Size      *float64 `hcl:"size,optional"`
	Y         *float64 `hcl:"y,optional"`
	SmallCaps *bool    `hcl:"small_caps,optional"`
}

type hclInfo struct {
	Lines     *[]string `hcl:"lines,optional"`
	Size      *float64  `hcl:"size,optional"`
	SmallCaps *bool     `hcl:"small_caps,optional"`
}

type hclText struct {
	FontFamily   *string  `hcl:"font_family,optional"`
	Fill         *string  `hcl:"fill,optional"`
	RightMargin  *float64 `hcl:"right_margin,optional"`
	BottomMargin *float64 `hcl:"bottom_margin,optional"`
	LineHeight   *float64 `hcl:"line_height,optional"`
	Title        *hclLine `hcl:"title,block"`
	Subtitle     *hclLine `hcl:"subtitle,block"`
	Info         *hclInfo `hcl:"info,block"`
}

type hclCircle struct {
	CX *float64 `hcl:"cx,optional"`
	CY *float64 `hcl:"cy,optional"`
	R  *float64 `hcl:"r,optional"`
}

type hclLogo struct {
	Asset     *string    `hcl:"asset,optional"`
	Image     *string    `hcl:"image,optional"`
	X         *float64   `hcl:"x,optional"`
	Y         *float64   `hcl:"y,optional"`
	Scale     *float64   `hcl:"scale,optional"`
	Width     *float64   `hcl:"width,optional"`
	Height    *float64   `hcl:"height,optional"`
	CutPaths  *[]string  `hcl:"cut_paths,optional"`
	EtchPaths *[]string  `hcl:"etch_paths,optional"`
	Strict    *bool      `hcl:"strict,optional"`
	Circle    *hclCircle `hcl:"circle,block"`
}

func loadHCL(path string, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return errors.Wrap(errors.ErrCodeInvalidConfig, diags, "parse %s", path)
	}

	var parsed hclConfig
	diags = gohcl.DecodeBody(file.Body, nil, &parsed)
	if diags.HasErrors() {
		return errors.Wrap(errors.ErrCodeInvalidConfig, diags, "decode %s", path)
	}

	parsed.apply(cfg)
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func (h hclConfig) apply(cfg *Config) {
	if c := h.Card; c != nil {
		set(&cfg.Card.Width, c.Width)
		set(&cfg.Card.Height, c.Height)
		set(&cfg.Card.Radius, c.Radius)
		set(&cfg.Card.Margin, c.Margin)
	}
	if d := h.Dovetail; d != nil {
		set(&cfg.Dovetail.Depth, d.Depth)
		set(&cfg.Dovetail.Count, d.Count)
		set(&cfg.Dovetail.Angle, d.Angle)
		set(&cfg.Dovetail.NeckHeight, d.NeckHeight)
		set(&cfg.Dovetail.BlindFraction, d.BlindFraction)
	}
	if t := h.Text; t != nil {
		set(&cfg.Text.FontFamily, t.FontFamily)
		set(&cfg.Text.Fill, t.Fill)
		set(&cfg.Text.RightMargin, t.RightMargin)
		set(&cfg.Text.BottomMargin, t.BottomMargin)
		set(&cfg.Text.LineHeight, t.LineHeight)
		t.Title.apply(&cfg.Text.Title)
		t.Subtitle.apply(&cfg.Text.Subtitle)
		if i := t.Info; i != nil {
			set(&cfg.Text.Info.Lines, i.Lines)
			set(&cfg.Text.Info.Size, i.Size)
			set(&cfg.Text.Info.SmallCaps, i.SmallCaps)
		}
	}
	if l := h.Logo; l != nil {
		set(&cfg.Logo.Asset, l.Asset)
		set(&cfg.Logo.Image, l.Image)
		set(&cfg.Logo.X, l.X)
		set(&cfg.Logo.Y, l.Y)
		set(&cfg.Logo.Scale, l.Scale)
		set(&cfg.Logo.Width, l.Width)
		set(&cfg.Logo.Height, l.Height)
		set(&cfg.Logo.CutPaths, l.CutPaths)
		set(&cfg.Logo.EtchPaths, l.EtchPaths)
		set(&cfg.Logo.Strict, l.Strict)
		if c := l.Circle; c != nil {
			set(&cfg.Logo.Circle.CX, c.CX)
			set(&cfg.Logo.Circle.CY, c.CY)
			set(&cfg.Logo.Circle.R, c.R)
		}
	}
}

func (l *hclLine) apply(dst *Line) {
	if l == nil {
		return
	}
	set(&dst.Text, l.Text)
	set(&dst.Size, l.Size)
	set(&dst.Y, l.Y)
	set(&dst.SmallCaps, l.SmallCaps)
}
