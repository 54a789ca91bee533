package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/errors"
	"github.com/matzehuels/lasercard/pkg/export"
	"github.com/matzehuels/lasercard/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"pdf", false},
		{"png", false},
		{"dxf", false},
		{"json", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "dxf"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in      string
		want    []string
		wantErr bool
	}{
		{in: "svg", want: []string{"svg"}},
		{in: "SVG, dxf ,json", want: []string{"svg", "dxf", "json"}},
		{in: "svg,svg,pdf", want: []string{"svg", "pdf"}},
		{in: "svg,,png", want: []string{"svg", "png"}},
		{in: "", wantErr: true},
		{in: " , ", wantErr: true},
		{in: "svg,eps", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseFormats(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormats(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseFormats(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		base, format, want string
	}{
		{"card.svg", "svg", "card.svg"},
		{"card.svg", "dxf", "card.dxf"},
		{"out/card.SVG", "svg", "out/card.SVG"},
		{"out/card.svg", "json", "out/card.json"},
		{"card", "png", "card.png"},
		{"maxwell.card", "pdf", "maxwell.card.pdf"},
	}
	for _, tt := range tests {
		if got := OutputPath(tt.base, tt.format); got != tt.want {
			t.Errorf("OutputPath(%q, %q) = %q, want %q", tt.base, tt.format, got, tt.want)
		}
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if diff := cmp.Diff([]string{FormatSVG}, opts.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}
	if opts.PNGDPI != DefaultPNGDPI {
		t.Errorf("PNGDPI = %g, want %g", opts.PNGDPI, DefaultPNGDPI)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Formats: []string{"svg", "json", "svg"}}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}
	first := append([]string(nil), opts.Formats...)

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}
	if diff := cmp.Diff(first, opts.Formats); diff != "" {
		t.Errorf("Formats changed on second call (-first +second):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"svg", "json"}, opts.Formats); diff != "" {
		t.Errorf("Formats should be deduplicated (-want +got):\n%s", diff)
	}
}

func TestOptionsRejectsBadInput(t *testing.T) {
	opts := Options{Formats: []string{"svg", "eps"}}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}

	opts = Options{PNGDPI: -1}
	if err := opts.ValidateAndSetDefaults(); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestHash(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Hash(nil); got != empty {
		t.Errorf("Hash(nil) = %s, want %s", got, empty)
	}
	if Hash([]byte("a")) == Hash([]byte("b")) {
		t.Error("different inputs should hash differently")
	}
}

func TestExecuteDefaults(t *testing.T) {
	runner := NewRunner(nil)
	result, err := runner.Execute(context.Background(), Options{Formats: []string{"svg", "json"}})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.Pins != 8 {
		t.Errorf("Pins = %d, want 8", result.Stats.Pins)
	}
	if result.Stats.TextLines != 6 {
		t.Errorf("TextLines = %d, want 6", result.Stats.TextLines)
	}
	if diff := cmp.Diff([]string{"svg", "json"}, result.Formats); diff != "" {
		t.Errorf("Formats mismatch (-want +got):\n%s", diff)
	}

	svg := result.Artifacts[FormatSVG]
	if !bytes.Contains(svg, []byte(`viewBox="0 0 88.9 50.8"`)) {
		t.Errorf("svg missing card viewBox:\n%.300s", svg)
	}
	if got := result.Stats.Digests[FormatSVG]; got != Hash(svg) {
		t.Errorf("svg digest = %s, want %s", got, Hash(svg))
	}

	var plan struct {
		Centers []float64 `json:"centers"`
	}
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &plan); err != nil {
		t.Fatalf("json artifact: %v", err)
	}
	if len(plan.Centers) != 4 {
		t.Errorf("centers = %v, want 4 values", plan.Centers)
	}
}

func TestExecuteIsIdempotent(t *testing.T) {
	runner := NewRunner(nil)
	opts := Options{Formats: []string{"svg", "json"}}

	a, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Stats.Digests, b.Stats.Digests); diff != "" {
		t.Errorf("digests differ between runs (-first +second):\n%s", diff)
	}
}

func TestExecuteOverrides(t *testing.T) {
	runner := NewRunner(nil)
	result, err := runner.Execute(context.Background(), Options{
		Overrides: []config.Override{config.WithPins(6), config.WithWidth(85)},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Config.Dovetail.Count != 6 || result.Config.Card.Width != 85 {
		t.Errorf("overrides not applied: %+v", result.Config)
	}
	if result.Stats.Pins != 12 {
		t.Errorf("Pins = %d, want 12", result.Stats.Pins)
	}
}

func TestExecuteConfigFile(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.svg")
	if err := os.WriteFile(logo, []byte(`<svg><path id="outer" d="M0 0 L10 10"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dir, "card.toml")
	content := `
[dovetail]
count = 3

[logo]
asset = "logo.svg"
scale = 0.5
cut_paths = ["outer"]
`
	if err := os.WriteFile(cfgFile, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(nil).Execute(context.Background(), Options{ConfigPath: cfgFile, Title: "Maxwell Made"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	svg := string(result.Artifacts[FormatSVG])
	for _, want := range []string{`id="outer"`, `d="M0 0 L10 10"`, `translate(11,18) scale(0.5)`, "<title>Maxwell Made</title>"} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %s", want)
		}
	}
}

func TestExecuteErrors(t *testing.T) {
	dir := t.TempDir()
	logo := filepath.Join(dir, "logo.svg")
	if err := os.WriteFile(logo, []byte(`<svg><path id="outer" d="M0 0"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	strictMissing := filepath.Join(dir, "strict.toml")
	if err := os.WriteFile(strictMissing, []byte("[logo]\nasset = \"logo.svg\"\ncut_paths = [\"outer\", \"rim\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"one pin", Options{Overrides: []config.Override{config.WithPins(1)}}, errors.ErrCodeInvalidConfig},
		{"missing config", Options{ConfigPath: filepath.Join(dir, "none.toml")}, errors.ErrCodeFileNotFound},
		{"bad format", Options{Formats: []string{"eps"}}, errors.ErrCodeInvalidFormat},
		{"strict missing sub-path", Options{ConfigPath: strictMissing}, errors.ErrCodeAssetNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NewRunner(nil).Execute(context.Background(), tt.opts)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Execute() error = %v, want %s", err, tt.code)
			}
			if result != nil {
				t.Error("Execute() should return no result on error")
			}
		})
	}
}

func TestExecuteLenientMissingSubPath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "logo.svg"), []byte(`<svg><path id="outer" d="M0 0"/></svg>`), 0644); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dir, "card.toml")
	if err := os.WriteFile(cfgFile, []byte("[logo]\nasset = \"logo.svg\"\ncut_paths = [\"outer\", \"rim\"]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := NewRunner(nil).Execute(context.Background(), Options{
		ConfigPath: cfgFile,
		Overrides:  []config.Override{config.WithLenientLogo()},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if svg := result.Artifacts[FormatSVG]; bytes.Contains(svg, []byte(`id="rim"`)) {
		t.Error("missing sub-path should be skipped")
	}
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewRunner(nil).Execute(ctx, Options{})
	if err != context.Canceled {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
}

func TestRenderPDFWithoutConverter(t *testing.T) {
	if export.Available() {
		t.Skip("rsvg-convert is installed")
	}
	_, err := NewRunner(nil).Execute(context.Background(), Options{Formats: []string{"svg", "pdf"}})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("Execute() error = %v, want UNSUPPORTED", err)
	}
}

func TestExecuteExamples(t *testing.T) {
	tests := []struct {
		file string
		pins int
		want []string
	}{
		{"card.toml", 8, []string{`id="rim"`, `id="shaving"`, "Maxwell Made"}},
		{"card.hcl", 12, []string{`id="rim"`, ".com", "maxwellmade.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			result, err := NewRunner(nil).Execute(context.Background(), Options{
				ConfigPath: filepath.Join("..", "..", "examples", tt.file),
			})
			if err != nil {
				t.Fatalf("Execute() error = %v", err)
			}
			if result.Stats.Pins != tt.pins {
				t.Errorf("Pins = %d, want %d", result.Stats.Pins, tt.pins)
			}
			svg := string(result.Artifacts[FormatSVG])
			for _, want := range tt.want {
				if !strings.Contains(svg, want) {
					t.Errorf("svg missing %s", want)
				}
			}
		})
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu        sync.Mutex
	started   []string
	completed []string
	failed    []string
	artifacts []string
}

func (h *recordingHooks) OnStageStart(_ context.Context, stage string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.started = append(h.started, stage)
}

func (h *recordingHooks) OnStageComplete(_ context.Context, stage string, _ time.Duration, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.completed = append(h.completed, stage)
	if err != nil {
		h.failed = append(h.failed, stage)
	}
}

func (h *recordingHooks) OnArtifact(_ context.Context, format string, size int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if size > 0 {
		h.artifacts = append(h.artifacts, format)
	}
}

func TestExecuteReportsStages(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	t.Cleanup(observability.Reset)

	if _, err := NewRunner(nil).Execute(context.Background(), Options{Formats: []string{"json", "svg"}}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	stages := []string{StageConfig, StageLayout, StageAssets, StageAssemble, StageRender}
	if diff := cmp.Diff(stages, hooks.started); diff != "" {
		t.Errorf("started mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(stages, hooks.completed); diff != "" {
		t.Errorf("completed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"json", "svg"}, hooks.artifacts); diff != "" {
		t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
	}

	// A failing layout stops the run after reporting the failure.
	hooks = &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	_, err := NewRunner(nil).Execute(context.Background(), Options{
		Overrides: []config.Override{config.WithPins(1)},
	})
	if err == nil {
		t.Fatal("Execute() with one pin should fail")
	}
	if diff := cmp.Diff([]string{StageConfig}, hooks.failed); diff != "" {
		t.Errorf("failed mismatch (-want +got):\n%s", diff)
	}
}
