package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lasercard/pkg/card"
	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/dovetail"
	"github.com/matzehuels/lasercard/pkg/drawing"
	"github.com/matzehuels/lasercard/pkg/observability"
)

// Runner executes the pipeline. It holds no state besides the logger, so one
// Runner can serve any number of runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default is used.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Pipeline stage names reported to the observability hooks.
const (
	StageConfig   = "config"
	StageLayout   = "layout"
	StageAssets   = "assets"
	StageAssemble = "assemble"
	StageRender   = "render"
)

// Execute runs the complete config → layout → assets → assemble → render
// pipeline. Cancellation is checked between stages.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	result := &Result{}
	hooks := observability.Pipeline()

	// Stage 1: Config
	var cfg config.Config
	err := stage(ctx, StageConfig, &result.Stats.ConfigTime, func() (err error) {
		cfg, err = r.ResolveConfig(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Config = cfg

	// Stage 2: Layout
	var plan dovetail.Layout
	err = stage(ctx, StageLayout, &result.Stats.LayoutTime, func() (err error) {
		plan, err = r.ComputeLayout(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Layout = plan
	result.Stats.Pins = len(plan.Left) + len(plan.Right)

	r.Logger.Debug("computed dovetails",
		"pins", result.Stats.Pins,
		"blind", plan.Blind,
		"large", plan.Large,
		"spacing", plan.Spacing)

	// Stage 3: Assets
	var assets card.Assets
	err = stage(ctx, StageAssets, &result.Stats.AssetTime, func() (err error) {
		assets, err = r.LoadAssets(ctx, cfg)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Stage 4: Assemble
	var doc *drawing.Document
	err = stage(ctx, StageAssemble, &result.Stats.AssembleTime, func() (err error) {
		doc, err = r.Assemble(ctx, cfg, plan, assets)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Document = doc
	if text := doc.Find(card.TextGroupID); text != nil {
		result.Stats.TextLines = len(text.Children)
	}

	// Stage 5: Render
	var artifacts map[string][]byte
	err = stage(ctx, StageRender, &result.Stats.RenderTime, func() (err error) {
		artifacts, err = r.Render(ctx, result, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Formats = opts.Formats
	result.Stats.Digests = make(map[string]string, len(artifacts))
	for _, format := range opts.Formats {
		data := artifacts[format]
		result.Stats.Digests[format] = Hash(data)
		hooks.OnArtifact(ctx, format, len(data))
	}

	r.Logger.Info("rendered card",
		"formats", opts.Formats,
		"duration", result.Stats.Total())

	return result, nil
}

// stage runs fn as the named stage, storing its duration in elapsed and
// reporting it to the pipeline hooks.
func stage(ctx context.Context, name string, elapsed *time.Duration, fn func() error) error {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*elapsed = time.Since(start)
	hooks.OnStageComplete(ctx, name, *elapsed, err)
	return err
}

// ResolveConfig builds and validates the effective configuration.
func (r *Runner) ResolveConfig(ctx context.Context, opts Options) (config.Config, error) {
	if err := ctx.Err(); err != nil {
		return config.Config{}, err
	}
	cfg, err := config.Resolve(opts.ConfigPath, opts.Overrides...)
	if err != nil {
		return config.Config{}, err
	}
	if opts.ConfigPath != "" {
		r.Logger.Debug("loaded config", "path", opts.ConfigPath)
	}
	if cfg.Logo.Mode() == config.LogoNone {
		r.Logger.Warn("no logo configured, the card will have text only")
	}
	return cfg, nil
}

// ComputeLayout computes the dovetail plan for cfg.
func (r *Runner) ComputeLayout(ctx context.Context, cfg config.Config) (dovetail.Layout, error) {
	if err := ctx.Err(); err != nil {
		return dovetail.Layout{}, err
	}
	return dovetail.Compute(cfg.Card, cfg.Dovetail)
}

// LoadAssets reads the logo files cfg refers to.
func (r *Runner) LoadAssets(ctx context.Context, cfg config.Config) (card.Assets, error) {
	if err := ctx.Err(); err != nil {
		return card.Assets{}, err
	}
	assets, err := card.LoadAssets(cfg.Logo)
	if err != nil {
		return card.Assets{}, err
	}
	switch {
	case assets.Raster != nil:
		r.Logger.Debug("loaded raster logo",
			"format", assets.Raster.Format,
			"size", assets.Raster.Width*assets.Raster.Height,
			"bytes", len(assets.Raster.Data))
	case cfg.Logo.Mode() == config.LogoVector:
		r.Logger.Debug("loaded vector logo",
			"cut", len(assets.Cut),
			"etch", len(assets.Etch),
			"missing", len(assets.Missing))
	}
	return assets, nil
}

// Assemble builds the card drawing tree.
func (r *Runner) Assemble(ctx context.Context, cfg config.Config, plan dovetail.Layout, assets card.Assets) (*drawing.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return card.Assemble(cfg, plan, assets, r.Logger)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
