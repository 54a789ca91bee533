package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lasercard/pkg/buildinfo"
	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "lasercard"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance logging to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Lasercard generates laser-cut business cards",
		Long: `Lasercard generates the artwork for a laser-cut business card: a rounded
outline with interlocking dovetail pins along both short edges, contact text
and an embedded logo. Cut and etch operations are told apart by style so the
laser software can map them to power settings.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.pinsCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// =============================================================================
// Card Flags
// =============================================================================

// cardFlags are the configuration overrides shared by every command that
// resolves a configuration. A flag only overrides the file when it was set.
type cardFlags struct {
	configPath string
	width      float64
	height     float64
	radius     float64
	pins       int
	depth      float64
	angle      float64
	neck       float64
	blind      float64
	lenient    bool
}

func (f *cardFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.configPath, "config", "c", "", "configuration file (.toml or .hcl)")
	fs.Float64Var(&f.width, "width", config.DefaultWidth, "card width in mm")
	fs.Float64Var(&f.height, "height", config.DefaultHeight, "card height in mm")
	fs.Float64Var(&f.radius, "radius", config.DefaultRadius, "corner radius in mm")
	fs.IntVar(&f.pins, "pins", config.DefaultPinCount, "dovetail pins per edge")
	fs.Float64Var(&f.depth, "depth", config.DefaultPinDepth, "pin depth in mm")
	fs.Float64Var(&f.angle, "angle", config.DefaultPinAngle, "pin taper half-angle in degrees")
	fs.Float64Var(&f.neck, "neck", config.DefaultNeckHeight, "pin neck height in mm")
	fs.Float64Var(&f.blind, "blind", config.DefaultBlindFraction, "share of the pin depth left as backing")
	fs.BoolVar(&f.lenient, "lenient", false, "skip missing logo sub-paths instead of failing")
}

// overrides returns the adjustments for the flags the user set.
func (f *cardFlags) overrides(cmd *cobra.Command) []config.Override {
	changed := cmd.Flags().Changed
	var out []config.Override
	add := func(flag string, o config.Override) {
		if changed(flag) {
			out = append(out, o)
		}
	}
	add("width", config.WithWidth(f.width))
	add("height", config.WithHeight(f.height))
	add("radius", config.WithRadius(f.radius))
	add("pins", config.WithPins(f.pins))
	add("depth", config.WithDepth(f.depth))
	add("angle", config.WithAngle(f.angle))
	add("neck", config.WithNeck(f.neck))
	add("blind", config.WithBlind(f.blind))
	if f.lenient {
		out = append(out, config.WithLenientLogo())
	}
	return out
}

// options returns pipeline options carrying the config file and overrides.
func (f *cardFlags) options(cmd *cobra.Command) pipeline.Options {
	return pipeline.Options{
		ConfigPath: f.configPath,
		Overrides:  f.overrides(cmd),
	}
}
