package cli

import (
	"bytes"
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lasercard/pkg/config"
	"github.com/matzehuels/lasercard/pkg/errors"
	"github.com/matzehuels/lasercard/pkg/export"
)

// defaultConfigFile is written by config init when no path is given.
const defaultConfigFile = "card.toml"

// configCommand groups the configuration helpers.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create configuration files",
	}
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	var flags cardFlags

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration generate would use: the defaults, overlaid with
the file given by -c and any flag overrides, after validation.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := c.newRunner().ResolveConfig(ctx, flags.options(cmd))
			if err != nil {
				return err
			}
			return config.WriteTOML(cmd.OutOrStdout(), cfg)
		},
	}
	flags.register(cmd)
	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a starter configuration with the default card",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultConfigFile
			if len(args) == 1 {
				path = args[0]
			}
			out := cmd.OutOrStdout()

			if _, err := os.Stat(path); err == nil && !force {
				printWarning(out, "%s already exists, use --force to replace it", path)
				return errors.New(errors.ErrCodeInvalidPath, "refusing to overwrite %s", path)
			}

			var buf bytes.Buffer
			if err := config.WriteTOML(&buf, config.Default()); err != nil {
				return err
			}
			if err := export.WriteFile(path, buf.Bytes()); err != nil {
				return err
			}
			printSuccess(out, "Wrote default configuration")
			printFile(out, path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}
