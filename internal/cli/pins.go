package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

type pinsOpts struct {
	card cardFlags
	json bool
}

// pinsCommand prints the dovetail plan without rendering anything.
func (c *CLI) pinsCommand() *cobra.Command {
	var opts pinsOpts

	cmd := &cobra.Command{
		Use:   "pins",
		Short: "Print the dovetail pin plan",
		Long: `Print the dovetail plan for the effective configuration: neck and tip
heights, spacing, and where each pin sits on both edges.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPins(cmd, &opts)
		},
	}

	opts.card.register(cmd)
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the plan as JSON")
	return cmd
}

func (c *CLI) runPins(cmd *cobra.Command, opts *pinsOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	runner := c.newRunner()

	cfg, err := runner.ResolveConfig(ctx, opts.card.options(cmd))
	if err != nil {
		return err
	}
	plan, err := runner.ComputeLayout(ctx, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.json {
		data, err := plan.MarshalIndent()
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	printKeyValue(out, "card", cardSize(plan.Width, plan.Height))
	printKeyValue(out, "blind", mm(plan.Blind))
	printKeyValue(out, "neck", mm(plan.Small))
	printKeyValue(out, "tip", mm(plan.Large))
	printKeyValue(out, "spacing", mm(plan.Spacing))
	fmt.Fprintln(out)

	rows := make([][]string, len(plan.Centers))
	for i, y := range plan.Centers {
		_, rightMinY, _, rightMaxY := plan.Right[i].Bounds()
		rows[i] = []string{
			fmt.Sprint(i + 1),
			mm(y),
			mm(plan.Left[i][1].X),
			mm(plan.Right[i][1].X),
			mm(rightMinY) + " … " + mm(rightMaxY),
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Pin", "Center", "Left tip", "Right tip", "Tip span"}, rows))
	return nil
}
