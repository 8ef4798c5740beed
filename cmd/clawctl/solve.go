package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"claw_arm/command"
	"claw_arm/ik"
)

// NewSolveCommand creates the solve command.
func NewSolveCommand(rootOpts *RootOptions) *cobra.Command {
	var maxIterations int

	cmd := &cobra.Command{
		Use:   "solve <x> <y>",
		Short: "Solve a single target from the rest pose",
		Long: `Solve a single target from the rest pose. Flags must come before the
coordinates so that negative values parse as numbers; use -- when x is negative:

  clawctl solve -- -40 25`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("max-iterations") {
				rootOpts.Config.MaxIterations = maxIterations
			}
			return runSolve(rootOpts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().SetInterspersed(false)
	cmd.Flags().IntVar(&maxIterations, "max-iterations", ik.DefaultMaxIterations, "iteration cap for reachable targets")
	return cmd
}

func runSolve(opts *RootOptions, xs, ys string, cmd *cobra.Command) error {
	target, err := command.ParsePoint(xs, ys)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid target", err)
	}

	chain, err := opts.newChain()
	if err != nil {
		return err
	}

	what := fmt.Sprintf("solve %g %g", target.X, target.Y)
	res, err := chain.Solve(target)
	if err != nil && !ik.IsRecoverable(err) {
		return WrapExitError(ExitFailure, what, err)
	}
	if err != nil {
		opts.Logger.Warnf("%s: %v", what, err)
	}
	return opts.formatter(cmd).Print(newStateView(what, chain, res, err))
}
