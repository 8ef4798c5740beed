package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.viam.com/rdk/logging"

	clawArm "claw_arm"
	"claw_arm/ik"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Segments   int
	Length     float64
	Tolerance  float64
	JSON       bool
	Debug      bool

	// Set by the root command before any subcommand runs
	Config clawArm.ChainConfig
	Logger logging.Logger
}

// NewRootCommand creates the root command for clawctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "clawctl",
		Short: "Drive a simulated planar claw arm",
		Long: `clawctl solves inverse kinematics for a planar chain with a two-jaw claw on its
end effector. Commands are "move <x> <y>", "pickup" and "place".`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML chain config file")
	cmd.PersistentFlags().IntVar(&opts.Segments, "segments", clawArm.DefaultSegments, "number of chain segments")
	cmd.PersistentFlags().Float64Var(&opts.Length, "length", clawArm.DefaultSegmentLength, "length of each segment")
	cmd.PersistentFlags().Float64Var(&opts.Tolerance, "tolerance", ik.DefaultTolerance, "solver tolerance")
	cmd.PersistentFlags().BoolVar(&opts.JSON, "json", false, "print JSON instead of text")
	cmd.PersistentFlags().BoolVar(&opts.Debug, "debug", false, "debug logging")

	// Add subcommands
	cmd.AddCommand(NewExecCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewSolveCommand(opts))
	cmd.AddCommand(NewEncodeCommand(opts))
	cmd.AddCommand(NewDecodeCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// resolve builds the logger and the effective chain config. Flags set on the
// command line override values from the config file.
func (opts *RootOptions) resolve(cmd *cobra.Command) error {
	if opts.Debug {
		opts.Logger = logging.NewDebugLogger("clawctl")
	} else {
		opts.Logger = logging.NewLogger("clawctl")
	}

	cfg := clawArm.ChainConfig{}
	flags := cmd.Flags()
	if opts.ConfigFile != "" {
		loaded, err := clawArm.LoadConfigFromFile(opts.ConfigFile, opts.Logger)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load config", err)
		}
		cfg = *loaded
	}
	if opts.ConfigFile == "" || flags.Changed("segments") {
		cfg.Segments = opts.Segments
	}
	if opts.ConfigFile == "" || flags.Changed("length") {
		cfg.SegmentLength = opts.Length
	}
	if opts.ConfigFile == "" || flags.Changed("tolerance") {
		cfg.Tolerance = opts.Tolerance
	}

	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid chain config", err)
	}
	opts.Config = cfg
	return nil
}

// newChain builds a chain in its rest pose from the effective config.
func (opts *RootOptions) newChain() (*ik.Chain, error) {
	chain, err := ik.NewChain(opts.Config.IKConfig())
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to create chain", err)
	}
	opts.Logger.Debugf("Chain ready: %s", chain)
	return chain, nil
}

func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		JSON:      opts.JSON,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

func requireArgs(n int, what string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("%s requires %s", cmd.Name(), what)
		}
		return nil
	}
}
