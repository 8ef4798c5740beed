package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"claw_arm/command"
	"claw_arm/ik"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec <command>...",
		Short: "Execute commands in order on one chain",
		Long: `Execute each argument as a command on a single chain, printing the pose after
each one. Quote commands that take coordinates:

  clawctl exec "move 100 0" "pick up" "move -50 80" place`,
		Args: requireArgs(1, "at least one command"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(rootOpts, args, cmd)
		},
	}
	return cmd
}

func runExec(opts *RootOptions, lines []string, cmd *cobra.Command) error {
	chain, err := opts.newChain()
	if err != nil {
		return err
	}

	f := opts.formatter(cmd)
	rejected := 0
	for _, line := range lines {
		ok, err := executeLine(opts, f, chain, line)
		if err != nil {
			return err
		}
		if !ok {
			rejected++
		}
	}
	if rejected > 0 {
		return &ExitError{Code: ExitFailure, Message: pluralize(rejected, "command") + " rejected"}
	}
	return nil
}

// executeLine parses and runs one command. It reports false when the line was
// rejected; the returned error is reserved for output failures.
func executeLine(opts *RootOptions, f *OutputFormatter, chain *ik.Chain, line string) (bool, error) {
	c, err := command.Parse(line)
	if err != nil {
		f.Reject(line, err)
		return false, nil
	}

	opts.Logger.Debugf("Executing %s", c)
	res, err := c.Execute(chain)
	if err != nil && !ik.IsRecoverable(err) {
		f.Reject(c.String(), err)
		return false, nil
	}
	if err != nil {
		opts.Logger.Warnf("%s: %v", c, err)
	}
	return true, f.Print(newStateView(c.String(), chain, res, err))
}

func pluralize(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
