package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [file]",
		Short: "Execute a script of commands",
		Long: `Execute commands read one per line from a file, or from stdin when no file is
given. Blank lines and lines starting with # are skipped. Rejected lines are
reported and the script carries on.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				file, err := os.Open(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "failed to open script", err)
				}
				defer file.Close()
				in = file
			}
			return runScript(rootOpts, in, cmd)
		},
	}
	return cmd
}

func runScript(opts *RootOptions, in io.Reader, cmd *cobra.Command) error {
	chain, err := opts.newChain()
	if err != nil {
		return err
	}

	f := opts.formatter(cmd)
	scanner := bufio.NewScanner(in)
	lineNo, rejected := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		ok, err := executeLine(opts, f, chain, line)
		if err != nil {
			return err
		}
		if !ok {
			opts.Logger.Debugf("Rejected line %d: %q", lineNo, line)
			rejected++
		}
	}
	if err := scanner.Err(); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("failed to read script at line %d", lineNo), err)
	}

	if rejected > 0 {
		return &ExitError{Code: ExitFailure, Message: pluralize(rejected, "command") + " rejected"}
	}
	return nil
}
