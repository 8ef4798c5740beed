package main

import (
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"claw_arm/command"
)

// tokenView pairs a command with its base64 token.
type tokenView struct {
	Command string `json:"command"`
	Token   string `json:"token"`
}

func (v tokenView) String() string {
	return v.Token + "\t" + v.Command
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode <command>",
		Short: "Encode a command as a base64 token",
		Long: `Encode a command into the token format accepted by decode and by the arm
component's "token" DoCommand. Multiple arguments are joined with spaces.`,
		Args: requireArgs(1, "a command"),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := command.Parse(strings.Join(args, " "))
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid command", err)
			}
			v, err := encodeToken(c, command.Passthrough{})
			if err != nil {
				return WrapExitError(ExitFailure, "failed to encode", err)
			}
			return rootOpts.formatter(cmd).Print(v)
		},
	}
	return cmd
}

// NewDecodeCommand creates the decode command.
func NewDecodeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <token>",
		Short: "Decode a base64 token back into a command",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := decodeToken(args[0], command.Passthrough{})
			if err != nil {
				return WrapExitError(ExitFailure, "rejected token", err)
			}
			return rootOpts.formatter(cmd).Print(tokenView{Command: c.String(), Token: args[0]})
		},
	}
	return cmd
}

func encodeToken(c command.Command, s command.Sealer) (tokenView, error) {
	token, err := command.Encode(c)
	if err != nil {
		return tokenView{}, err
	}
	sealed, err := s.Seal(token)
	if err != nil {
		return tokenView{}, errors.Wrap(err, "failed to seal command")
	}
	return tokenView{Command: c.String(), Token: base64.StdEncoding.EncodeToString(sealed)}, nil
}

func decodeToken(encoded string, s command.Sealer) (command.Command, error) {
	sealed, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return command.Command{}, errors.Wrapf(command.ErrMalformedCommandToken, "token is not base64: %v", err)
	}
	return command.Receive(sealed, s)
}
