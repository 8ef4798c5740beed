package main

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	clawArm "claw_arm"
)

// configView prints the effective chain config as YAML.
type configView clawArm.ChainConfig

func (v configView) String() string {
	data, err := yaml.Marshal(clawArm.ChainConfig(v))
	if err != nil {
		return err.Error()
	}
	return string(data)
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective chain config",
		Long: `Print the chain config after merging --config and the geometry flags. With
--write the result is also saved as a YAML file usable with --config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if writePath != "" {
				if err := clawArm.SaveConfigToFile(writePath, rootOpts.Config); err != nil {
					return WrapExitError(ExitCommandError, "failed to save config", err)
				}
				rootOpts.Logger.Debugf("Wrote chain config to %s", writePath)
			}
			return rootOpts.formatter(cmd).Print(configView(rootOpts.Config))
		},
	}

	cmd.Flags().StringVarP(&writePath, "write", "w", "", "also write the config to this file")
	return cmd
}
