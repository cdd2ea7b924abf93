/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/makeobj/pkg/config"
)

func newInitCmd(a *app) *cobra.Command {
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write the default configuration to the --config path, or to
$HOME/.makeobj/config.yaml. An existing file is kept unless --force is given.`,
		Args: cobra.NoArgs,
		// an unreadable config file must not stop init from replacing it
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			if configPath == "" {
				configPath = config.GetDefaultConfigPath()
			}
			force, _ := cmd.Flags().GetBool("force")

			if config.ConfigExists(configPath) && !force {
				fmt.Fprintf(cmd.OutOrStdout(), "Config file %s already exists, use --force to overwrite\n", configPath)
				return nil
			}

			if _, err := config.BootstrapConfig(configPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote default config to %s\n", configPath)
			return nil
		},
	}

	initCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	return initCmd
}
