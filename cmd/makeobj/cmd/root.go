/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ssargent/makeobj/pkg/config"
	"github.com/ssargent/makeobj/pkg/convert"
	"github.com/ssargent/makeobj/pkg/di"
	"github.com/ssargent/makeobj/pkg/omf"
)

const version = "1.2"

var container *di.Container

// SetContainer injects the dependency container used by every command
func SetContainer(c *di.Container) {
	container = c
}

// app holds the state shared by the commands of one invocation
type app struct {
	container *di.Container
	config    *config.Config
	logger    *logrus.Logger
}

// newRootCmd builds the command tree around c
func newRootCmd(c *di.Container) *cobra.Command {
	a := &app{container: c}

	rootCmd := &cobra.Command{
		Use:   "makeobj",
		Short: "MakeOBJ - binary to OMF object converter",
		Long: `MakeOBJ wraps binary files as relocatable OMF object modules for
DOS linkers, extracts the data of such modules again, and renders files as
C "char far" array initializers.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// arguments are valid by now; further errors are not usage errors
			cmd.SilenceUsage = true
			return a.setup(cmd)
		},
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default $HOME/.makeobj/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn or error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text or json")

	rootCmd.AddCommand(
		newPackCmd(a),
		newUnpackCmd(a),
		newDumpCmd(a),
		newInspectCmd(a),
		newInitCmd(a),
	)

	return rootCmd
}

// setup loads the configuration and configures logging
func (a *app) setup(cmd *cobra.Command) error {
	if a.container == nil {
		return fmt.Errorf("dependency container not initialized")
	}

	configPath, _ := cmd.Flags().GetString("config")
	switch {
	case configPath != "":
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		a.config = cfg
	case config.ConfigExists(config.GetDefaultConfigPath()):
		cfg, err := config.LoadConfig(config.GetDefaultConfigPath())
		if err != nil {
			return err
		}
		a.config = cfg
	default:
		a.config = config.DefaultConfig()
	}

	if cmd.Flags().Changed("log-level") {
		a.config.Logging.Level, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("log-format") {
		a.config.Logging.Format, _ = cmd.Flags().GetString("log-format")
	}

	level, err := logrus.ParseLevel(a.config.Logging.Level)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	a.logger = a.container.GetLogger()
	a.logger.SetOutput(cmd.ErrOrStderr())
	a.logger.SetLevel(level)
	switch a.config.Logging.Format {
	case "json":
		a.logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		a.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("invalid log format %q", a.config.Logging.Format)
	}

	return nil
}

// converter creates a converter from the loaded configuration
func (a *app) converter() (convert.Converter, error) {
	kind, err := omf.ParseSegmentKind(a.config.Pack.Mode)
	if err != nil {
		return nil, err
	}

	return a.container.GetConverterFactory().CreateConverter(convert.ServiceConfig{
		FileSystem:        a.container.GetFileSystem(),
		Logger:            a.logger,
		Kind:              kind,
		Vendor:            a.config.Pack.Vendor,
		MaxUnpackInput:    a.config.Unpack.MaxInputSize,
		ValidateChecksums: a.config.Unpack.ValidateChecksums,
		ValuesPerLine:     a.config.Dump.ValuesPerLine,
	}), nil
}

// runBatch applies op to every input, printing the summary of each converted
// file. It fails when any input failed.
func (a *app) runBatch(cmd *cobra.Command, inputs []string, op convert.Operation) error {
	conv, err := a.converter()
	if err != nil {
		return err
	}

	result := convert.RunBatch(conv, a.logger, inputs, func(c convert.Converter, input string) (*convert.Result, error) {
		res, err := op(c, input)
		if err == nil {
			fmt.Fprintln(cmd.OutOrStdout(), res.Summary)
		}
		return res, err
	})

	if err := result.Err(); err != nil {
		for _, f := range result.Failed {
			cmd.PrintErrf("Error: %s: %v\n", f.Input, f.Err)
		}
		return err
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := newRootCmd(container).Execute(); err != nil {
		os.Exit(1)
	}
}
