// Package cmd provides the command-line interface for Lumen.
//
// Configuration sources, highest priority first:
//  1. Command-line flags (--config, --port, ...)
//  2. Environment variables with the LUMEN_ prefix (LUMEN_SERVER_PORT, ...)
//  3. Configuration file (.lumen.yml)
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lumen-ui/lumen/internal/config"
	"github.com/lumen-ui/lumen/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lumen",
	Short: "A component template runtime with manifest-driven rendering",
	Long: `Lumen compiles declarative component templates once, then stamps out
instances on demand with scoped dependency resolution and a two-phase
bind/attach lifecycle.

Quick Start:
  lumen list --manifest components.yml        List declared components
  lumen render greeting-card -m components.yml  Render one component
  lumen serve -m components.yml               Start the preview server`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Accept snake_case flag spellings for parity with config keys.
	rootCmd.PersistentFlags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .lumen.yml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringSliceP("manifest", "m", nil, "component manifest file (repeatable)")
}

// initConfig runs on every command execution, so flag bindings survive a
// viper reset between test runs.
func initConfig() {
	viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("manifests.paths", rootCmd.PersistentFlags().Lookup("manifest"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))

	if err := config.Init(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "reading config:", err)
	}
}

// loadConfig materializes the validated configuration for a command run.
func loadConfig() (*config.Config, error) {
	return config.Load()
}

// newLogger builds the process logger from configuration.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}
