package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const defaultDefaultsPath = "defaults.yaml"

var (
	logLevel     string // Log verbosity level
	defaultsPath string // Path to defaults.yaml
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cpu-sim",
	Short: "Tick-based CPU scheduling simulator",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetLevel(level)
		return nil
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadDefaults reads the defaults file. A missing file at the default path
// falls back to built-in defaults; an explicitly requested file must exist.
func loadDefaults(cmd *cobra.Command) Config {
	if !cmd.Flags().Changed("defaults") {
		if _, err := os.Stat(defaultsPath); os.IsNotExist(err) {
			logrus.Debugf("No %s found, using built-in defaults", defaultsPath)
			return builtinDefaults()
		}
	}
	cfg, err := loadDefaultsConfig(defaultsPath)
	if err != nil {
		logrus.Fatalf("Failed to load defaults: %v", err)
	}
	return cfg
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&defaultsPath, "defaults", defaultDefaultsPath, "Path to the defaults YAML file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(generateCmd)
}
