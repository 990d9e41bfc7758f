package cmd

import (
	"log/slog"

	"github.com/cooper-rm/NeighbourhoodDriftInImageEmbeddings/core/config"
	"github.com/spf13/cobra"
)

var (
	configPaths []string
	logLevel    string

	// settings is resolved once per invocation by the root pre-run hook.
	settings *config.Settings
)

var rootCmd = &cobra.Command{
	Use:   "ndrift",
	Short: "ndrift - neighbourhood drift of approximate nearest-neighbor search",
	Long: `ndrift compares approximate nearest-neighbor results against exact results and
reports neighbor overlap, distance divergence, barycenter shift and local
intrinsic dimensionality drift.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVarP(&configPaths, "config", "c", nil, "YAML config file (repeatable, later files override earlier ones; defaults to the user and .ndrift/ project config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func Execute() error {
	return rootCmd.Execute()
}

// resolveConfigPaths returns the --config files, or the user and project
// config files that exist when none were given.
func resolveConfigPaths() []string {
	if len(configPaths) > 0 {
		return configPaths
	}
	return config.DefaultPaths(".")
}

// loadSettings merges the config files, applies the log level flag and
// installs the process logger.
func loadSettings(cmd *cobra.Command, args []string) error {
	s, err := config.Load(resolveConfigPaths()...)
	if err != nil {
		return err
	}
	if logLevel != "" {
		if _, err := config.ParseLevel(logLevel); err != nil {
			return err
		}
		s.Log.Level = logLevel
	}

	slog.SetDefault(config.NewLogger(s.Log, cmd.ErrOrStderr()))
	settings = s
	return nil
}
