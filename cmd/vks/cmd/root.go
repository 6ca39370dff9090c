package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vkshell/vkshell/internal/config"
	"github.com/vkshell/vkshell/internal/logging"
)

var (
	// Global flags
	verbose    bool
	configPath string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "vks",
	Short: "vk-shell - land plot contours, areas and load centers",
	Long: `vk-shell (vks) works with land plot contours pasted from cadastral
extracts:
  - contour areas in m² and hectares with optional cost
  - power weighted load center of a set of plots
  - DXF export of power circles and the load center symbol
  - an interactive viewer with pan, zoom and selection

Examples:
  vks area plot.txt                       # Areas of every contour
  vks area plot.txt --format svg -o p.svg # Render contours
  vks center objects.txt --set 1:p=120    # Load center
  vks center objects.txt --dxf power.dxf  # Export power circles
  vks view center objects.txt --watch     # Live viewer
  vks apps list                           # Registered apps`,
	Version:       "0.9.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = c

		l, err := logging.New(logging.Level(verbose, cfg.Logging.Level), cfg.Logging.Development)
		if err != nil {
			return err
		}
		logger = l
		logger.Debug("Configuration loaded", zap.String("path", path))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default "+config.DefaultPath()+")")
}

// readInput reads a file argument; "-" reads standard input
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("error reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return data, nil
}

// createOutput opens path for writing; "" and "-" write to standard output
func createOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating %s: %w", path, err)
	}
	return f, f.Close, nil
}
