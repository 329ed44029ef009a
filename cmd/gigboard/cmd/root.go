package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	gigboard "github.com/carlosnayan/gigboard"
	"github.com/carlosnayan/gigboard/db"
	"github.com/carlosnayan/gigboard/internal/config"
	"github.com/carlosnayan/gigboard/internal/logger"
)

var (
	configFile string
	verbose    bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:     "gigboard",
	Short:   "Manage the gigboard marketplace database",
	Version: gigboard.Version,
	Long: `gigboard manages the database behind the assignment marketplace.

The configuration is read from prisma.conf, searched upwards from the
current directory unless --config is given. DATABASE_URL and friends may
come from a .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return err
		}
		if verbose {
			cfg.Log = append(cfg.Log, "query", "info")
		}
		logger.SetDefaultLogger(logger.NewConsoleLogger(cfg.Log, os.Stderr))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.GetDefaultLogger().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default: prisma.conf)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose mode (log queries)")

	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(statsCmd)
}

// Execute runs the CLI application.
func Execute() error {
	return rootCmd.Execute()
}

// openClient connects with the loaded configuration. Statements go to the
// default logger so that reloaded log levels apply.
func openClient(ctx context.Context) (*db.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return db.OpenConfig(ctx, cfg)
}
