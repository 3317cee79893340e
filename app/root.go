// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/rgcpoolandspa/poolsite/internal/config"
	"github.com/rgcpoolandspa/poolsite/internal/logger"
)

var (
	configPath string // directory holding main.toml
	devMode    bool

	cfg config.Config
)

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./etc/", "Directory holding main.toml")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "Enable dev mode")
}

var rootCmd = &cobra.Command{
	Use:   "poolsite",
	Short: "poolsite serves the pool and spa marketing site and its admin back office",
	Long: `poolsite serves the public pool and spa site with its product catalog,
portfolio gallery, event calendar and inquiry form, plus the password protected
back office used to manage them.`,
	Args:         cobra.OnlyValidArgs,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads the configuration and initializes the logger.
func loadConfig(_ *cobra.Command, _ []string) error {
	var err error

	if cfg, err = config.ReadConfig(configPath); err != nil {
		return err
	}

	if devMode {
		cfg.DevMode = true
	}

	return logger.Init(cfg.Log)
}
