package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recommender/internal/config"
)

var (
	cfgFile     string
	catalogFile string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "recommender",
	Short: "Conversational laptop recommender grounded in a product catalog",
	Long: `recommender matches free-text requests against a fixed product catalog and
answers with a recommendation that only cites the matched products.

Without a subcommand it starts the interactive chat.`,
	SilenceUsage: true,
	RunE:         runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults to ./config.yaml, then ~/.config/recommender/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog JSON file (overrides config and DATABASE_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
}

func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgFile == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgFile)
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if catalogFile != "" {
		cfg.Catalog.Path = catalogFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	return cfg, nil
}
