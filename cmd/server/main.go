package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"bizbooks/config"
	"bizbooks/internal/logger"
	"bizbooks/pkg/database"
)

var version = "1.0.0"

var (
	envFile  string
	siteFile string
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Invoicing and records backend for a small business",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with server settings")
	rootCmd.PersistentFlags().StringVar(&siteFile, "site-file", "config/config.toml", "TOML file with the [site] company profile")
	rootCmd.AddCommand(serveCmd, migrateCmd, nextInvoiceNoCmd)
}

// setup loads configuration, starts the logger and connects to the database.
func setup() (*config.Config, *gorm.DB, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Debug().Err(err).Str("file", envFile).Msg("No dotenv file loaded")
	}

	cfg, err := config.LoadConfig(envFile, siteFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, nil, fmt.Errorf("setup logger: %w", err)
	}
	cfg.LogSummary()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
