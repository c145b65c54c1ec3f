package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/capital/finance/pkg/config"
	"github.com/capital/finance/pkg/database"
	"github.com/capital/finance/pkg/logger"
	"github.com/capital/finance/pkg/server"
	"github.com/capital/finance/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var configPath string

// Execute runs the CLI. With no subcommand it serves HTTP.
func Execute() {
	rootCmd := &cobra.Command{
		Use:           "capital",
		Short:         "Capital personal finance API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer closeDB(db)
			zap.L().Info("schema is up to date")
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.LaunchHttpServer(ctx, cfg, db)
}

// bootstrap loads .env and the config, sets up logging and opens the
// migrated database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	envLoaded := utils.LoadEnv()

	cfg, err := config.InitConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	if _, err := logger.New(cfg.App.Debug); err != nil {
		return nil, nil, err
	}
	if !envLoaded {
		zap.L().Info(".env file not found, using system environment variables")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = zap.L().Sync()
}
