package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/fraperfra/TELEMARKETING/internal/config"
	"github.com/fraperfra/TELEMARKETING/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "scheduler",
	Short:         "Appointment auto-scheduler",
	Long:          `Finds free slots in an agent's calendar and books appointments for telemarketing leads.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load .env: %w", err)
		}

		var err error
		cfg, err = config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}

		logger.Setup(cfg.Server.LogLevel)
		slog.Debug("Config loaded", "db_driver", cfg.DB.Driver, "timezone", cfg.Scheduler.TimeZone)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file")
	rootCmd.PersistentFlags().String("db.driver", config.DefaultDBDriver, "database driver (postgres, sqlite)")
	rootCmd.PersistentFlags().String("db.dsn", "", "database DSN; for sqlite a file path")
	rootCmd.PersistentFlags().String("server.log_level", config.DefaultServerLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("scheduler.timezone", config.DefaultSchedulerTimeZone, "calendar time zone of availability rules")
}
