package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fraperfra/TELEMARKETING/internal/model"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the scheduler tables and the overlap guard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := model.AutoMigrate(a.db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		slog.Info("Migrations applied", "driver", a.db.Dialector.Name())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
