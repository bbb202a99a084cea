package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bitcoin-sv/spend-broadcaster/internal/spend_broadcaster/store/postgresql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database migrations",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}

		err = postgresql.MigrateUp(cfg.Db.DBInfo())
		if err != nil {
			return fmt.Errorf("failed to migrate: %w", err)
		}

		logger.Info("Migrations applied")
		return nil
	},
}
