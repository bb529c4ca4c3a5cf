package cli

import (
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/jiraassist/dashboard/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newMigrateCmd(loadConfig func() (config.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := database.Migrate(cfg.Database); err != nil {
				return err
			}
			log.Info("Database is up to date")
			return nil
		},
	}
}
