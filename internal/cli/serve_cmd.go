package cli

import (
	"github.com/jiraassist/dashboard/internal/app"
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/spf13/cobra"
)

func newServeCmd(loadConfig func() (config.Application, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			application, err := app.NewApplication(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return application.Run()
		},
	}
}
