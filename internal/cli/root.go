package cli

import (
	"github.com/jiraassist/dashboard/internal/config"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the top-level "jiradash" command with all subcommands.
func NewRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "jiradash",
		Short:         "Jira worklog dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path of the YAML configuration file")

	loadConfig := func() (config.Application, error) {
		return config.Load(configPath)
	}

	root.AddCommand(
		newServeCmd(loadConfig),
		newMigrateCmd(loadConfig),
		newReportCmd(loadConfig),
	)

	return root
}
