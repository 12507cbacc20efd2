package cli

import (
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	envFile    string
}

// NewRootCmd builds the lifeplan command tree
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "lifeplan",
		Short:         "Turn a goal into a time-boxed plan",
		Long:          `lifeplan asks a text-generation service for a structured plan and falls back to built-in templates when the service is slow, down or returns something unusable.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "config.yaml", "path to the YAML config file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to a .env file")

	root.AddCommand(
		newDailyCmd(opts),
		newWeeklyCmd(opts),
		newCustomCmd(opts),
		newModifyCmd(opts),
		newMemoryCmd(opts),
		newQuestionsCmd(),
		newInteractiveCmd(opts),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
