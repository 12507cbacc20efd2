package cli

import (
	"context"
	"fmt"
	"strings"

	"lifeplan_agent/internal/display"
	"lifeplan_agent/internal/goal"

	"github.com/spf13/cobra"
)

func newMemoryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "memory",
		Short: "Show what the planner remembers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				stats, err := a.store.Stats(ctx)
				if err != nil {
					return fmt.Errorf("failed to read memory: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), display.Stats(stats))
				return nil
			})
		},
	}
}

func newQuestionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "questions <goal>",
		Short: "List follow-up questions that sharpen a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			fmt.Fprint(cmd.OutOrStdout(), display.Questions(text, goal.FollowUpQuestions(text)))
			return nil
		},
	}
}
