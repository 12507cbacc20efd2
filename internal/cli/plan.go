package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"lifeplan_agent/internal/display"
	"lifeplan_agent/pkg"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"
)

type planFlags struct {
	timePref string
	out      string
}

func (f *planFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.timePref, "time-pref", "", "preferred working hours, e.g. 上午")
	cmd.Flags().StringVar(&f.out, "out", "", "also write the plan as JSON to this file")
}

func newDailyCmd(opts *rootOptions) *cobra.Command {
	flags := &planFlags{}
	cmd := &cobra.Command{
		Use:   "daily <goal>",
		Short: "Plan today for a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.engine.CreateDailyPlan(ctx, strings.Join(args, " "), flags.timePref)
				if err != nil {
					return unavailableHint(err)
				}
				return emit(cmd.OutOrStdout(), res, flags.out)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newWeeklyCmd(opts *rootOptions) *cobra.Command {
	flags := &planFlags{}
	cmd := &cobra.Command{
		Use:   "weekly <goal>",
		Short: "Plan the next seven days for a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.engine.CreateWeeklyPlan(ctx, strings.Join(args, " "), flags.timePref)
				if err != nil {
					return unavailableHint(err)
				}
				return emit(cmd.OutOrStdout(), res, flags.out)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func newCustomCmd(opts *rootOptions) *cobra.Command {
	flags := &planFlags{}
	var days, preferred int
	cmd := &cobra.Command{
		Use:   "custom <goal>",
		Short: "Plan a chosen number of days for a goal",
		Long:  "Plan a chosen number of days. Without --days the preferred count is used, then the built-in estimate.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.engine.CreateCustomPlan(ctx, strings.Join(args, " "), days, preferred, flags.timePref)
				if err != nil {
					return unavailableHint(err)
				}
				return emit(cmd.OutOrStdout(), res, flags.out)
			})
		},
	}
	flags.bind(cmd)
	cmd.Flags().IntVar(&days, "days", 0, "plan length in days (1-365)")
	cmd.Flags().IntVar(&preferred, "preferred-days", 0, "the length you would like, recorded with the plan")
	return cmd
}

func newModifyCmd(opts *rootOptions) *cobra.Command {
	var planPath, request, out string
	cmd := &cobra.Command{
		Use:   "modify",
		Short: "Rework a saved daily plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, err := readDailyPlan(planPath)
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				res, err := a.engine.ModifyDailyPlan(ctx, current, request)
				if err != nil {
					return unavailableHint(err)
				}
				return emit(cmd.OutOrStdout(), res, out)
			})
		},
	}
	cmd.Flags().StringVar(&planPath, "plan", "", "daily plan JSON written by --out")
	cmd.Flags().StringVar(&request, "request", "", "what to change")
	cmd.Flags().StringVar(&out, "out", "", "also write the plan as JSON to this file")
	_ = cmd.MarkFlagRequired("plan")
	_ = cmd.MarkFlagRequired("request")
	return cmd
}

func withApp(cmd *cobra.Command, opts *rootOptions, fn func(ctx context.Context, a *app) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	a, err := newApp(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()
	return fn(ctx, a)
}

func emit[P pkg.Plan](w io.Writer, res pkg.Result[P], out string) error {
	fmt.Fprintln(w, display.Plan(res))
	if out == "" {
		return nil
	}
	data, err := sonic.ConfigStd.MarshalIndent(res.Plan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fmt.Fprintln(w, display.SubtleStyle.Render("saved to "+out))
	return nil
}

func readDailyPlan(path string) (pkg.DailyPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkg.DailyPlan{}, fmt.Errorf("failed to read plan: %w", err)
	}
	var plan pkg.DailyPlan
	if err := sonic.Unmarshal(data, &plan); err != nil {
		return pkg.DailyPlan{}, fmt.Errorf("failed to parse plan %s: %w", path, err)
	}
	return plan, nil
}
