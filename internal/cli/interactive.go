package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"lifeplan_agent/internal/display"
	"lifeplan_agent/internal/goal"
	"lifeplan_agent/internal/logger"

	"github.com/spf13/cobra"
)

const interactiveHelp = `Commands:
  /daily <goal>          - Plan today
  /weekly <goal>         - Plan the next seven days
  /custom <days> <goal>  - Plan a number of days (0 = estimate)
  /questions <goal>      - Follow-up questions for a goal
  /memory                - Memory statistics
  /quit                  - Exit`

func newInteractiveCmd(opts *rootOptions) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Start a planning session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(ctx context.Context, a *app) error {
				addr := metricsAddr
				if addr == "" {
					addr = a.cfg.Metrics.Addr
				}
				if addr != "" {
					stop := serveMetrics(addr, a)
					defer stop()
				}
				return repl(ctx, a, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9090")
	return cmd
}

func serveMetrics(addr string, a *app) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("metrics server stopped")
		}
	}()
	logger.Info().Str("addr", addr).Msg("metrics server started")

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn().Err(err).Msg("metrics server shutdown")
		}
	}
}

func repl(ctx context.Context, a *app, in io.Reader, out io.Writer) error {
	fmt.Fprintln(out, display.TitleStyle.Render("🗓️ Life Plan Assistant"))
	fmt.Fprintln(out, interactiveHelp)
	if !a.engine.Available() {
		fmt.Fprintln(out, display.WarnStyle.Render("⚠️ DASHSCOPE_API_KEY is not set: only /questions and /memory work"))
	}
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, ">> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		if input == "/quit" {
			break
		}

		command, message, _ := strings.Cut(input, " ")
		message = strings.TrimSpace(message)

		if err := dispatch(ctx, a, out, command, message); err != nil {
			fmt.Fprintln(out, display.Error(unavailableHint(err)))
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	fmt.Fprintln(out, "\n👋 Bye")
	return nil
}

func dispatch(ctx context.Context, a *app, out io.Writer, command, message string) error {
	needGoal := func(usage string) error {
		if message == "" {
			return errors.New("usage: " + usage)
		}
		return nil
	}

	switch command {
	case "/daily":
		if err := needGoal("/daily <goal>"); err != nil {
			return err
		}
		res, err := a.engine.CreateDailyPlan(ctx, message, "")
		if err != nil {
			return err
		}
		return emit(out, res, "")

	case "/weekly":
		if err := needGoal("/weekly <goal>"); err != nil {
			return err
		}
		res, err := a.engine.CreateWeeklyPlan(ctx, message, "")
		if err != nil {
			return err
		}
		return emit(out, res, "")

	case "/custom":
		daysText, goalText, _ := strings.Cut(message, " ")
		days, err := strconv.Atoi(daysText)
		if err != nil || strings.TrimSpace(goalText) == "" {
			return errors.New("usage: /custom <days> <goal>")
		}
		res, err := a.engine.CreateCustomPlan(ctx, goalText, days, 0, "")
		if err != nil {
			return err
		}
		return emit(out, res, "")

	case "/questions":
		if err := needGoal("/questions <goal>"); err != nil {
			return err
		}
		fmt.Fprint(out, display.Questions(message, goal.FollowUpQuestions(message)))
		return nil

	case "/memory":
		stats, err := a.store.Stats(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, display.Stats(stats))
		return nil

	default:
		return errors.New("unknown command, type /quit to exit")
	}
}
