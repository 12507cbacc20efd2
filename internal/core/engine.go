package core

import (
	"context"
	"strings"
	"time"

	"lifeplan_agent/internal/config"
	"lifeplan_agent/internal/fallback"
	"lifeplan_agent/internal/goal"
	"lifeplan_agent/internal/llm"
	"lifeplan_agent/internal/metrics"
	"lifeplan_agent/internal/prompt"
	"lifeplan_agent/internal/response"
	"lifeplan_agent/internal/storage"
	"lifeplan_agent/pkg"

	"github.com/cloudwego/eino/schema"
)

// Engine turns goals into plans. It is safe for concurrent use; the only shared
// mutable state lives behind the Store's lock.
type Engine struct {
	client      *llm.Client
	builder     *prompt.Builder
	store       *storage.Store
	metrics     *metrics.Metrics
	timeouts    config.TimeoutConfig
	available   bool
	autoArchive bool
	loc         *time.Location
	now         func() time.Time
}

// Option customizes an Engine
type Option func(*Engine)

// WithMetrics records request metrics on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine wires the engine. client may be nil when no credential is configured;
// store may be nil to run without memory.
func NewEngine(cfg *config.Config, client *llm.Client, store *storage.Store, opts ...Option) (*Engine, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		client:      client,
		builder:     prompt.NewBuilder(),
		store:       store,
		timeouts:    cfg.LLM.Timeouts,
		available:   cfg.HasCredential() && client != nil,
		autoArchive: cfg.Planner.AutoArchive,
		loc:         loc,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Available reports whether plan requests can reach the generation service
func (e *Engine) Available() bool {
	return e.available
}

// CreateDailyPlan plans today for the goal
func (e *Engine) CreateDailyPlan(ctx context.Context, goalText, timePref string) (pkg.Result[pkg.DailyPlan], error) {
	goalText, err := e.precheck(goalText)
	if err != nil {
		return pkg.Result[pkg.DailyPlan]{}, err
	}
	today := e.today()
	tag := goal.Classify(goalText)
	req := e.request(ctx, goalText, timePref, today)

	return run(ctx, e, job[pkg.DailyPlan]{
		kind:    pkg.KindDaily,
		input:   goalText,
		timeout: e.timeouts.Daily,
		build: func(ctx context.Context) ([]*schema.Message, error) {
			return e.builder.Daily(ctx, req)
		},
		parse: func(candidate string) (pkg.DailyPlan, bool, error) {
			return response.ParseDaily(candidate, response.Options{Start: today})
		},
		fallback: func() pkg.DailyPlan {
			return fallback.Daily(goalText, tag, today)
		},
	}), nil
}

// CreateWeeklyPlan plans seven days starting today
func (e *Engine) CreateWeeklyPlan(ctx context.Context, goalText, timePref string) (pkg.Result[pkg.WeeklyPlan], error) {
	goalText, err := e.precheck(goalText)
	if err != nil {
		return pkg.Result[pkg.WeeklyPlan]{}, err
	}
	today := e.today()
	tag := goal.Classify(goalText)
	req := e.request(ctx, goalText, timePref, today)
	req.Days = 7

	return run(ctx, e, job[pkg.WeeklyPlan]{
		kind:    pkg.KindWeekly,
		input:   goalText,
		timeout: e.timeouts.Weekly,
		build: func(ctx context.Context) ([]*schema.Message, error) {
			return e.builder.Weekly(ctx, req)
		},
		parse: func(candidate string) (pkg.WeeklyPlan, bool, error) {
			return response.ParseWeekly(candidate, response.Options{Start: today})
		},
		fallback: func() pkg.WeeklyPlan {
			return fallback.Weekly(goalText, tag, today)
		},
	}), nil
}

// CreateCustomPlan plans days consecutive days starting today. days of 0 means
// "use the preferred count, else the estimate"; preferredDays of 0 means unspecified.
func (e *Engine) CreateCustomPlan(ctx context.Context, goalText string, days, preferredDays int, timePref string) (pkg.Result[pkg.CustomPlan], error) {
	goalText = strings.TrimSpace(goalText)
	if goalText == "" {
		return pkg.Result[pkg.CustomPlan]{}, ErrEmptyGoal
	}
	suggested := goal.EstimateDays(goalText)
	days = ResolveDays(days, preferredDays, suggested)
	if days < MinDays || days > MaxDays || preferredDays < 0 {
		return pkg.Result[pkg.CustomPlan]{}, ErrInvalidDuration
	}
	if !e.available {
		return pkg.Result[pkg.CustomPlan]{}, ErrUnavailable
	}

	today := e.today()
	tag := goal.Classify(goalText)
	req := e.request(ctx, goalText, timePref, today)
	req.Days = days
	req.SuggestedDays = suggested
	req.PreferredDays = preferredDays
	opts := response.Options{Start: today, Days: days, SuggestedDays: suggested, PreferredDays: preferredDays}

	return run(ctx, e, job[pkg.CustomPlan]{
		kind:    pkg.KindCustom,
		input:   goalText,
		timeout: e.timeouts.Custom,
		build: func(ctx context.Context) ([]*schema.Message, error) {
			return e.builder.Custom(ctx, req)
		},
		parse: func(candidate string) (pkg.CustomPlan, bool, error) {
			return response.ParseCustom(candidate, opts)
		},
		fallback: func() pkg.CustomPlan {
			return fallback.Custom(goalText, tag, days, today, suggested, preferredDays)
		},
	}), nil
}

// ModifyDailyPlan asks the service to rework current. On any failure the fallback
// is current itself, unchanged.
func (e *Engine) ModifyDailyPlan(ctx context.Context, current pkg.DailyPlan, request string) (pkg.Result[pkg.DailyPlan], error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return pkg.Result[pkg.DailyPlan]{}, ErrEmptyRequest
	}
	if !e.available {
		return pkg.Result[pkg.DailyPlan]{}, ErrUnavailable
	}

	date, err := time.ParseInLocation(pkg.DateLayout, current.Date, e.loc)
	if err != nil {
		date = e.today()
	}

	return run(ctx, e, job[pkg.DailyPlan]{
		kind:    pkg.KindDaily,
		input:   request,
		timeout: e.timeouts.Daily,
		build: func(ctx context.Context) ([]*schema.Message, error) {
			return e.builder.Modify(ctx, current, request)
		},
		parse: func(candidate string) (pkg.DailyPlan, bool, error) {
			return response.ParseDaily(candidate, response.Options{Start: date})
		},
		fallback: func() pkg.DailyPlan {
			return pkg.NewDailyPlan(current.Title, current.Goal, current.Date, current.Tasks)
		},
	}), nil
}

// ResolveDays picks the plan length: explicit days, else preferred, else suggested
func ResolveDays(days, preferred, suggested int) int {
	switch {
	case days != 0:
		return days
	case preferred > 0:
		return preferred
	default:
		return suggested
	}
}

func (e *Engine) precheck(goalText string) (string, error) {
	goalText = strings.TrimSpace(goalText)
	if goalText == "" {
		return "", ErrEmptyGoal
	}
	if !e.available {
		return "", ErrUnavailable
	}
	return goalText, nil
}

func (e *Engine) request(ctx context.Context, goalText, timePref string, start time.Time) prompt.Request {
	memory := storage.NoContext
	if e.store != nil {
		memory = e.store.Context(ctx).String()
	}
	return prompt.Request{
		Goal:           goalText,
		TimePreference: timePref,
		Start:          start,
		Memory:         memory,
	}
}

// today is midnight of the current date in the configured zone
func (e *Engine) today() time.Time {
	y, m, d := e.now().In(e.loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, e.loc)
}
