package response

import (
	"errors"
	"fmt"
	"time"

	"lifeplan_agent/internal/logger"
	"lifeplan_agent/pkg"

	"github.com/bytedance/sonic"
)

// Duration bounds applied to every task on the custom path
const (
	MinTaskMinutes     = 5
	MaxTaskMinutes     = 480
	DefaultTaskMinutes = 30
)

// MaxDayMinutes is the longest duration a daily or weekly task may declare
const MaxDayMinutes = 24 * 60

// Options carries what the request knows that the payload may get wrong
type Options struct {
	Start         time.Time
	Days          int // custom only
	SuggestedDays int // custom only
	PreferredDays int // custom only
}

// Decode parses a candidate into a T. On a syntax error it runs Repair and parses
// exactly once more into a fresh value. repaired reports whether the second parse
// was needed. Well-formed JSON whose shape does not fit T is a ValidationError.
func Decode[T any](candidate string) (v T, repaired bool, err error) {
	if sonic.ValidString(candidate) {
		if err := sonic.UnmarshalString(candidate, &v); err != nil {
			return v, false, &ValidationError{Field: "payload", Reason: err.Error()}
		}
		return v, false, nil
	}
	logger.Debug().Msg("candidate is not valid JSON, repairing")

	var fixed T
	candidate = Repair(candidate)
	if !sonic.ValidString(candidate) {
		err := sonic.UnmarshalString(candidate, &fixed)
		if err == nil {
			err = errors.New("invalid JSON after repair")
		}
		return fixed, true, &ParseError{Repaired: true, Err: err}
	}
	if err := sonic.UnmarshalString(candidate, &fixed); err != nil {
		return fixed, true, &ValidationError{Field: "payload", Reason: err.Error()}
	}
	return fixed, true, nil
}

// ParseDaily decodes and validates a single-day plan
func ParseDaily(candidate string, opts Options) (pkg.DailyPlan, bool, error) {
	w, repaired, err := Decode[wireDay](candidate)
	if err != nil {
		return pkg.DailyPlan{}, repaired, err
	}

	if w.title() == "" {
		return pkg.DailyPlan{}, repaired, missing("plan_title")
	}
	if firstNonEmpty(w.Goal) == "" {
		return pkg.DailyPlan{}, repaired, missing("goal")
	}
	if len(w.Tasks) == 0 {
		return pkg.DailyPlan{}, repaired, &ValidationError{Field: "tasks", Reason: "is empty"}
	}

	tasks, err := mapTasks(w.Tasks, "tasks", false)
	if err != nil {
		return pkg.DailyPlan{}, repaired, err
	}
	return pkg.NewDailyPlan(w.title(), firstNonEmpty(w.Goal), opts.Start.Format(pkg.DateLayout), tasks), repaired, nil
}

// ParseWeekly decodes and validates a seven-day plan
func ParseWeekly(candidate string, opts Options) (pkg.WeeklyPlan, bool, error) {
	w, repaired, err := Decode[wireMultiDay](candidate)
	if err != nil {
		return pkg.WeeklyPlan{}, repaired, err
	}

	days, err := mapMultiDay(w, 7, opts.Start, false)
	if err != nil {
		return pkg.WeeklyPlan{}, repaired, err
	}
	start, end := pkg.DateRange(opts.Start, 7)
	return pkg.WeeklyPlan{
		Title:              w.title(),
		MainGoal:           w.goal(),
		StartDate:          start,
		EndDate:            end,
		DailyPlans:         days,
		EstimatedTotalTime: pkg.SumMinutes(days),
	}, repaired, nil
}

// ParseCustom decodes and validates an N-day plan. Every task and subtask duration
// is clamped into [MinTaskMinutes, MaxTaskMinutes].
func ParseCustom(candidate string, opts Options) (pkg.CustomPlan, bool, error) {
	w, repaired, err := Decode[wireMultiDay](candidate)
	if err != nil {
		return pkg.CustomPlan{}, repaired, err
	}

	days, err := mapMultiDay(w, opts.Days, opts.Start, true)
	if err != nil {
		return pkg.CustomPlan{}, repaired, err
	}
	start, end := pkg.DateRange(opts.Start, opts.Days)
	return pkg.CustomPlan{
		Title:              w.title(),
		MainGoal:           w.goal(),
		DurationDays:       opts.Days,
		StartDate:          start,
		EndDate:            end,
		AISuggestedDays:    opts.SuggestedDays,
		UserPreferredDays:  opts.PreferredDays,
		DailyPlans:         days,
		EstimatedTotalTime: pkg.SumMinutes(days),
	}, repaired, nil
}

func mapMultiDay(w wireMultiDay, want int, start time.Time, clamp bool) ([]pkg.DailyPlan, error) {
	if w.title() == "" {
		return nil, missing("plan_title")
	}
	if w.goal() == "" {
		return nil, missing("main_goal")
	}
	if len(w.DailyPlans) != want {
		return nil, &ValidationError{
			Field:  "daily_plans",
			Reason: fmt.Sprintf("has %d entries, want %d", len(w.DailyPlans), want),
		}
	}

	days := make([]pkg.DailyPlan, 0, want)
	for i, d := range w.DailyPlans {
		tasks, err := mapTasks(d.Tasks, fmt.Sprintf("daily_plans[%d].tasks", i), clamp)
		if err != nil {
			return nil, err
		}
		title := firstNonEmpty(d.title(), fmt.Sprintf("第%d天", i+1))
		goal := firstNonEmpty(d.Goal, w.goal())
		date := start.AddDate(0, 0, i).Format(pkg.DateLayout)
		days = append(days, pkg.NewDailyPlan(title, goal, date, tasks))
	}
	return days, nil
}

func mapTasks(in []wireTask, path string, clamp bool) ([]pkg.Task, error) {
	tasks := make([]pkg.Task, 0, len(in))
	for i, wt := range in {
		field := fmt.Sprintf("%s[%d]", path, i)
		leaf, err := mapLeaf(wt, field, "", clamp)
		if err != nil {
			return nil, err
		}

		subtasks := make([]pkg.Subtask, 0, len(wt.Subtasks))
		for j, ws := range wt.Subtasks {
			sub, err := mapLeaf(ws, fmt.Sprintf("%s.subtasks[%d]", field, j), leaf.Time, clamp)
			if err != nil {
				return nil, err
			}
			subtasks = append(subtasks, sub)
		}

		tasks = append(tasks, pkg.Task{
			Time:        leaf.Time,
			Description: leaf.Description,
			Duration:    leaf.Duration,
			Priority:    leaf.Priority,
			Reason:      leaf.Reason,
			Subtasks:    subtasks,
		})
	}
	return tasks, nil
}

// mapLeaf maps the scalar fields of a task. Nested subtasks of a subtask are dropped.
func mapLeaf(wt wireTask, field, inheritTime string, clamp bool) (pkg.Subtask, error) {
	timeSlot := firstNonEmpty(wt.Time, inheritTime)
	if timeSlot == "" {
		return pkg.Subtask{}, missing(field + ".time")
	}
	description := firstNonEmpty(wt.Description)
	if description == "" {
		return pkg.Subtask{}, missing(field + ".description")
	}

	duration := DefaultTaskMinutes
	if wt.Duration.Set {
		duration = wt.Duration.Value
	}
	if clamp {
		duration = clampMinutes(duration)
	} else if duration < 0 {
		return pkg.Subtask{}, &ValidationError{Field: field + ".duration", Reason: fmt.Sprintf("is negative (%d)", duration)}
	} else if duration > MaxDayMinutes {
		return pkg.Subtask{}, &ValidationError{Field: field + ".duration", Reason: fmt.Sprintf("exceeds a day (%d)", duration)}
	}

	priority := pkg.PriorityMedium
	if wt.Priority != "" {
		p, ok := pkg.ParsePriority(wt.Priority)
		if ok {
			priority = p
		} else {
			logger.Debug().Str("field", field).Str("priority", wt.Priority).Msg("unknown priority, using medium")
		}
	}

	return pkg.Subtask{
		Time:        timeSlot,
		Description: description,
		Duration:    duration,
		Priority:    priority,
		Reason:      wt.Reason,
	}, nil
}

func clampMinutes(m int) int {
	return max(MinTaskMinutes, min(m, MaxTaskMinutes))
}

func missing(field string) *ValidationError {
	return &ValidationError{Field: field, Reason: "is missing"}
}
