package fallback

import (
	"fmt"
	"time"

	"lifeplan_agent/pkg"
)

// Everything in this package is pure: no I/O, no clock reads, no randomness.
// The only date-dependent output is derived from the start date argument.

// Options tunes multi-day generation
type Options struct {
	Subtasks bool // add two subtasks to every task
}

// Daily returns the fixed single-day template for the domain
func Daily(goal string, tag pkg.DomainTag, date time.Time) pkg.DailyPlan {
	tpl, ok := dayTemplates[tag]
	if !ok {
		tpl = dayTemplates[pkg.DomainGeneral]
	}
	tasks := make([]pkg.Task, len(tpl.slots))
	for i, s := range tpl.slots {
		tasks[i] = pkg.Task{
			Time:        s.time,
			Description: s.description,
			Duration:    s.duration,
			Priority:    s.priority,
			Reason:      s.reason,
			Subtasks:    []pkg.Subtask{},
		}
	}
	return pkg.NewDailyPlan(tpl.title(goal), goal, date.Format(pkg.DateLayout), tasks)
}

// Weekly returns a seven-day phased plan
func Weekly(goal string, tag pkg.DomainTag, start time.Time) pkg.WeeklyPlan {
	days := MultiDay(tag, 7, start, Options{})
	startDate, endDate := pkg.DateRange(start, 7)
	return pkg.WeeklyPlan{
		Title:              planTitle(goal, 7),
		MainGoal:           goal,
		StartDate:          startDate,
		EndDate:            endDate,
		DailyPlans:         days,
		EstimatedTotalTime: pkg.SumMinutes(days),
	}
}

// Custom returns a phased plan of the requested length with subtasks
func Custom(goal string, tag pkg.DomainTag, days int, start time.Time, suggestedDays, preferredDays int) pkg.CustomPlan {
	if days < 1 {
		days = 1
	}
	daily := MultiDay(tag, days, start, Options{Subtasks: true})
	startDate, endDate := pkg.DateRange(start, days)
	return pkg.CustomPlan{
		Title:              planTitle(goal, days),
		MainGoal:           goal,
		DurationDays:       days,
		StartDate:          startDate,
		EndDate:            endDate,
		AISuggestedDays:    suggestedDays,
		UserPreferredDays:  preferredDays,
		DailyPlans:         daily,
		EstimatedTotalTime: pkg.SumMinutes(daily),
	}
}

// MultiDay emits one DailyPlan per day. The first 30% of days are foundational,
// the next 40% practice and the rest consolidation. Weekdays get three tasks, odd
// practice days four; weekend days get two shorter ones.
func MultiDay(tag pkg.DomainTag, days int, start time.Time, opts Options) []pkg.DailyPlan {
	phases, ok := phaseTemplates[tag]
	if !ok {
		phases = phaseTemplates[pkg.DomainGeneral]
	}

	plans := make([]pkg.DailyPlan, 0, max(days, 0))
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		idx := phaseIndex(i, days)
		ph := phases[idx]
		weekend := isWeekend(date)

		count := 3
		switch {
		case weekend:
			count = 2
		case idx == 1 && i%2 == 1:
			count = 4
		}

		tasks := make([]pkg.Task, count)
		for j := 0; j < count; j++ {
			tasks[j] = phaseTask(ph, i, j, weekend, opts)
		}
		title := fmt.Sprintf("第%d天：%s", i+1, ph.name)
		plans = append(plans, pkg.NewDailyPlan(title, "专注于"+ph.focus, date.Format(pkg.DateLayout), tasks))
	}
	return plans
}

// phaseIndex maps a zero-based day to 0, 1 or 2 using integer math
func phaseIndex(day, days int) int {
	switch {
	case day*10 < days*3:
		return 0
	case day*10 < days*7:
		return 1
	default:
		return 2
	}
}

func phaseTask(ph phase, day, j int, weekend bool, opts Options) pkg.Task {
	s := daySlots[j]
	duration := s.duration
	if weekend {
		duration = duration * 2 / 3
	}
	priority := pkg.PriorityMedium
	if j == 0 {
		priority = pkg.PriorityHigh
	}

	task := pkg.Task{
		Time:        timeRange(s.start, duration),
		Description: fmt.Sprintf("%s：%s", ph.name, ph.tasks[j]),
		Duration:    duration,
		Priority:    priority,
		Reason:      fmt.Sprintf("第%d天的核心任务，专注于%s", day+1, ph.focus),
		Subtasks:    []pkg.Subtask{},
	}
	if opts.Subtasks {
		half := duration / 2
		task.Subtasks = []pkg.Subtask{
			{Time: timeRange(s.start, half), Description: "准备：明确要求并准备材料", Duration: half, Priority: pkg.PriorityMedium, Reason: "分解" + ph.focus + "的执行步骤"},
			{Time: timeRange(s.start+half, duration-half), Description: "执行：完成并记录结果", Duration: duration - half, Priority: pkg.PriorityMedium, Reason: "分解" + ph.focus + "的执行步骤"},
		}
	}
	return task
}

func planTitle(goal string, days int) string {
	return fmt.Sprintf("%s - %d天实践计划", goal, days)
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// timeRange formats "HH:MM-HH:MM" from a start minute and a duration
func timeRange(start, duration int) string {
	end := start + duration
	return fmt.Sprintf("%02d:%02d-%02d:%02d", start/60, start%60, end/60, end%60)
}
