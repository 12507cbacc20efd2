package pkg

import (
	"strings"
	"time"
)

// Core types for plan synthesis

// DateLayout is the calendar date format used on the wire and in persisted memory
const DateLayout = "2006-01-02"

// Priority is the urgency of a task
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority maps English or Chinese labels to a Priority
func ParsePriority(s string) (Priority, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "高", "高优先级":
		return PriorityHigh, true
	case "medium", "中", "中等", "中优先级":
		return PriorityMedium, true
	case "low", "低", "低优先级":
		return PriorityLow, true
	default:
		return "", false
	}
}

// Label returns the Chinese label shown to end users
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "高"
	case PriorityLow:
		return "低"
	default:
		return "中"
	}
}

// DomainTag is the closed set of goal subject areas
type DomainTag string

const (
	DomainTechnical DomainTag = "technical"
	DomainLearning  DomainTag = "learning"
	DomainFitness   DomainTag = "fitness"
	DomainCareer    DomainTag = "career"
	DomainGeneral   DomainTag = "general"
)

// PlanKind identifies which entry point produced a plan
type PlanKind string

const (
	KindDaily  PlanKind = "daily"
	KindWeekly PlanKind = "weekly"
	KindCustom PlanKind = "custom"
)

// Origin tells whether a plan came from the generation service or the local fallback
type Origin string

const (
	OriginSynthesized Origin = "synthesized"
	OriginFallback    Origin = "fallback"
)

// Subtask is a leaf task. It cannot carry further subtasks.
type Subtask struct {
	Time        string   `json:"time"`
	Description string   `json:"description"`
	Duration    int      `json:"duration"` // minutes
	Priority    Priority `json:"priority"`
	Reason      string   `json:"reason"`
}

// Task is a scheduled unit of work with at most one level of subtasks
type Task struct {
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Duration    int       `json:"duration"` // minutes
	Priority    Priority  `json:"priority"`
	Reason      string    `json:"reason"`
	Subtasks    []Subtask `json:"subtasks"`
}

// DailyPlan is the plan for a single calendar day
type DailyPlan struct {
	Title              string `json:"title"`
	Goal               string `json:"goal"`
	Date               string `json:"date"`
	Tasks              []Task `json:"tasks"`
	TotalTasks         int    `json:"total_tasks"`
	EstimatedTotalTime int    `json:"estimated_total_time"` // minutes
}

// NewDailyPlan builds a DailyPlan and derives its totals from the tasks
func NewDailyPlan(title, goal, date string, tasks []Task) DailyPlan {
	if tasks == nil {
		tasks = []Task{}
	}
	total := 0
	for _, t := range tasks {
		total += t.Duration
	}
	return DailyPlan{
		Title:              title,
		Goal:               goal,
		Date:               date,
		Tasks:              tasks,
		TotalTasks:         len(tasks),
		EstimatedTotalTime: total,
	}
}

// WeeklyPlan covers seven consecutive days
type WeeklyPlan struct {
	Title              string      `json:"title"`
	MainGoal           string      `json:"main_goal"`
	StartDate          string      `json:"start_date"`
	EndDate            string      `json:"end_date"`
	DailyPlans         []DailyPlan `json:"daily_plans"`
	EstimatedTotalTime int         `json:"estimated_total_time"`
}

// CustomPlan covers a caller-chosen number of consecutive days
type CustomPlan struct {
	Title              string      `json:"title"`
	MainGoal           string      `json:"main_goal"`
	DurationDays       int         `json:"duration_days"`
	StartDate          string      `json:"start_date"`
	EndDate            string      `json:"end_date"`
	AISuggestedDays    int         `json:"ai_suggested_days"`
	UserPreferredDays  int         `json:"user_preferred_days,omitempty"`
	DailyPlans         []DailyPlan `json:"daily_plans"`
	EstimatedTotalTime int         `json:"estimated_total_time"`
}

// Plan is implemented by every plan shape the engine produces
type Plan interface {
	Kind() PlanKind
	GoalText() string
	PlanTitle() string
	FirstDate() string
	Days() []DailyPlan
	TaskCount() int
	TotalMinutes() int
}

func (p DailyPlan) Kind() PlanKind { return KindDaily }
func (p DailyPlan) GoalText() string { return p.Goal }
func (p DailyPlan) PlanTitle() string { return p.Title }
func (p DailyPlan) FirstDate() string { return p.Date }
func (p DailyPlan) Days() []DailyPlan { return []DailyPlan{p} }
func (p DailyPlan) TaskCount() int { return p.TotalTasks }
func (p DailyPlan) TotalMinutes() int { return p.EstimatedTotalTime }
func (p WeeklyPlan) Kind() PlanKind { return KindWeekly }
func (p WeeklyPlan) GoalText() string { return p.MainGoal }
func (p WeeklyPlan) PlanTitle() string { return p.Title }
func (p WeeklyPlan) FirstDate() string { return p.StartDate }
func (p WeeklyPlan) Days() []DailyPlan { return p.DailyPlans }
func (p WeeklyPlan) TaskCount() int { return countTasks(p.DailyPlans) }
func (p WeeklyPlan) TotalMinutes() int { return p.EstimatedTotalTime }
func (p CustomPlan) Kind() PlanKind { return KindCustom }
func (p CustomPlan) GoalText() string { return p.MainGoal }
func (p CustomPlan) PlanTitle() string { return p.Title }
func (p CustomPlan) FirstDate() string { return p.StartDate }
func (p CustomPlan) Days() []DailyPlan { return p.DailyPlans }
func (p CustomPlan) TaskCount() int { return countTasks(p.DailyPlans) }
func (p CustomPlan) TotalMinutes() int { return p.EstimatedTotalTime }

func countTasks(days []DailyPlan) int {
	n := 0
	for _, d := range days {
		n += d.TotalTasks
	}
	return n
}

// SumMinutes adds up the estimated time of a run of daily plans
func SumMinutes(days []DailyPlan) int {
	total := 0
	for _, d := range days {
		total += d.EstimatedTotalTime
	}
	return total
}

// Result is what a plan request resolves to: always a usable plan, tagged with its origin
type Result[P Plan] struct {
	Plan     P      `json:"plan"`
	Origin   Origin `json:"origin"`
	Reason   string `json:"reason,omitempty"` // why fallback was used
	Attempts int    `json:"attempts"`
}

// IsFallback reports whether the plan was produced locally
func (r Result[P]) IsFallback() bool {
	return r.Origin == OriginFallback
}

// DateRange returns start and start+days-1 formatted with DateLayout
func DateRange(start time.Time, days int) (string, string) {
	if days < 1 {
		days = 1
	}
	return start.Format(DateLayout), start.AddDate(0, 0, days-1).Format(DateLayout)
}
