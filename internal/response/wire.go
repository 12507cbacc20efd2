package response

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// The wire types mirror what the generation service returns. They are lenient on
// purpose: titles may come as plan_title or title and numbers may come as strings.

type wireTask struct {
	Time        string     `json:"time"`
	Description string     `json:"description"`
	Duration    flexInt    `json:"duration"`
	Priority    string     `json:"priority"`
	Reason      string     `json:"reason"`
	Subtasks    []wireTask `json:"subtasks"`
}

type wireDay struct {
	PlanTitle          string     `json:"plan_title"`
	Title              string     `json:"title"`
	Goal               string     `json:"goal"`
	Date               string     `json:"date"`
	Tasks              []wireTask `json:"tasks"`
	TotalTasks         flexInt    `json:"total_tasks"`
	EstimatedTotalTime flexInt    `json:"estimated_total_time"`
}

type wireMultiDay struct {
	PlanTitle          string    `json:"plan_title"`
	Title              string    `json:"title"`
	MainGoal           string    `json:"main_goal"`
	Goal               string    `json:"goal"`
	DurationDays       flexInt   `json:"duration_days"`
	StartDate          string    `json:"start_date"`
	EndDate            string    `json:"end_date"`
	AISuggestedDays    flexInt   `json:"ai_suggested_days"`
	UserPreferredDays  flexInt   `json:"user_preferred_days"`
	DailyPlans         []wireDay `json:"daily_plans"`
	EstimatedTotalTime flexInt   `json:"estimated_total_time"`
}

func (d wireDay) title() string {
	return firstNonEmpty(d.PlanTitle, d.Title)
}

func (p wireMultiDay) title() string {
	return firstNonEmpty(p.PlanTitle, p.Title)
}

func (p wireMultiDay) goal() string {
	return firstNonEmpty(p.MainGoal, p.Goal)
}

// flexIntLimit bounds a decoded value so later sums cannot overflow
const flexIntLimit = 1 << 30

// flexInt accepts 90, 90.0, "90" and "90分钟". Anything without a leading number
// is treated as absent. Magnitudes beyond flexIntLimit saturate.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	*f = flexInt{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	end := 0
	for end < len(s) && (s[end] == '-' || s[end] == '.' || unicode.IsDigit(rune(s[end]))) {
		end++
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return nil
	}
	n = math.Max(-flexIntLimit, math.Min(math.Round(n), flexIntLimit))
	f.Value = int(n)
	f.Set = true
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
