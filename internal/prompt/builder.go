package prompt

import (
	"context"
	"fmt"
	"strings"
	"time"

	"lifeplan_agent/pkg"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

// NoPreference is shown when the caller gave no time preference
const NoPreference = "无特殊偏好"

// longHorizonKeywords mark a goal that spans many days even when only today is planned
var longHorizonKeywords = []string{"30天", "一个月", "几周", "长期", "持续", "阶段"}

// Request carries everything a prompt embeds
type Request struct {
	Goal           string
	TimePreference string
	Start          time.Time
	Days           int // multi-day only
	SuggestedDays  int // custom only
	PreferredDays  int // custom only, 0 when unspecified
	Memory         string
}

// Builder renders plan requests into chat messages. It holds no mutable state.
type Builder struct {
	daily    prompt.ChatTemplate
	multiDay prompt.ChatTemplate
	modify   prompt.ChatTemplate
}

// NewBuilder compiles the prompt templates
func NewBuilder() *Builder {
	return &Builder{
		daily:    newTemplate(dailyTemplate),
		multiDay: newTemplate(multiDayTemplate),
		modify:   newTemplate(modifyTemplate),
	}
}

func newTemplate(text string) prompt.ChatTemplate {
	return prompt.FromMessages(schema.GoTemplate, schema.UserMessage(text))
}

// IsLongHorizon reports whether the goal text implies a multi-day effort
func IsLongHorizon(goal string) bool {
	text := strings.ToLower(goal)
	for _, kw := range longHorizonKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Daily builds the single-day plan request
func (b *Builder) Daily(ctx context.Context, req Request) ([]*schema.Message, error) {
	vars := baseVars(req)
	vars["date"] = req.Start.Format(pkg.DateLayout)
	vars["day_note"] = ""
	vars["title_prefix"] = ""
	if IsLongHorizon(req.Goal) {
		vars["day_note"] = "（注意：这是一个长期目标的第一天计划）"
		vars["title_prefix"] = "第1天："
	}
	return format(ctx, b.daily, vars)
}

// Weekly builds the seven-day plan request
func (b *Builder) Weekly(ctx context.Context, req Request) ([]*schema.Message, error) {
	req.Days = 7
	vars := multiDayVars(req)
	vars["custom"] = false
	vars["title"] = "AI Agent项目7天实践计划"
	return format(ctx, b.multiDay, vars)
}

// Custom builds the N-day plan request, including the advisory day counts
func (b *Builder) Custom(ctx context.Context, req Request) ([]*schema.Message, error) {
	if req.Days < 1 {
		return nil, fmt.Errorf("custom prompt needs a positive day count, got %d", req.Days)
	}
	vars := multiDayVars(req)
	vars["custom"] = true
	vars["title"] = fmt.Sprintf("AI Agent项目%d天实践计划", req.Days)
	if req.PreferredDays > 0 {
		vars["preferred_days"] = fmt.Sprintf("%d天", req.PreferredDays)
	}
	return format(ctx, b.multiDay, vars)
}

// Modify builds a request to rework an existing daily plan
func (b *Builder) Modify(ctx context.Context, current pkg.DailyPlan, request string) ([]*schema.Message, error) {
	data, err := sonic.ConfigStd.MarshalIndent(current, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode current plan: %w", err)
	}
	return format(ctx, b.modify, map[string]any{
		"current_plan": string(data),
		"request":      request,
	})
}

func baseVars(req Request) map[string]any {
	pref := strings.TrimSpace(req.TimePreference)
	if pref == "" {
		pref = NoPreference
	}
	return map[string]any{
		"goal":            req.Goal,
		"time_preference": pref,
		"memory":          req.Memory,
	}
}

func multiDayVars(req Request) map[string]any {
	vars := baseVars(req)
	start, end := pkg.DateRange(req.Start, req.Days)
	vars["days"] = req.Days
	vars["start_date"] = start
	vars["end_date"] = end
	vars["suggested_days"] = req.SuggestedDays
	vars["preferred_days"] = "未指定"
	return vars
}

func format(ctx context.Context, tpl prompt.ChatTemplate, vars map[string]any) ([]*schema.Message, error) {
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to render prompt: %w", err)
	}
	return msgs, nil
}
