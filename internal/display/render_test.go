package display

import (
	"errors"
	"testing"
	"time"

	"lifeplan_agent/internal/fallback"
	"lifeplan_agent/internal/storage"
	"lifeplan_agent/pkg"

	"github.com/stretchr/testify/assert"
)

var start = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func TestPlanDaily(t *testing.T) {
	res := pkg.Result[pkg.DailyPlan]{
		Plan:   fallback.Daily("学习Python", pkg.DomainLearning, start),
		Origin: pkg.OriginFallback,
		Reason: "retries_exhausted",
	}
	out := Plan(res)

	assert.Contains(t, out, "学习计划 - 第一天")
	assert.Contains(t, out, "2026-03-02")
	assert.Contains(t, out, "5小时")
	assert.Contains(t, out, "retries_exhausted")
	assert.Contains(t, out, "收集学习资源")
}

func TestPlanMultiDay(t *testing.T) {
	plan := fallback.Custom("整理房间", pkg.DomainGeneral, 3, start, 10, 0)
	out := Plan(pkg.Result[pkg.CustomPlan]{Plan: plan, Origin: pkg.OriginSynthesized})

	assert.Contains(t, out, "2026-03-02 ~ 2026-03-04 (3天)")
	assert.Contains(t, out, "AI生成")
	for _, d := range plan.DailyPlans {
		assert.Contains(t, out, d.Date)
		assert.Contains(t, out, d.Tasks[0].Subtasks[0].Description)
	}
}

func TestMinutes(t *testing.T) {
	tests := map[int]string{
		45:  "45分钟",
		60:  "1小时",
		90:  "1小时30分钟",
		300: "5小时",
	}
	for in, want := range tests {
		assert.Equal(t, want, Minutes(in))
	}
}

func TestStats(t *testing.T) {
	out := Stats(storage.Stats{
		CompletionStats:    storage.CompletionStats{TotalPlans: 2, CompletedTasks: 3, ArchivedTasks: 4, SuccessRate: 0.75},
		ShortTermEntries:   1,
		CommonGoals:        []string{"学习", "python"},
		PreferredTimeSlots: []string{"上午", "晚上"},
		RecentPlans:        []storage.PlanRecord{{Kind: pkg.KindDaily, Title: "计划A", Date: "2026-03-02"}},
	})

	assert.Contains(t, out, "3 / 4 (75%)")
	assert.Contains(t, out, "学习, python")
	assert.Contains(t, out, "上午 > 晚上")
	assert.Contains(t, out, "计划A")
}

func TestQuestionsAndError(t *testing.T) {
	out := Questions("健身", []string{"每周几次?", "有器械吗?"})
	assert.Contains(t, out, "1. 每周几次?")
	assert.Contains(t, out, "2. 有器械吗?")

	assert.Contains(t, Error(errors.New("boom")), "boom")
}
