package prompt

import (
	"context"
	"testing"
	"time"

	"lifeplan_agent/pkg"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

func TestDaily(t *testing.T) {
	b := NewBuilder()

	msgs, err := b.Daily(context.Background(), Request{
		Goal:   "学习Python编程",
		Start:  start,
		Memory: "无历史上下文",
	})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, schema.User, msgs[0].Role)

	content := msgs[0].Content
	assert.Contains(t, content, "目标: 学习Python编程")
	assert.Contains(t, content, "时间偏好: "+NoPreference)
	assert.Contains(t, content, "日期: 2026-03-02")
	assert.Contains(t, content, "无历史上下文")
	assert.Contains(t, content, "4-6个")
	assert.NotContains(t, content, "第1天：")
}

func TestDailyLongHorizon(t *testing.T) {
	msgs, err := NewBuilder().Daily(context.Background(), Request{
		Goal:           "30天学会吉他",
		TimePreference: "晚上",
		Start:          start,
	})
	require.NoError(t, err)

	content := msgs[0].Content
	assert.Contains(t, content, "（注意：这是一个长期目标的第一天计划）")
	assert.Contains(t, content, `"plan_title": "第1天：`)
	assert.Contains(t, content, "时间偏好: 晚上")
}

func TestDailyKeepsTemplateSyntaxInGoal(t *testing.T) {
	msgs, err := NewBuilder().Daily(context.Background(), Request{Goal: "读 {{.secret}} 这本书", Start: start})
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "读 {{.secret}} 这本书")
}

func TestWeekly(t *testing.T) {
	msgs, err := NewBuilder().Weekly(context.Background(), Request{Goal: "健身", Start: start})
	require.NoError(t, err)

	content := msgs[0].Content
	assert.Contains(t, content, "7天计划")
	assert.Contains(t, content, "开始日期: 2026-03-02")
	assert.Contains(t, content, "结束日期: 2026-03-08")
	assert.Contains(t, content, "2-4个核心任务")
	assert.NotContains(t, content, "subtasks")
	assert.NotContains(t, content, "AI建议天数")
}

func TestCustom(t *testing.T) {
	b := NewBuilder()

	msgs, err := b.Custom(context.Background(), Request{
		Goal:          "开发博客系统",
		Start:         start,
		Days:          21,
		SuggestedDays: 14,
		PreferredDays: 20,
	})
	require.NoError(t, err)

	content := msgs[0].Content
	assert.Contains(t, content, "21天计划")
	assert.Contains(t, content, "用户偏好天数: 20天")
	assert.Contains(t, content, "AI建议天数: 14天")
	assert.Contains(t, content, "结束日期: 2026-03-22")
	assert.Contains(t, content, `"subtasks"`)

	msgs, err = b.Custom(context.Background(), Request{Goal: "x", Start: start, Days: 3})
	require.NoError(t, err)
	assert.Contains(t, msgs[0].Content, "用户偏好天数: 未指定")

	_, err = b.Custom(context.Background(), Request{Goal: "x", Start: start})
	assert.Error(t, err)
}

func TestModify(t *testing.T) {
	current := pkg.NewDailyPlan("健身计划", "健身", "2026-03-02", []pkg.Task{
		{Time: "07:00-07:30", Description: "晨跑", Duration: 30, Priority: pkg.PriorityHigh},
	})

	msgs, err := NewBuilder().Modify(context.Background(), current, "把晨跑改到晚上")
	require.NoError(t, err)

	content := msgs[0].Content
	assert.Contains(t, content, `"title": "健身计划"`)
	assert.Contains(t, content, "修改要求：把晨跑改到晚上")
}

func TestIsLongHorizon(t *testing.T) {
	assert.True(t, IsLongHorizon("坚持一个月早起"))
	assert.True(t, IsLongHorizon("长期理财"))
	assert.False(t, IsLongHorizon("今天打扫卫生"))
}
