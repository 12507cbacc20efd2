package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lifeplan_agent/internal/config"
	"lifeplan_agent/internal/core"
	"lifeplan_agent/internal/llm"
	"lifeplan_agent/pkg"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const planJSON = "```json\n" + `{
  "plan_title": "专注学习日",
  "goal": "学习Go",
  "tasks": [
    {"time": "09:00-10:30", "description": "阅读Go文档", "duration": 90, "priority": "high", "reason": "打基础"},
    {"time": "14:00-15:00", "description": "写练习", "duration": 60, "priority": "medium", "reason": "动手"}
  ]
}` + "\n```"

type staticGenerator struct{ text string }

func (g staticGenerator) Generate(context.Context, []*schema.Message) (string, error) {
	return g.text, nil
}

// setup writes a config into a temp dir and returns the flags pointing at it
func setup(t *testing.T, apiKey string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	yaml := fmt.Sprintf(`
memory:
  file: %s
log:
  level: error
  output: stderr
planner:
  timezone: UTC
`, filepath.Join(dir, "memory.json"))
	require.NoError(t, os.WriteFile(cfgPath, []byte(yaml), 0o644))

	t.Setenv("DASHSCOPE_API_KEY", apiKey)
	t.Setenv("REDIS_URL", "")
	return dir, []string{"--config", cfgPath, "--env-file", filepath.Join(dir, "missing.env")}
}

func useGenerator(t *testing.T, gen llm.Generator) {
	t.Helper()
	prev := newGenerator
	newGenerator = func(context.Context, config.LLMConfig) (llm.Generator, error) { return gen, nil }
	t.Cleanup(func() { newGenerator = prev })
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQuestions(t *testing.T) {
	out, err := run(t, "", "questions", "每天健身")
	require.NoError(t, err)
	assert.Contains(t, out, "1.")
	assert.Contains(t, out, "每天健身")
}

func TestDailyWithoutCredential(t *testing.T) {
	_, flags := setup(t, "")

	_, err := run(t, "", append(flags, "daily", "学习Go")...)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnavailable)
	assert.Contains(t, err.Error(), "DASHSCOPE_API_KEY")
}

func TestDailyWritesPlanAndModify(t *testing.T) {
	dir, flags := setup(t, "test-key")
	useGenerator(t, staticGenerator{text: planJSON})
	planPath := filepath.Join(dir, "plan.json")

	out, err := run(t, "", append(flags, "daily", "学习Go", "--time-pref", "上午", "--out", planPath)...)
	require.NoError(t, err)
	assert.Contains(t, out, "专注学习日")
	assert.Contains(t, out, "saved to")

	data, err := os.ReadFile(planPath)
	require.NoError(t, err)
	var saved pkg.DailyPlan
	require.NoError(t, sonic.Unmarshal(data, &saved))
	assert.Equal(t, 2, saved.TotalTasks)
	assert.Equal(t, 150, saved.EstimatedTotalTime)

	out, err = run(t, "", append(flags, "modify", "--plan", planPath, "--request", "下午多练习")...)
	require.NoError(t, err)
	assert.Contains(t, out, "专注学习日")

	out, err = run(t, "", append(flags, "memory")...)
	require.NoError(t, err)
	assert.Contains(t, out, "已归档计划: 2")
}

func TestCustomRejectsBadDays(t *testing.T) {
	_, flags := setup(t, "test-key")
	useGenerator(t, staticGenerator{text: planJSON})

	_, err := run(t, "", append(flags, "custom", "学习Go", "--days", "400")...)
	assert.ErrorIs(t, err, core.ErrInvalidDuration)
}

func TestModifyRequiresFlags(t *testing.T) {
	_, flags := setup(t, "test-key")
	_, err := run(t, "", append(flags, "modify")...)
	assert.Error(t, err)
}

func TestInteractive(t *testing.T) {
	_, flags := setup(t, "test-key")
	useGenerator(t, staticGenerator{text: planJSON})

	input := strings.Join([]string{
		"/questions 学习Go",
		"/custom abc",
		"/daily 学习Go",
		"/memory",
		"/nope",
		"/quit",
	}, "\n")
	out, err := run(t, input, append(flags, "interactive")...)
	require.NoError(t, err)

	assert.Contains(t, out, "Life Plan Assistant")
	assert.Contains(t, out, "usage: /custom <days> <goal>")
	assert.Contains(t, out, "专注学习日")
	assert.Contains(t, out, "已归档计划: 1")
	assert.Contains(t, out, "unknown command")
	assert.Contains(t, out, "Bye")
}
