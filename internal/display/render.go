package display

import (
	"fmt"
	"strings"

	"lifeplan_agent/internal/storage"
	"lifeplan_agent/pkg"
)

// Plan renders any plan with an origin banner
func Plan[P pkg.Plan](res pkg.Result[P]) string {
	p := res.Plan
	var b strings.Builder

	header := []string{TitleStyle.Render("📋 " + p.PlanTitle())}
	header = append(header, SubtleStyle.Render("目标: "+p.GoalText()))
	if days := p.Days(); len(days) > 1 {
		header = append(header, SubtleStyle.Render(fmt.Sprintf("日期: %s ~ %s (%d天)", days[0].Date, days[len(days)-1].Date, len(days))))
	} else {
		header = append(header, SubtleStyle.Render("日期: "+p.FirstDate()))
	}
	header = append(header, fmt.Sprintf("任务: %d  预计用时: %s", p.TaskCount(), Minutes(p.TotalMinutes())))
	header = append(header, originLine(res.Origin, res.Reason))
	b.WriteString(BoxStyle.Render(strings.Join(header, "\n")))
	b.WriteString("\n")

	days := p.Days()
	for _, d := range days {
		if len(days) > 1 {
			b.WriteString(DayStyle.Render(fmt.Sprintf("%s  %s", d.Date, d.Title)))
			b.WriteString("\n")
		}
		writeTasks(&b, d.Tasks)
	}
	return b.String()
}

func originLine(origin pkg.Origin, reason string) string {
	if origin == pkg.OriginFallback {
		return WarnStyle.Render("⚠️ 本地模板生成 (" + reason + ")")
	}
	return SuccessStyle.Render("✅ AI生成")
}

func writeTasks(b *strings.Builder, tasks []pkg.Task) {
	for _, t := range tasks {
		fmt.Fprintf(b, "  %s %s %s %s\n",
			SubtleStyle.Render(t.Time),
			priorityStyles[t.Priority].Render("["+t.Priority.Label()+"]"),
			t.Description,
			SubtleStyle.Render("("+Minutes(t.Duration)+")"))
		if t.Reason != "" {
			fmt.Fprintf(b, "      %s\n", SubtleStyle.Render("💡 "+t.Reason))
		}
		for _, s := range t.Subtasks {
			fmt.Fprintf(b, "      - %s %s\n", s.Description, SubtleStyle.Render("("+Minutes(s.Duration)+")"))
		}
	}
}

// Minutes formats a duration in minutes as 1小时30分钟
func Minutes(m int) string {
	h, rest := m/60, m%60
	switch {
	case h == 0:
		return fmt.Sprintf("%d分钟", rest)
	case rest == 0:
		return fmt.Sprintf("%d小时", h)
	default:
		return fmt.Sprintf("%d小时%d分钟", h, rest)
	}
}

// Stats renders the memory report
func Stats(s storage.Stats) string {
	lines := []string{
		TitleStyle.Render("🧠 记忆统计"),
		fmt.Sprintf("短期记忆: %d 条", s.ShortTermEntries),
		fmt.Sprintf("已归档计划: %d", s.TotalPlans),
		fmt.Sprintf("任务完成: %d / %d (%.0f%%)", s.CompletedTasks, s.ArchivedTasks, s.SuccessRate*100),
	}
	if len(s.CommonGoals) > 0 {
		lines = append(lines, "常见目标: "+strings.Join(s.CommonGoals, ", "))
	}
	if len(s.PreferredTimeSlots) > 0 {
		lines = append(lines, "偏好时段: "+strings.Join(s.PreferredTimeSlots, " > "))
	}
	if len(s.RecentPlans) > 0 {
		lines = append(lines, "", SubtleStyle.Render("最近计划:"))
		for _, r := range s.RecentPlans {
			lines = append(lines, fmt.Sprintf("  %s  %-7s %s", r.Date, r.Kind, r.Title))
		}
	}
	return BoxStyle.Render(strings.Join(lines, "\n"))
}

// Questions renders follow-up questions as a numbered list
func Questions(goal string, questions []string) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("❓ 关于「" + goal + "」的补充问题"))
	b.WriteString("\n")
	for i, q := range questions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
	}
	return b.String()
}

// Error renders an error line
func Error(err error) string {
	return ErrorStyle.Render("❌ " + err.Error())
}
