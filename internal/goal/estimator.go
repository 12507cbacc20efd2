package goal

import "strings"

// DefaultDays is the estimate for goals no bucket recognises
const DefaultDays = 10

type bucket struct {
	days     int
	keywords []string
}

var buckets = []bucket{
	{days: 7, keywords: []string{"学习", "入门", "基础"}},
	{days: 14, keywords: []string{"项目", "开发", "编程", "系统"}},
	{days: 21, keywords: []string{"掌握", "精通", "高级"}},
	{days: 30, keywords: []string{"习惯", "锻炼", "健身"}},
}

// EstimateDays suggests how many days a goal needs. It is advisory only and never fails.
func EstimateDays(goal string) int {
	text := strings.ToLower(goal)
	for _, b := range buckets {
		if containsAny(text, b.keywords) {
			return b.days
		}
	}
	return DefaultDays
}
