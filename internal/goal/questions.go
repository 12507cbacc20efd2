package goal

import "strings"

// MaxQuestions caps how many follow-up questions are offered for one goal
const MaxQuestions = 4

var baseQuestions = []string{
	"你希望在多长时间内完成这个目标？",
	"你每天大概能投入多少时间？",
	"你更喜欢在一天中的什么时段处理这件事？",
	"你目前在这个方面的基础如何？",
	"完成这个目标后，你期望看到什么具体成果？",
}

var domainQuestions = []struct {
	keywords  []string
	questions []string
}{
	{
		keywords: []string{"学习", "技术", "编程", "python", "开发"},
		questions: []string{
			"你之前有相关的学习或项目经验吗？",
			"你偏好视频课程、书籍还是动手实践？",
			"你希望最终能独立完成什么样的项目？",
		},
	},
	{
		keywords: []string{"健身", "运动", "锻炼", "减肥"},
		questions: []string{
			"你目前的运动频率是怎样的？",
			"你有可以使用的健身房或运动器材吗？",
			"你有需要注意的身体状况或旧伤吗？",
		},
	},
	{
		keywords: []string{"工作", "面试", "职业", "简历"},
		questions: []string{
			"你目前所处的职业阶段是什么？",
			"你的目标岗位或行业是什么？",
			"你觉得自己最需要提升的能力是什么？",
		},
	},
	{
		keywords: []string{"英语", "日语", "语言", "口语"},
		questions: []string{
			"你目前的语言水平大概是什么程度？",
			"你最想提升听说读写中的哪一项？",
			"你有需要参加的语言考试吗？",
		},
	},
}

// FollowUpQuestions returns up to MaxQuestions clarifying questions for a goal.
// Domain questions come first, then the general ones. The result is stable for a given goal.
func FollowUpQuestions(goal string) []string {
	text := strings.ToLower(goal)
	out := make([]string, 0, MaxQuestions)
	for _, d := range domainQuestions {
		if containsAny(text, d.keywords) {
			out = append(out, d.questions...)
			break
		}
	}
	out = append(out, baseQuestions...)
	if len(out) > MaxQuestions {
		out = out[:MaxQuestions]
	}
	return out
}
