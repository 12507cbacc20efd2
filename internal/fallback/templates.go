package fallback

import (
	"fmt"

	"lifeplan_agent/pkg"
)

type slot struct {
	time        string
	description string
	duration    int
	priority    pkg.Priority
	reason      string
}

type dayTemplate struct {
	title func(goal string) string
	slots []slot
}

func fixedTitle(title string) func(string) string {
	return func(string) string { return title }
}

func generalTitle(goal string) string {
	r := []rune(goal)
	if len(r) > 20 {
		r = r[:20]
	}
	return fmt.Sprintf("目标实现计划：%s...", string(r))
}

// Slot durations add up to the totals the day plans advertise:
// technical 360, learning 300, fitness 270, career 300, general 240.
var dayTemplates = map[pkg.DomainTag]dayTemplate{
	pkg.DomainTechnical: {
		title: fixedTitle("AI Agent项目实践 - 启动计划"),
		slots: []slot{
			{"09:00-10:30", "环境搭建：安装Python、pip、创建虚拟环境", 90, pkg.PriorityHigh, "良好的开发环境是项目成功的基础"},
			{"10:45-11:45", "学习LangChain/LlamaIndex基础概念和架构", 60, pkg.PriorityHigh, "理解AI Agent框架的核心概念"},
			{"14:00-15:30", "实践：创建第一个简单的聊天机器人", 90, pkg.PriorityHigh, "通过实践加深理解，建立信心"},
			{"15:45-16:30", "阅读官方文档和最佳实践案例", 45, pkg.PriorityMedium, "学习行业标准和最佳实践"},
			{"16:30-17:00", "设计项目架构和30天学习路径", 30, pkg.PriorityMedium, "清晰的路线图让后续每天都有方向"},
			{"19:00-19:45", "总结今日成果，记录学习笔记", 45, pkg.PriorityMedium, "反思和记录有助于知识巩固"},
		},
	},
	pkg.DomainLearning: {
		title: fixedTitle("学习计划 - 第一天"),
		slots: []slot{
			{"09:00-10:00", "收集学习资源：教程、文档、视频课程", 60, pkg.PriorityHigh, "优质的学习资源是高效学习的前提"},
			{"10:15-11:15", "学习基础概念和核心理论", 60, pkg.PriorityHigh, "扎实的理论基础是实践的根本"},
			{"14:00-15:30", "完成第一个练习项目或作业", 90, pkg.PriorityHigh, "实践是检验理解程度的最佳方法"},
			{"15:45-16:15", "整理学习笔记，标记重点和疑问", 30, pkg.PriorityMedium, "整理笔记有助于知识体系化"},
			{"19:00-20:00", "制定后续学习计划和时间表", 60, pkg.PriorityMedium, "有计划的学习更加高效"},
		},
	},
	pkg.DomainFitness: {
		title: fixedTitle("健身计划 - 启动日"),
		slots: []slot{
			{"07:00-07:30", "身体评估：测量体重、体脂率和基础数据", 30, pkg.PriorityMedium, "了解起始状态，便于追踪进度"},
			{"08:00-09:00", "制定训练方案：确定运动类型和强度", 60, pkg.PriorityHigh, "科学的方案是健身见效的关键"},
			{"09:30-10:30", "第一次训练：基础有氧运动和拉伸", 60, pkg.PriorityHigh, "从基础开始，避免运动伤害"},
			{"18:00-19:00", "轻度力量训练：自重训练或轻器械", 60, pkg.PriorityHigh, "力量训练有助于提升基础代谢"},
			{"21:00-22:00", "记录今日运动感受，调整明日安排", 60, pkg.PriorityMedium, "及时调整才能长期坚持"},
		},
	},
	pkg.DomainCareer: {
		title: fixedTitle("职业发展计划 - 第一步"),
		slots: []slot{
			{"09:00-10:30", "简历更新：整理工作经历和技能清单", 90, pkg.PriorityHigh, "完善的简历是求职的基础工具"},
			{"10:45-11:45", "技能评估：分析现有技能和岗位要求的差距", 60, pkg.PriorityHigh, "了解差距才能有针对性地提升"},
			{"14:00-15:00", "人脉建设：更新职业档案，联系行业同行", 60, pkg.PriorityMedium, "人脉网络是职业发展的重要资源"},
			{"15:15-16:00", "行业研究：了解目标公司和岗位要求", 45, pkg.PriorityHigh, "知己知彼，提高成功概率"},
			{"19:00-19:45", "制定学习计划：确定需要提升的技能", 45, pkg.PriorityMedium, "持续学习是职业发展的动力"},
		},
	},
	pkg.DomainGeneral: {
		title: generalTitle,
		slots: []slot{
			{"09:00-10:00", "目标分析：将大目标分解为具体可执行的小步骤", 60, pkg.PriorityHigh, "明确的行动步骤是实现目标的前提"},
			{"10:15-11:15", "资源准备：收集实现目标所需的工具和信息", 60, pkg.PriorityHigh, "充分的准备能提高执行效率"},
			{"14:00-15:30", "开始执行：完成第一个具体的行动步骤", 90, pkg.PriorityHigh, "立即行动是克服拖延的最好方法"},
			{"16:00-16:30", "总结回顾：评估进度，调整后续计划", 30, pkg.PriorityMedium, "及时回顾和调整确保方向正确"},
		},
	},
}

type phase struct {
	name  string
	focus string
	tasks [4]string
}

// phaseTemplates holds foundational, practice and consolidation phases per domain
var phaseTemplates = map[pkg.DomainTag][3]phase{
	pkg.DomainTechnical: {
		{"基础准备", "环境搭建和概念学习", [4]string{"搭建开发环境并验证工具链", "阅读框架官方文档的核心章节", "跑通官方示例并记录问题", "整理概念笔记和术语表"}},
		{"实践开发", "核心功能实现", [4]string{"实现一个核心功能模块", "为已完成的功能编写测试", "重构已有代码并补充注释", "调研遇到的技术难点"}},
		{"优化完善", "测试和优化", [4]string{"全面测试并修复缺陷", "性能分析与优化", "完善项目文档和使用说明", "复盘项目并整理成果展示"}},
	},
	pkg.DomainLearning: {
		{"基础准备", "资源收集和基础概念", [4]string{"筛选教程与参考资料", "学习核心概念并做笔记", "完成入门练习题", "整理疑问清单"}},
		{"实践应用", "练习和知识应用", [4]string{"完成章节练习", "用所学知识做一个小作品", "把今天学到的内容讲解一遍", "查漏补缺"}},
		{"巩固提升", "复习和综合运用", [4]string{"系统复习并绘制知识图谱", "完成综合练习或模拟测试", "总结学习方法", "规划下一阶段的学习"}},
	},
	pkg.DomainFitness: {
		{"适应期", "建立运动习惯", [4]string{"身体数据测量与记录", "低强度有氧运动", "基础动作学习与拉伸", "记录饮食和睡眠"}},
		{"强化期", "提升强度和训练量", [4]string{"力量训练", "间歇有氧训练", "核心与柔韧性训练", "训练后恢复与拉伸"}},
		{"巩固期", "保持状态和评估效果", [4]string{"完整训练课程", "复测身体数据", "调整训练和饮食方案", "制定长期运动计划"}},
	},
	pkg.DomainCareer: {
		{"自我评估", "梳理现状和目标", [4]string{"梳理工作经历与成果", "分析技能与岗位要求的差距", "调研目标公司和行业", "明确职业方向"}},
		{"能力提升", "补齐关键能力", [4]string{"针对短板进行专项学习", "更新简历和作品集", "模拟面试练习", "拓展行业人脉"}},
		{"冲刺落地", "投递和复盘", [4]string{"投递目标岗位", "准备面试常见问题", "复盘面试与沟通表现", "制定下一步职业计划"}},
	},
	pkg.DomainGeneral: {
		{"准备阶段", "目标拆解和资源准备", [4]string{"拆解目标为可执行的小步骤", "收集所需的工具和信息", "完成第一个具体行动", "记录进度和想法"}},
		{"执行阶段", "持续推进核心任务", [4]string{"推进最重要的任务", "处理遇到的障碍", "完成阶段性成果", "回顾当天执行情况"}},
		{"收尾阶段", "总结和巩固成果", [4]string{"检查目标完成度", "补齐遗漏的部分", "总结经验教训", "规划后续行动"}},
	},
}

// Multi-day task slots: start minute of day and weekday duration
var daySlots = [4]struct {
	start    int
	duration int
}{
	{9 * 60, 90},
	{14 * 60, 90},
	{16 * 60, 60},
	{19 * 60, 60},
}
