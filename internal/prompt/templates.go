package prompt

// Templates use Go text/template syntax. Values are passed as variables so user text
// is never parsed as template code. Every referenced key must be set: rendering runs
// with missingkey=error.

const dailyTemplate = `请根据以下信息制定一个详细的今日计划{{.day_note}}，以JSON格式输出：

目标: {{.goal}}
时间偏好: {{.time_preference}}
日期: {{.date}}

用户历史上下文:
{{.memory}}

要求：
1. 只制定今天一天的计划，包含今天可以执行的具体任务
2. 如果是长期目标，请制定第一天的启动计划
3. 任务要实用且可执行，避免过于宽泛的描述
4. 包含具体的时间段、任务描述、持续时间、优先级和理由
5. 总任务数控制在4-6个之间
6. 只输出一个标准JSON对象

JSON格式示例：
{
  "plan_title": "{{.title_prefix}}AI Agent项目实践计划",
  "goal": "{{.goal}}",
  "date": "{{.date}}",
  "total_tasks": 5,
  "estimated_total_time": 300,
  "tasks": [
    {
      "time": "09:00-10:30",
      "description": "环境搭建：安装Python、创建虚拟环境",
      "duration": 90,
      "priority": "高",
      "reason": "良好的开发环境是项目成功的基础"
    }
  ]
}

请生成今天的具体可执行计划：`

const multiDayTemplate = `请根据以下信息制定一个详细的{{.days}}天计划，以JSON格式输出：

目标: {{.goal}}
{{- if .custom}}
持续天数: {{.days}}天
用户偏好天数: {{.preferred_days}}
AI建议天数: {{.suggested_days}}天
{{- end}}
时间偏好: {{.time_preference}}
开始日期: {{.start_date}}
结束日期: {{.end_date}}

用户历史上下文:
{{.memory}}

要求：
1. 制定连续{{.days}}天的计划，daily_plans 必须正好包含{{.days}}项，每天2-4个核心任务
2. 任务要循序渐进，符合学习/实践规律
3. 考虑工作日和周末的不同安排
4. 每个任务包含具体时间、描述、持续时间（分钟）、优先级和理由
{{- if .custom}}
5. 每个任务可以包含一层子任务，子任务不能再包含子任务
6. 任务时长控制在5到480分钟之间
{{- end}}
只输出一个标准JSON对象。

JSON格式示例：
{
  "plan_title": "{{.title}}",
  "main_goal": "{{.goal}}",
{{- if .custom}}
  "duration_days": {{.days}},
  "ai_suggested_days": {{.suggested_days}},
{{- end}}
  "start_date": "{{.start_date}}",
  "end_date": "{{.end_date}}",
  "daily_plans": [
    {
      "plan_title": "第1天：基础准备",
      "goal": "搭建基础环境和学习核心概念",
      "date": "{{.start_date}}",
      "total_tasks": 3,
      "estimated_total_time": 240,
      "tasks": [
        {
          "time": "09:00-10:30",
          "description": "环境搭建和工具准备",
          "duration": 90,
          "priority": "高",
          "reason": "良好的开发环境是项目成功的基础"
{{- if .custom}},
          "subtasks": [
            {
              "time": "09:00-09:30",
              "description": "安装必要软件",
              "duration": 30,
              "priority": "高",
              "reason": "基础工具安装"
            }
          ]
{{- end}}
        }
      ]
    }
  ]
}

请生成完整的{{.days}}天计划：`

const modifyTemplate = `请根据以下修改要求调整计划：

当前计划：
{{.current_plan}}

修改要求：{{.request}}

要求：
1. 保留原计划中没有被要求修改的部分
2. 总任务数控制在4-6个之间
3. 输出修改后的完整计划，字段与当前计划相同，只输出一个标准JSON对象`
