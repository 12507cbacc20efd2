package goal

import (
	"strings"

	"lifeplan_agent/pkg"
)

// Rule maps a set of keywords to a domain. Keywords match as lower-case substrings,
// except ASCII keywords, which must not touch other ASCII letters or digits.
type Rule struct {
	Tag      pkg.DomainTag
	Keywords []string
}

// rules is evaluated top to bottom and the first hit wins.
// Learning sits above technical so "学习Python编程" gets the learning template.
var rules = []Rule{
	{Tag: pkg.DomainLearning, Keywords: []string{"学习", "python", "技术", "教程"}},
	{Tag: pkg.DomainTechnical, Keywords: []string{"ai", "agent", "编程", "开发", "代码"}},
	{Tag: pkg.DomainFitness, Keywords: []string{"健身", "运动", "锻炼", "身体"}},
	{Tag: pkg.DomainCareer, Keywords: []string{"工作", "面试", "职业", "简历"}},
}

// Rules returns a copy of the ordered classification rules
func Rules() []Rule {
	out := make([]Rule, len(rules))
	for i, r := range rules {
		out[i] = Rule{Tag: r.Tag, Keywords: append([]string(nil), r.Keywords...)}
	}
	return out
}

// Classify assigns a goal to exactly one domain. Unmatched goals are general.
func Classify(goal string) pkg.DomainTag {
	text := strings.ToLower(goal)
	for _, r := range rules {
		if containsAny(text, r.Keywords) {
			return r.Tag
		}
	}
	return pkg.DomainGeneral
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if matches(text, kw) {
			return true
		}
	}
	return false
}

// matches reports whether kw occurs in text. "ai" is found in "learn ai" and
// "开发AI应用" but not in "maintain".
func matches(text, kw string) bool {
	if !isASCII(kw) {
		return strings.Contains(text, kw)
	}
	for offset := 0; ; {
		i := strings.Index(text[offset:], kw)
		if i < 0 {
			return false
		}
		i += offset
		end := i + len(kw)
		if (i == 0 || !isWordByte(text[i-1])) && (end == len(text) || !isWordByte(text[end])) {
			return true
		}
		offset = i + 1
	}
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}
