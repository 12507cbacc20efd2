package response

import (
	"strings"
	"unicode/utf8"

	"lifeplan_agent/pkg"
)

const fence = "```"

// Size ceilings in characters. Anything longer usually means the model ignored the
// requested window and is not worth parsing.
var ceilings = map[pkg.PlanKind]int{
	pkg.KindDaily:  3000,
	pkg.KindWeekly: 15000,
	pkg.KindCustom: 25000,
}

// Ceiling returns the candidate size limit for a plan kind
func Ceiling(kind pkg.PlanKind) int {
	if limit, ok := ceilings[kind]; ok {
		return limit
	}
	return ceilings[pkg.KindDaily]
}

// Extract pulls the JSON candidate out of generated text and enforces the size ceiling.
// The order is: a ```json fence, a bare ``` fence, the outermost brackets, the whole text.
func Extract(raw string, kind pkg.PlanKind) (string, error) {
	candidate := locate(raw)
	if size, limit := utf8.RuneCountInString(candidate), Ceiling(kind); size > limit {
		return "", &OversizeError{Kind: kind, Size: size, Limit: limit}
	}
	return candidate, nil
}

func locate(raw string) string {
	if body, ok := fencedBlock(raw, fence+"json"); ok {
		return body
	}
	if body, ok := fencedBlock(raw, fence); ok {
		return body
	}
	if body, ok := outermost(raw); ok {
		return body
	}
	return strings.TrimSpace(raw)
}

// fencedBlock returns the text between an opening marker and the next fence.
// An unterminated block runs to the end of the text.
func fencedBlock(raw, open string) (string, bool) {
	start := strings.Index(raw, open)
	if start < 0 {
		return "", false
	}
	body := raw[start+len(open):]
	if open == fence {
		// drop an info string such as ```JSON or ```js
		if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
			body = body[nl+1:]
		}
	}
	if end := strings.Index(body, fence); end >= 0 {
		body = body[:end]
	}
	body = strings.TrimSpace(body)
	return body, body != ""
}

// outermost returns the span from the first '{' to the last '}'. Plans are objects,
// so brackets are only considered when the text has no braces at all.
func outermost(raw string) (string, bool) {
	if body, ok := span(raw, '{', '}'); ok {
		return body, true
	}
	return span(raw, '[', ']')
}

func span(raw string, open, closer byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(raw, closer)
	if end <= start {
		return "", false
	}
	return raw[start : end+1], true
}
