package tool

import (
	"regexp"
)

// SafetyPattern pairs a category label with the expression that flags it.
type SafetyPattern struct {
	Category string
	Pattern  *regexp.Regexp
}

// DefaultSafetyPatterns covers the built-in categories of the content scan
// tool. Callers can pass their own set to NewSafetyScanTool.
var DefaultSafetyPatterns = []SafetyPattern{
	{Category: "credential", Pattern: regexp.MustCompile(`(?i)(api[_-]?key|secret|password|bearer)\s*[:=]\s*\S+`)},
	{Category: "email", Pattern: regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)},
	{Category: "profanity", Pattern: regexp.MustCompile(`(?i)\b(damn|hell)\b`)},
}

type safetyScanArgs struct {
	Text string `json:"text" description:"Text to scan for unsafe content"`
}

// NewSafetyScanTool returns a deterministic content scanner that checks text
// against a set of category patterns and reports which categories matched.
// An empty pattern set falls back to DefaultSafetyPatterns.
func NewSafetyScanTool(patterns ...SafetyPattern) Tool {
	if len(patterns) == 0 {
		patterns = DefaultSafetyPatterns
	}
	return NewFunctionToolFromStruct(
		"safety_scan",
		"Scan text for unsafe content and report the flagged categories.",
		safetyScanArgs{},
		func(tc *Context, args map[string]any) (any, error) {
			text, _ := args["text"].(string)

			flagged := []string{}
			for _, p := range patterns {
				if p.Pattern.MatchString(text) {
					flagged = append(flagged, p.Category)
				}
			}

			return map[string]any{
				"safe":    len(flagged) == 0,
				"flagged": flagged,
			}, nil
		},
	)
}
