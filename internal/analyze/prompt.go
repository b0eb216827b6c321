package analyze

import (
	"fmt"
	"strings"

	"github.com/xecurify/draftpilot/internal/mail"
)

// PromptLimits bounds outbound prompt size: at most MaxMessages of the
// thread tail, and at most MaxChars of the serialized text.
type PromptLimits struct {
	MaxMessages int
	MaxChars    int
}

// BoundThread serializes the thread tail into numbered email blocks and
// truncates the result. Truncation happens after concatenation, cutting
// from the end.
func BoundThread(thread mail.Thread, limits PromptLimits) string {
	limited := thread
	if limits.MaxMessages > 0 && len(limited) > limits.MaxMessages {
		limited = limited[len(limited)-limits.MaxMessages:]
	}

	parts := make([]string, 0, len(limited))
	for i, m := range limited {
		parts = append(parts, fmt.Sprintf(
			"Email %d:\nFrom: %s\nSubject: %s\nBody: %s\nDate: %s\n",
			i+1, orUnknown(m.From), orNoSubject(m.Subject), m.Body, orUnknown(m.Date)))
	}

	text := strings.Join(parts, "\n\n")
	if limits.MaxChars > 0 && len(text) > limits.MaxChars {
		text = text[:limits.MaxChars]
	}
	return text
}

const analysisPromptHeader = `You are an assistant analyzing a professional email thread about Privileged Access Management (PAM).
Return ONLY valid JSON (no prose) with this exact schema and keys:
{
  "executive_summary": string,
  "type": "error"|"meeting"|"support"|"sales"|"general",
  "urgency": "low"|"medium"|"high",
  "sentiment": "positive"|"neutral"|"frustrated",
  "issues": [string],
  "complexity": "low"|"medium"|"high",
  "escalation": true|false,
  "response_time": "immediate"|"4h"|"24h"|"week",
  "stakeholders": [string],
  "business_impact": "low"|"medium"|"high",
  "recommended_actions": [string]
}`

// BuildAnalysisPrompt renders the structured-analysis instruction with
// the bounded thread text appended.
func BuildAnalysisPrompt(thread mail.Thread, limits PromptLimits) string {
	return analysisPromptHeader + "\n\nEmail Thread:\n" + BoundThread(thread, limits)
}

func orUnknown(s string) string {
	if s == "" {
		return "Unknown"
	}
	return s
}

func orNoSubject(s string) string {
	if s == "" {
		return "No Subject"
	}
	return s
}
