package analyze

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrUnparseable marks a remote payload that yielded no structured data
// even after the brace-salvage pass.
var ErrUnparseable = errors.New("analysis payload is not parseable")

// payload mirrors the canonical remote schema plus the documented alias
// keys some generators emit instead.
type payload struct {
	Summary      string `json:"executive_summary"`
	SummaryAlias string `json:"summary"`

	Type      string `json:"type"`
	TypeAlias string `json:"conversation_type"`

	Urgency      string `json:"urgency"`
	UrgencyAlias string `json:"urgency_level"`

	Sentiment      string `json:"sentiment"`
	SentimentAlias string `json:"customer_sentiment"`

	Issues      []string `json:"issues"`
	IssuesAlias []string `json:"key_issues"`

	Complexity      string `json:"complexity"`
	ComplexityAlias string `json:"technical_complexity"`

	Escalation      *bool `json:"escalation"`
	EscalationAlias *bool `json:"escalation_needed"`

	ResponseTime string `json:"response_time"`
	KeyMetrics   struct {
		ResponseTimeExpected string `json:"response_time_expected"`
	} `json:"key_metrics"`

	Stakeholders      []string `json:"stakeholders"`
	StakeholdersAlias []string `json:"stakeholders_involved"`

	BusinessImpact string `json:"business_impact"`

	Actions []string `json:"recommended_actions"`
}

// ParsePayload turns raw generator output into a fully populated
// Analysis. It strips surrounding code fences, attempts a strict decode,
// and on failure retries with the substring between the first opening
// and last closing brace.
func ParsePayload(raw string) (Analysis, error) {
	cleaned := stripFences(raw)
	if cleaned == "" {
		return Analysis{}, ErrUnparseable
	}

	var p payload
	if err := json.Unmarshal([]byte(cleaned), &p); err != nil {
		start := strings.Index(cleaned, "{")
		end := strings.LastIndex(cleaned, "}")
		if start == -1 || end <= start {
			return Analysis{}, ErrUnparseable
		}
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), &p); err != nil {
			return Analysis{}, ErrUnparseable
		}
	}

	return normalize(p), nil
}

// stripFences removes a surrounding markdown code fence and an optional
// "json" language hint.
func stripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.Trim(cleaned, "`")
		if strings.HasPrefix(strings.ToLower(cleaned), "json") {
			cleaned = cleaned[4:]
		}
	}
	return strings.TrimSpace(cleaned)
}

// normalize fills every Analysis field from the payload, resolving
// aliases, coercing enum values and substituting documented defaults
// for anything missing or out of domain.
func normalize(p payload) Analysis {
	out := DefaultAnalysis()

	if s := firstNonEmpty(p.Summary, p.SummaryAlias); s != "" {
		out.Summary = s
	}
	if t, ok := coerceType(lower(firstNonEmpty(p.Type, p.TypeAlias))); ok {
		out.Type = t
	}
	if l, ok := coerceLevel(lower(firstNonEmpty(p.Urgency, p.UrgencyAlias))); ok {
		out.Urgency = l
	}
	if s, ok := coerceSentiment(lower(firstNonEmpty(p.Sentiment, p.SentimentAlias))); ok {
		out.Sentiment = s
	}
	if issues := firstNonEmptyList(p.Issues, p.IssuesAlias); len(issues) > 0 {
		out.Issues = issues
	}
	if l, ok := coerceLevel(lower(firstNonEmpty(p.Complexity, p.ComplexityAlias))); ok {
		out.Complexity = l
	}
	if p.Escalation != nil {
		out.Escalation = *p.Escalation
	} else if p.EscalationAlias != nil {
		out.Escalation = *p.EscalationAlias
	}
	if rt, ok := coerceResponseTime(lower(firstNonEmpty(p.ResponseTime, p.KeyMetrics.ResponseTimeExpected))); ok {
		out.ResponseTime = rt
	}
	if st := firstNonEmptyList(p.Stakeholders, p.StakeholdersAlias); len(st) > 0 {
		if len(st) > maxStakeholders {
			st = st[:maxStakeholders]
		}
		out.Stakeholders = st
	}
	if l, ok := coerceLevel(lower(p.BusinessImpact)); ok {
		out.BusinessImpact = l
	}
	if len(p.Actions) > 0 {
		actions := p.Actions
		if len(actions) > maxActions {
			actions = actions[:maxActions]
		}
		out.Actions = actions
	}

	return out
}

func lower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstNonEmptyList(lists ...[]string) []string {
	for _, l := range lists {
		if len(l) > 0 {
			return l
		}
	}
	return nil
}
