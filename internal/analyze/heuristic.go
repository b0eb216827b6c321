package analyze

import (
	"fmt"
	"strings"

	"github.com/xecurify/draftpilot/internal/mail"
)

// Heuristic analyzes a thread with keyword tables only. It is pure and
// deterministic, performs no I/O and never fails, which makes it the
// terminal tier of the fallback chain.
type Heuristic struct {
	tables Tables
}

// NewHeuristic creates a heuristic analyzer over the given vocabulary.
func NewHeuristic(tables Tables) *Heuristic {
	return &Heuristic{tables: tables}
}

// NewDefaultHeuristic creates a heuristic analyzer over the production
// vocabulary.
func NewDefaultHeuristic() *Heuristic {
	return NewHeuristic(DefaultHeuristics())
}

// Analyze derives every Analysis field from independent keyword-table
// lookups over the lowercased thread text. An empty thread yields the
// documented Default Analysis.
func (h *Heuristic) Analyze(thread mail.Thread) Analysis {
	if len(thread) == 0 {
		return DefaultAnalysis()
	}

	content := threadContent(thread)
	complexity := h.complexity(content)

	return Analysis{
		Summary:        h.summary(content, len(thread)),
		Type:           h.conversationType(content),
		Urgency:        h.urgency(content),
		Sentiment:      h.sentiment(content),
		Issues:         h.issues(content),
		Complexity:     complexity,
		Escalation:     h.escalation(content, complexity),
		ResponseTime:   h.responseTime(content),
		Stakeholders:   stakeholders(thread),
		BusinessImpact: h.businessImpact(content),
		Actions:        h.actions(content),
	}
}

func threadContent(thread mail.Thread) string {
	parts := make([]string, 0, len(thread))
	for _, m := range thread {
		parts = append(parts, m.Subject+" "+m.Body)
	}
	return strings.ToLower(strings.Join(parts, " "))
}

// countHits counts how many distinct keywords occur in the content,
// substring semantics, one point per keyword regardless of repetition.
func countHits(content string, keywords []string) int {
	hits := 0
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			hits++
		}
	}
	return hits
}

func anyHit(content string, keywords []string) bool {
	return countHits(content, keywords) > 0
}

func (h *Heuristic) summary(content string, count int) string {
	switch {
	case anyHit(content, h.tables.ErrorKeywords):
		return fmt.Sprintf("Technical issue requiring resolution in %d-email thread", count)
	case anyHit(content, h.tables.MeetingKeywords):
		return fmt.Sprintf("Meeting/demo scheduling discussion across %d emails", count)
	case anyHit(content, h.tables.SalesKeywords):
		return fmt.Sprintf("Sales/pricing inquiry involving %d email exchanges", count)
	case anyHit(content, h.tables.SupportKeywords):
		return fmt.Sprintf("Customer support case with %d email interactions", count)
	default:
		return fmt.Sprintf("General business communication spanning %d emails", count)
	}
}

// conversationType applies a fixed priority order: error beats meeting
// beats support beats sales.
func (h *Heuristic) conversationType(content string) Type {
	switch {
	case anyHit(content, h.tables.ErrorKeywords):
		return TypeError
	case anyHit(content, h.tables.MeetingKeywords):
		return TypeMeeting
	case anyHit(content, h.tables.SupportKeywords):
		return TypeSupport
	case anyHit(content, h.tables.SalesKeywords):
		return TypeSales
	default:
		return TypeGeneral
	}
}

func (h *Heuristic) urgency(content string) Level {
	urgent := countHits(content, h.tables.UrgentKeywords)
	errs := countHits(content, h.tables.ErrorKeywords)

	switch {
	case urgent >= urgencyHighUrgentHits || (urgent >= 1 && errs >= urgencyErrorHits):
		return LevelHigh
	case urgent >= 1 || errs >= urgencyErrorHits:
		return LevelMedium
	default:
		return LevelLow
	}
}

func (h *Heuristic) sentiment(content string) Sentiment {
	positive := countHits(content, h.tables.PositiveKeywords)
	frustrated := countHits(content, h.tables.FrustratedKeywords)

	switch {
	case frustrated > positive:
		return SentimentFrustrated
	case positive > frustrated:
		return SentimentPositive
	default:
		return SentimentNeutral
	}
}

func (h *Heuristic) issues(content string) []string {
	var issues []string
	for _, rule := range h.tables.IssueRules {
		if !anyHit(content, rule.Any) {
			continue
		}
		if len(rule.With) > 0 && !anyHit(content, rule.With) {
			continue
		}
		issues = append(issues, rule.Label)
	}

	var tech []string
	for _, term := range h.tables.TechIndicators {
		if strings.Contains(content, term) {
			tech = append(tech, strings.ToUpper(term)+" Related")
		}
	}
	if len(tech) > maxTechIssues {
		tech = tech[:maxTechIssues]
	}
	issues = append(issues, tech...)

	if len(issues) == 0 {
		return []string{"General Inquiry"}
	}
	return issues
}

func (h *Heuristic) complexity(content string) Level {
	hits := countHits(content, h.tables.TechIndicators)
	switch {
	case hits >= complexityHighHits:
		return LevelHigh
	case hits >= complexityMediumHits:
		return LevelMedium
	default:
		return LevelLow
	}
}

func (h *Heuristic) escalation(content string, complexity Level) bool {
	if anyHit(content, h.tables.UrgentKeywords) {
		return true
	}
	return anyHit(content, h.tables.ErrorKeywords) && complexity == LevelHigh
}

func (h *Heuristic) responseTime(content string) ResponseTime {
	switch {
	case anyHit(content, h.tables.ImmediateKeywords):
		return ResponseImmediate
	case anyHit(content, h.tables.SoonKeywords):
		return ResponseFourHours
	case anyHit(content, h.tables.ErrorKeywords):
		return ResponseDay
	default:
		return ResponseWeek
	}
}

func (h *Heuristic) businessImpact(content string) Level {
	switch {
	case anyHit(content, h.tables.HighImpactKeywords):
		return LevelHigh
	case anyHit(content, h.tables.MediumImpactKeywords):
		return LevelMedium
	default:
		return LevelLow
	}
}

func (h *Heuristic) actions(content string) []string {
	var actions []string
	for _, set := range h.tables.ActionSets {
		if anyHit(content, set.Keywords) {
			actions = append(actions, set.Actions...)
		}
	}
	if len(actions) == 0 {
		actions = append(actions, h.tables.DefaultActions...)
	}
	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}
	return actions
}

// stakeholders derives display names from sender local-parts: separators
// become spaces, words are title-cased, duplicates collapse keeping
// first occurrence, capped at five.
func stakeholders(thread mail.Thread) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, m := range thread {
		addr := senderAddress(m.From)
		at := strings.Index(addr, "@")
		if at <= 0 {
			continue
		}
		name := titleCase(localPartWords(addr[:at]))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
		if len(out) == maxStakeholders {
			break
		}
	}
	return out
}

// senderAddress unwraps a display-name header form like
// "Alice Smith <alice@x.com>" down to the bare address.
func senderAddress(from string) string {
	if open := strings.Index(from, "<"); open != -1 {
		if end := strings.Index(from[open:], ">"); end != -1 {
			return strings.TrimSpace(from[open+1 : open+end])
		}
	}
	return strings.TrimSpace(from)
}

func localPartWords(local string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '_', '-':
			return ' '
		}
		return r
	}, local)
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
