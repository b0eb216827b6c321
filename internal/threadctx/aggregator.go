// Package threadctx condenses an email thread into a compact context
// record: participants, dominant topics and a one-line summary. The
// record feeds both the reply templates and the analyzer prompt.
package threadctx

import (
	"sort"
	"strings"

	"github.com/xecurify/draftpilot/internal/classify"
	"github.com/xecurify/draftpilot/internal/mail"
)

// topTopics caps how many topic terms a context carries.
const topTopics = 5

// TermCount is a topic term with its occurrence count across the thread.
type TermCount struct {
	Term  string
	Count int
}

// Context is the condensed view of a multi-message thread.
type Context struct {
	TotalMessages int
	Participants  []string
	Topics        []TermCount
	Summary       string
	LastSender    string
}

// Aggregate condenses a thread. Threads with fewer than two messages
// carry no useful history and yield nil. A two-message thread is still
// an initial exchange: it gets a fixed summary and no topic list.
func Aggregate(thread mail.Thread) *Context {
	if len(thread) < 2 {
		return nil
	}

	ctx := &Context{
		TotalMessages: len(thread),
		Participants:  participants(thread),
		LastSender:    thread[len(thread)-1].From,
	}

	if len(thread) == 2 {
		ctx.Summary = "Initial conversation"
		return ctx
	}

	ctx.Topics = topics(thread)
	ctx.Summary = summarize(thread)
	return ctx
}

// participants returns the distinct sender addresses in first-seen order.
func participants(thread mail.Thread) []string {
	seen := make(map[string]struct{}, len(thread))
	var out []string
	for _, m := range thread {
		addr := strings.TrimSpace(m.From)
		if addr == "" {
			continue
		}
		key := strings.ToLower(addr)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}

// topics ranks the normalized tokens of all subjects and bodies by
// frequency and keeps the top terms. Ties preserve first-seen order,
// so the ranking is deterministic for a given thread.
func topics(thread mail.Thread) []TermCount {
	counts := make(map[string]int)
	var order []string
	for _, m := range thread {
		for _, tok := range classify.Tokens(m.Subject + " " + m.Body) {
			if counts[tok] == 0 {
				order = append(order, tok)
			}
			counts[tok]++
		}
	}
	if len(order) == 0 {
		return nil
	}

	firstSeen := make(map[string]int, len(order))
	for i, term := range order {
		firstSeen[term] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > topTopics {
		order = order[:topTopics]
	}
	out := make([]TermCount, 0, len(order))
	for _, term := range order {
		out = append(out, TermCount{Term: term, Count: counts[term]})
	}
	return out
}

// summarize builds the narrative summary from fixed content predicates,
// evaluated in a fixed order over the lowercased thread text.
func summarize(thread mail.Thread) string {
	var b strings.Builder
	for _, m := range thread {
		b.WriteString(m.Subject)
		b.WriteByte(' ')
		b.WriteString(m.Body)
		b.WriteByte(' ')
	}
	text := strings.ToLower(b.String())

	var parts []string
	if strings.Contains(text, "?") {
		parts = append(parts, "Contains questions")
	}
	if containsAny(text, "price", "pricing", "cost") {
		parts = append(parts, "Price discussion")
	}
	if containsAny(text, "demo", "meeting", "call") {
		parts = append(parts, "Meeting coordination")
	}
	if containsAny(text, "error", "issue", "problem") {
		parts = append(parts, "Issue resolution")
	}
	if strings.Contains(text, "thank") {
		parts = append(parts, "Appreciation expressed")
	}

	if len(parts) == 0 {
		return "General discussion"
	}
	return strings.Join(parts, "; ")
}

func containsAny(text string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
