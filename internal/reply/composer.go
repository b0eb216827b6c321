// Package reply builds draft bodies. It has two distinct paths: a pure
// template transform with optional thread context, and a generated
// free-text reply fetched from a remote generator and validated before
// use.
package reply

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/xecurify/draftpilot/internal/analyze"
	"github.com/xecurify/draftpilot/internal/mail"
	"github.com/xecurify/draftpilot/internal/threadctx"
)

// minReplyLength is the shortest acceptable generated reply after
// stripping, counted in characters, not bytes; anything shorter is
// treated as "no reply available".
const minReplyLength = 40

// contextTopics caps how many topic terms the context block shows.
const contextTopics = 3

// ComposeTemplate appends a fixed-format context block to the template
// when thread context exists and the conversation is longer than an
// initial exchange.
func ComposeTemplate(template string, info *threadctx.Context) string {
	if info == nil || info.TotalMessages <= 2 {
		return template
	}

	var b strings.Builder
	b.WriteString(template)
	b.WriteString("\n\n--- Conversation Context ---\n")
	fmt.Fprintf(&b, "Summary: %s\n", info.Summary)
	fmt.Fprintf(&b, "Messages in thread: %d\n", info.TotalMessages)

	if len(info.Topics) > 0 {
		terms := make([]string, 0, contextTopics)
		for _, tc := range info.Topics {
			terms = append(terms, tc.Term)
			if len(terms) == contextTopics {
				break
			}
		}
		fmt.Fprintf(&b, "Key topics: %s\n", strings.Join(terms, ", "))
	}

	return b.String()
}

// GenerateReply asks the generator for a reply body to the latest
// message, with the bounded thread as context. The prompt forbids any
// signature block; the caller appends one locally. A false return means
// no usable reply was produced.
func GenerateReply(ctx context.Context, gen analyze.Generator, latest mail.Message, thread mail.Thread, limits analyze.PromptLimits) (string, bool) {
	if gen == nil {
		return "", false
	}
	if len(thread) == 0 {
		thread = mail.Thread{latest}
	}

	raw, err := gen.Generate(ctx, buildReplyPrompt(latest, thread, limits))
	if err != nil {
		return "", false
	}
	return sanitize(raw)
}

func buildReplyPrompt(latest mail.Message, thread mail.Thread, limits analyze.PromptLimits) string {
	return fmt.Sprintf(`You are a senior customer support specialist. Read the entire email thread and compose a concise, professional, helpful reply.

Requirements:
- Be empathetic and professional.
- Address the user's specific concern.
- If follow-up info is needed, ask 2-4 precise questions.
- Offer next steps and realistic timelines when applicable.
- Keep it under 180 words.
- Do not include any JSON or meta commentary.
- Do NOT include any sign-off, name, job title, or company signature. The system will append those.
Output only the email body text to send (without signature).

Latest Email:
Subject: %s
From: %s
Body: %s

Thread Context:
%s`, latest.Subject, latest.From, latest.Body, analyze.BoundThread(thread, limits))
}

// sanitize strips a leading code fence (with an optional "text" hint)
// and rejects candidates that are too short or carry no letters.
func sanitize(raw string) (string, bool) {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimSpace(strings.Trim(cleaned, "`"))
		if strings.HasPrefix(strings.ToLower(cleaned), "text") {
			cleaned = strings.TrimSpace(cleaned[4:])
		}
	}

	if utf8.RuneCountInString(cleaned) < minReplyLength || !hasLetter(cleaned) {
		return "", false
	}
	return cleaned, true
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// AppendSignature attaches the configured signature under a standard
// delimiter. An empty signature leaves the body untouched.
func AppendSignature(body, signature string) string {
	if signature == "" {
		return body
	}
	return body + "\n\n-- \n" + signature
}
