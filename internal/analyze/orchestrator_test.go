package analyze

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xecurify/draftpilot/internal/mail"
)

type stubGenerator struct {
	out   string
	err   error
	calls int
}

func (s *stubGenerator) Generate(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.out, s.err
}

func testThread() mail.Thread {
	return mail.Thread{{From: "a@b.com", Subject: "Pricing", Body: "What does it cost?"}}
}

func newTestOrchestrator(primary, secondary Generator) *Orchestrator {
	return NewOrchestrator(primary, secondary, NewDefaultHeuristic(),
		PromptLimits{MaxMessages: 10, MaxChars: 12000}, nil)
}

func TestAnalyzeEmptyThreadShortCircuits(t *testing.T) {
	primary := &stubGenerator{out: canonicalPayload}
	o := newTestOrchestrator(primary, nil)

	got, tier := o.Analyze(context.Background(), nil)
	assert.Equal(t, DefaultAnalysis(), got)
	assert.Equal(t, TierHeuristic, tier)
	assert.Zero(t, primary.calls)
}

func TestAnalyzePrimarySuccess(t *testing.T) {
	primary := &stubGenerator{out: canonicalPayload}
	secondary := &stubGenerator{out: canonicalPayload}
	o := newTestOrchestrator(primary, secondary)

	got, tier := o.Analyze(context.Background(), testThread())
	assert.Equal(t, TierPrimary, tier)
	assert.Equal(t, TypeError, got.Type)
	assert.Zero(t, secondary.calls)
}

func TestAnalyzeFallsBackToSecondary(t *testing.T) {
	primary := &stubGenerator{err: errors.New("quota exceeded")}
	secondary := &stubGenerator{out: canonicalPayload}
	o := newTestOrchestrator(primary, secondary)

	got, tier := o.Analyze(context.Background(), testThread())
	assert.Equal(t, TierSecondary, tier)
	assert.Equal(t, LevelHigh, got.Urgency)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, secondary.calls)
}

func TestAnalyzeUnparseablePayloadFallsThrough(t *testing.T) {
	primary := &stubGenerator{out: "sorry, I cannot help with that"}
	secondary := &stubGenerator{out: canonicalPayload}
	o := newTestOrchestrator(primary, secondary)

	_, tier := o.Analyze(context.Background(), testThread())
	assert.Equal(t, TierSecondary, tier)
}

func TestAnalyzeTerminalHeuristicFallback(t *testing.T) {
	primary := &stubGenerator{err: errors.New("down")}
	secondary := &stubGenerator{err: errors.New("also down")}
	o := newTestOrchestrator(primary, secondary)

	got, tier := o.Analyze(context.Background(), testThread())
	assert.Equal(t, TierHeuristic, tier)

	// Heuristic result satisfies the full schema.
	assert.NotEmpty(t, got.Summary)
	assert.NotEmpty(t, got.Issues)
	assert.NotEmpty(t, got.Actions)
	_, ok := coerceType(string(got.Type))
	assert.True(t, ok)
	_, ok = coerceLevel(string(got.Urgency))
	assert.True(t, ok)
	_, ok = coerceSentiment(string(got.Sentiment))
	assert.True(t, ok)
	_, ok = coerceResponseTime(string(got.ResponseTime))
	assert.True(t, ok)
}

func TestAnalyzeNilGeneratorsSkipStraightToHeuristic(t *testing.T) {
	o := newTestOrchestrator(nil, nil)

	got, tier := o.Analyze(context.Background(), testThread())
	assert.Equal(t, TierHeuristic, tier)
	assert.Equal(t, TypeSales, got.Type)
}

func TestBoundThread(t *testing.T) {
	thread := mail.Thread{
		{From: "a@b.com", Subject: "First", Body: "one", Date: "2026-01-01"},
		{From: "b@b.com", Subject: "Second", Body: "two", Date: "2026-01-02"},
		{From: "c@b.com", Subject: "Third", Body: "three", Date: "2026-01-03"},
	}

	text := BoundThread(thread, PromptLimits{MaxMessages: 2, MaxChars: 12000})
	// Only the tail survives, renumbered from 1.
	assert.NotContains(t, text, "First")
	assert.Contains(t, text, "Email 1:\nFrom: b@b.com")
	assert.Contains(t, text, "Email 2:\nFrom: c@b.com")

	require.Greater(t, len(text), 20)
	truncated := BoundThread(thread, PromptLimits{MaxMessages: 3, MaxChars: 20})
	assert.Len(t, truncated, 20)
}

func TestBoundThreadPlaceholders(t *testing.T) {
	text := BoundThread(mail.Thread{{Body: "hello"}}, PromptLimits{})
	assert.Contains(t, text, "From: Unknown")
	assert.Contains(t, text, "Subject: No Subject")
	assert.Contains(t, text, "Date: Unknown")
}
