package threadctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xecurify/draftpilot/internal/mail"
)

func msg(from, subject, body string) mail.Message {
	return mail.Message{From: from, Subject: subject, Body: body}
}

func TestAggregateShortThreads(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
	assert.Nil(t, Aggregate(mail.Thread{msg("a@x.com", "hi", "one message")}))
}

func TestAggregateInitialConversation(t *testing.T) {
	thread := mail.Thread{
		msg("alice@x.com", "Pricing", "What does it cost?"),
		msg("bob@y.com", "Re: Pricing", "Depends on seats."),
	}

	ctx := Aggregate(thread)
	require.NotNil(t, ctx)
	assert.Equal(t, 2, ctx.TotalMessages)
	assert.Equal(t, "Initial conversation", ctx.Summary)
	assert.Empty(t, ctx.Topics)
	assert.Equal(t, []string{"alice@x.com", "bob@y.com"}, ctx.Participants)
	assert.Equal(t, "bob@y.com", ctx.LastSender)
}

func TestAggregateLongThread(t *testing.T) {
	thread := mail.Thread{
		msg("alice@x.com", "Pricing question", "What does the license cost? Can we get a demo?"),
		msg("bob@y.com", "Re: Pricing question", "Pricing depends on seats. Happy to run a demo."),
		msg("alice@x.com", "Re: Pricing question", "Thanks! The demo sounds good. Pricing per seat works."),
	}

	ctx := Aggregate(thread)
	require.NotNil(t, ctx)
	assert.Equal(t, 3, ctx.TotalMessages)

	// Participants deduplicate case-insensitively, first-seen order.
	assert.Equal(t, []string{"alice@x.com", "bob@y.com"}, ctx.Participants)
	assert.Equal(t, "alice@x.com", ctx.LastSender)

	// All predicate clauses fire, in their fixed order.
	assert.Equal(t,
		"Contains questions; Price discussion; Meeting coordination; Appreciation expressed",
		ctx.Summary)

	require.NotEmpty(t, ctx.Topics)
	assert.LessOrEqual(t, len(ctx.Topics), 5)
	// "pricing" appears in every subject plus two bodies.
	assert.Equal(t, "pricing", ctx.Topics[0].Term)
	assert.Equal(t, 5, ctx.Topics[0].Count)
}

func TestAggregateGeneralDiscussion(t *testing.T) {
	thread := mail.Thread{
		msg("a@x.com", "Notes", "Sharing some notes."),
		msg("b@y.com", "Re: Notes", "Received the notes."),
		msg("a@x.com", "Re: Notes", "Great."),
	}

	ctx := Aggregate(thread)
	require.NotNil(t, ctx)
	assert.Equal(t, "General discussion", ctx.Summary)
}

func TestTopicsTieBreakFirstSeen(t *testing.T) {
	thread := mail.Thread{
		msg("a@x.com", "", "alpha beta"),
		msg("b@y.com", "", "beta alpha"),
		msg("a@x.com", "", "gamma"),
	}

	ctx := Aggregate(thread)
	require.NotNil(t, ctx)
	require.Len(t, ctx.Topics, 3)
	// alpha and beta tie at 2; alpha was seen first.
	assert.Equal(t, "alpha", ctx.Topics[0].Term)
	assert.Equal(t, "beta", ctx.Topics[1].Term)
	assert.Equal(t, "gamma", ctx.Topics[2].Term)
}
