package reply

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xecurify/draftpilot/internal/analyze"
	"github.com/xecurify/draftpilot/internal/classify"
	"github.com/xecurify/draftpilot/internal/mail"
	"github.com/xecurify/draftpilot/internal/threadctx"
)

func TestComposeTemplateWithoutContext(t *testing.T) {
	assert.Equal(t, "body", ComposeTemplate("body", nil))

	// Initial exchanges get no context block either.
	initial := &threadctx.Context{TotalMessages: 2, Summary: "Initial conversation"}
	assert.Equal(t, "body", ComposeTemplate("body", initial))
}

func TestComposeTemplateAppendsContextBlock(t *testing.T) {
	info := &threadctx.Context{
		TotalMessages: 4,
		Summary:       "Price discussion; Meeting coordination",
		Topics: []threadctx.TermCount{
			{Term: "pricing", Count: 5},
			{Term: "demo", Count: 3},
			{Term: "license", Count: 2},
			{Term: "seat", Count: 1},
		},
	}

	got := ComposeTemplate("body", info)
	assert.True(t, strings.HasPrefix(got, "body\n\n--- Conversation Context ---\n"))
	assert.Contains(t, got, "Summary: Price discussion; Meeting coordination")
	assert.Contains(t, got, "Messages in thread: 4")
	// Topics capped at three.
	assert.Contains(t, got, "Key topics: pricing, demo, license")
	assert.NotContains(t, got, "seat")
}

type fixedGenerator struct {
	out string
	err error
}

func (g fixedGenerator) Generate(context.Context, string) (string, error) {
	return g.out, g.err
}

type promptCapture struct {
	prompt string
}

func (g *promptCapture) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return strings.Repeat("thanks for reaching out ", 4), nil
}

var longReply = "Thanks for the detail. We will investigate the LDAP bind failures and follow up with a fix timeline."

func TestGenerateReplyAcceptsValidText(t *testing.T) {
	got, ok := GenerateReply(context.Background(), fixedGenerator{out: longReply},
		mail.Message{Subject: "s"}, mail.Thread{{Subject: "s"}}, analyze.PromptLimits{})
	require.True(t, ok)
	assert.Equal(t, longReply, got)
}

func TestGenerateReplyValidation(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{name: "generator error", out: longReply, err: errors.New("down")},
		{name: "too short", out: "Thanks!"},
		{name: "too short despite multibyte width", out: strings.Repeat("é", 25)},
		{name: "no letters despite length", out: strings.Repeat("1234567890 ", 8)},
		{name: "empty", out: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := GenerateReply(context.Background(), fixedGenerator{out: tt.out, err: tt.err},
				mail.Message{}, mail.Thread{{}}, analyze.PromptLimits{})
			assert.False(t, ok)
		})
	}
}

func TestGenerateReplyStripsCodeFence(t *testing.T) {
	fenced := "```text\n" + longReply + "\n```"
	got, ok := GenerateReply(context.Background(), fixedGenerator{out: fenced},
		mail.Message{}, mail.Thread{{}}, analyze.PromptLimits{})
	require.True(t, ok)
	assert.Equal(t, longReply, got)
}

func TestGenerateReplyNilGenerator(t *testing.T) {
	_, ok := GenerateReply(context.Background(), nil, mail.Message{}, nil, analyze.PromptLimits{})
	assert.False(t, ok)
}

func TestGenerateReplyPromptForbidsSignature(t *testing.T) {
	gen := &promptCapture{}
	latest := mail.Message{Subject: "LDAP sync broken", From: "jane@customer.com", Body: "It fails nightly."}

	_, ok := GenerateReply(context.Background(), gen, latest, mail.Thread{latest}, analyze.PromptLimits{})
	require.True(t, ok)
	assert.Contains(t, gen.prompt, "Do NOT include any sign-off")
	assert.Contains(t, gen.prompt, "Subject: LDAP sync broken")
	assert.Contains(t, gen.prompt, "Thread Context:")
}

func TestGenerateReplyUsesLatestWhenThreadEmpty(t *testing.T) {
	gen := &promptCapture{}
	latest := mail.Message{Subject: "Solo", From: "jane@customer.com", Body: "No thread yet."}

	_, ok := GenerateReply(context.Background(), gen, latest, nil, analyze.PromptLimits{})
	require.True(t, ok)
	assert.Contains(t, gen.prompt, "Email 1:\nFrom: jane@customer.com")
}

func TestAppendSignature(t *testing.T) {
	assert.Equal(t, "body", AppendSignature("body", ""))
	assert.Equal(t, "body\n\n-- \nSupport Team", AppendSignature("body", "Support Team"))
}

func TestTemplatesFallback(t *testing.T) {
	templates := DefaultTemplates()

	assert.Contains(t, templates.For(classify.CategoryPricing), "pricing information")
	assert.Contains(t, templates.For(classify.CategoryPAMQuery), "PAM solution")
	// Unknown category falls back to the default template.
	assert.Equal(t, templates[classify.CategoryDefault], templates.For(classify.Category("nonsense")))
}

func TestCustomize(t *testing.T) {
	assert.Equal(t, "Best regards,\nMohak", Customize("Best regards,\n[Your Name]", "Mohak"))
	assert.Equal(t, "Best regards,\n[Your Name]", Customize("Best regards,\n[Your Name]", ""))
}
