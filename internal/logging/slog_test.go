package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "regular address", email: "alice@example.com"},
		{name: "address with name part", email: "Alice Smith <alice@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			assert.NotEmpty(t, got)
			assert.NotContains(t, got, "alice")
			assert.Contains(t, got, "user:")
			// Deterministic for correlation across log lines.
			assert.Equal(t, got, AnonymizeEmail(tt.email))
		})
	}
}

func TestAnonymizeEmailEmpty(t *testing.T) {
	assert.Equal(t, "", AnonymizeEmail(""))
}

func TestErrNil(t *testing.T) {
	attr := Err(nil)
	// A nil error must collapse to an empty group so it is omitted from output.
	assert.Equal(t, slog.KindGroup, attr.Value.Kind())
}

func TestErrNonNil(t *testing.T) {
	attr := Err(assert.AnError)
	assert.Equal(t, KeyError, attr.Key)
	assert.Equal(t, assert.AnError.Error(), attr.Value.String())
}

func TestAttributeConstructors(t *testing.T) {
	tests := []struct {
		name string
		attr slog.Attr
		key  string
		val  string
	}{
		{name: "operation", attr: Operation("classify"), key: KeyOperation, val: "classify"},
		{name: "category", attr: Category("pricing"), key: KeyCategory, val: "pricing"},
		{name: "tier", attr: Tier("heuristic"), key: KeyTier, val: "heuristic"},
		{name: "thread", attr: Thread("t-1"), key: KeyThread, val: "t-1"},
		{name: "message", attr: MessageID("m-1"), key: KeyMessage, val: "m-1"},
		{name: "status", attr: Status(StatusSuccess), key: KeyStatus, val: "success"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.key, tt.attr.Key)
			assert.Equal(t, tt.val, tt.attr.Value.String())
		})
	}
}
