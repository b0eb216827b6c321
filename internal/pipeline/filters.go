package pipeline

import (
	"strings"

	"github.com/xecurify/draftpilot/internal/mail"
)

// autoReplyIndicators flag automated senders and out-of-office
// subjects. Drafting replies to these would loop forever.
var autoReplyIndicators = []string{
	"auto-reply",
	"automatic reply",
	"out of office",
	"vacation",
	"away message",
	"no-reply",
	"noreply",
	"donotreply",
}

// isAutoReply reports whether the message comes from an automated
// sender or carries an auto-reply subject.
func isAutoReply(msg mail.Message) bool {
	sender := strings.ToLower(msg.From)
	subject := strings.ToLower(msg.Subject)
	for _, indicator := range autoReplyIndicators {
		if strings.Contains(sender, indicator) || strings.Contains(subject, indicator) {
			return true
		}
	}
	return false
}

// addressedTo reports whether the target address appears among the
// message's To or Cc recipients, case-insensitive.
func addressedTo(msg mail.Message, target string) bool {
	target = strings.ToLower(target)
	for _, addr := range msg.To {
		if strings.Contains(strings.ToLower(addr), target) {
			return true
		}
	}
	for _, addr := range msg.Cc {
		if strings.Contains(strings.ToLower(addr), target) {
			return true
		}
	}
	return false
}
