package instrumentation

import (
	"context"
	"log/slog"
	"time"

	"github.com/xecurify/draftpilot/internal/logging"
)

// AuditLogger emits structured audit events for pipeline decisions.
// Events go to the standard structured log with an "audit" marker so
// they can be routed to separate retention.
type AuditLogger struct {
	logger  *slog.Logger
	config  AuditLoggingConfig
	enabled bool
}

// DraftEvent describes one draft-creation decision.
type DraftEvent struct {
	Account   string
	ThreadID  string
	MessageID string
	Sender    string
	Category  string
	Tier      string
	DryRun    bool
}

// RunEvent describes one completed pipeline run.
type RunEvent struct {
	Account   string
	Checked   int
	Processed int
	Drafted   int
	Failed    int
	Duration  time.Duration
}

// NewAuditLogger creates an audit logger. A nil slog logger falls back
// to slog.Default().
func NewAuditLogger(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:  logger,
		config:  config,
		enabled: config.Enabled,
	}
}

// DraftCreated records a draft-creation audit event. The sender address
// is anonymized unless PII logging is explicitly enabled.
func (a *AuditLogger) DraftCreated(ctx context.Context, event DraftEvent) {
	if a == nil || !a.enabled {
		return
	}

	sender := logging.AnonymizeEmail(event.Sender)
	if a.config.IncludePII {
		sender = event.Sender
	}

	attrs := []slog.Attr{
		slog.String("audit", "draft_created"),
		slog.String("account", logging.AnonymizeEmail(event.Account)),
		logging.Thread(event.ThreadID),
		logging.MessageID(event.MessageID),
		slog.String("sender", sender),
		logging.Category(event.Category),
		logging.Tier(event.Tier),
		slog.Bool("dry_run", event.DryRun),
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}

	a.logger.LogAttrs(ctx, slog.LevelInfo, "draft created", attrs...)
}

// MessageSkipped records why a message was left without a draft.
func (a *AuditLogger) MessageSkipped(ctx context.Context, messageID, reason string) {
	if a == nil || !a.enabled {
		return
	}
	attrs := []slog.Attr{
		slog.String("audit", "message_skipped"),
		logging.MessageID(messageID),
		slog.String("reason", reason),
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "message skipped", attrs...)
}

// RunCompleted records the summary of one pipeline run.
func (a *AuditLogger) RunCompleted(ctx context.Context, event RunEvent) {
	if a == nil || !a.enabled {
		return
	}
	attrs := []slog.Attr{
		slog.String("audit", "run_completed"),
		slog.String("account", logging.AnonymizeEmail(event.Account)),
		slog.Int("checked", event.Checked),
		slog.Int("processed", event.Processed),
		slog.Int("drafted", event.Drafted),
		slog.Int("failed", event.Failed),
		slog.Duration("duration", event.Duration),
	}
	if traceID := GetTraceID(ctx); traceID != "" {
		attrs = append(attrs, slog.String("trace_id", traceID))
	}
	a.logger.LogAttrs(ctx, slog.LevelInfo, "run completed", attrs...)
}
