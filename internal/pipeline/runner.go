// Package pipeline drives one mailbox check end to end: list unread
// messages, classify each, analyze its thread, compose a reply draft,
// and record progress in the checkpoint.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/xecurify/draftpilot/internal/analyze"
	"github.com/xecurify/draftpilot/internal/classify"
	"github.com/xecurify/draftpilot/internal/config"
	"github.com/xecurify/draftpilot/internal/instrumentation"
	"github.com/xecurify/draftpilot/internal/logging"
	"github.com/xecurify/draftpilot/internal/mail"
	"github.com/xecurify/draftpilot/internal/reply"
	"github.com/xecurify/draftpilot/internal/threadctx"
	"github.com/xecurify/draftpilot/internal/track"
)

// Mailbox is the provider surface the runner needs. The gmail package
// implements it; tests substitute a fake.
type Mailbox interface {
	Account() string
	ListUnread(limit int64) ([]mail.Message, error)
	GetThread(threadID string) (mail.Thread, error)
	CreateDraftReply(original mail.Message, body string) error
	MarkRead(messageID string) error
}

// Options carries the runner's collaborators. Mailbox is required;
// everything else has a working default.
type Options struct {
	Mailbox   Mailbox
	Primary   analyze.Generator
	Secondary analyze.Generator
	Tracker   *track.Tracker
	Metrics   *instrumentation.Metrics
	Audit     *instrumentation.AuditLogger
	Logger    *slog.Logger
	Tracer    trace.Tracer

	// DryRun suppresses every mailbox mutation and checkpoint write.
	DryRun bool
}

// Summary reports what one run did.
type Summary struct {
	Checked   int
	Processed int
	Drafted   int
	Skipped   int
	Failed    int
}

// Runner holds the per-account pipeline state. It keeps no mutable
// module-level state; everything lives on the struct.
type Runner struct {
	cfg         config.Config
	mailbox     Mailbox
	classifier  *classify.Classifier
	heuristic   *analyze.Heuristic
	primary     analyze.Generator
	secondary   analyze.Generator
	replyGen    analyze.Generator
	templates   reply.Templates
	tracker     *track.Tracker
	metrics     *instrumentation.Metrics
	audit       *instrumentation.AuditLogger
	logger      *slog.Logger
	tracer      trace.Tracer
	limits      analyze.PromptLimits
	errCooldown time.Duration
	dryRun      bool
}

// New builds a runner from the configuration. The classifier tables
// come from config overrides when present, production defaults
// otherwise.
func New(cfg config.Config, opts Options) (*Runner, error) {
	if opts.Mailbox == nil {
		return nil, errors.New("pipeline: mailbox is required")
	}

	tables := classify.DefaultTables()
	if cfg.Classifier.SpecialSender != "" {
		tables.SpecialSender = cfg.Classifier.SpecialSender
	}
	if cfg.Classifier.TriggerPhrase != "" {
		tables.TriggerPhrase = cfg.Classifier.TriggerPhrase
	}
	if len(cfg.Classifier.Patterns) > 0 {
		compiled, err := classify.CompilePatterns(classify.DefaultOrder(), cfg.Classifier.Patterns)
		if err != nil {
			return nil, fmt.Errorf("pipeline: compile classifier patterns: %w", err)
		}
		tables.Categories = compiled
	}

	tracker := opts.Tracker
	if tracker == nil {
		path := cfg.Checkpoint.Path
		if path == "" {
			path = track.DefaultPath()
		}
		var err error
		tracker, err = track.New(path, cfg.Checkpoint.Enabled)
		if err != nil {
			return nil, fmt.Errorf("pipeline: open checkpoint: %w", err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(instrumentation.TracerName)
	}

	r := &Runner{
		cfg:        cfg,
		mailbox:    opts.Mailbox,
		classifier: classify.New(tables),
		heuristic:  analyze.NewDefaultHeuristic(),
		primary:    opts.Primary,
		secondary:  opts.Secondary,
		templates:  reply.DefaultTemplates(),
		tracker:    tracker,
		metrics:    metrics,
		audit:      opts.Audit,
		logger:     logger,
		tracer:     tracer,
		limits: analyze.PromptLimits{
			MaxMessages: cfg.Prompt.MaxThreadMessages,
			MaxChars:    cfg.Prompt.MaxThreadChars,
		},
		errCooldown: watchErrorCooldown,
		dryRun:      opts.DryRun,
	}
	// Reply generation reuses the primary transport, without the
	// analysis call budget.
	r.replyGen = r.meter(opts.Primary, "reply", nil)
	return r, nil
}

// Run performs one mailbox check. Per-message failures are isolated:
// the message is neither marked processed nor advances the checkpoint,
// and the run continues with the next one.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	ctx, span := instrumentation.StartSpan(ctx, r.tracer, "pipeline.run",
		trace.WithAttributes(attribute.String(instrumentation.AttrPipelineOperation, "run")),
	)
	defer span.End()

	r.tracker.ResetRun()

	orch := r.newOrchestrator()

	msgs, err := r.listUnread(ctx)
	if err != nil {
		instrumentation.SetSpanError(span, err)
		r.metrics.RecordRun(ctx, instrumentation.StatusError, time.Since(start))
		return Summary{}, err
	}

	sum := Summary{Checked: len(msgs)}
	for i, msg := range msgs {
		if ctx.Err() != nil {
			break
		}

		if reason, markRead := r.skipReason(msg); reason != "" {
			r.skip(ctx, msg, reason, markRead)
			sum.Skipped++
			continue
		}

		drafted, err := r.processSpanned(ctx, orch, msg)
		if err != nil {
			sum.Failed++
			r.logger.Error("message processing failed",
				logging.MessageID(msg.ID),
				logging.Thread(msg.ThreadID),
				logging.Err(err),
			)
			r.metrics.RecordMessageProcessed(ctx, instrumentation.StatusError)
			continue
		}

		sum.Processed++
		if drafted {
			sum.Drafted++
		}
		r.metrics.RecordMessageProcessed(ctx, instrumentation.StatusSuccess)
		if !r.dryRun {
			r.tracker.MarkProcessed(msg.ID)
			r.tracker.Advance(msg.Timestamp)
		}

		if i < len(msgs)-1 {
			if err := sleepCtx(ctx, r.cfg.Mailbox.MessageDelay()); err != nil {
				break
			}
		}
	}

	// The watermark is persisted only once the whole batch has been
	// attempted. A cancelled run keeps it in memory; unread lists come
	// newest first, so flushing here would fence out every older
	// message the run never reached.
	if !r.dryRun && ctx.Err() == nil {
		if err := r.tracker.Flush(); err != nil {
			r.logger.Error("checkpoint flush failed", logging.Err(err))
		}
	}

	duration := time.Since(start)
	instrumentation.SetSpanSuccess(span)
	r.metrics.RecordRun(ctx, instrumentation.StatusSuccess, duration)
	if r.audit != nil {
		r.audit.RunCompleted(ctx, instrumentation.RunEvent{
			Account:   r.mailbox.Account(),
			Checked:   sum.Checked,
			Processed: sum.Processed,
			Drafted:   sum.Drafted,
			Failed:    sum.Failed,
			Duration:  duration,
		})
	}
	r.logger.Info("run completed",
		slog.Int("checked", sum.Checked),
		slog.Int("processed", sum.Processed),
		slog.Int("drafted", sum.Drafted),
		slog.Int("skipped", sum.Skipped),
		slog.Int("failed", sum.Failed),
		logging.Duration(duration),
	)
	return sum, nil
}

// watchErrorCooldown is the pause before retrying a failed run,
// shorter than the regular check interval.
const watchErrorCooldown = time.Minute

// Watch runs checks continuously until the context is cancelled. Run
// errors are logged and retried after a short cooldown; they never
// stop the loop.
func (r *Runner) Watch(ctx context.Context, onRun func(error)) error {
	interval := r.cfg.Mailbox.CheckInterval()
	for {
		_, err := r.Run(ctx)
		pause := interval
		if err != nil {
			pause = r.errCooldown
			r.logger.Error("run failed, retrying after cooldown",
				logging.Err(err),
				slog.Duration("cooldown", pause),
			)
		}
		if onRun != nil {
			onRun(err)
		}

		if err := sleepCtx(ctx, pause); err != nil {
			return ctx.Err()
		}
	}
}

func (r *Runner) listUnread(ctx context.Context) ([]mail.Message, error) {
	start := time.Now()
	msgs, err := r.mailbox.ListUnread(int64(r.cfg.Mailbox.MaxMessagesPerCheck))
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	r.metrics.RecordMailboxOperation(ctx, "list", status, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("list unread: %w", err)
	}
	return msgs, nil
}

// skipReason decides whether a message bypasses processing. The second
// return says whether the skipped message should still be marked read,
// which auto-replies are so they do not pile up unread.
func (r *Runner) skipReason(msg mail.Message) (reason string, markRead bool) {
	if target := r.cfg.Mailbox.TargetRecipient; target != "" && !addressedTo(msg, target) {
		return "not addressed to target recipient", false
	}
	if isAutoReply(msg) {
		return "auto-reply or no-reply sender", true
	}
	if !r.tracker.Eligible(msg.Timestamp) {
		return "behind checkpoint", false
	}
	if r.tracker.Processed(msg.ID) {
		return "already processed this run", false
	}
	return "", false
}

func (r *Runner) skip(ctx context.Context, msg mail.Message, reason string, markRead bool) {
	r.logger.Info("skipping message",
		logging.MessageID(msg.ID),
		slog.String("reason", reason),
	)
	if r.audit != nil {
		r.audit.MessageSkipped(ctx, msg.ID, reason)
	}
	r.metrics.RecordMessageProcessed(ctx, instrumentation.StatusSkipped)
	if markRead && !r.dryRun {
		if err := r.markRead(ctx, msg.ID); err != nil {
			r.logger.Error("mark read failed", logging.MessageID(msg.ID), logging.Err(err))
		}
	}
}

// processSpanned wraps one message's processing in its own span.
func (r *Runner) processSpanned(ctx context.Context, orch *analyze.Orchestrator, msg mail.Message) (bool, error) {
	ctx, span := instrumentation.StartSpan(ctx, r.tracer, "pipeline.message",
		trace.WithAttributes(instrumentation.MessageAttributes(msg.ThreadID, msg.ID)...),
	)
	defer span.End()

	drafted, err := r.process(ctx, orch, msg)
	if err != nil {
		instrumentation.SetSpanError(span, err)
	} else {
		instrumentation.SetSpanSuccess(span)
	}
	return drafted, err
}

// process handles one eligible message: thread fetch, classification,
// tiered analysis, draft composition. Returns whether a draft was
// created.
func (r *Runner) process(ctx context.Context, orch *analyze.Orchestrator, msg mail.Message) (bool, error) {
	thread, err := r.fetchThread(ctx, msg)
	if err != nil {
		return false, err
	}

	info := threadctx.Aggregate(thread)
	category := r.classifier.Classify(msg.Subject, msg.Body, msg.From, thread)

	analysis, tier := orch.Analyze(ctx, thread)
	r.metrics.RecordAnalysis(ctx, string(tier))
	r.logger.Info("thread analyzed",
		logging.Thread(msg.ThreadID),
		logging.Category(string(category)),
		logging.Tier(string(tier)),
		slog.String("urgency", string(analysis.Urgency)),
		slog.String("summary", analysis.Summary),
		logging.UserHash(msg.From),
	)

	if category == classify.CategoryDefault {
		if r.audit != nil {
			r.audit.MessageSkipped(ctx, msg.ID, "no automated response for default category")
		}
		return false, r.finishWithoutDraft(ctx, msg)
	}
	if !r.cfg.Reply.AutoDraft {
		return false, r.finishWithoutDraft(ctx, msg)
	}

	body := r.compose(ctx, msg, thread, info, category)

	if r.dryRun {
		r.logger.Info("dry run, draft suppressed",
			logging.MessageID(msg.ID),
			logging.Category(string(category)),
		)
		return false, nil
	}

	if err := r.createDraft(ctx, msg, body); err != nil {
		return false, err
	}
	if err := r.markRead(ctx, msg.ID); err != nil {
		return true, err
	}

	r.metrics.RecordDraftCreated(ctx, string(category), r.mailbox.Account())
	if r.audit != nil {
		r.audit.DraftCreated(ctx, instrumentation.DraftEvent{
			Account:   r.mailbox.Account(),
			ThreadID:  msg.ThreadID,
			MessageID: msg.ID,
			Sender:    msg.From,
			Category:  string(category),
			Tier:      string(tier),
		})
	}
	return true, nil
}

// compose prefers a generated reply when a transport is configured,
// falling back to the category template with the conversation context
// block.
func (r *Runner) compose(ctx context.Context, msg mail.Message, thread mail.Thread, info *threadctx.Context, category classify.Category) string {
	if r.replyGen != nil {
		if body, ok := reply.GenerateReply(ctx, r.replyGen, msg, thread, r.limits); ok {
			return reply.AppendSignature(body, r.cfg.Reply.Signature)
		}
		r.logger.Warn("generated reply unavailable, using template",
			logging.MessageID(msg.ID),
			logging.Category(string(category)),
		)
	}

	tmpl := reply.Customize(r.templates.For(category), r.cfg.Reply.AgentName)
	body := reply.ComposeTemplate(tmpl, info)
	return reply.AppendSignature(body, r.cfg.Reply.Signature)
}

func (r *Runner) finishWithoutDraft(ctx context.Context, msg mail.Message) error {
	if r.dryRun {
		return nil
	}
	return r.markRead(ctx, msg.ID)
}

func (r *Runner) fetchThread(ctx context.Context, msg mail.Message) (mail.Thread, error) {
	if msg.ThreadID == "" {
		return mail.Thread{msg}, nil
	}
	start := time.Now()
	thread, err := r.mailbox.GetThread(msg.ThreadID)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	r.metrics.RecordMailboxOperation(ctx, "get_thread", status, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("fetch thread %s: %w", msg.ThreadID, err)
	}
	if len(thread) == 0 {
		thread = mail.Thread{msg}
	}
	return thread, nil
}

func (r *Runner) createDraft(ctx context.Context, msg mail.Message, body string) error {
	start := time.Now()
	err := r.mailbox.CreateDraftReply(msg, body)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	r.metrics.RecordMailboxOperation(ctx, "create_draft", status, time.Since(start))
	if err != nil {
		return fmt.Errorf("create draft for %s: %w", msg.ID, err)
	}
	return nil
}

func (r *Runner) markRead(ctx context.Context, messageID string) error {
	start := time.Now()
	err := r.mailbox.MarkRead(messageID)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	r.metrics.RecordMailboxOperation(ctx, "mark_read", status, time.Since(start))
	if err != nil {
		return fmt.Errorf("mark read %s: %w", messageID, err)
	}
	return nil
}

// newOrchestrator wires the tier chain with a fresh per-run call
// budget over the remote generators.
func (r *Runner) newOrchestrator() *analyze.Orchestrator {
	budget := &callBudget{remaining: r.cfg.Analyzer.CallBudget}
	return analyze.NewOrchestrator(
		r.meter(r.primary, "primary", budget),
		r.meter(r.secondary, "secondary", budget),
		r.heuristic,
		r.limits,
		r.logger,
	)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
