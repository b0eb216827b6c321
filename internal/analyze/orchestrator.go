package analyze

import (
	"context"
	"log/slog"

	"github.com/xecurify/draftpilot/internal/logging"
	"github.com/xecurify/draftpilot/internal/mail"
)

// Generator produces unstructured text from a prompt. Both remote
// transports implement it; the orchestrator parses whatever comes back.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Tier identifies which stage of the fallback chain produced an
// Analysis.
type Tier string

const (
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierHeuristic Tier = "heuristic"
)

// state is the orchestrator's position in the fallback chain. Each
// state has exactly one transition, taken on failure.
type state int

const (
	stateStart state = iota
	statePrimary
	stateSecondary
	stateFallback
)

// Orchestrator walks the tier chain until one tier yields a populated
// Analysis. It never fails: the heuristic tier is terminal.
type Orchestrator struct {
	primary   Generator
	secondary Generator
	heuristic *Heuristic
	limits    PromptLimits
	logger    *slog.Logger
}

// NewOrchestrator wires the tier chain. Either generator may be nil,
// meaning that tier is skipped.
func NewOrchestrator(primary, secondary Generator, heuristic *Heuristic, limits PromptLimits, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		primary:   primary,
		secondary: secondary,
		heuristic: heuristic,
		limits:    limits,
		logger:    logger,
	}
}

// Analyze runs the fallback chain over the thread and reports which
// tier produced the result. An empty thread short-circuits to the
// Default Analysis.
func (o *Orchestrator) Analyze(ctx context.Context, thread mail.Thread) (Analysis, Tier) {
	st := stateStart
	var prompt string

	for {
		switch st {
		case stateStart:
			if len(thread) == 0 {
				return DefaultAnalysis(), TierHeuristic
			}
			prompt = BuildAnalysisPrompt(thread, o.limits)
			st = statePrimary

		case statePrimary:
			if o.primary == nil {
				st = stateSecondary
				continue
			}
			if a, ok := o.generate(ctx, o.primary, prompt, TierPrimary); ok {
				return a, TierPrimary
			}
			st = stateSecondary

		case stateSecondary:
			if o.secondary == nil {
				st = stateFallback
				continue
			}
			if a, ok := o.generate(ctx, o.secondary, prompt, TierSecondary); ok {
				return a, TierSecondary
			}
			st = stateFallback

		case stateFallback:
			return o.heuristic.Analyze(thread), TierHeuristic
		}
	}
}

// generate invokes one tier and parses its payload. Transport errors
// and unparseable payloads are equivalent: both mean "try the next
// tier".
func (o *Orchestrator) generate(ctx context.Context, g Generator, prompt string, tier Tier) (Analysis, bool) {
	raw, err := g.Generate(ctx, prompt)
	if err != nil {
		o.logger.Warn("analysis tier failed",
			logging.Tier(string(tier)), logging.Err(err))
		return Analysis{}, false
	}

	analysis, err := ParsePayload(raw)
	if err != nil {
		o.logger.Warn("analysis payload unparseable",
			logging.Tier(string(tier)), logging.Err(err))
		return Analysis{}, false
	}
	return analysis, true
}
