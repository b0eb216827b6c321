package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/xecurify/draftpilot/internal/analyze"
	"github.com/xecurify/draftpilot/internal/instrumentation"
)

// errBudgetExhausted makes an exhausted budget look like any other
// remote failure, so the orchestrator falls through to the heuristic
// tier.
var errBudgetExhausted = errors.New("remote call budget exhausted for this run")

// callBudget caps remote generator calls within a single run. Shared
// across the primary and secondary tiers. Not safe for concurrent use;
// a run processes messages sequentially.
type callBudget struct {
	remaining int
}

func (b *callBudget) take() bool {
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// meteredGenerator wraps a transport with call metrics and an optional
// budget gate.
type meteredGenerator struct {
	gen       analyze.Generator
	transport string
	budget    *callBudget
	metrics   *instrumentation.Metrics
}

// meter wraps gen; a nil gen stays nil so the orchestrator skips the
// tier entirely.
func (r *Runner) meter(gen analyze.Generator, transport string, budget *callBudget) analyze.Generator {
	if gen == nil {
		return nil
	}
	return &meteredGenerator{
		gen:       gen,
		transport: transport,
		budget:    budget,
		metrics:   r.metrics,
	}
}

func (g *meteredGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.budget != nil && !g.budget.take() {
		return "", errBudgetExhausted
	}

	start := time.Now()
	out, err := g.gen.Generate(ctx, prompt)
	status := instrumentation.StatusSuccess
	if err != nil {
		status = instrumentation.StatusError
	}
	g.metrics.RecordGeneratorCall(ctx, g.transport, status, time.Since(start))
	return out, err
}
