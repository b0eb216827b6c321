package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xecurify/draftpilot/internal/analyze"
	"github.com/xecurify/draftpilot/internal/config"
	"github.com/xecurify/draftpilot/internal/genai"
	"github.com/xecurify/draftpilot/internal/gmail"
	"github.com/xecurify/draftpilot/internal/google"
	"github.com/xecurify/draftpilot/internal/instrumentation"
	"github.com/xecurify/draftpilot/internal/pipeline"
)

// buildRunner assembles the pipeline from the configuration: Gmail
// client, remote analyzer transports when an API key is configured,
// and the instrumentation recorder.
func buildRunner(ctx context.Context, cfg config.Config, provider *instrumentation.Provider, auditCfg instrumentation.AuditLoggingConfig, dryRun bool) (*pipeline.Runner, error) {
	account := cfg.Mailbox.Account
	if !google.HasToken(account) {
		return nil, fmt.Errorf("no cached token for account %q; run 'draftpilot auth' first", account)
	}

	mailbox, err := gmail.NewClient(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("create gmail client for account %s: %w", account, err)
	}

	var primary, secondary analyze.Generator
	if cfg.Analyzer.Configured() {
		genaiCfg := genai.Config{
			APIKey:          cfg.Analyzer.APIKey,
			Model:           cfg.Analyzer.Model,
			Endpoint:        cfg.Analyzer.Endpoint,
			Temperature:     cfg.Analyzer.Temperature,
			TopP:            cfg.Analyzer.TopP,
			MaxOutputTokens: cfg.Analyzer.MaxOutputTokens,
			Timeout:         cfg.Analyzer.Timeout(),
		}
		primary = genai.NewClient(genaiCfg)
		secondary = genai.NewRESTClient(genaiCfg)
	} else {
		slog.Info("no analyzer API key configured, using heuristic analysis only")
	}

	return pipeline.New(cfg, pipeline.Options{
		Mailbox:   mailbox,
		Primary:   primary,
		Secondary: secondary,
		Metrics:   provider.Metrics(),
		Audit:     instrumentation.NewAuditLogger(nil, auditCfg),
		Logger:    slog.Default(),
		Tracer:    provider.Tracer(instrumentation.TracerName),
		DryRun:    dryRun,
	})
}
