// Package oracle adapts LLM providers to the evaluation flow. Each backend
// turns an EvaluationRequest into the raw JSON payload that audit validates;
// the backends never interpret scores themselves.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/config"
	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/pkg/anthropic"
	"github.com/jammin-qa/quality-cli/pkg/gemini"
)

// Backend is the full provider surface: structured evaluation, free-form
// consulting questions, and speech synthesis. Backends that cannot serve an
// operation return an error rather than degrading silently.
type Backend interface {
	audit.Oracle
	Ask(ctx context.Context, question string, rubric model.Rubric) (string, error)
	Synthesize(ctx context.Context, script, voiceName string) ([]byte, error)
}

// New builds the configured backend.
func New(cfg *config.Config) (Backend, error) {
	switch cfg.Oracle.Provider {
	case "gemini":
		var opts []gemini.Option
		if cfg.Gemini.BaseURL != "" {
			opts = append(opts, gemini.WithBaseURL(cfg.Gemini.BaseURL))
		}
		return NewGemini(gemini.NewClient(cfg.Gemini.Key, opts...), cfg.Gemini, cfg.Oracle.RetryAttempts), nil
	case "anthropic":
		return NewAnthropic(anthropic.NewClient(cfg.Anthropic.Key), cfg.Anthropic, cfg.Oracle.RetryAttempts), nil
	default:
		return nil, eris.Errorf("oracle: unknown provider %q", cfg.Oracle.Provider)
	}
}

// withRetry runs fn up to attempts+1 times with doubling backoff, starting
// at one second. attempts <= 0 means a single try.
func withRetry(ctx context.Context, attempts int, op string, fn func() error) error {
	backoff := time.Second
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		if attempt >= attempts {
			return err
		}
		zap.L().Warn("oracle: attempt failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", backoff),
			zap.Error(err),
		)
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return eris.Wrap(ctx.Err(), "oracle: retry cancelled")
		case <-timer.C:
		}
		backoff *= 2
	}
}

const consultantSystem = `Você é Jammin, a consultora sênior de qualidade da operação. Responda de forma direta e prática, sempre fundamentada na ficha de monitoria abaixo.

FICHA DE MONITORIA:
%s`

// consultantPrompts renders the system and user prompts for a free-form
// question grounded on the current rubric.
func consultantPrompts(question string, rubric model.Rubric) (system, user string) {
	var sb strings.Builder
	for _, c := range rubric {
		fmt.Fprintf(&sb, "- %s: %s (%dpts)\n", c.Name, c.Description, c.Weight)
	}
	return fmt.Sprintf(consultantSystem, strings.TrimRight(sb.String(), "\n")), question
}
