package oracle

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/config"
	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/pkg/anthropic"
)

const evaluateMaxTokens = 8192

// Anthropic evaluates through the Anthropic message API. Text only: audio
// material is rejected up front unless a transcript accompanies it, in which
// case the audio is dropped with a log line.
type Anthropic struct {
	client  anthropic.Client
	cfg     config.AnthropicConfig
	retries int
}

// NewAnthropic wires an Anthropic backend over an existing client.
func NewAnthropic(client anthropic.Client, cfg config.AnthropicConfig, retries int) *Anthropic {
	return &Anthropic{client: client, cfg: cfg, retries: retries}
}

func (a *Anthropic) modelFor(rigor model.RigorLevel) string {
	switch rigor {
	case model.RigorLight:
		return a.cfg.HaikuModel
	case model.RigorExpert:
		return a.cfg.OpusModel
	default:
		return a.cfg.SonnetModel
	}
}

// Evaluate sends the assembled request and returns the raw JSON payload.
func (a *Anthropic) Evaluate(ctx context.Context, req *audit.EvaluationRequest) ([]byte, error) {
	if len(req.Audio) > 0 {
		if strings.TrimSpace(req.Transcript) == "" {
			return nil, eris.New("oracle: anthropic backend cannot evaluate audio-only input")
		}
		zap.L().Warn("oracle: dropping audio material, backend is text-only")
	}

	temp := 0.1
	msgReq := anthropic.MessageRequest{
		Model:       a.modelFor(req.Rigor),
		MaxTokens:   evaluateMaxTokens,
		Temperature: &temp,
		System: []anthropic.SystemBlock{{
			Text:         req.SystemPrompt,
			CacheControl: &anthropic.CacheControl{},
		}},
		Messages: []anthropic.Message{{Role: "user", Content: req.UserPrompt}},
	}

	var resp *anthropic.MessageResponse
	err := withRetry(ctx, a.retries, "evaluate", func() error {
		var callErr error
		resp, callErr = a.client.CreateMessage(ctx, msgReq)
		return callErr
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: anthropic evaluate")
	}
	resp.Usage.LogCost(msgReq.Model, "evaluate")

	return []byte(resp.Text()), nil
}

// Ask answers a free-form question grounded on the rubric.
func (a *Anthropic) Ask(ctx context.Context, question string, rubric model.Rubric) (string, error) {
	system, user := consultantPrompts(question, rubric)
	temp := 0.7

	msgReq := anthropic.MessageRequest{
		Model:       a.cfg.SonnetModel,
		MaxTokens:   evaluateMaxTokens,
		Temperature: &temp,
		System:      []anthropic.SystemBlock{{Text: system}},
		Messages:    []anthropic.Message{{Role: "user", Content: user}},
	}

	var resp *anthropic.MessageResponse
	err := withRetry(ctx, a.retries, "ask", func() error {
		var callErr error
		resp, callErr = a.client.CreateMessage(ctx, msgReq)
		return callErr
	})
	if err != nil {
		return "", eris.Wrap(err, "oracle: anthropic ask")
	}
	resp.Usage.LogCost(msgReq.Model, "ask")

	return resp.Text(), nil
}

// Synthesize is unsupported on this backend.
func (a *Anthropic) Synthesize(context.Context, string, string) ([]byte, error) {
	return nil, eris.New("oracle: anthropic backend does not synthesize speech")
}
