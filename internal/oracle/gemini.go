package oracle

import (
	"context"
	"encoding/base64"

	"github.com/rotisserie/eris"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/config"
	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/pkg/gemini"
)

// Gemini evaluates through the generative-language API. It is the only
// backend that accepts inline audio and the only one that synthesizes speech.
type Gemini struct {
	client  gemini.Client
	cfg     config.GeminiConfig
	retries int
}

// NewGemini wires a Gemini backend over an existing client.
func NewGemini(client gemini.Client, cfg config.GeminiConfig, retries int) *Gemini {
	return &Gemini{client: client, cfg: cfg, retries: retries}
}

func (g *Gemini) modelFor(rigor model.RigorLevel) string {
	if rigor == model.RigorExpert {
		return g.cfg.ProModel
	}
	return g.cfg.FlashModel
}

// Evaluate sends the assembled request with a strict response schema and a
// low temperature, and returns the raw JSON payload.
func (g *Gemini) Evaluate(ctx context.Context, req *audit.EvaluationRequest) ([]byte, error) {
	temp := 0.1
	parts := []gemini.Part{{Text: req.UserPrompt}}
	if len(req.Audio) > 0 {
		parts = append(parts, gemini.Part{InlineData: &gemini.Blob{
			MIMEType: req.AudioMIME,
			Data:     base64.StdEncoding.EncodeToString(req.Audio),
		}})
	}

	genReq := gemini.GenerateRequest{
		Contents:          []gemini.Content{{Role: "user", Parts: parts}},
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: req.SystemPrompt}}},
		GenerationConfig: &gemini.GenerationConfig{
			Temperature:      &temp,
			ResponseMIMEType: "application/json",
			ResponseSchema:   audit.ResponseSchema(),
		},
	}

	var resp *gemini.GenerateResponse
	err := withRetry(ctx, g.retries, "evaluate", func() error {
		var callErr error
		resp, callErr = g.client.GenerateContent(ctx, g.modelFor(req.Rigor), genReq)
		return callErr
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: gemini evaluate")
	}

	text := resp.Text()
	if text == "" {
		return nil, eris.New("oracle: gemini returned an empty candidate")
	}
	return []byte(text), nil
}

// Ask answers a free-form question grounded on the rubric.
func (g *Gemini) Ask(ctx context.Context, question string, rubric model.Rubric) (string, error) {
	system, user := consultantPrompts(question, rubric)
	temp := 0.7

	genReq := gemini.GenerateRequest{
		Contents:          []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: user}}}},
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: system}}},
		GenerationConfig:  &gemini.GenerationConfig{Temperature: &temp},
	}

	var resp *gemini.GenerateResponse
	err := withRetry(ctx, g.retries, "ask", func() error {
		var callErr error
		resp, callErr = g.client.GenerateContent(ctx, g.cfg.FlashModel, genReq)
		return callErr
	})
	if err != nil {
		return "", eris.Wrap(err, "oracle: gemini ask")
	}
	return resp.Text(), nil
}

// Synthesize renders the script as speech and returns raw 16-bit PCM at
// 24 kHz, decoded from the inline base64 blob.
func (g *Gemini) Synthesize(ctx context.Context, script, voiceName string) ([]byte, error) {
	genReq := gemini.GenerateRequest{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: script}}}},
		GenerationConfig: &gemini.GenerationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &gemini.SpeechConfig{
				VoiceConfig: &gemini.VoiceConfig{
					PrebuiltVoiceConfig: &gemini.PrebuiltVoiceConfig{VoiceName: voiceName},
				},
			},
		},
	}

	var resp *gemini.GenerateResponse
	err := withRetry(ctx, g.retries, "synthesize", func() error {
		var callErr error
		resp, callErr = g.client.GenerateContent(ctx, g.cfg.TTSModel, genReq)
		return callErr
	})
	if err != nil {
		return nil, eris.Wrap(err, "oracle: gemini synthesize")
	}

	blob, ok := resp.InlineData()
	if !ok {
		return nil, eris.New("oracle: speech response carried no audio data")
	}
	pcm, err := base64.StdEncoding.DecodeString(blob.Data)
	if err != nil {
		return nil, eris.Wrap(err, "oracle: decode audio payload")
	}
	return pcm, nil
}
