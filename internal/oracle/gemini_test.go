package oracle

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jammin-qa/quality-cli/internal/audit"
	"github.com/jammin-qa/quality-cli/internal/config"
	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/pkg/gemini"
)

type fakeGemini struct {
	lastModel string
	lastReq   gemini.GenerateRequest
	calls     int
	resp      *gemini.GenerateResponse
	errs      []error
}

func (f *fakeGemini) GenerateContent(_ context.Context, model string, req gemini.GenerateRequest) (*gemini.GenerateResponse, error) {
	f.calls++
	f.lastModel = model
	f.lastReq = req
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	return f.resp, nil
}

func textResponse(s string) *gemini.GenerateResponse {
	return &gemini.GenerateResponse{Candidates: []gemini.Candidate{
		{Content: gemini.Content{Parts: []gemini.Part{{Text: s}}}},
	}}
}

var geminiCfg = config.GeminiConfig{
	FlashModel: "flash-model",
	ProModel:   "pro-model",
	TTSModel:   "tts-model",
}

func evalRequest(rigor model.RigorLevel) *audit.EvaluationRequest {
	return &audit.EvaluationRequest{
		SystemPrompt: "system",
		UserPrompt:   "user",
		Transcript:   "olá",
		Rigor:        rigor,
	}
}

func TestGeminiEvaluate_UsesFlashByDefault(t *testing.T) {
	fake := &fakeGemini{resp: textResponse(`{"ok":true}`)}
	g := NewGemini(fake, geminiCfg, 0)

	payload, err := g.Evaluate(context.Background(), evalRequest(model.RigorMedium))
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(payload))
	assert.Equal(t, "flash-model", fake.lastModel)

	require.NotNil(t, fake.lastReq.GenerationConfig)
	assert.Equal(t, "application/json", fake.lastReq.GenerationConfig.ResponseMIMEType)
	assert.NotNil(t, fake.lastReq.GenerationConfig.ResponseSchema)
	require.NotNil(t, fake.lastReq.SystemInstruction)
	assert.Equal(t, "system", fake.lastReq.SystemInstruction.Parts[0].Text)
}

func TestGeminiEvaluate_ExpertUsesProModel(t *testing.T) {
	fake := &fakeGemini{resp: textResponse(`{}`)}
	g := NewGemini(fake, geminiCfg, 0)

	_, err := g.Evaluate(context.Background(), evalRequest(model.RigorExpert))
	require.NoError(t, err)
	assert.Equal(t, "pro-model", fake.lastModel)
}

func TestGeminiEvaluate_AttachesInlineAudio(t *testing.T) {
	fake := &fakeGemini{resp: textResponse(`{}`)}
	g := NewGemini(fake, geminiCfg, 0)

	req := evalRequest(model.RigorLight)
	req.Audio = []byte{0x01, 0x02}
	req.AudioMIME = "audio/mpeg"

	_, err := g.Evaluate(context.Background(), req)
	require.NoError(t, err)

	parts := fake.lastReq.Contents[0].Parts
	require.Len(t, parts, 2)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, "audio/mpeg", parts[1].InlineData.MIMEType)
	assert.Equal(t, base64.StdEncoding.EncodeToString(req.Audio), parts[1].InlineData.Data)
}

func TestGeminiEvaluate_EmptyCandidateFails(t *testing.T) {
	fake := &fakeGemini{resp: &gemini.GenerateResponse{}}
	g := NewGemini(fake, geminiCfg, 0)

	_, err := g.Evaluate(context.Background(), evalRequest(model.RigorMedium))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty candidate")
}

func TestGeminiEvaluate_RetriesTransientFailure(t *testing.T) {
	fake := &fakeGemini{
		resp: textResponse(`{}`),
		errs: []error{eris.New("boom"), nil},
	}
	g := NewGemini(fake, geminiCfg, 2)

	_, err := g.Evaluate(context.Background(), evalRequest(model.RigorMedium))
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)
}

func TestGeminiEvaluate_NoRetryWhenDisabled(t *testing.T) {
	fake := &fakeGemini{errs: []error{eris.New("boom")}}
	g := NewGemini(fake, geminiCfg, 0)

	_, err := g.Evaluate(context.Background(), evalRequest(model.RigorMedium))
	require.Error(t, err)
	assert.Equal(t, 1, fake.calls)
}

func TestGeminiAsk_GroundsOnRubric(t *testing.T) {
	fake := &fakeGemini{resp: textResponse("resposta")}
	g := NewGemini(fake, geminiCfg, 0)

	rubric := model.Rubric{{ID: "1.1", Name: "Saudação", Description: "Saudou no script.", Weight: 30}}
	answer, err := g.Ask(context.Background(), "Como melhorar a abertura?", rubric)
	require.NoError(t, err)
	assert.Equal(t, "resposta", answer)
	assert.Equal(t, "flash-model", fake.lastModel)
	assert.Contains(t, fake.lastReq.SystemInstruction.Parts[0].Text, "Saudação: Saudou no script. (30pts)")
	assert.Equal(t, "Como melhorar a abertura?", fake.lastReq.Contents[0].Parts[0].Text)
}

func TestGeminiSynthesize_DecodesPCM(t *testing.T) {
	pcm := []byte{0x10, 0x20, 0x30}
	fake := &fakeGemini{resp: &gemini.GenerateResponse{Candidates: []gemini.Candidate{
		{Content: gemini.Content{Parts: []gemini.Part{{InlineData: &gemini.Blob{
			MIMEType: "audio/L16;codec=pcm;rate=24000",
			Data:     base64.StdEncoding.EncodeToString(pcm),
		}}}}},
	}}}
	g := NewGemini(fake, geminiCfg, 0)

	got, err := g.Synthesize(context.Background(), "roteiro", "Puck")
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
	assert.Equal(t, "tts-model", fake.lastModel)

	cfg := fake.lastReq.GenerationConfig
	require.NotNil(t, cfg)
	assert.Equal(t, []string{"AUDIO"}, cfg.ResponseModalities)
	assert.Equal(t, "Puck", cfg.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
}

func TestGeminiSynthesize_NoAudioFails(t *testing.T) {
	fake := &fakeGemini{resp: textResponse("not audio")}
	g := NewGemini(fake, geminiCfg, 0)

	_, err := g.Synthesize(context.Background(), "roteiro", "Puck")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio data")
}
