// Package podcast turns a finished evaluation into a short narrated audio
// summary: a Portuguese script in Jammin's voice, synthesized to speech and
// written out as a WAV file.
package podcast

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// Synthesizer renders a script as raw 16-bit PCM at 24 kHz.
type Synthesizer interface {
	Synthesize(ctx context.Context, script, voiceName string) ([]byte, error)
}

const scriptTemplate = `%s

Jammin (Voice %s): Fala galera! Jammin aqui. Vamos analisar o atendimento do(a) %s, operação %s. Nota final: %d. Status: %s. Destaque: %s. É isso, bora pra cima!`

// BuildScript renders the narration script for an evaluated interaction.
// The delivery direction of the voice profile leads the script so the
// synthesis model reads it in character.
func BuildScript(inter *model.Interaction, profile model.VoiceProfile) (string, error) {
	if inter.Result == nil {
		return "", eris.New("podcast: interaction has no evaluation result")
	}
	r := inter.Result

	highlight := strings.TrimSpace(r.OperatorFeedback)
	if highlight == "" {
		highlight = strings.TrimSpace(r.Summary)
	}
	if highlight == "" {
		highlight = "sem observações registradas"
	}

	return fmt.Sprintf(scriptTemplate,
		profile.Delivery,
		profile.VoiceName,
		inter.AgentName,
		inter.Operation,
		r.TotalScore,
		r.EvaluationStatus,
		highlight,
	), nil
}

// Generate builds the script, synthesizes it with the voice of the given
// style, and writes the result to w as a WAV file.
func Generate(ctx context.Context, s Synthesizer, inter *model.Interaction, style model.VoiceStyle, w io.Writer) error {
	profile, err := style.Profile()
	if err != nil {
		return eris.Wrap(err, "podcast: resolve voice")
	}

	script, err := BuildScript(inter, profile)
	if err != nil {
		return err
	}

	pcm, err := s.Synthesize(ctx, script, profile.VoiceName)
	if err != nil {
		return eris.Wrap(err, "podcast: synthesize")
	}

	if err := WriteWAV(w, pcm, 24000, 1, 16); err != nil {
		return err
	}

	zap.L().Info("podcast: generated",
		zap.String("interaction_id", inter.ID),
		zap.String("voice", profile.VoiceName),
		zap.Int("pcm_bytes", len(pcm)),
	)
	return nil
}
