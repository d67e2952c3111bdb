// Package audit builds evaluation requests, validates oracle responses and
// orchestrates the analyze flow. It is the trust boundary of the system:
// everything an oracle returns passes through ValidateResponse before it is
// persisted or shown.
package audit

import (
	"fmt"
	"strings"

	"github.com/jammin-qa/quality-cli/internal/model"
)

const systemPromptTemplate = `
### 🚨 MOTOR DE AUDITORIA JAMMIN v11.5 🚨
Você é uma auditora sênior imparcial. Sua missão é analisar interações de suporte e aplicar a Ficha de Monitoria v1.1.2025.

### REGRAS DE OURO:
1. "criteriaScores": Você DEVE avaliar individualmente CADA ID do SCORECARD.
2. "observation": Para CADA item, escreva uma justificativa técnica (Ex: "O agente demonstrou empatia ao validar o sentimento do cliente no minuto X" ou "Não houve saudação conforme script").
3. Se um NCG (Tolerância Zero) ocorrer, o "totalScore" deve ser 0 obrigatoriamente.

SCORECARD:
%s

NCGs:
%s

Responda EXCLUSIVAMENTE em JSON.`

// Metadata identifies the audited contact. AgentName, Operation and
// MonitorID are required before any oracle round-trip.
type Metadata struct {
	AgentName   string
	Operation   string
	MonitorID   string
	MonitorName string
	AuditDate   string
}

// Input carries the material to evaluate. Transcript and audio may both be
// present; at least one must be.
type Input struct {
	Transcript string
	Audio      []byte
	AudioMIME  string
}

// EvaluationRequest is a fully assembled oracle request plus the snapshot
// needed to validate its response. It is immutable once built.
type EvaluationRequest struct {
	SystemPrompt string
	UserPrompt   string
	Transcript   string // post-truncation
	Audio        []byte
	AudioMIME    string

	Rubric   model.Rubric
	Rules    []model.ZeroToleranceRule
	Metadata Metadata
	Rigor    model.RigorLevel

	// Warnings raised while building (truncation, rubric imbalance).
	// Carried into the validated result.
	Warnings []model.Warning
}

// BuildRequest assembles the evaluation request. It fails fast with
// InsufficientInputError or MissingMetadataError before any network work,
// serializes the rubric deterministically, and applies the transcript
// character cap (maxChars <= 0 disables it).
func BuildRequest(input Input, rubric model.Rubric, rules []model.ZeroToleranceRule, meta Metadata, rigor model.RigorLevel, maxChars int) (*EvaluationRequest, error) {
	switch rigor {
	case model.RigorLight, model.RigorMedium, model.RigorExpert:
	default:
		return nil, fmt.Errorf("audit: invalid rigor level %q", rigor)
	}

	if strings.TrimSpace(input.Transcript) == "" && len(input.Audio) == 0 {
		return nil, &InsufficientInputError{}
	}

	var missing []string
	if strings.TrimSpace(meta.AgentName) == "" {
		missing = append(missing, "agent name")
	}
	if strings.TrimSpace(meta.Operation) == "" {
		missing = append(missing, "operation")
	}
	if strings.TrimSpace(meta.MonitorID) == "" {
		missing = append(missing, "monitor id")
	}
	if len(missing) > 0 {
		return nil, &MissingMetadataError{Missing: missing}
	}

	var warnings []model.Warning

	transcript := input.Transcript
	if maxChars > 0 && len([]rune(transcript)) > maxChars {
		kept := string([]rune(transcript)[:maxChars])
		warnings = append(warnings, model.Warning{
			Code:    model.WarnTranscriptTruncated,
			Message: fmt.Sprintf("transcript truncated from %d to %d characters", len([]rune(transcript)), maxChars),
		})
		transcript = kept
	}

	if !rubric.IsBalanced() {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnRubricImbalance,
			Message: fmt.Sprintf("rubric weights sum to %d, expected %d", rubric.TotalWeight(), model.BalancedWeight),
		})
	}

	req := &EvaluationRequest{
		SystemPrompt: fmt.Sprintf(systemPromptTemplate, SerializeRubric(rubric), serializeRules(rules)),
		UserPrompt:   fmt.Sprintf("ANÁLISE PARA: %s\nOPERAÇÃO: %s\nTRANSCRIÇÃO:\n%s", meta.AgentName, meta.Operation, transcript),
		Transcript:   transcript,
		Audio:        input.Audio,
		AudioMIME:    input.AudioMIME,
		Rubric:       append(model.Rubric(nil), rubric...),
		Rules:        append([]model.ZeroToleranceRule(nil), rules...),
		Metadata:     meta,
		Rigor:        rigor,
		Warnings:     warnings,
	}
	return req, nil
}

// SerializeRubric renders the rubric in the fixed wire format the oracle
// prompt depends on, one line per criterion, in rubric order.
func SerializeRubric(rubric model.Rubric) string {
	lines := make([]string, 0, len(rubric))
	for _, c := range rubric {
		lines = append(lines, fmt.Sprintf("ID:[%s] | CATEGORIA:%s | NOME:%s | PESO:%dpts | REGRA:%s",
			c.ID, c.Category, c.Name, c.Weight, c.Description))
	}
	return strings.Join(lines, "\n")
}

func serializeRules(rules []model.ZeroToleranceRule) string {
	lines := make([]string, 0, len(rules))
	for _, r := range rules {
		lines = append(lines, fmt.Sprintf("- %s: %s", r.Name, r.Description))
	}
	return strings.Join(lines, "\n")
}

// ResponseSchema is the strict JSON schema the oracle must answer with.
// Metadata echo fields are deliberately absent: they come from the request.
func ResponseSchema() map[string]any {
	return map[string]any{
		"type": "OBJECT",
		"properties": map[string]any{
			"evaluationStatus": map[string]any{"type": "STRING"},
			"totalScore":       map[string]any{"type": "NUMBER"},
			"reasonForCall":    map[string]any{"type": "STRING"},
			"isNcgDetected":    map[string]any{"type": "BOOLEAN"},
			"criteriaScores": map[string]any{
				"type": "ARRAY",
				"items": map[string]any{
					"type": "OBJECT",
					"properties": map[string]any{
						"criterionId":  map[string]any{"type": "STRING"},
						"status":       map[string]any{"type": "STRING"},
						"pointsEarned": map[string]any{"type": "NUMBER"},
						"observation":  map[string]any{"type": "STRING"},
					},
				},
			},
			"summary":          map[string]any{"type": "STRING"},
			"systemReadyText":  map[string]any{"type": "STRING"},
			"operatorFeedback": map[string]any{"type": "STRING"},
		},
		"required": []string{
			"evaluationStatus", "totalScore", "reasonForCall", "criteriaScores",
			"summary", "systemReadyText", "operatorFeedback", "isNcgDetected",
		},
	}
}
