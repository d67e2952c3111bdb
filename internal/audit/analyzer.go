package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/internal/store"
)

// Oracle evaluates an assembled request and returns the raw response
// payload. Implementations own transport concerns (model selection per
// rigor, retries); the payload is untrusted until ValidateResponse passes.
type Oracle interface {
	Evaluate(ctx context.Context, req *EvaluationRequest) ([]byte, error)
}

// Analyzer runs the full evaluation flow: load the active rubric, build
// the request, consult the oracle, validate, persist.
type Analyzer struct {
	oracle   Oracle
	store    store.Store
	maxChars int
}

// NewAnalyzer wires an analyzer. maxChars caps the transcript length
// handed to the oracle (<= 0 disables the cap).
func NewAnalyzer(o Oracle, s store.Store, maxChars int) *Analyzer {
	return &Analyzer{oracle: o, store: s, maxChars: maxChars}
}

// Analyze evaluates one interaction and appends it to the store. The
// returned interaction carries the validated result including any
// warnings. On any typed failure nothing is persisted.
func (a *Analyzer) Analyze(ctx context.Context, input Input, meta Metadata, rigor model.RigorLevel) (*model.Interaction, error) {
	rubric, err := store.LoadRubric(ctx, a.store)
	if err != nil {
		return nil, err
	}
	rules, err := store.LoadZeroTolerance(ctx, a.store)
	if err != nil {
		return nil, err
	}

	req, err := BuildRequest(input, rubric, rules, meta, rigor, a.maxChars)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	payload, err := a.oracle.Evaluate(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "audit: oracle evaluate")
	}

	result, err := ValidateResponse(payload, req)
	if err != nil {
		return nil, err
	}

	it := &model.Interaction{
		ID:         uuid.New().String(),
		AgentName:  meta.AgentName,
		Operation:  meta.Operation,
		Date:       time.Now().UTC(),
		Transcript: input.Transcript,
		Result:     result,
	}
	if err := a.store.SaveInteraction(ctx, it); err != nil {
		return nil, err
	}

	zap.L().Info("audit: interaction evaluated",
		zap.String("interaction_id", it.ID),
		zap.String("agent", meta.AgentName),
		zap.String("status", string(result.EvaluationStatus)),
		zap.Int("total_score", result.TotalScore),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return it, nil
}
