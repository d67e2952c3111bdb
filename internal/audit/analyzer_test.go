package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jammin-qa/quality-cli/internal/model"
	"github.com/jammin-qa/quality-cli/internal/store"
)

// memStore is an in-memory store.Store for analyzer tests.
type memStore struct {
	interactions []model.Interaction
	slots        map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{slots: map[string][]byte{}}
}

func (m *memStore) SaveInteraction(_ context.Context, it *model.Interaction) error {
	m.interactions = append(m.interactions, *it)
	return nil
}

func (m *memStore) ListInteractions(context.Context) ([]model.Interaction, error) {
	out := make([]model.Interaction, len(m.interactions))
	copy(out, m.interactions)
	return out, nil
}

func (m *memStore) GetSlot(_ context.Context, name string) ([]byte, error) {
	return m.slots[name], nil
}

func (m *memStore) SetSlot(_ context.Context, name string, data []byte) error {
	m.slots[name] = data
	return nil
}

func (m *memStore) Migrate(context.Context) error { return nil }
func (m *memStore) Close() error                  { return nil }

// oracleFunc adapts a function to the Oracle interface.
type oracleFunc func(ctx context.Context, req *EvaluationRequest) ([]byte, error)

func (f oracleFunc) Evaluate(ctx context.Context, req *EvaluationRequest) ([]byte, error) {
	return f(ctx, req)
}

// fullPayloadFor answers every rubric criterion at full points.
func fullPayloadFor(req *EvaluationRequest) []byte {
	scores := make([]map[string]any, 0, len(req.Rubric))
	total := 0
	for _, c := range req.Rubric {
		scores = append(scores, map[string]any{
			"criterionId": c.ID, "status": "CONFORME", "pointsEarned": c.Weight, "observation": "ok",
		})
		total += c.Weight
	}
	out, _ := json.Marshal(map[string]any{
		"evaluationStatus": "CONFORME",
		"totalScore":       total,
		"reasonForCall":    "Suporte",
		"isNcgDetected":    false,
		"criteriaScores":   scores,
		"summary":          "ok",
		"systemReadyText":  "ok",
		"operatorFeedback": "ok",
	})
	return out
}

func TestAnalyzer_HappyPathPersists(t *testing.T) {
	s := newMemStore()
	oracle := oracleFunc(func(_ context.Context, req *EvaluationRequest) ([]byte, error) {
		return fullPayloadFor(req), nil
	})
	a := NewAnalyzer(oracle, s, 0)

	it, err := a.Analyze(context.Background(), Input{Transcript: "bom dia"}, testMeta(), model.RigorMedium)
	require.NoError(t, err)

	assert.NotEmpty(t, it.ID)
	assert.Equal(t, "Ana", it.AgentName)
	require.NotNil(t, it.Result)
	// Default scorecard was seeded; its imbalance surfaces as a warning.
	assert.Equal(t, model.DefaultRubric().TotalWeight(), it.Result.TotalScore)
	assert.Equal(t, 1, warningCodes(it.Result.Warnings)[model.WarnRubricImbalance])

	saved, err := s.ListInteractions(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, it.ID, saved[0].ID)
}

func TestAnalyzer_OracleErrorPersistsNothing(t *testing.T) {
	s := newMemStore()
	oracle := oracleFunc(func(context.Context, *EvaluationRequest) ([]byte, error) {
		return nil, eris.New("boom")
	})
	a := NewAnalyzer(oracle, s, 0)

	_, err := a.Analyze(context.Background(), Input{Transcript: "oi"}, testMeta(), model.RigorMedium)
	require.Error(t, err)
	assert.Empty(t, s.interactions)
}

func TestAnalyzer_InvalidResponsePersistsNothing(t *testing.T) {
	s := newMemStore()
	oracle := oracleFunc(func(context.Context, *EvaluationRequest) ([]byte, error) {
		return []byte("garbage"), nil
	})
	a := NewAnalyzer(oracle, s, 0)

	_, err := a.Analyze(context.Background(), Input{Transcript: "oi"}, testMeta(), model.RigorMedium)
	require.Error(t, err)
	assert.Empty(t, s.interactions)
}

func TestAnalyzer_UsesStoredRubricSnapshot(t *testing.T) {
	s := newMemStore()
	rubric := model.Rubric{{ID: "x.1", Category: "C", Name: "X", Weight: 100}}
	require.NoError(t, store.SaveRubric(context.Background(), s, rubric))

	var seen model.Rubric
	oracle := oracleFunc(func(_ context.Context, req *EvaluationRequest) ([]byte, error) {
		seen = req.Rubric
		return fullPayloadFor(req), nil
	})
	a := NewAnalyzer(oracle, s, 0)

	it, err := a.Analyze(context.Background(), Input{Transcript: "oi"}, testMeta(), model.RigorMedium)
	require.NoError(t, err)
	assert.Equal(t, rubric, seen)
	assert.Equal(t, 100, it.Result.TotalScore)
	assert.Empty(t, it.Result.Warnings)
}
