package scorecard

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jammin-qa/quality-cli/internal/model"
)

func TestExportImport_RoundTrip(t *testing.T) {
	rubric := model.DefaultRubric()
	rules := model.DefaultZeroTolerance()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, rubric, rules))

	gotRubric, gotRules, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, rubric, gotRubric)
	assert.Equal(t, rules, gotRules)
}

func TestImport_Empty(t *testing.T) {
	_, _, err := Import(strings.NewReader("criteria: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no criteria")
}

func TestImport_MissingID(t *testing.T) {
	doc := `
criteria:
  - name: Saudação
    weight: 10
`
	_, _, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id or name")
}

func TestImport_DuplicateID(t *testing.T) {
	doc := `
criteria:
  - {id: "1.1", name: A, weight: 50}
  - {id: "1.1", name: B, weight: 50}
`
	_, _, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate criterion id")
}

func TestImport_NegativeWeight(t *testing.T) {
	doc := `
criteria:
  - {id: "1.1", name: A, weight: -5}
`
	_, _, err := Import(strings.NewReader(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative weight")
}

func TestImport_ImbalanceIsNotAnError(t *testing.T) {
	doc := `
criteria:
  - {id: "1.1", name: A, weight: 10}
`
	rubric, _, err := Import(strings.NewReader(doc))
	require.NoError(t, err)
	assert.False(t, rubric.IsBalanced())
}
