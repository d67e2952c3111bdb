package scorecard

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// File is the YAML document shape for scorecard export and import.
type File struct {
	Version       string                    `yaml:"version,omitempty"`
	Criteria      []model.Criterion         `yaml:"criteria"`
	ZeroTolerance []model.ZeroToleranceRule `yaml:"zero_tolerance,omitempty"`
}

// Export writes the rubric and rules as YAML.
func Export(w io.Writer, rubric model.Rubric, rules []model.ZeroToleranceRule) error {
	doc := File{
		Version:       model.DefaultRubricVersion,
		Criteria:      rubric,
		ZeroTolerance: rules,
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return eris.Wrap(err, "scorecard: encode yaml")
	}
	return eris.Wrap(enc.Close(), "scorecard: close yaml encoder")
}

// Import parses a YAML scorecard document and validates its shape: every
// criterion needs an id, a name and a non-negative weight, and ids must be
// unique. Weight balance is not enforced here; imbalance is a runtime
// warning, not an import error.
func Import(r io.Reader) (model.Rubric, []model.ZeroToleranceRule, error) {
	var doc File
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, nil, eris.Wrap(err, "scorecard: decode yaml")
	}

	if len(doc.Criteria) == 0 {
		return nil, nil, eris.New("scorecard: no criteria in document")
	}

	seen := map[string]bool{}
	for i, c := range doc.Criteria {
		if c.ID == "" || c.Name == "" {
			return nil, nil, eris.New(fmt.Sprintf("scorecard: criterion %d missing id or name", i))
		}
		if c.Weight < 0 {
			return nil, nil, eris.New(fmt.Sprintf("scorecard: criterion %s has negative weight", c.ID))
		}
		if seen[c.ID] {
			return nil, nil, eris.New(fmt.Sprintf("scorecard: duplicate criterion id %s", c.ID))
		}
		seen[c.ID] = true
	}

	return model.Rubric(doc.Criteria), doc.ZeroTolerance, nil
}
