package audit

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// rawResult mirrors the oracle response schema. Pointer fields distinguish
// "field absent" from zero values so required-field checks are exact.
type rawResult struct {
	EvaluationStatus *string        `json:"evaluationStatus"`
	TotalScore       *float64       `json:"totalScore"`
	ReasonForCall    *string        `json:"reasonForCall"`
	IsNcgDetected    *bool          `json:"isNcgDetected"`
	CriteriaScores   []rawCriterion `json:"criteriaScores"`
	Summary          *string        `json:"summary"`
	SystemReadyText  *string        `json:"systemReadyText"`
	OperatorFeedback *string        `json:"operatorFeedback"`
	hasCriteria      bool
}

type rawCriterion struct {
	CriterionID  string   `json:"criterionId"`
	Status       string   `json:"status"`
	PointsEarned *float64 `json:"pointsEarned"`
	Observation  string   `json:"observation"`
}

// ValidateResponse is the normalization boundary for oracle output. It
// parses the payload, enforces exactly-once criterion coverage, clamps
// points into [0, weight], applies the NCG override, cross-checks the total
// against the per-criterion ledger, and echoes request metadata. On success
// the returned result carries every warning raised along the way; on
// failure nothing partial escapes.
func ValidateResponse(payload []byte, req *EvaluationRequest) (*model.AnalysisResult, error) {
	cleaned := cleanJSON(string(payload))

	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, &MalformedResponseError{Reason: "invalid JSON", Err: err}
	}

	// json.Unmarshal leaves CriteriaScores nil both when absent and when
	// null; probe the key itself for the required-field check.
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &probe); err == nil {
		_, raw.hasCriteria = probe["criteriaScores"]
	}

	if reason := raw.missingField(); reason != "" {
		return nil, &MalformedResponseError{Reason: "missing required field " + reason}
	}

	warnings := append([]model.Warning(nil), req.Warnings...)

	// Exactly-once coverage: first verdict per rubric id wins, duplicates
	// and unknown ids are dropped with a warning, missing ids are fatal.
	verdicts := make(map[string]rawCriterion, len(req.Rubric))
	known := req.Rubric.ByID()
	for _, rc := range raw.CriteriaScores {
		if _, ok := known[rc.CriterionID]; !ok {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnUnknownCriterion,
				Message: fmt.Sprintf("dropped verdict for unknown criterion %q", rc.CriterionID),
			})
			continue
		}
		if _, dup := verdicts[rc.CriterionID]; dup {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnDuplicateCriterion,
				Message: fmt.Sprintf("dropped duplicate verdict for criterion %q", rc.CriterionID),
			})
			continue
		}
		verdicts[rc.CriterionID] = rc
	}

	var missing []string
	for _, c := range req.Rubric {
		if _, ok := verdicts[c.ID]; !ok {
			missing = append(missing, c.ID)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteCoverageError{MissingIDs: missing}
	}

	// Build the ledger in rubric order, clamping as we go.
	scores := make([]model.CriterionScore, 0, len(req.Rubric))
	ledger := 0
	for _, c := range req.Rubric {
		rc := verdicts[c.ID]
		points := 0
		if rc.PointsEarned != nil {
			points = roundHalfUp(*rc.PointsEarned)
		}
		if clamped := clamp(points, 0, c.Weight); clamped != points {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnPointsClamped,
				Message: fmt.Sprintf("criterion %s: points %d clamped into [0, %d]", c.ID, points, c.Weight),
			})
			points = clamped
		}
		ledger += points
		scores = append(scores, model.CriterionScore{
			CriterionID:  c.ID,
			Status:       normalizeStatus(rc.Status),
			PointsEarned: points,
			MaxPoints:    c.Weight,
			Observation:  rc.Observation,
		})
	}

	result := &model.AnalysisResult{
		EvaluationStatus: normalizeStatus(*raw.EvaluationStatus),
		TotalScore:       roundHalfUp(*raw.TotalScore),
		ReasonForCall:    *raw.ReasonForCall,
		CriteriaScores:   scores,
		Summary:          *raw.Summary,
		SystemReadyText:  *raw.SystemReadyText,
		OperatorFeedback: *raw.OperatorFeedback,
		IsNCGDetected:    *raw.IsNcgDetected,
		MonitorID:        req.Metadata.MonitorID,
		AuditDate:        req.Metadata.AuditDate,
		RigorApplied:     req.Rigor,
	}

	if result.IsNCGDetected {
		result.TotalScore = 0
		result.EvaluationStatus = model.StatusGraveFailure
	} else if result.TotalScore != ledger {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnScoreConsistency,
			Message: fmt.Sprintf("oracle total %d disagrees with criterion ledger %d; ledger wins", result.TotalScore, ledger),
		})
		result.TotalScore = ledger
	}

	result.Warnings = warnings
	if len(warnings) > 0 {
		zap.L().Debug("audit: response normalized with warnings",
			zap.Int("count", len(warnings)),
			zap.String("monitor_id", result.MonitorID),
		)
	}
	return result, nil
}

func (r *rawResult) missingField() string {
	switch {
	case r.EvaluationStatus == nil:
		return "evaluationStatus"
	case r.TotalScore == nil:
		return "totalScore"
	case r.ReasonForCall == nil:
		return "reasonForCall"
	case !r.hasCriteria:
		return "criteriaScores"
	case r.Summary == nil:
		return "summary"
	case r.SystemReadyText == nil:
		return "systemReadyText"
	case r.OperatorFeedback == nil:
		return "operatorFeedback"
	case r.IsNcgDetected == nil:
		return "isNcgDetected"
	}
	return ""
}

// cleanJSON strips markdown code fences and any prose around the outermost
// JSON object. Schema-constrained oracles rarely need this, but a retried
// plain-text response sometimes arrives fenced.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldStatus uppercases and strips diacritics so "não conforme" and
// "NAO CONFORME" compare equal.
func foldStatus(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToUpper(strings.TrimSpace(folded))
}

var canonicalStatuses = []model.StatusType{
	model.StatusConforming,
	model.StatusNonConforming,
	model.StatusGraveFailure,
}

// normalizeStatus maps oracle status strings onto the canonical labels,
// tolerant of case and accent drift. Anything unrecognizable is treated as
// non-conforming rather than trusted.
func normalizeStatus(s string) model.StatusType {
	folded := foldStatus(s)
	for _, canonical := range canonicalStatuses {
		if folded == foldStatus(string(canonical)) {
			return canonical
		}
	}
	return model.StatusNonConforming
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// roundHalfUp rounds to the nearest integer with .5 going up, matching how
// scores are displayed.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
