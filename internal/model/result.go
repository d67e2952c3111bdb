package model

import (
	"fmt"
	"strings"
	"time"
)

// StatusType is the conformity verdict for a criterion or a whole evaluation.
type StatusType string

const (
	StatusConforming    StatusType = "CONFORME"
	StatusNonConforming StatusType = "NÃO CONFORME"
	StatusGraveFailure  StatusType = "FALHA GRAVE (NCG)"
)

// RigorLevel selects how strict the auditing oracle should be. EXPERT also
// routes the evaluation to the higher-capability model tier.
type RigorLevel string

const (
	RigorLight  RigorLevel = "LIGHT"
	RigorMedium RigorLevel = "MEDIUM"
	RigorExpert RigorLevel = "EXPERT"
)

// ParseRigor validates a user-supplied rigor string (case-insensitive).
func ParseRigor(s string) (RigorLevel, error) {
	switch RigorLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case RigorLight:
		return RigorLight, nil
	case RigorMedium:
		return RigorMedium, nil
	case RigorExpert:
		return RigorExpert, nil
	}
	return "", fmt.Errorf("unknown rigor level %q (want LIGHT, MEDIUM or EXPERT)", s)
}

// CriterionScore is the validated verdict for one rubric criterion.
type CriterionScore struct {
	CriterionID  string     `json:"criterionId"`
	Status       StatusType `json:"status"`
	PointsEarned int        `json:"pointsEarned"`
	MaxPoints    int        `json:"maxPoints"`
	Observation  string     `json:"observation"`
}

// Warning codes attached to a validated result. Warnings never fail an
// evaluation; they are always surfaced alongside it.
const (
	WarnTranscriptTruncated = "TranscriptTruncated"
	WarnRubricImbalance     = "RubricImbalanceWarning"
	WarnScoreConsistency    = "ScoreConsistencyWarning"
	WarnPointsClamped       = "PointsClamped"
	WarnUnknownCriterion    = "UnknownCriterion"
	WarnDuplicateCriterion  = "DuplicateCriterion"
)

// Warning is a non-fatal anomaly detected while building a request or
// validating an oracle response.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AnalysisResult is a fully validated evaluation. Every field has passed
// the normalization boundary; the metadata echo fields (MonitorID,
// AuditDate, RigorApplied) come from the request, never from the oracle.
type AnalysisResult struct {
	EvaluationStatus StatusType       `json:"evaluationStatus"`
	TotalScore       int              `json:"totalScore"`
	ReasonForCall    string           `json:"reasonForCall"`
	CriteriaScores   []CriterionScore `json:"criteriaScores"`
	Summary          string           `json:"summary"`
	SystemReadyText  string           `json:"systemReadyText"`
	OperatorFeedback string           `json:"operatorFeedback"`
	IsNCGDetected    bool             `json:"isNcgDetected"`
	MonitorID        string           `json:"monitorId"`
	AuditDate        string           `json:"auditDate"`
	RigorApplied     RigorLevel       `json:"rigorApplied"`
	Warnings         []Warning        `json:"warnings,omitempty"`
}

// Interaction is one audited contact, persisted append-only.
type Interaction struct {
	ID         string          `json:"id"`
	AgentName  string          `json:"agent_name"`
	Operation  string          `json:"operation"`
	Date       time.Time       `json:"date"`
	Transcript string          `json:"transcript"`
	Result     *AnalysisResult `json:"result,omitempty"`
}
