// Package stats derives dashboard aggregates from stored interactions.
// Everything is recomputed from scratch per call; nothing is cached or
// mutated, so a corrected history is reflected immediately.
package stats

import (
	"math"

	"github.com/jammin-qa/quality-cli/internal/model"
)

// CategoryPerformance is the aggregate conformity of one rubric category.
type CategoryPerformance struct {
	Category     string `json:"category"`
	PointsEarned int    `json:"pointsEarned"`
	MaxPoints    int    `json:"maxPoints"`
	Percentage   int    `json:"percentage"`
}

// FailureEntry is one row of the Pareto failure ranking.
type FailureEntry struct {
	CriterionID   string `json:"criterionId"`
	Name          string `json:"name"`
	Count         int    `json:"count"`
	Cumulative    int    `json:"cumulative"`
	CumulativePct int    `json:"cumulativePct"`
	Vital         bool   `json:"vital"`
}

// Statistics is the full dashboard snapshot.
type Statistics struct {
	TotalInteractions int                   `json:"totalInteractions"`
	EvaluatedCount    int                   `json:"evaluatedCount"`
	AverageScore      int                   `json:"averageScore"`
	Categories        []CategoryPerformance `json:"categories"`
	Failures          []FailureEntry        `json:"failures"`
}

// Compute aggregates interactions against the rubric snapshot. Interactions
// without a result count toward TotalInteractions only. Guarantees: no NaN,
// zero-weight categories omitted, failure ties resolved in rubric order.
func Compute(interactions []model.Interaction, rubric model.Rubric) Statistics {
	s := Statistics{TotalInteractions: len(interactions)}

	scoreSum := 0
	for _, it := range interactions {
		if it.Result == nil {
			continue
		}
		s.EvaluatedCount++
		scoreSum += it.Result.TotalScore
	}
	if s.EvaluatedCount > 0 {
		s.AverageScore = roundHalfUp(float64(scoreSum) / float64(s.EvaluatedCount))
	}

	s.Categories = computeCategories(interactions, rubric)
	s.Failures = computeFailures(interactions, rubric)
	return s
}

func computeCategories(interactions []model.Interaction, rubric model.Rubric) []CategoryPerformance {
	byID := rubric.ByID()
	earned := map[string]int{}
	max := map[string]int{}

	for _, it := range interactions {
		if it.Result == nil {
			continue
		}
		for _, cs := range it.Result.CriteriaScores {
			c, ok := byID[cs.CriterionID]
			if !ok {
				continue
			}
			earned[c.Category] += cs.PointsEarned
			max[c.Category] += cs.MaxPoints
		}
	}

	var out []CategoryPerformance
	for _, g := range rubric.GroupByCategory() {
		if max[g.Category] == 0 {
			continue
		}
		out = append(out, CategoryPerformance{
			Category:     g.Category,
			PointsEarned: earned[g.Category],
			MaxPoints:    max[g.Category],
			Percentage:   roundHalfUp(100 * float64(earned[g.Category]) / float64(max[g.Category])),
		})
	}
	return out
}

func computeFailures(interactions []model.Interaction, rubric model.Rubric) []FailureEntry {
	counts := map[string]int{}
	total := 0
	for _, it := range interactions {
		if it.Result == nil {
			continue
		}
		for _, cs := range it.Result.CriteriaScores {
			if cs.Status != model.StatusConforming {
				counts[cs.CriterionID]++
				total++
			}
		}
	}
	if total == 0 {
		return nil
	}

	// Seed entries in rubric order so ties stay deterministic.
	var entries []FailureEntry
	for _, c := range rubric {
		if counts[c.ID] > 0 {
			entries = append(entries, FailureEntry{CriterionID: c.ID, Name: c.Name, Count: counts[c.ID]})
		}
	}
	sortByCountDesc(entries)

	cumulative := 0
	for i := range entries {
		before := cumulative
		cumulative += entries[i].Count
		entries[i].Cumulative = cumulative
		entries[i].CumulativePct = roundHalfUp(100 * float64(cumulative) / float64(total))
		entries[i].Vital = float64(before)/float64(total) < 0.8
	}
	return entries
}

// sortByCountDesc is a stable insertion sort; the ranking is always small.
func sortByCountDesc(entries []FailureEntry) {
	for i := 1; i < len(entries); i++ {
		for j := i; j > 0 && entries[j].Count > entries[j-1].Count; j-- {
			entries[j], entries[j-1] = entries[j-1], entries[j]
		}
	}
}

// roundHalfUp rounds to the nearest integer with .5 going up, matching how
// scores are displayed.
func roundHalfUp(f float64) int {
	return int(math.Floor(f + 0.5))
}
