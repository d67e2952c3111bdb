// Package model defines the domain types shared across the application:
// rubrics, evaluation results, stored interactions, and voice profiles.
package model

// BalancedWeight is the weight sum a well-formed rubric is expected to reach.
const BalancedWeight = 100

// Criterion is a single scorable item of the monitoring scorecard.
type Criterion struct {
	ID          string `json:"id" yaml:"id"`
	Category    string `json:"category" yaml:"category"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Weight      int    `json:"weight" yaml:"weight"`
}

// ZeroToleranceRule describes a non-conformity-grave (NCG) condition.
// Any detected occurrence zeroes the whole evaluation.
type ZeroToleranceRule struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Rubric is an ordered scorecard. Order is meaningful: serialization,
// coverage checks and tie-breaking all follow rubric order.
type Rubric []Criterion

// TotalWeight sums the weights of every criterion.
func (r Rubric) TotalWeight() int {
	total := 0
	for _, c := range r {
		total += c.Weight
	}
	return total
}

// IsBalanced reports whether the rubric weights sum to exactly 100.
// An empty rubric is not balanced.
func (r Rubric) IsBalanced() bool {
	return len(r) > 0 && r.TotalWeight() == BalancedWeight
}

// ByID returns an index of criteria keyed by criterion id.
func (r Rubric) ByID() map[string]Criterion {
	idx := make(map[string]Criterion, len(r))
	for _, c := range r {
		idx[c.ID] = c
	}
	return idx
}

// Categories returns the distinct category names in first-seen order.
func (r Rubric) Categories() []string {
	var names []string
	seen := map[string]bool{}
	for _, c := range r {
		if !seen[c.Category] {
			seen[c.Category] = true
			names = append(names, c.Category)
		}
	}
	return names
}

// CategoryGroup holds the criteria of one category, in rubric order.
type CategoryGroup struct {
	Category string
	Criteria []Criterion
}

// GroupByCategory partitions the rubric by category. Categories appear in
// first-seen order and criteria keep their relative rubric order, so the
// grouping is stable across calls.
func (r Rubric) GroupByCategory() []CategoryGroup {
	var groups []CategoryGroup
	index := map[string]int{}
	for _, c := range r {
		i, ok := index[c.Category]
		if !ok {
			i = len(groups)
			index[c.Category] = i
			groups = append(groups, CategoryGroup{Category: c.Category})
		}
		groups[i].Criteria = append(groups[i].Criteria, c)
	}
	return groups
}
