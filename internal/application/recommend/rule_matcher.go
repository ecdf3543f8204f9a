package recommend

import (
	"context"
	"sort"

	"github.com/budgeterp/backend/internal/domain/budget"
)

// RuleMatcher picks the best active auto-assign rule for a line
// context. Ties on specificity go to the most recently created rule,
// then ID, so the same inputs always yield the same rule.
type RuleMatcher struct {
	ruleRepo budget.AutoAssignRuleRepository
}

// NewRuleMatcher creates a new RuleMatcher
func NewRuleMatcher(ruleRepo budget.AutoAssignRuleRepository) *RuleMatcher {
	return &RuleMatcher{ruleRepo: ruleRepo}
}

// Match returns the most specific matching rule, or nil when none match
func (m *RuleMatcher) Match(ctx context.Context, matchCtx budget.MatchContext) (*budget.AutoAssignRule, error) {
	rules, err := m.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*budget.AutoAssignRule, 0, len(rules))
	for _, rule := range rules {
		if rule.Matches(matchCtx) {
			matched = append(matched, rule)
		}
	}
	if len(matched) == 0 {
		return nil, nil
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Specificity() != matched[j].Specificity() {
			return matched[i].Specificity() > matched[j].Specificity()
		}
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	return matched[0], nil
}
