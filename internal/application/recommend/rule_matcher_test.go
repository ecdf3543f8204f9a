package recommend

import (
	"context"
	"testing"
	"time"

	"github.com/budgeterp/backend/internal/domain/budget"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleMatcherMatch(t *testing.T) {
	ctx := context.Background()
	analyticID := uuid.New()
	partnerID := uuid.New()
	tagID := uuid.New()
	productID := uuid.New()
	categoryID := uuid.New()

	matchCtx := budget.MatchContext{
		PartnerID:         partnerID,
		PartnerTagIDs:     []uuid.UUID{tagID},
		ProductID:         &productID,
		ProductCategoryID: &categoryID,
		ProductName:       "Office Chair",
	}

	t.Run("returns nil when nothing matches", func(t *testing.T) {
		repo := new(MockAutoAssignRuleRepository)
		repo.On("FindActive", ctx).Return([]*budget.AutoAssignRule{}, nil)

		matcher := NewRuleMatcher(repo)
		rule, err := matcher.Match(ctx, matchCtx)
		require.NoError(t, err)
		assert.Nil(t, rule)
	})

	t.Run("prefers the more specific rule", func(t *testing.T) {
		broad, _ := budget.NewAutoAssignRule(analyticID)
		broad.SetPartnerClause(nil, &tagID)
		broad.SetProductClause(nil, &categoryID)

		exact, _ := budget.NewAutoAssignRule(uuid.New())
		exact.SetPartnerClause(&partnerID, nil)
		exact.SetProductClause(&productID, nil)

		repo := new(MockAutoAssignRuleRepository)
		repo.On("FindActive", ctx).Return([]*budget.AutoAssignRule{broad, exact}, nil)

		matcher := NewRuleMatcher(repo)
		rule, err := matcher.Match(ctx, matchCtx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, exact.ID, rule.ID)
	})

	t.Run("specificity tie goes to the most recently created rule", func(t *testing.T) {
		older, _ := budget.NewAutoAssignRule(analyticID)
		older.SetPartnerClause(&partnerID, nil)
		older.SetProductClause(&productID, nil)
		older.CreatedAt = time.Now().Add(-time.Hour)

		newer, _ := budget.NewAutoAssignRule(uuid.New())
		newer.SetPartnerClause(&partnerID, nil)
		newer.SetProductClause(&productID, nil)

		repo := new(MockAutoAssignRuleRepository)
		repo.On("FindActive", ctx).Return([]*budget.AutoAssignRule{older, newer}, nil)

		matcher := NewRuleMatcher(repo)
		rule, err := matcher.Match(ctx, matchCtx)
		require.NoError(t, err)
		require.NotNil(t, rule)
		assert.Equal(t, newer.ID, rule.ID)
	})

	t.Run("same inputs always pick the same rule", func(t *testing.T) {
		now := time.Now()
		first, _ := budget.NewAutoAssignRule(analyticID)
		first.SetPartnerClause(&partnerID, nil)
		first.SetProductClause(&productID, nil)
		first.CreatedAt = now

		second, _ := budget.NewAutoAssignRule(uuid.New())
		second.SetPartnerClause(&partnerID, nil)
		second.SetProductClause(&productID, nil)
		second.CreatedAt = now

		repo := new(MockAutoAssignRuleRepository)
		repo.On("FindActive", ctx).Return([]*budget.AutoAssignRule{first, second}, nil)

		matcher := NewRuleMatcher(repo)
		winner, err := matcher.Match(ctx, matchCtx)
		require.NoError(t, err)
		require.NotNil(t, winner)

		for i := 0; i < 5; i++ {
			again, err := matcher.Match(ctx, matchCtx)
			require.NoError(t, err)
			require.NotNil(t, again)
			assert.Equal(t, winner.ID, again.ID)
		}
	})

	t.Run("skips inactive rules", func(t *testing.T) {
		rule, _ := budget.NewAutoAssignRule(analyticID)
		rule.SetPartnerClause(&partnerID, nil)
		rule.SetProductClause(&productID, nil)
		rule.Deactivate()

		repo := new(MockAutoAssignRuleRepository)
		repo.On("FindActive", ctx).Return([]*budget.AutoAssignRule{rule}, nil)

		matcher := NewRuleMatcher(repo)
		got, err := matcher.Match(ctx, matchCtx)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
