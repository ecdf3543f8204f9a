package shared

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBaseAggregateRoot(t *testing.T) {
	t.Run("new aggregate starts at version 1 with identity set", func(t *testing.T) {
		root := NewBaseAggregateRoot()
		assert.Equal(t, 1, root.GetVersion())
		assert.NotEqual(t, uuid.Nil, root.ID)
		assert.False(t, root.CreatedAt.IsZero())
		assert.Empty(t, root.GetDomainEvents())
	})

	t.Run("version increments for optimistic locking", func(t *testing.T) {
		root := NewBaseAggregateRoot()
		root.IncrementVersion()
		root.IncrementVersion()
		assert.Equal(t, 3, root.GetVersion())
	})

	t.Run("domain events accumulate and clear", func(t *testing.T) {
		root := NewBaseAggregateRoot()
		evt := NewBaseDomainEvent("BudgetExceeded", "BudgetPeriod", uuid.New())
		root.AddDomainEvent(&evt)
		assert.Len(t, root.GetDomainEvents(), 1)

		root.ClearDomainEvents()
		assert.Empty(t, root.GetDomainEvents())
	})
}
