package app

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_AppendKeepsOrder(t *testing.T) {
	store := NewMemoryStore(10)
	store.Append(1, "q1", "a1")
	store.Append(1, "q2", "a2")

	turns := store.Summary(1)
	require.Len(t, turns, 2)
	assert.Equal(t, MemoryTurn{Question: "q1", Answer: "a1"}, turns[0])
	assert.Equal(t, MemoryTurn{Question: "q2", Answer: "a2"}, turns[1])
}

func TestMemoryStore_ConversationsAreIsolated(t *testing.T) {
	store := NewMemoryStore(10)
	store.Append(1, "q1", "a1")
	store.Append(2, "other", "answer")

	assert.Len(t, store.Summary(1), 1)
	assert.Len(t, store.Summary(2), 1)
	assert.Empty(t, store.Summary(3))
}

func TestMemoryStore_EvictsOldestOverCap(t *testing.T) {
	store := NewMemoryStore(3)
	for i := 1; i <= 5; i++ {
		store.Append(1, fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
	}

	turns := store.Summary(1)
	require.Len(t, turns, 3)
	assert.Equal(t, "q3", turns[0].Question)
	assert.Equal(t, "q5", turns[2].Question)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore(10)
	store.Append(1, "q1", "a1")
	store.Append(2, "q2", "a2")

	store.Clear(1)
	assert.Empty(t, store.Summary(1))
	assert.Len(t, store.Summary(2), 1, "clearing one conversation must not touch another")
}

func TestMemoryStore_SummaryReturnsCopy(t *testing.T) {
	store := NewMemoryStore(10)
	store.Append(1, "q1", "a1")

	turns := store.Summary(1)
	turns[0].Answer = "mutated"

	assert.Equal(t, "a1", store.Summary(1)[0].Answer)
}
