package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOptimisticApplyAndConfirm(t *testing.T) {
	state := NewReactionState(map[string]int{"like": 3}, nil)

	u := state.Apply("like")
	assert.Equal(t, 4, state.Count("like"))
	assert.True(t, state.HasReacted("like"))
	assert.Equal(t, PhaseApplied, u.Phase())

	u.Confirm()
	assert.Equal(t, PhaseConfirmed, u.Phase())
	assert.Equal(t, 4, state.Count("like"))

	// Rollback after confirm is a no-op
	u.Rollback()
	assert.Equal(t, 4, state.Count("like"))
}

func TestRollbackExactness(t *testing.T) {
	state := NewReactionState(map[string]int{"lol": 7}, nil)

	// Repeated optimistic-increment-then-failure must never drift the count
	// below its original value or leave a phantom reacted flag.
	for i := 0; i < 5; i++ {
		u := state.Apply("lol")
		assert.Equal(t, 8, state.Count("lol"))
		u.Rollback()
		assert.Equal(t, 7, state.Count("lol"))
		assert.False(t, state.HasReacted("lol"))
	}
}

func TestRollbackFloorsAtZero(t *testing.T) {
	state := NewReactionState(nil, nil)

	u := state.Apply("angry")
	assert.Equal(t, 1, state.Count("angry"))
	u.Rollback()
	assert.Equal(t, 0, state.Count("angry"))

	// A double rollback must not drive the count negative.
	u.Rollback()
	assert.Equal(t, 0, state.Count("angry"))
}

func TestRollbackPreservesPriorReaction(t *testing.T) {
	// Already reacted with "like" from an earlier session: a failed second
	// update of the same kind must not erase that fact.
	state := NewReactionState(map[string]int{"like": 5}, []string{"like"})

	u := state.Apply("like")
	u.Rollback()
	assert.True(t, state.HasReacted("like"))
	assert.Equal(t, 5, state.Count("like"))
}
