package client

import "sync"

// Phase tags an optimistic update's lifecycle: applied locally, then either
// confirmed by the backend or rolled back by its exact inverse.
type Phase int

const (
	PhaseApplied Phase = iota
	PhaseConfirmed
	PhaseRolledBack
)

// ReactionState mirrors a record's reaction counters locally. It is a
// best-effort copy, never authoritative: the backend's atomic procedure wins.
type ReactionState struct {
	mu      sync.Mutex
	counts  map[string]int
	reacted map[string]bool
}

func NewReactionState(counts map[string]int, reacted []string) *ReactionState {
	s := &ReactionState{
		counts:  make(map[string]int, len(counts)),
		reacted: make(map[string]bool, len(reacted)),
	}
	for k, v := range counts {
		s.counts[k] = v
	}
	for _, k := range reacted {
		s.reacted[k] = true
	}
	return s
}

// OptimisticUpdate records the exact delta that Apply made, so Rollback can
// invert it without re-deriving anything from current state.
type OptimisticUpdate struct {
	state      *ReactionState
	kind       string
	amount     int
	wasReacted bool
	phase      Phase
}

// Apply optimistically increments kind by one and marks it reacted.
func (s *ReactionState) Apply(kind string) *OptimisticUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := &OptimisticUpdate{
		state:      s,
		kind:       kind,
		amount:     1,
		wasReacted: s.reacted[kind],
		phase:      PhaseApplied,
	}
	s.counts[kind]++
	s.reacted[kind] = true
	return u
}

// Confirm marks the update as accepted by the backend.
func (u *OptimisticUpdate) Confirm() {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	if u.phase == PhaseApplied {
		u.phase = PhaseConfirmed
	}
}

// Rollback undoes exactly what Apply did: decrement the same kind by the
// recorded amount (floored at zero) and restore the reacted flag. A second
// Rollback on the same update is a no-op.
func (u *OptimisticUpdate) Rollback() {
	u.state.mu.Lock()
	defer u.state.mu.Unlock()
	if u.phase != PhaseApplied {
		return
	}
	u.phase = PhaseRolledBack

	n := u.state.counts[u.kind] - u.amount
	if n < 0 {
		n = 0
	}
	u.state.counts[u.kind] = n
	if !u.wasReacted {
		delete(u.state.reacted, u.kind)
	}
}

func (u *OptimisticUpdate) Phase() Phase { return u.phase }

func (s *ReactionState) Count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counts[kind]
}

func (s *ReactionState) HasReacted(kind string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reacted[kind]
}
