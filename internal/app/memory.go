package app

import "sync"

const defaultMemoryMaxTurns = 20

// MemoryTurn is one prior question/answer pair.
type MemoryTurn struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// MemoryStore holds the rolling dialogue memory per conversation. It is
// process-lifetime state only: nothing survives a restart, and answers can
// still be produced from the persisted message history. Retained turns are
// capped so a long conversation cannot grow memory without bound.
type MemoryStore struct {
	mu       sync.Mutex
	maxTurns int
	turns    map[uint][]MemoryTurn
}

func NewMemoryStore(maxTurns int) *MemoryStore {
	if maxTurns <= 0 {
		maxTurns = defaultMemoryMaxTurns
	}
	return &MemoryStore{
		maxTurns: maxTurns,
		turns:    make(map[uint][]MemoryTurn),
	}
}

// Append records a completed turn, evicting the oldest once over the cap.
// The entry for a conversation is created lazily on first append.
func (s *MemoryStore) Append(conversationID uint, question, answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := append(s.turns[conversationID], MemoryTurn{Question: question, Answer: answer})
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}
	s.turns[conversationID] = turns
}

// Clear drops all memory for the conversation.
func (s *MemoryStore) Clear(conversationID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.turns, conversationID)
}

// Summary returns the retained turns in chronological order.
func (s *MemoryStore) Summary(conversationID uint) []MemoryTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turns := s.turns[conversationID]
	out := make([]MemoryTurn, len(turns))
	copy(out, turns)
	return out
}
