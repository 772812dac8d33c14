package memory

import (
	"sort"
	"sync"

	"github.com/PabloGalante/convo-insights/internal/domain"
)

type TurnStore struct {
	mu    sync.RWMutex
	turns map[domain.ConversationID][]*domain.Turn
}

func NewTurnStore() *TurnStore {
	return &TurnStore{
		turns: make(map[domain.ConversationID][]*domain.Turn),
	}
}

func (s *TurnStore) AppendTurn(turn *domain.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns[turn.ConversationID] = append(s.turns[turn.ConversationID], turn)
	return nil
}

// GetTurnsByConversation returns the conversation's turns ordered by
// their stable sequence number.
func (s *TurnStore) GetTurnsByConversation(id domain.ConversationID) ([]*domain.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.turns[id]
	out := make([]*domain.Turn, len(stored))
	copy(out, stored)

	sort.Slice(out, func(i, j int) bool {
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}
