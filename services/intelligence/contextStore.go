// File: services/intelligence/contextStore.go
package ai

import (
	"sync"

	"agendapro/models"

	"github.com/google/uuid"
)

// MaxHistoryTurns bounds the turns kept per conversation.
const MaxHistoryTurns = 20

// MaxConversations bounds the conversations kept; the least recently used goes first.
const MaxConversations = 1000

// State is where a conversation stands in its current turn.
type State string

const (
	StateIdle     State = "idle"
	StateAwaiting State = "awaiting_model_response"
	StateBooked   State = "booked"
)

type conversation struct {
	turns []models.ChatMessage
	state State
	used  uint64
}

// ContextStore keeps conversation history in process memory. Nothing here is
// persisted; a restart forgets every conversation.
type ContextStore struct {
	mu            sync.Mutex
	conversations map[string]*conversation
	maxTurns      int
	maxKept       int
	clock         uint64
}

func NewContextStore() *ContextStore {
	return &ContextStore{
		conversations: make(map[string]*conversation),
		maxTurns:      MaxHistoryTurns,
		maxKept:       MaxConversations,
	}
}

// Resolve returns id when it names a stored conversation, and otherwise a
// fresh "c-<uuid>" id. Nothing is stored until the first Append.
func (s *ContextStore) Resolve(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.conversations[id]; ok && id != "" {
		return id
	}
	return "c-" + uuid.NewString()
}

// Len reports how many conversations are stored.
func (s *ContextStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conversations)
}

// Get returns a copy of the turns of conversation id.
func (s *ContextStore) Get(id string) []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return nil
	}
	return append([]models.ChatMessage(nil), c.turns...)
}

// Append adds turns to conversation id and keeps only the most recent maxTurns.
func (s *ContextStore) Append(id string, turns ...models.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		if len(s.conversations) >= s.maxKept {
			s.evictOldest()
		}
		c = &conversation{state: StateIdle}
		s.conversations[id] = c
	}
	s.clock++
	c.used = s.clock
	c.turns = append(c.turns, turns...)
	if over := len(c.turns) - s.maxTurns; over > 0 {
		c.turns = append([]models.ChatMessage(nil), c.turns[over:]...)
	}
}

// evictOldest drops the least recently appended conversation. Callers hold mu.
func (s *ContextStore) evictOldest() {
	var oldest string
	var oldestUsed uint64
	for id, c := range s.conversations {
		if oldest == "" || c.used < oldestUsed {
			oldest, oldestUsed = id, c.used
		}
	}
	delete(s.conversations, oldest)
}

func (s *ContextStore) SetState(id string, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[id]; ok {
		c.state = state
	}
}

// State returns the state of conversation id, idle when unknown.
func (s *ContextStore) State(id string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.conversations[id]; ok {
		return c.state
	}
	return StateIdle
}
