package session

import (
	"context"
	"sync"

	"github.com/tutravel/intake-bot/internal/entity"
)

// MemoryStore keeps sessions in a process-local map. This is the default
// store: in-flight conversations are acceptable to lose on restart.
//
// It hands out copies, never the stored pointer. A turn that mutates its
// copy and aborts before Save leaves the stored session exactly as it was.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*entity.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*entity.Session),
	}
}

func (s *MemoryStore) GetOrCreate(_ context.Context, sender string) (*entity.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[sender]; ok {
		copied := *existing
		return &copied, nil
	}

	created := entity.NewSession(sender)
	stored := *created
	s.sessions[sender] = &stored
	return created, nil
}

func (s *MemoryStore) Save(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	s.sessions[session.Sender] = &copied
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sender string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, sender)
	return nil
}

// Len reports how many conversations are in flight (used by the health
// endpoint).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
