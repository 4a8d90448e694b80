package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/darknebula/leadchat/internal/capture"
)

// Sender identifies who produced a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry in a session transcript.
type Message struct {
	ID        int           `json:"id"`
	Text      string        `json:"text"`
	Sender    Sender        `json:"sender"`
	Timestamp time.Time     `json:"timestamp"`
	Stage     capture.Stage `json:"stage"`
}

// StateSnapshot is the persisted conversation state for one session.
type StateSnapshot struct {
	Lead      capture.LeadRecord `json:"lead"`
	Stage     capture.Stage      `json:"stage"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// SessionStore persists conversation state and transcripts so a session
// survives reconnects and process restarts.
type SessionStore interface {
	SaveState(ctx context.Context, sessionID string, snap StateSnapshot) error
	LoadState(ctx context.Context, sessionID string) (StateSnapshot, bool, error)
	AppendMessage(ctx context.Context, sessionID string, msg Message) error
	ListMessages(ctx context.Context, sessionID string, limit int64) ([]Message, error)
	Clear(ctx context.Context, sessionID string) error
}

// MemoryStore is an in-process SessionStore used in development and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	states      map[string]StateSnapshot
	transcripts map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:      make(map[string]StateSnapshot),
		transcripts: make(map[string][]Message),
	}
}

func (s *MemoryStore) SaveState(_ context.Context, sessionID string, snap StateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = snap
	return nil
}

func (s *MemoryStore) LoadState(_ context.Context, sessionID string) (StateSnapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.states[sessionID]
	return snap, ok, nil
}

func (s *MemoryStore) AppendMessage(_ context.Context, sessionID string, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[sessionID] = append(s.transcripts[sessionID], msg)
	return nil
}

func (s *MemoryStore) ListMessages(_ context.Context, sessionID string, limit int64) ([]Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := s.transcripts[sessionID]
	if limit > 0 && int64(len(msgs)) > limit {
		msgs = msgs[int64(len(msgs))-limit:]
	}
	out := make([]Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	delete(s.transcripts, sessionID)
	return nil
}
