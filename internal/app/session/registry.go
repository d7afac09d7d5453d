package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"forager/internal/app/shared/token"
	"forager/internal/domain/game"
)

var (
	ErrInvalidRequest  = errors.New("invalid session request")
	ErrSessionNotFound = errors.New("session not found")
	ErrGameOver        = errors.New("game is over")
	ErrUnknownName     = errors.New("unknown name")
)

// Session is one live game owned by a player. Every access to the game goes through mu.
type Session struct {
	ID        string
	PlayerID  string
	StartedAt time.Time

	mu       sync.Mutex
	game     *game.Game
	recorder *game.Recorder
	closed   bool
	cause    string
}

func newSession(id, playerID string, cfg game.Config, startedAt time.Time) *Session {
	rec := &game.Recorder{}
	return &Session{
		ID:        id,
		PlayerID:  playerID,
		StartedAt: startedAt,
		game:      game.New(cfg, nil, rec.Sinks()),
		recorder:  rec,
	}
}

// Registry holds the live sessions of this process.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: map[string]*Session{}}
}

func (r *Registry) Put(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// findSession returns the session only to its owner; a foreign session looks the same as a missing
// one.
func findSession(reg *Registry, sessionID, playerID string) (*Session, error) {
	sessionID = strings.TrimSpace(sessionID)
	playerID = strings.TrimSpace(playerID)
	if reg == nil || sessionID == "" || playerID == "" {
		return nil, ErrInvalidRequest
	}
	s, ok := reg.Get(sessionID)
	if !ok || s.PlayerID != playerID {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func newSessionID(now time.Time) (string, error) {
	return token.NewID("ses", now)
}

func nowOrDefault(fn func() time.Time) time.Time {
	if fn == nil {
		return time.Now().UTC()
	}
	return fn().UTC()
}
