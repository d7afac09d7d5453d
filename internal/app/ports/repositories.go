package ports

import (
	"context"
	"errors"
	"time"
)

// Repositories report a missing row as ErrNotFound and a lost optimistic write as ErrConflict.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// TxManager runs fn in one transaction; repositories called with the ctx handed to fn join it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type SnapshotRecord struct {
	SessionID string
	PlayerID  string
	Wave      int
	Score     int
	Blob      []byte
	Version   int64
	SavedAt   time.Time
}

// SnapshotRepository keeps one snapshot per session. Save replaces the stored record when
// expectedVersion matches; 0 means the session has never been saved.
type SnapshotRepository interface {
	GetBySessionID(ctx context.Context, sessionID string) (SnapshotRecord, error)
	SaveWithVersion(ctx context.Context, rec SnapshotRecord, expectedVersion int64) error
	ListByPlayerID(ctx context.Context, playerID string, limit int) ([]SnapshotRecord, error)
}

type GameEvent struct {
	Type       string         `json:"type"`
	Message    string         `json:"message,omitempty"`
	Severity   string         `json:"severity,omitempty"`
	Wave       int            `json:"wave"`
	SimTimeMs  float64        `json:"sim_time_ms"`
	OccurredAt time.Time      `json:"occurred_at"`
	Payload    map[string]any `json:"payload,omitempty"`
}

type EventRepository interface {
	Append(ctx context.Context, sessionID string, events []GameEvent) error
	ListBySessionID(ctx context.Context, sessionID string, limit int) ([]GameEvent, error)
}

type GameSessionRecord struct {
	SessionID string
	PlayerID  string
	Status    string
	Cause     string
	Wave      int
	Score     int
	StartedAt time.Time
	EndedAt   *time.Time
}

type GameSessionRepository interface {
	EnsureActive(ctx context.Context, sessionID, playerID string, startedAt time.Time) error
	Close(ctx context.Context, sessionID, cause string, wave, score int, endedAt time.Time) error
	Get(ctx context.Context, sessionID string) (GameSessionRecord, error)
}

type PlayerCredentialRecord struct {
	PlayerID  string
	KeySalt   []byte
	KeyHash   []byte
	Status    string
	CreatedAt time.Time
}

type PlayerCredentialRepository interface {
	Create(ctx context.Context, credential PlayerCredentialRecord) error
	GetByPlayerID(ctx context.Context, playerID string) (PlayerCredentialRecord, error)
}
