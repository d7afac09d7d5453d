package sqliterepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"forager/internal/app/ports"
)

type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) SnapshotRepo {
	return SnapshotRepo{db: db}
}

func (r SnapshotRepo) GetBySessionID(ctx context.Context, sessionID string) (ports.SnapshotRecord, error) {
	var (
		rec     ports.SnapshotRecord
		savedAt string
	)
	err := getQuerier(ctx, r.db).QueryRowContext(ctx,
		`SELECT session_id, player_id, wave, score, blob, version, saved_at FROM game_snapshots WHERE session_id = ?`,
		sessionID,
	).Scan(&rec.SessionID, &rec.PlayerID, &rec.Wave, &rec.Score, &rec.Blob, &rec.Version, &savedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.SnapshotRecord{}, ports.ErrNotFound
		}
		return ports.SnapshotRecord{}, err
	}
	rec.SavedAt = parseTime(savedAt)
	return rec, nil
}

func (r SnapshotRepo) SaveWithVersion(ctx context.Context, rec ports.SnapshotRecord, expectedVersion int64) error {
	q := getQuerier(ctx, r.db)
	if expectedVersion == 0 {
		_, err := q.ExecContext(ctx,
			`INSERT INTO game_snapshots(session_id, player_id, wave, score, blob, version, saved_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rec.SessionID, rec.PlayerID, rec.Wave, rec.Score, rec.Blob, rec.Version, formatTime(rec.SavedAt),
		)
		if isUniqueViolation(err) {
			return ports.ErrConflict
		}
		return err
	}
	res, err := q.ExecContext(ctx,
		`UPDATE game_snapshots SET wave = ?, score = ?, blob = ?, version = ?, saved_at = ? WHERE session_id = ? AND version = ?`,
		rec.Wave, rec.Score, rec.Blob, rec.Version, formatTime(rec.SavedAt), rec.SessionID, expectedVersion,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrConflict
	}
	return nil
}

func (r SnapshotRepo) ListByPlayerID(ctx context.Context, playerID string, limit int) ([]ports.SnapshotRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx,
		`SELECT session_id, player_id, wave, score, version, saved_at FROM game_snapshots WHERE player_id = ? ORDER BY saved_at DESC LIMIT ?`,
		playerID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.SnapshotRecord{}
	for rows.Next() {
		var (
			rec     ports.SnapshotRecord
			savedAt string
		)
		if err := rows.Scan(&rec.SessionID, &rec.PlayerID, &rec.Wave, &rec.Score, &rec.Version, &savedAt); err != nil {
			return nil, err
		}
		rec.SavedAt = parseTime(savedAt)
		out = append(out, rec)
	}
	return out, rows.Err()
}

type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, sessionID string, events []ports.GameEvent) error {
	q := getQuerier(ctx, r.db)
	for _, e := range events {
		var payload sql.NullString
		if len(e.Payload) > 0 {
			b, _ := json.Marshal(e.Payload)
			payload = sql.NullString{String: string(b), Valid: true}
		}
		_, err := q.ExecContext(ctx,
			`INSERT INTO game_events(session_id, type, message, severity, wave, sim_time_ms, occurred_at, payload) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			sessionID, e.Type, e.Message, e.Severity, e.Wave, e.SimTimeMs, formatTime(e.OccurredAt), payload,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r EventRepo) ListBySessionID(ctx context.Context, sessionID string, limit int) ([]ports.GameEvent, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := getQuerier(ctx, r.db).QueryContext(ctx,
		`SELECT type, message, severity, wave, sim_time_ms, occurred_at, payload FROM (
			SELECT * FROM game_events WHERE session_id = ? ORDER BY id DESC LIMIT ?
		) ORDER BY id ASC`,
		sessionID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []ports.GameEvent{}
	for rows.Next() {
		var (
			e          ports.GameEvent
			occurredAt string
			payload    sql.NullString
		)
		if err := rows.Scan(&e.Type, &e.Message, &e.Severity, &e.Wave, &e.SimTimeMs, &occurredAt, &payload); err != nil {
			return nil, err
		}
		e.OccurredAt = parseTime(occurredAt)
		if payload.Valid {
			_ = json.Unmarshal([]byte(payload.String), &e.Payload)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type GameSessionRepo struct {
	db *sql.DB
}

func NewGameSessionRepo(db *sql.DB) GameSessionRepo {
	return GameSessionRepo{db: db}
}

func (r GameSessionRepo) EnsureActive(ctx context.Context, sessionID, playerID string, startedAt time.Time) error {
	_, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`INSERT INTO game_sessions(session_id, player_id, status, started_at) VALUES (?, ?, 'active', ?)
		ON CONFLICT(session_id) DO UPDATE SET status = 'active', cause = '', ended_at = NULL`,
		sessionID, playerID, formatTime(startedAt),
	)
	return err
}

func (r GameSessionRepo) Close(ctx context.Context, sessionID, cause string, wave, score int, endedAt time.Time) error {
	res, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`UPDATE game_sessions SET status = 'closed', cause = ?, wave = ?, score = ?, ended_at = ? WHERE session_id = ?`,
		cause, wave, score, formatTime(endedAt), sessionID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r GameSessionRepo) Get(ctx context.Context, sessionID string) (ports.GameSessionRecord, error) {
	var (
		rec       ports.GameSessionRecord
		startedAt string
		endedAt   sql.NullString
	)
	err := getQuerier(ctx, r.db).QueryRowContext(ctx,
		`SELECT session_id, player_id, status, cause, wave, score, started_at, ended_at FROM game_sessions WHERE session_id = ?`,
		sessionID,
	).Scan(&rec.SessionID, &rec.PlayerID, &rec.Status, &rec.Cause, &rec.Wave, &rec.Score, &startedAt, &endedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.GameSessionRecord{}, ports.ErrNotFound
		}
		return ports.GameSessionRecord{}, err
	}
	rec.StartedAt = parseTime(startedAt)
	if endedAt.Valid {
		t := parseTime(endedAt.String)
		rec.EndedAt = &t
	}
	return rec, nil
}

type PlayerCredentialRepo struct {
	db *sql.DB
}

func NewPlayerCredentialRepo(db *sql.DB) PlayerCredentialRepo {
	return PlayerCredentialRepo{db: db}
}

func (r PlayerCredentialRepo) Create(ctx context.Context, credential ports.PlayerCredentialRecord) error {
	_, err := getQuerier(ctx, r.db).ExecContext(ctx,
		`INSERT INTO player_credentials(player_id, key_salt, key_hash, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		credential.PlayerID, credential.KeySalt, credential.KeyHash, credential.Status, formatTime(credential.CreatedAt),
	)
	if isUniqueViolation(err) {
		return ports.ErrConflict
	}
	return err
}

func (r PlayerCredentialRepo) GetByPlayerID(ctx context.Context, playerID string) (ports.PlayerCredentialRecord, error) {
	var (
		rec       ports.PlayerCredentialRecord
		createdAt string
	)
	err := getQuerier(ctx, r.db).QueryRowContext(ctx,
		`SELECT player_id, key_salt, key_hash, status, created_at FROM player_credentials WHERE player_id = ?`,
		playerID,
	).Scan(&rec.PlayerID, &rec.KeySalt, &rec.KeyHash, &rec.Status, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ports.PlayerCredentialRecord{}, ports.ErrNotFound
		}
		return ports.PlayerCredentialRecord{}, err
	}
	rec.CreatedAt = parseTime(createdAt)
	return rec, nil
}
