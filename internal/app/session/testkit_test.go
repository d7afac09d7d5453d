package session

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"forager/internal/app/ports"
	"forager/internal/domain/game"
)

var testNow = time.Unix(1700000000, 0).UTC()

func fixedNow() time.Time { return testNow }

func testConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Seed = 42
	return cfg
}

// startGame registers a session for player "ply_1" and returns its id.
func startGame(reg *Registry, events *fakeEvents, sessions *fakeSessions) string {
	uc := NewGameUseCase{Registry: reg, Sessions: sessions, Events: events, Config: testConfig(), Now: fixedNow}
	resp, err := uc.Execute(context.Background(), NewGameRequest{PlayerID: "ply_1"})
	if err != nil {
		panic(err)
	}
	return resp.SessionID
}

type fakeEvents struct {
	mu     sync.Mutex
	bySess map[string][]ports.GameEvent
	err    error
}

func newFakeEvents() *fakeEvents { return &fakeEvents{bySess: map[string][]ports.GameEvent{}} }

func (f *fakeEvents) Append(_ context.Context, sessionID string, events []ports.GameEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.bySess[sessionID] = append(f.bySess[sessionID], events...)
	return nil
}

func (f *fakeEvents) ListBySessionID(_ context.Context, sessionID string, limit int) ([]ports.GameEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.bySess[sessionID]
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (f *fakeEvents) types(sessionID string) map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int{}
	for _, e := range f.bySess[sessionID] {
		out[e.Type]++
	}
	return out
}

type fakeSessions struct {
	records  map[string]ports.GameSessionRecord
	opened   int
	closed   int
	closeErr error
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{records: map[string]ports.GameSessionRecord{}}
}

func (f *fakeSessions) EnsureActive(_ context.Context, sessionID, playerID string, startedAt time.Time) error {
	f.opened++
	f.records[sessionID] = ports.GameSessionRecord{SessionID: sessionID, PlayerID: playerID, Status: "active", StartedAt: startedAt}
	return nil
}

func (f *fakeSessions) Close(_ context.Context, sessionID, cause string, wave, score int, endedAt time.Time) error {
	f.closed++
	if f.closeErr != nil {
		return f.closeErr
	}
	rec, ok := f.records[sessionID]
	if !ok {
		return ports.ErrNotFound
	}
	rec.Status = "closed"
	rec.Cause = cause
	rec.Wave = wave
	rec.Score = score
	rec.EndedAt = &endedAt
	f.records[sessionID] = rec
	return nil
}

func (f *fakeSessions) Get(_ context.Context, sessionID string) (ports.GameSessionRecord, error) {
	rec, ok := f.records[sessionID]
	if !ok {
		return ports.GameSessionRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

type fakeSnapshots struct {
	records map[string]ports.SnapshotRecord
	// bump simulates a concurrent writer landing between the read and the write.
	bump bool
}

func newFakeSnapshots() *fakeSnapshots {
	return &fakeSnapshots{records: map[string]ports.SnapshotRecord{}}
}

func (f *fakeSnapshots) GetBySessionID(_ context.Context, sessionID string) (ports.SnapshotRecord, error) {
	rec, ok := f.records[sessionID]
	if !ok {
		return ports.SnapshotRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (f *fakeSnapshots) SaveWithVersion(_ context.Context, rec ports.SnapshotRecord, expectedVersion int64) error {
	current := f.records[rec.SessionID].Version
	if f.bump {
		current++
	}
	if current != expectedVersion {
		return ports.ErrConflict
	}
	f.records[rec.SessionID] = rec
	return nil
}

func (f *fakeSnapshots) ListByPlayerID(_ context.Context, playerID string, limit int) ([]ports.SnapshotRecord, error) {
	var out []ports.SnapshotRecord
	for _, r := range f.records {
		if r.PlayerID == playerID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type jsonCodec struct{}

func (jsonCodec) Encode(snap game.Snapshot) ([]byte, error) { return json.Marshal(snap) }

func (jsonCodec) Decode(blob []byte) (game.Snapshot, error) {
	var snap game.Snapshot
	err := json.Unmarshal(blob, &snap)
	return snap, err
}

type fakeTxManager struct{}

func (fakeTxManager) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type fakeMetrics struct {
	steps, frames, kills, waves, overs, conflicts, failures int
}

func (m *fakeMetrics) RecordStep(frames int)  { m.steps++; m.frames += frames }
func (m *fakeMetrics) RecordKills(n int)      { m.kills += n }
func (m *fakeMetrics) RecordWaveComplete(int) { m.waves++ }
func (m *fakeMetrics) RecordGameOver()        { m.overs++ }
func (m *fakeMetrics) RecordConflict()        { m.conflicts++ }
func (m *fakeMetrics) RecordFailure()         { m.failures++ }
