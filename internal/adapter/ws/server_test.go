package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"forager/internal/app/auth"
	"forager/internal/app/session"
	"forager/internal/domain/game"
)

type fakeVerifier struct {
	err error
}

func (f fakeVerifier) Execute(context.Context, auth.VerifyRequest) error { return f.err }

type fakeStepper struct {
	mu       sync.Mutex
	reqs     []session.StepRequest
	overAt   int
	err      error
	attacked chan struct{}
}

func (f *fakeStepper) Execute(_ context.Context, req session.StepRequest) (session.StepResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return session.StepResponse{}, f.err
	}
	f.reqs = append(f.reqs, req)
	if req.Frames[0].Attack && f.attacked != nil {
		close(f.attacked)
		f.attacked = nil
	}
	return session.StepResponse{GameOver: f.overAt > 0 && len(f.reqs) >= f.overAt}, nil
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMsg(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return m
}

func TestHandler_RejectsMissingOrBadCredentials(t *testing.T) {
	s := NewServer(fakeVerifier{err: auth.ErrInvalidCredentials}, &fakeStepper{}, 50, "*", nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws?session_id=s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp, err = http.Get(srv.URL + "/ws?session_id=s1&player_id=p1&key=k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestHandler_StreamsFramesUntilGameOver(t *testing.T) {
	step := &fakeStepper{overAt: 3}
	s := NewServer(fakeVerifier{}, step, 100, "", nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv, "session_id=s1&player_id=p1&key=k")
	for i := 0; i < 3; i++ {
		m := readMsg(t, conn)
		if m["type"] != MsgFrame {
			t.Fatalf("frame %d: unexpected message %v", i, m)
		}
		if over := m["game_over"].(bool); over != (i == 2) {
			t.Fatalf("frame %d: game_over=%v", i, over)
		}
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
		t.Fatalf("expected normal close after game over, got %v", err)
	}

	step.mu.Lock()
	defer step.mu.Unlock()
	for _, r := range step.reqs {
		if r.SessionID != "s1" || r.PlayerID != "p1" || len(r.Frames) != 1 || r.Frames[0].DtMs <= 0 {
			t.Fatalf("unexpected step request: %+v", r)
		}
	}
}

func TestHandler_ForwardsInput(t *testing.T) {
	step := &fakeStepper{attacked: make(chan struct{})}
	attacked := step.attacked
	s := NewServer(fakeVerifier{}, step, 100, "", nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv, "session_id=s1&player_id=p1&key=k")
	msg := ClientMsg{Type: MsgInput, Input: game.Input{Keys: game.Keys{Right: true}, Attack: true}}
	b, _ := json.Marshal(msg)
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case <-attacked:
	case <-time.After(2 * time.Second):
		t.Fatalf("attack input never reached the session")
	}
}

func TestHandler_ReportsStepErrors(t *testing.T) {
	s := NewServer(fakeVerifier{}, &fakeStepper{err: session.ErrSessionNotFound}, 100, "", nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	conn := dial(t, srv, "session_id=s1&player_id=p1&key=k")
	m := readMsg(t, conn)
	if m["type"] != MsgError || m["code"] != "session_not_found" {
		t.Fatalf("unexpected message: %v", m)
	}
}

func TestInputState_OneShotActions(t *testing.T) {
	in := &inputState{}
	slot := 2
	in.apply(game.Input{Keys: game.Keys{Up: true}, Eat: true, SelectSlot: &slot})
	in.apply(game.Input{Keys: game.Keys{Left: true}})

	first := in.take()
	if !first.Eat || first.SelectSlot == nil || *first.SelectSlot != 2 || !first.Keys.Left || first.Keys.Up {
		t.Fatalf("unexpected first input: %+v", first)
	}
	second := in.take()
	if second.Eat || second.SelectSlot != nil || !second.Keys.Left {
		t.Fatalf("one-shot actions should clear, keys should hold: %+v", second)
	}
}

func TestHandler_RejectsForeignOrigin(t *testing.T) {
	s := NewServer(fakeVerifier{}, &fakeStepper{}, 100, "https://play.example", nil)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?session_id=s1&player_id=p1&key=k"

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://evil.example"}})
	if err == nil {
		conn.Close()
		t.Fatalf("foreign origin was upgraded")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign origin, got resp=%v err=%v", resp, err)
	}

	conn, _, err = websocket.DefaultDialer.Dial(url, http.Header{"Origin": {"https://play.example"}})
	if err != nil {
		t.Fatalf("configured origin rejected: %v", err)
	}
	conn.Close()
}

func TestOriginChecker(t *testing.T) {
	cases := []struct {
		allowed, origin string
		want            bool
	}{
		{"", "https://any.example", true},
		{"*", "https://any.example", true},
		{"https://play.example", "", true},
		{"https://play.example", "HTTPS://PLAY.EXAMPLE", true},
		{"https://play.example", "https://evil.example", false},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if c.origin != "" {
			r.Header.Set("Origin", c.origin)
		}
		if got := originChecker(c.allowed)(r); got != c.want {
			t.Fatalf("allowed=%q origin=%q: got=%v want=%v", c.allowed, c.origin, got, c.want)
		}
	}
}
