// Package ws drives live sessions over a websocket. The server owns the clock: it steps the
// session once per tick with the input the client last reported and pushes the frame summary.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"forager/internal/app/auth"
	"forager/internal/app/session"
	"forager/internal/domain/game"
)

const (
	MsgInput = "input"
	MsgFrame = "frame"
	MsgError = "error"

	readTimeout  = 60 * time.Second
	writeTimeout = 5 * time.Second
)

type verifier interface {
	Execute(ctx context.Context, req auth.VerifyRequest) error
}

type stepper interface {
	Execute(ctx context.Context, req session.StepRequest) (session.StepResponse, error)
}

type Server struct {
	auth   verifier
	step   stepper
	period time.Duration
	log    *log.Logger

	upgrader websocket.Upgrader
}

// NewServer accepts browser upgrades from origin only. An empty origin or "*" admits any page,
// matching the HTTP API's CORS setting.
func NewServer(v verifier, s stepper, tickHz int, origin string, logger *log.Logger) *Server {
	if tickHz <= 0 {
		tickHz = 30
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		auth:   v,
		step:   s,
		period: time.Second / time.Duration(tickHz),
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     originChecker(origin),
		},
	}
}

func originChecker(allowed string) func(r *http.Request) bool {
	allowed = strings.TrimSpace(allowed)
	return func(r *http.Request) bool {
		if allowed == "" || allowed == "*" {
			return true
		}
		// Non-browser clients send no Origin; the player key still gates them.
		origin := r.Header.Get("Origin")
		return origin == "" || strings.EqualFold(origin, allowed)
	}
}

// ClientMsg is what the client sends whenever its input changes. Keys are held until the next
// message; attack, eat, potion and select_slot fire once.
type ClientMsg struct {
	Type string `json:"type"`
	game.Input
}

type frameMsg struct {
	Type string `json:"type"`
	session.StepResponse
}

type errorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		sessionID := strings.TrimSpace(q.Get("session_id"))
		playerID := strings.TrimSpace(q.Get("player_id"))
		key := strings.TrimSpace(q.Get("key"))
		if sessionID == "" || playerID == "" || key == "" {
			http.Error(rw, "session_id, player_id and key are required", http.StatusBadRequest)
			return
		}
		if err := s.auth.Execute(r.Context(), auth.VerifyRequest{PlayerID: playerID, PlayerKey: key}); err != nil {
			http.Error(rw, "invalid player credentials", http.StatusUnauthorized)
			return
		}

		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		in := &inputState{}
		go s.readLoop(ctx, cancel, conn, in)
		s.tickLoop(ctx, conn, sessionID, playerID, in)
	}
}

func (s *Server) readLoop(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, in *inputState) {
	defer cancel()
	for {
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMsg
		if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != MsgInput {
			continue
		}
		in.apply(msg.Input)
		if ctx.Err() != nil {
			return
		}
	}
}

func (s *Server) tickLoop(ctx context.Context, conn *websocket.Conn, sessionID, playerID string, in *inputState) {
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := float64(now.Sub(last)) / float64(time.Millisecond)
			last = now
			resp, err := s.step.Execute(ctx, session.StepRequest{
				SessionID: sessionID,
				PlayerID:  playerID,
				Frames:    []session.Frame{{DtMs: dt, Input: in.take()}},
			})
			if err != nil {
				s.fail(conn, sessionID, err)
				return
			}
			if err := writeJSON(conn, frameMsg{Type: MsgFrame, StepResponse: resp}); err != nil {
				return
			}
			if resp.GameOver {
				closeWith(conn, websocket.CloseNormalClosure, "game over")
				return
			}
		}
	}
}

func (s *Server) fail(conn *websocket.Conn, sessionID string, err error) {
	code := "internal_error"
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		code = "session_not_found"
	case errors.Is(err, session.ErrGameOver):
		code = "game_over"
	default:
		s.log.Printf("ws step session=%s: %v", sessionID, err)
	}
	_ = writeJSON(conn, errorMsg{Type: MsgError, Code: code, Message: err.Error()})
	closeWith(conn, websocket.ClosePolicyViolation, code)
}

type inputState struct {
	mu      sync.Mutex
	keys    game.Keys
	attack  bool
	eat     bool
	potion  bool
	selectN *int
}

func (s *inputState) apply(in game.Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys = in.Keys
	s.attack = s.attack || in.Attack
	s.eat = s.eat || in.Eat
	s.potion = s.potion || in.Potion
	if in.SelectSlot != nil {
		n := *in.SelectSlot
		s.selectN = &n
	}
}

// take returns the input for the next tick and clears the one-shot actions.
func (s *inputState) take() game.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := game.Input{Keys: s.keys, Attack: s.attack, Eat: s.eat, Potion: s.potion, SelectSlot: s.selectN}
	s.attack, s.eat, s.potion, s.selectN = false, false, false, nil
	return out
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteMessage(websocket.TextMessage, b)
}

func closeWith(conn *websocket.Conn, code int, reason string) {
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), time.Now().Add(time.Second))
}
