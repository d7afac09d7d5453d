package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"forager/internal/app/ports"
	"forager/internal/app/shared/lookup"
	"forager/internal/domain/game"
)

const (
	CommandCraft   = "craft"
	CommandBuild   = "build"
	CommandEquip   = "equip"
	CommandSelect  = "select"
	CommandClaim   = "claim"
	CommandPause   = "pause"
	CommandResume  = "resume"
	CommandRestart = "restart"
)

type CommandRequest struct {
	SessionID string
	PlayerID  string
	Type      string
	// Name is the recipe, structure, tool or quest the command targets.
	Name  string
	Index *int
	Slot  int
	X, Y  float64
}

type CommandResponse struct {
	Accepted      bool                `json:"accepted"`
	Result        string              `json:"result,omitempty"`
	Notifications []game.Notification `json:"notifications"`
	View          View                `json:"view"`
}

type CommandUseCase struct {
	Registry *Registry
	Sessions ports.GameSessionRepository
	Events   ports.EventRepository
	Now      func() time.Time
}

func (u CommandUseCase) Execute(ctx context.Context, req CommandRequest) (CommandResponse, error) {
	kind := strings.ToLower(strings.TrimSpace(req.Type))
	if kind == "" {
		return CommandResponse{}, ErrInvalidRequest
	}
	s, err := findSession(u.Registry, req.SessionID, req.PlayerID)
	if err != nil {
		return CommandResponse{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.game
	if g.Over() && kind != CommandRestart {
		return CommandResponse{}, ErrGameOver
	}

	var resp CommandResponse
	switch kind {
	case CommandCraft:
		index, err := recipeIndex(req)
		if err != nil {
			return CommandResponse{}, err
		}
		item, ok := g.Craft(index)
		resp.Accepted = ok
		if ok {
			resp.Result = item.String()
		}
	case CommandBuild:
		t, err := structureType(req.Name)
		if err != nil {
			return CommandResponse{}, err
		}
		st, ok := g.Build(t, req.X, req.Y)
		resp.Accepted = ok
		if ok {
			resp.Result = fmt.Sprintf("%s#%d", st.Type, st.ID)
		}
	case CommandEquip:
		tool, err := toolByName(req.Name)
		if err != nil {
			return CommandResponse{}, err
		}
		resp.Accepted = g.Equip(tool, req.Slot)
	case CommandSelect:
		resp.Accepted = g.SelectSlot(req.Slot)
	case CommandClaim:
		id, ok := lookup.Match(req.Name, g.Quests().IDs())
		if !ok {
			return CommandResponse{}, fmt.Errorf("%w: quest %q", ErrUnknownName, req.Name)
		}
		resp.Accepted = g.ClaimQuest(id)
		resp.Result = id
	case CommandPause:
		g.Pause()
		resp.Accepted = true
	case CommandResume:
		g.Resume()
		resp.Accepted = true
	case CommandRestart:
		if err := u.restart(ctx, s); err != nil {
			return CommandResponse{}, err
		}
		resp.Accepted = true
	default:
		return CommandResponse{}, fmt.Errorf("%w: command %q", ErrInvalidRequest, req.Type)
	}

	resp.Notifications, _, _ = s.recorder.Drain()
	if u.Events != nil && len(resp.Notifications) > 0 {
		events := notificationEvents(resp.Notifications, g, nowOrDefault(u.Now))
		if err := u.Events.Append(ctx, s.ID, events); err != nil {
			return CommandResponse{}, fmt.Errorf("append events: %w", err)
		}
	}
	resp.View = buildView(s.ID, g)
	return resp, nil
}

// restart reopens a session that ended so the stored record follows the new run.
func (u CommandUseCase) restart(ctx context.Context, s *Session) error {
	s.game.Restart()
	if !s.closed {
		return nil
	}
	if u.Sessions != nil {
		if err := u.Sessions.EnsureActive(ctx, s.ID, s.PlayerID, nowOrDefault(u.Now)); err != nil {
			return fmt.Errorf("reopen session: %w", err)
		}
	}
	s.closed = false
	return nil
}

func recipeIndex(req CommandRequest) (int, error) {
	if req.Index != nil {
		if _, ok := game.RecipeAt(*req.Index); !ok {
			return 0, fmt.Errorf("%w: recipe index %d", ErrInvalidRequest, *req.Index)
		}
		return *req.Index, nil
	}
	recipes := game.Recipes()
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	i, ok := lookup.Index(req.Name, names)
	if !ok {
		return 0, fmt.Errorf("%w: recipe %q", ErrUnknownName, req.Name)
	}
	return i, nil
}

func structureType(name string) (game.StructureType, error) {
	recipes := game.BuildingRecipes()
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Type.String())
	}
	got, ok := lookup.Match(name, names)
	if !ok {
		return 0, fmt.Errorf("%w: structure %q", ErrUnknownName, name)
	}
	t, _ := game.ParseStructureType(got)
	return t, nil
}

func toolByName(name string) (game.Tool, error) {
	var names []string
	for _, item := range game.AllItems() {
		if t, ok := game.ToolForItem(item); ok {
			names = append(names, t.String())
		}
	}
	got, ok := lookup.Match(name, names)
	if !ok {
		return game.ToolNone, fmt.Errorf("%w: tool %q", ErrUnknownName, name)
	}
	t, _ := game.ParseTool(got)
	return t, nil
}
