package scene

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/nudge"
	"github.com/1broseidon/winplace/internal/placement"
)

// Action is the operation replayed against the target window.
type Action string

const (
	ActionPlace     Action = "place"
	ActionFill      Action = "fill"
	ActionConstrain Action = "constrain"
	ActionNudge     Action = "nudge"
)

func ParseAction(s string) (Action, error) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case "", ActionPlace:
		return ActionPlace, nil
	case ActionFill:
		return ActionFill, nil
	case ActionConstrain:
		return ActionConstrain, nil
	case ActionNudge:
		return ActionNudge, nil
	default:
		return "", fmt.Errorf("unknown action %q (valid: place, fill, constrain, nudge)", s)
	}
}

// Outcome describes what a simulated action did to the target.
type Outcome struct {
	Action  Action
	Window  placement.WindowID
	Before  geom.Rect
	After   geom.Rect
	Edges   placement.Edge
	Mask    placement.ChangeMask
	Flags   placement.Flags
	Usable  geom.Rect
	Monitor geom.Rect
}

func (o Outcome) Moved() bool {
	return o.Before != o.After
}

// Simulate runs the target action of s on a freshly built world. The world
// is returned so callers can render the result.
func Simulate(s *Scene, logger *slog.Logger) (*World, Outcome, error) {
	action, err := ParseAction(s.Target.Action)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("target: %w", err)
	}
	world, err := s.Build()
	if err != nil {
		return nil, Outcome{}, err
	}

	opts := []placement.Option{placement.WithPointer(world.Pointer)}
	if logger != nil {
		opts = append(opts, placement.WithLogger(logger))
	}
	engine := placement.New(world.Params, world.Heads, opts...)

	w := world.Target
	out := Outcome{Action: action, Window: w.ID, Before: w.Client()}

	switch action {
	case ActionPlace:
		engine.InitPosition(w, world.Snapshot)
	case ActionFill:
		axis, err := placement.ParseFillAxis(s.Target.Axis)
		if err != nil {
			return nil, Outcome{}, fmt.Errorf("target: %w", err)
		}
		r, mask, ok := engine.FillRect(w, world.Snapshot, axis)
		if ok {
			applyMasked(w, r, mask)
			out.Mask = mask
		}
	case ActionConstrain:
		mode, err := placement.ParseConstrainMode(s.Target.Constrain)
		if err != nil {
			return nil, Outcome{}, fmt.Errorf("target: %w", err)
		}
		out.Edges = engine.Constrain(w, world.Snapshot, mode)
	case ActionNudge:
		dir, err := nudge.ParseDirection(s.Target.Direction)
		if err != nil {
			return nil, Outcome{}, fmt.Errorf("target: %w", err)
		}
		out.Edges = nudge.Apply(engine, w, world.Snapshot, dir, s.Target.Step)
	}

	out.After = w.Client()
	out.Flags = w.Flags
	cx, cy := w.Frame().Center()
	out.Monitor = world.Heads.AtPoint(cx, cy)
	out.Usable = engine.UsableArea(out.Monitor, world.Snapshot, w)
	return world, out, nil
}

func applyMasked(w *placement.Window, r geom.Rect, mask placement.ChangeMask) {
	if mask&placement.ChangeX != 0 {
		w.X = r.X
	}
	if mask&placement.ChangeY != 0 {
		w.Y = r.Y
	}
	if mask&placement.ChangeWidth != 0 {
		w.Width = r.Width
	}
	if mask&placement.ChangeHeight != 0 {
		w.Height = r.Height
	}
}
