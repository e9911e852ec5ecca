package palette

import (
	"context"
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/1broseidon/winplace/internal/ipc"
)

// Placer is the part of the IPC client the palette drives.
type Placer interface {
	Place(ctx context.Context, window uint32) (*ipc.PlacementData, error)
	Fill(ctx context.Context, window uint32, axis string) (*ipc.PlacementData, error)
	Constrain(ctx context.Context, window uint32, mode string) (*ipc.PlacementData, error)
	Nudge(ctx context.Context, window uint32, direction string, step int) (*ipc.PlacementData, error)
}

// Items lists the placement actions, grouped under headers. Action names
// match the hotkey action names.
func Items() []Item {
	return []Item{
		{Label: "Place", IsHeader: true},
		{Label: "Place window", Action: "place", Icon: "view-restore"},
		{Label: "Fill", IsHeader: true},
		{Label: "Fill free space", Action: "fill", Icon: "view-fullscreen"},
		{Label: "Fill horizontally", Action: "fill_horizontal", Icon: "object-flip-horizontal"},
		{Label: "Fill vertically", Action: "fill_vertical", Icon: "object-flip-vertical"},
		{Label: "Constrain", IsHeader: true},
		{Label: "Keep inside monitor", Action: "constrain", Icon: "zoom-fit-best"},
		{Label: "Keep title bar reachable", Action: "constrain_minimal", Icon: "zoom-original"},
		{Label: "Nudge", IsHeader: true},
		{Label: "Nudge left", Action: "nudge_left", Icon: "go-previous"},
		{Label: "Nudge right", Action: "nudge_right", Icon: "go-next"},
		{Label: "Nudge up", Action: "nudge_up", Icon: "go-up"},
		{Label: "Nudge down", Action: "nudge_down", Icon: "go-down"},
	}
}

// Run performs action on window (0 is the active window).
func Run(ctx context.Context, p Placer, action string, window uint32) (*ipc.PlacementData, error) {
	switch action {
	case "place":
		return p.Place(ctx, window)
	case "fill":
		return p.Fill(ctx, window, "both")
	case "fill_horizontal":
		return p.Fill(ctx, window, "horizontal")
	case "fill_vertical":
		return p.Fill(ctx, window, "vertical")
	case "constrain":
		return p.Constrain(ctx, window, "full")
	case "constrain_minimal":
		return p.Constrain(ctx, window, "minimal")
	}
	if dir, ok := strings.CutPrefix(action, "nudge_"); ok {
		return p.Nudge(ctx, window, dir, 0)
	}
	return nil, fmt.Errorf("unknown palette action %q", action)
}

// Match picks the action whose label or name best fuzzy-matches query.
func Match(query string) (Item, error) {
	var actions []Item
	var keys []string
	for _, it := range Items() {
		if it.IsHeader {
			continue
		}
		actions = append(actions, it)
		keys = append(keys, it.Label+" "+it.Action)
	}
	matches := fuzzy.Find(strings.TrimSpace(query), keys)
	if len(matches) == 0 {
		return Item{}, fmt.Errorf("no palette action matches %q", query)
	}
	return actions[matches[0].Index], nil
}

// Choose shows the action list on b and runs the selection.
func Choose(ctx context.Context, b Backend, p Placer, window uint32) (*ipc.PlacementData, error) {
	item, err := b.Show("winplace", Items())
	if err != nil {
		return nil, err
	}
	return Run(ctx, p, item.Action, window)
}
