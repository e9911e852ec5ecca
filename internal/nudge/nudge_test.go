package nudge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/winplace/internal/heads"
	"github.com/1broseidon/winplace/internal/placement"
)

func engine() *placement.Engine {
	return placement.New(placement.DefaultParams(), heads.Single(1000, 800))
}

func window(x, y int) *placement.Window {
	return &placement.Window{
		ID: 1, X: x, Y: y, Width: 200, Height: 100,
		Flags: placement.FlagVisible | placement.FlagManaged,
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{"up": DirUp, " Down": DirDown, "LEFT": DirLeft, "east": DirRight} {
		got, err := ParseDirection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseDirection("sideways")
	assert.Error(t, err)
	assert.Equal(t, "left", DirLeft.String())
}

func TestApplyMovesByStep(t *testing.T) {
	w := window(100, 100)
	edges := Apply(engine(), w, placement.Snapshot{}, DirRight, 32)
	assert.Zero(t, edges)
	assert.Equal(t, 132, w.X)
	assert.Equal(t, 100, w.Y)

	Apply(engine(), w, placement.Snapshot{}, DirDown, 0)
	assert.Equal(t, 100+DefaultStep, w.Y)
}

func TestApplyAllowsPartlyOffscreen(t *testing.T) {
	w := window(10, 100)
	edges := Apply(engine(), w, placement.Snapshot{}, DirLeft, 32)
	assert.Zero(t, edges)
	assert.Equal(t, -22, w.X)
}

func TestApplyKeepsMinimumVisible(t *testing.T) {
	e := engine()

	w := window(-180, 100)
	assert.Equal(t, placement.EdgeLeft, Apply(e, w, placement.Snapshot{}, DirLeft, 32))
	assert.Equal(t, placement.MinVisible-200, w.X)

	w = window(970, 100)
	assert.Equal(t, placement.EdgeRight, Apply(e, w, placement.Snapshot{}, DirRight, 32))
	assert.Equal(t, 1000-placement.MinVisible, w.X)
}

func TestApplyKeepsTitleBarBelowMonitorTop(t *testing.T) {
	w := window(100, 34)
	w.Insets = placement.Insets{Top: 24}
	edges := Apply(engine(), w, placement.Snapshot{}, DirUp, 32)
	assert.Equal(t, placement.EdgeTop, edges)
	assert.Equal(t, 24, w.Y)
}

func TestApplyIgnoresFullscreen(t *testing.T) {
	w := window(0, 0)
	w.Flags |= placement.FlagFullscreen
	assert.Zero(t, Apply(engine(), w, placement.Snapshot{}, DirLeft, 32))
	assert.Equal(t, 0, w.X)
}
