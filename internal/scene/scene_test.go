package scene

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/placement"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const freeHalf = `
screen: {width: 1000, height: 1000}
params:
  mode: smart
  ratio: 0
windows:
  - {id: 1, name: editor, x: 0, y: 0, width: 500, height: 1000}
  - {id: 2, name: new, x: 0, y: 0, width: 300, height: 300}
`

func TestParseDefaultsTargetToTopmost(t *testing.T) {
	s, err := Parse([]byte(freeHalf))
	require.NoError(t, err)
	assert.Equal(t, uint32(2), s.Target.ID)

	world, err := s.Build()
	require.NoError(t, err)
	require.NotNil(t, world.Target)
	assert.Equal(t, placement.WindowID(2), world.Target.ID)
	assert.Equal(t, 1, world.Heads.Count())
	assert.Len(t, world.Snapshot.Stack, 2)
	assert.Equal(t, placement.ModeSmart, world.Params.Mode)
	assert.Equal(t, 0, world.Params.Ratio)
	assert.Equal(t, placement.MinVisible, world.Params.MinVisible)

	x, y, err := world.Pointer.Position()
	require.NoError(t, err)
	assert.Equal(t, 500, x)
	assert.Equal(t, 500, y)
}

func TestWindowDefaults(t *testing.T) {
	s, err := Parse([]byte(freeHalf))
	require.NoError(t, err)
	world, err := s.Build()
	require.NoError(t, err)

	w := world.Snapshot.Clients[0]
	assert.Equal(t, placement.LayerNormal, w.Layer)
	assert.Equal(t, placement.TypeNormal, w.Type)
	assert.True(t, w.Has(placement.FlagVisible|placement.FlagManaged|placement.FlagResizable|placement.FlagHasBorder))
	assert.False(t, w.Has(placement.FlagHasStrut))
}

func TestSimulatePlaceFindsFreeHalf(t *testing.T) {
	s, err := Parse([]byte(freeHalf))
	require.NoError(t, err)

	_, out, err := Simulate(s, nil)
	require.NoError(t, err)
	assert.Equal(t, ActionPlace, out.Action)
	assert.Equal(t, geom.Rect{X: 0, Y: 0, Width: 300, Height: 300}, out.Before)
	assert.Equal(t, geom.Rect{X: 500, Y: 0, Width: 300, Height: 300}, out.After)
	assert.True(t, out.Moved())
	assert.Equal(t, geom.Rect{Width: 1000, Height: 1000}, out.Usable)
}

func TestSimulateIsRepeatable(t *testing.T) {
	s, err := Parse([]byte(freeHalf))
	require.NoError(t, err)

	_, first, err := Simulate(s, nil)
	require.NoError(t, err)
	_, second, err := Simulate(s, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSimulateConstrainWithLegacyStrut(t *testing.T) {
	data := `
screen: {width: 1920, height: 1080}
windows:
  - id: 1
    name: panel
    width: 1920
    height: 30
    layer: dock
    type: [dock]
    flags: [visible]
    strut: {top: 30}
  - {id: 2, x: 1800, y: 0, width: 400, height: 300}
target:
  id: 2
  action: constrain
`
	s, err := Parse([]byte(data))
	require.NoError(t, err)

	world, out, err := Simulate(s, nil)
	require.NoError(t, err)

	panel := world.Snapshot.Clients[0]
	assert.True(t, panel.Has(placement.FlagHasStrut))
	assert.Equal(t, 1920, panel.Struts.TopEndX)

	assert.Equal(t, placement.EdgeRight|placement.EdgeTop, out.Edges)
	assert.Equal(t, geom.Rect{X: 1520, Y: 30, Width: 400, Height: 300}, out.After)
	assert.Equal(t, geom.Rect{X: 0, Y: 30, Width: 1920, Height: 1050}, out.Usable)
}

func TestSimulateFillBetweenNeighbours(t *testing.T) {
	data := `
screen: {width: 1000, height: 1000}
windows:
  - {id: 1, x: 0, y: 0, width: 200, height: 1000}
  - {id: 2, x: 800, y: 0, width: 200, height: 1000}
  - {id: 3, x: 300, y: 300, width: 100, height: 100}
target:
  action: fill
  axis: horizontal
`
	s, err := Parse([]byte(data))
	require.NoError(t, err)

	_, out, err := Simulate(s, nil)
	require.NoError(t, err)
	assert.Equal(t, placement.ChangeX|placement.ChangeWidth, out.Mask)
	assert.Equal(t, geom.Rect{X: 200, Y: 300, Width: 600, Height: 100}, out.After)
}

func TestSimulateFillIneligibleLeavesWindow(t *testing.T) {
	data := `
screen: {width: 1000, height: 1000}
windows:
  - {id: 1, x: 300, y: 300, width: 100, height: 100, flags: [visible, managed]}
target: {action: fill}
`
	s, err := Parse([]byte(data))
	require.NoError(t, err)

	_, out, err := Simulate(s, nil)
	require.NoError(t, err)
	assert.Zero(t, out.Mask)
	assert.False(t, out.Moved())
}

func TestMultiHeadScene(t *testing.T) {
	data := `
screen: {width: 3200, height: 1080}
monitors:
  - {name: left, x: 0, y: 0, width: 1920, height: 1080}
  - {x: 1920, y: 0, width: 1280, height: 1024}
pointer: {x: 2000, y: 100}
windows:
  - {id: 7, x: 0, y: 0, width: 400, height: 300}
`
	s, err := Parse([]byte(data))
	require.NoError(t, err)

	world, out, err := Simulate(s, nil)
	require.NoError(t, err)
	heads := world.Heads.List()
	require.Len(t, heads, 2)
	assert.Equal(t, "monitor-1", heads[1].Name)

	// Centred on the pointer monitor.
	assert.Equal(t, geom.Rect{X: 1920 + 440, Y: 362, Width: 400, Height: 300}, out.After)
	assert.Equal(t, geom.Rect{X: 1920, Y: 0, Width: 1280, Height: 1024}, out.Monitor)
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"no screen":       "windows: [{id: 1, width: 1, height: 1}]",
		"no windows":      "screen: {width: 10, height: 10}",
		"zero id":         "screen: {width: 10, height: 10}\nwindows: [{width: 1, height: 1}]",
		"duplicate id":    "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 1, height: 1}, {id: 1, width: 1, height: 1}]",
		"unknown target":  "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 1, height: 1}]\ntarget: {id: 9}",
		"unknown key":     "screen: {width: 10, height: 10}\nwindow: []",
		"both strut kind": "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 1, height: 1, strut: {top: 1}, struts: {top: 1}}]",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]string{
		"bad flag":    "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 1, height: 1, flags: [shiny]}]",
		"bad type":    "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 1, height: 1, type: [popup]}]",
		"bad layer":   "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 1, height: 1, layer: sky}]",
		"bad mode":    "screen: {width: 10, height: 10}\nparams: {mode: cascade}\nwindows: [{id: 1, width: 1, height: 1}]",
		"bad ratio":   "screen: {width: 10, height: 10}\nparams: {ratio: -1}\nwindows: [{id: 1, width: 1, height: 1}]",
		"empty size":  "screen: {width: 10, height: 10}\nwindows: [{id: 1, width: 0, height: 1}]",
		"bad monitor": "screen: {width: 10, height: 10}\nmonitors: [{width: 0, height: 5}]\nwindows: [{id: 1, width: 1, height: 1}]",
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			s, err := Parse([]byte(data))
			require.NoError(t, err)
			_, err = s.Build()
			assert.Error(t, err)
		})
	}
}

func TestSimulateRejectsUnknownAction(t *testing.T) {
	s, err := Parse([]byte(freeHalf + "target: {action: shake}\n"))
	require.NoError(t, err)
	_, _, err = Simulate(s, nil)
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte(freeHalf), 0644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, s.Windows, 2)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestSimulateNudgeKeepsSliverVisible(t *testing.T) {
	data := `
screen: {width: 1000, height: 1000}
windows:
  - {id: 1, x: 900, y: 100, width: 200, height: 100}
target:
  action: nudge
  direction: right
  step: 200
`
	s, err := Parse([]byte(data))
	require.NoError(t, err)

	_, out, err := Simulate(s, nil)
	require.NoError(t, err)
	assert.Equal(t, placement.EdgeRight, out.Edges)
	assert.Equal(t, geom.Rect{X: 985, Y: 100, Width: 200, Height: 100}, out.After)

	s.Target.Direction = "diagonal"
	_, _, err = Simulate(s, nil)
	assert.Error(t, err)
}
