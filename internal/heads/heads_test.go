package heads

import (
	"testing"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dual(t *testing.T) *Heads {
	t.Helper()
	h, err := New(3200, 1200, []Head{
		{ID: 0, Name: "DP-1", Bounds: geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}},
		{ID: 1, Name: "HDMI-1", Bounds: geom.Rect{X: 1920, Y: 0, Width: 1280, Height: 1200}},
	})
	require.NoError(t, err)
	return h
}

func TestAtPoint(t *testing.T) {
	h := dual(t)
	assert.Equal(t, 2, h.Count())
	assert.Equal(t, h.Geometry(0), h.AtPoint(100, 100))
	assert.Equal(t, h.Geometry(1), h.AtPoint(1920, 0))
	assert.Equal(t, h.Geometry(1), h.AtPoint(3199, 1199))
}

func TestAtPointDeadSpace(t *testing.T) {
	h := dual(t)
	// Below the first monitor, the second one is further away.
	assert.Equal(t, 0, h.IndexAt(100, 1150))
	assert.Equal(t, 1, h.IndexAt(1915, 1150))
	assert.Equal(t, 1, h.IndexAt(5000, 10))
}

func TestGeometryOutOfRange(t *testing.T) {
	h := dual(t)
	assert.Equal(t, h.Geometry(0), h.Geometry(7))
	assert.Equal(t, h.Geometry(0), h.Geometry(-1))
}

func TestNewDefaultsToScreen(t *testing.T) {
	h, err := New(1024, 768, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Count())
	assert.Equal(t, geom.Rect{Width: 1024, Height: 768}, h.Geometry(0))
	assert.Equal(t, h.Screen(), h.Geometry(0))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New(0, 768, nil)
	assert.Error(t, err)

	_, err = New(1024, 768, []Head{{Name: "broken"}})
	assert.Error(t, err)
}
