package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/randr"
	xgbxinerama "github.com/BurntSushi/xgb/xinerama"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/xinerama"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/heads"
)

// ScreenSize returns the size of the root window.
func (c *Connection) ScreenSize() (int, int, error) {
	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get root geometry: %w", err)
	}
	return int(g.Width), int(g.Height), nil
}

// Heads returns the monitor layout of the screen. RandR is preferred; when
// it reports nothing Xinerama is asked, and failing that the root window is
// treated as a single monitor.
func (c *Connection) Heads() (*heads.Heads, error) {
	w, h, err := c.ScreenSize()
	if err != nil {
		return nil, err
	}
	monitors, err := c.GetMonitors()
	if err != nil || len(monitors) == 0 {
		monitors, err = c.xineramaMonitors()
		if err != nil {
			monitors = nil
		}
	}
	return heads.New(w, h, monitors)
}

// GetMonitors retrieves all active monitors using XRandR. The primary output
// is moved to the front.
func (c *Connection) GetMonitors() ([]heads.Head, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var primary randr.Output
	if p, err := randr.GetOutputPrimary(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		primary = p.Output
	}

	var monitors []heads.Head
	primaryIndex := -1
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}
		for _, out := range crtcInfo.Outputs {
			if primary != 0 && out == primary {
				primaryIndex = len(monitors)
			}
		}

		monitors = append(monitors, heads.Head{
			ID:   i,
			Name: outputName,
			Bounds: geom.Rect{
				X:      int(crtcInfo.X),
				Y:      int(crtcInfo.Y),
				Width:  int(crtcInfo.Width),
				Height: int(crtcInfo.Height),
			},
		})
	}

	return primaryFirst(monitors, primaryIndex), nil
}

func (c *Connection) xineramaMonitors() ([]heads.Head, error) {
	if err := xgbxinerama.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("xinerama init failed: %w", err)
	}
	hds, err := xinerama.PhysicalHeads(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to query xinerama heads: %w", err)
	}
	out := make([]heads.Head, 0, len(hds))
	for i, h := range hds {
		out = append(out, heads.Head{
			ID:     i,
			Name:   fmt.Sprintf("Xinerama%d", i),
			Bounds: geom.Rect{X: h.X(), Y: h.Y(), Width: h.Width(), Height: h.Height()},
		})
	}
	return out, nil
}

func primaryFirst(monitors []heads.Head, primary int) []heads.Head {
	if primary <= 0 || primary >= len(monitors) {
		return monitors
	}
	out := make([]heads.Head, 0, len(monitors))
	out = append(out, monitors[primary])
	out = append(out, monitors[:primary]...)
	out = append(out, monitors[primary+1:]...)
	return out
}

// PointerPosition returns the pointer position in root coordinates.
func (c *Connection) PointerPosition() (int, int, error) {
	pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return int(pointer.RootX), int(pointer.RootY), nil
}

// Position implements placement.Pointer.
func (c *Connection) Position() (int, int, error) {
	return c.PointerPosition()
}
