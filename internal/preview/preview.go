// Package preview draws a scaled character picture of a screen: monitors,
// panel reservations, client windows and the window that was just placed.
package preview

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/winplace/internal/geom"
	"github.com/1broseidon/winplace/internal/placement"
)

const (
	DefaultWidth  = 64
	DefaultHeight = 20

	minWidth  = 8
	minHeight = 4
)

// Options controls the canvas size and colouring.
type Options struct {
	Width  int
	Height int
	Color  bool
}

// TerminalOptions sizes the canvas for f. Colour is only enabled when f is a
// terminal.
func TerminalOptions(f *os.File) Options {
	opts := Options{Width: DefaultWidth, Height: DefaultHeight}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return opts
	}
	opts.Color = true
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		opts.Width = min(max(w-2, minWidth), 120)
		opts.Height = max(opts.Width*9/32, minHeight)
	}
	return opts
}

// Picture is the input of a render.
type Picture struct {
	Screen   geom.Rect
	Monitors []geom.Rect
	Usable   geom.Rect
	Windows  []*placement.Window
	Target   *placement.Window
	// Before is the target's client rectangle prior to the action.
	Before *geom.Rect
}

type class uint8

const (
	classBlank class = iota
	classBorder
	classMonitor
	classUsable
	classStrut
	classWindow
	classGhost
	classTarget
)

var styles = map[class]lipgloss.Style{
	classBorder:  lipgloss.NewStyle().Foreground(lipgloss.Color("62")),
	classMonitor: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	classUsable:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	classStrut:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	classWindow:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
	classGhost:   lipgloss.NewStyle().Foreground(lipgloss.Color("226")),
	classTarget:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
}

type canvas struct {
	width, height int
	screen        geom.Rect
	cells         [][]rune
	classes       [][]class
}

func newCanvas(width, height int, screen geom.Rect) *canvas {
	c := &canvas{width: width, height: height, screen: screen}
	c.cells = make([][]rune, height)
	c.classes = make([][]class, height)
	for y := range c.cells {
		c.cells[y] = make([]rune, width)
		c.classes[y] = make([]class, width)
		for x := range c.cells[y] {
			c.cells[y][x] = ' '
		}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, cl class) {
	if x < 1 || y < 1 || x >= c.width-1 || y >= c.height-1 {
		return
	}
	c.cells[y][x] = r
	c.classes[y][x] = cl
}

// project maps a screen rectangle onto inclusive canvas cells inside the
// border.
func (c *canvas) project(r geom.Rect) (x1, y1, x2, y2 int) {
	innerW, innerH := c.width-2, c.height-2
	x1 = 1 + (r.X-c.screen.X)*innerW/c.screen.Width
	y1 = 1 + (r.Y-c.screen.Y)*innerH/c.screen.Height
	x2 = 1 + (r.Right()-c.screen.X)*innerW/c.screen.Width - 1
	y2 = 1 + (r.Bottom()-c.screen.Y)*innerH/c.screen.Height - 1
	x1 = min(max(x1, 1), c.width-2)
	y1 = min(max(y1, 1), c.height-2)
	x2 = min(max(x2, x1), c.width-2)
	y2 = min(max(y2, y1), c.height-2)
	return
}

func (c *canvas) fill(r geom.Rect, ch rune, cl class) {
	if r.Empty() {
		return
	}
	x1, y1, x2, y2 := c.project(r)
	for y := y1; y <= y2; y++ {
		for x := x1; x <= x2; x++ {
			c.set(x, y, ch, cl)
		}
	}
}

type boxRunes struct {
	h, v, tl, tr, bl, br rune
}

var (
	lightBox  = boxRunes{'─', '│', '┌', '┐', '└', '┘'}
	heavyBox  = boxRunes{'━', '┃', '┏', '┓', '┗', '┛'}
	dashedBox = boxRunes{'╌', '╎', '┌', '┐', '└', '┘'}
)

func (c *canvas) box(r geom.Rect, b boxRunes, cl class, label string) {
	if r.Empty() {
		return
	}
	x1, y1, x2, y2 := c.project(r)
	if x2 <= x1 || y2 <= y1 {
		c.fill(r, b.v, cl)
		return
	}
	for x := x1; x <= x2; x++ {
		c.set(x, y1, b.h, cl)
		c.set(x, y2, b.h, cl)
	}
	for y := y1; y <= y2; y++ {
		c.set(x1, y, b.v, cl)
		c.set(x2, y, b.v, cl)
	}
	c.set(x1, y1, b.tl, cl)
	c.set(x2, y1, b.tr, cl)
	c.set(x1, y2, b.bl, cl)
	c.set(x2, y2, b.br, cl)

	if label == "" {
		return
	}
	cy := (y1 + y2) / 2
	room := x2 - x1 - 1
	if cy <= y1 || cy >= y2 || room <= 0 {
		return
	}
	runes := []rune(label)
	if len(runes) > room {
		runes = runes[:room]
	}
	start := x1 + 1 + (room-len(runes))/2
	for i, r := range runes {
		c.set(start+i, cy, r, cl)
	}
}

func (c *canvas) frame() {
	for x := 0; x < c.width; x++ {
		c.cells[0][x] = '═'
		c.cells[c.height-1][x] = '═'
		c.classes[0][x] = classBorder
		c.classes[c.height-1][x] = classBorder
	}
	for y := 0; y < c.height; y++ {
		c.cells[y][0] = '║'
		c.cells[y][c.width-1] = '║'
		c.classes[y][0] = classBorder
		c.classes[y][c.width-1] = classBorder
	}
	c.cells[0][0] = '╔'
	c.cells[0][c.width-1] = '╗'
	c.cells[c.height-1][0] = '╚'
	c.cells[c.height-1][c.width-1] = '╝'
}

// Lines renders p without colour.
func Lines(p Picture, width, height int) []string {
	c := draw(p, width, height)
	out := make([]string, len(c.cells))
	for i, row := range c.cells {
		out[i] = string(row)
	}
	return out
}

// Render renders p as a single string, coloured when opts.Color is set.
func Render(p Picture, opts Options) string {
	c := draw(p, opts.Width, opts.Height)
	var b strings.Builder
	for y, row := range c.cells {
		if !opts.Color {
			b.WriteString(string(row))
		} else {
			writeColoured(&b, row, c.classes[y])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeColoured(b *strings.Builder, row []rune, classes []class) {
	start := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && classes[i] == classes[start] {
			continue
		}
		run := string(row[start:i])
		if st, ok := styles[classes[start]]; ok {
			run = st.Render(run)
		}
		b.WriteString(run)
		start = i
	}
}

func draw(p Picture, width, height int) *canvas {
	width = max(width, minWidth)
	height = max(height, minHeight)
	screen := p.Screen
	if screen.Empty() {
		screen = geom.Rect{Width: 1, Height: 1}
	}
	c := newCanvas(width, height, screen)
	c.frame()

	c.fill(p.Usable, '·', classUsable)
	if len(p.Monitors) > 1 {
		for _, m := range p.Monitors {
			c.box(m, dashedBox, classMonitor, "")
		}
	}
	for _, w := range p.Windows {
		if w == nil || !w.Has(placement.FlagVisible) || !w.Has(placement.FlagHasStrut) {
			continue
		}
		for _, band := range w.Struts.Bands(screen) {
			c.fill(band, '▒', classStrut)
		}
	}
	for _, w := range p.Windows {
		if w == nil || w == p.Target || !w.Has(placement.FlagVisible) || w.Is(placement.TypeDock|placement.TypeDesktop) {
			continue
		}
		c.box(w.Frame(), lightBox, classWindow, label(w))
	}
	if p.Target != nil {
		if p.Before != nil && *p.Before != p.Target.Client() {
			ghost := *p.Before
			ghost.X -= p.Target.Insets.Left
			ghost.Y -= p.Target.Insets.Top
			ghost.Width += p.Target.Insets.Left + p.Target.Insets.Right
			ghost.Height += p.Target.Insets.Top + p.Target.Insets.Bottom
			c.box(ghost, dashedBox, classGhost, "")
		}
		c.box(p.Target.Frame(), heavyBox, classTarget, "*"+label(p.Target))
	}
	return c
}

func label(w *placement.Window) string {
	if w.Name != "" {
		return w.Name
	}
	return fmt.Sprintf("%d", uint32(w.ID))
}

// Legend explains the glyphs used by Render.
func Legend() string {
	return "┏━┓ target   ┌─┐ window   ╌ before / monitor   ▒ strut   · usable area"
}
