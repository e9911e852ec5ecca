package tui

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winplace/internal/config"
)

type savePhase int

const (
	saveHidden savePhase = iota
	savePreview
	saveResult
)

type diffKind int

const (
	diffContext diffKind = iota
	diffRemoved
	diffAdded
)

type diffLine struct {
	kind diffKind
	text string
}

// errNoChanges is shown when the editor holds exactly what was loaded.
var errNoChanges = errors.New("no changes to save")

// SaveOverlay shows the pending YAML changes and writes them on confirm.
type SaveOverlay struct {
	phase    savePhase
	lines    []diffLine
	err      error
	reloaded bool
	offset   int
}

func (s SaveOverlay) Active() bool {
	return s.phase != saveHidden
}

// Show diffs current against original and opens the preview.
func (s *SaveOverlay) Show(original, current *config.Config) {
	s.err = nil
	s.reloaded = false
	s.offset = 0

	s.lines = diffLines(original, current)
	if len(s.lines) == 0 {
		s.phase = saveResult
		s.err = errNoChanges
		return
	}
	s.phase = savePreview
}

// SaveSucceeded reports whether the last confirm wrote the file.
func (s SaveOverlay) SaveSucceeded() bool {
	return s.phase == saveResult && s.err == nil
}

// Update handles a key while the overlay is open. persist is called on
// confirm and reports whether the daemon picked up the new file.
func (s SaveOverlay) Update(msg tea.KeyMsg, persist func() (bool, error)) SaveOverlay {
	switch s.phase {
	case savePreview:
		switch msg.String() {
		case "esc", "n":
			s.phase = saveHidden
		case "enter", "y":
			s.reloaded, s.err = persist()
			s.phase = saveResult
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			s.offset++
		}
	case saveResult:
		s.phase = saveHidden
	}
	return s
}

func (s SaveOverlay) View(width, height int) string {
	switch s.phase {
	case savePreview:
		return s.viewPreview(width, height)
	case saveResult:
		return s.viewResult(width, height)
	}
	return ""
}

func overlayBox(content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Width(width).
		Render(content)
}

func (s SaveOverlay) viewPreview(areaW, areaH int) string {
	boxW := min(max(areaW-8, 30), 80)

	addStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	rmStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	ctxStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	visible := max(areaH-10, 3)
	off := min(s.offset, max(len(s.lines)-visible, 0))
	end := min(off+visible, len(s.lines))
	innerW := max(boxW-8, 10)

	var out []string
	for _, dl := range s.lines[off:end] {
		t := dl.text
		if len(t) > innerW {
			t = t[:innerW]
		}
		switch dl.kind {
		case diffAdded:
			out = append(out, addStyle.Render("+ "+t))
		case diffRemoved:
			out = append(out, rmStyle.Render("- "+t))
		default:
			out = append(out, ctxStyle.Render("  "+t))
		}
	}

	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Render("Save config: pending changes")
	footer := dimStyle.Render("enter: save  esc: cancel  j/k: scroll")
	box := overlayBox(title+"\n\n"+strings.Join(out, "\n")+"\n\n"+footer, boxW)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

func (s SaveOverlay) viewResult(areaW, areaH int) string {
	boxW := min(max(areaW-8, 30), 60)

	okStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	var msg string
	switch {
	case s.err != nil:
		msg = errStyle.Render("Error: " + s.err.Error())
	case s.reloaded:
		msg = okStyle.Render("Config saved") + "\n" + okStyle.Render("Daemon reloaded")
	default:
		msg = okStyle.Render("Config saved") + "\n" + dimStyle.Render("Daemon not reloaded; run `winplace reload` once it is up")
	}

	box := overlayBox(msg+"\n\n"+dimStyle.Render("press any key to dismiss"), boxW)
	return lipgloss.Place(areaW, areaH, lipgloss.Center, lipgloss.Center, box)
}

// diffLines returns the changed YAML lines between two configs with two
// lines of context, or nil when they marshal identically.
func diffLines(original, current *config.Config) []diffLine {
	if original == nil || current == nil {
		return nil
	}
	before, err := yaml.Marshal(original)
	if err != nil {
		return nil
	}
	after, err := yaml.Marshal(current)
	if err != nil {
		return nil
	}
	a := strings.TrimSpace(string(before))
	b := strings.TrimSpace(string(after))
	if a == b {
		return nil
	}
	return withContext(lcsDiff(strings.Split(a, "\n"), strings.Split(b, "\n")), 2)
}

// lcsDiff walks the longest common subsequence of a and b. A marshalled
// Config is a few dozen lines, so the full table is fine.
func lcsDiff(a, b []string) []diffLine {
	m, n := len(a), len(b)
	tbl := make([][]int, m+1)
	for i := range tbl {
		tbl[i] = make([]int, n+1)
	}
	for i := m - 1; i >= 0; i-- {
		for j := n - 1; j >= 0; j-- {
			switch {
			case a[i] == b[j]:
				tbl[i][j] = tbl[i+1][j+1] + 1
			case tbl[i+1][j] >= tbl[i][j+1]:
				tbl[i][j] = tbl[i+1][j]
			default:
				tbl[i][j] = tbl[i][j+1]
			}
		}
	}

	var all []diffLine
	i, j := 0, 0
	for i < m && j < n {
		switch {
		case a[i] == b[j]:
			all = append(all, diffLine{diffContext, a[i]})
			i++
			j++
		case tbl[i+1][j] >= tbl[i][j+1]:
			all = append(all, diffLine{diffRemoved, a[i]})
			i++
		default:
			all = append(all, diffLine{diffAdded, b[j]})
			j++
		}
	}
	for ; i < m; i++ {
		all = append(all, diffLine{diffRemoved, a[i]})
	}
	for ; j < n; j++ {
		all = append(all, diffLine{diffAdded, b[j]})
	}
	return all
}

// withContext keeps changed lines plus ctx lines around each, marking
// skipped runs with "...".
func withContext(lines []diffLine, ctx int) []diffLine {
	keep := make([]bool, len(lines))
	changed := false
	for i, l := range lines {
		if l.kind == diffContext {
			continue
		}
		changed = true
		for j := max(i-ctx, 0); j <= min(i+ctx, len(lines)-1); j++ {
			keep[j] = true
		}
	}
	if !changed {
		return nil
	}

	var out []diffLine
	skipped := false
	for i, l := range lines {
		if !keep[i] {
			skipped = true
			continue
		}
		if skipped && len(out) > 0 {
			out = append(out, diffLine{diffContext, "..."})
		}
		skipped = false
		out = append(out, l)
	}
	return out
}
