package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/winplace/internal/config"
)

const daemonTimeout = 2 * time.Second

type keyMap struct {
	Next key.Binding
	Prev key.Binding
	Edit key.Binding
	Save key.Binding
	Quit key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next section")),
		Prev: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab", "prev section")),
		Edit: key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		Save: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Edit, k.Save, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// model is the root bubbletea model of the editor.
type model struct {
	path     string
	cfg      *config.Config
	original config.Config
	daemon   Daemon

	connected bool
	section   section

	// values and form are set while a section is being edited.
	values *formValues
	form   *huh.Form

	save SaveOverlay

	status      string
	statusErr   bool
	confirmQuit bool

	keys keyMap
	help help.Model

	width  int
	height int
}

func newModel(opts Options) (model, error) {
	path := opts.ConfigPath
	if path == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			return model{}, err
		}
		path = p
	}

	res, err := config.LoadFromPath(path)
	if err != nil {
		return model{}, err
	}

	cfg := *res.Config
	m := model{
		path:     path,
		cfg:      &cfg,
		original: cfg,
		daemon:   opts.Daemon,
		keys:     defaultKeys(),
		help:     help.New(),
		width:    80,
		height:   24,
	}
	if m.daemon != nil {
		ctx, cancel := context.WithTimeout(context.Background(), daemonTimeout)
		m.connected = m.daemon.Ping(ctx) == nil
		cancel()
	}
	return m, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
		m.help.Width = ws.Width
		if m.form != nil {
			m.form = m.form.WithWidth(max(ws.Width-4, 40))
		}
		return m, nil
	}

	if m.save.Active() {
		km, ok := msg.(tea.KeyMsg)
		if !ok {
			return m, nil
		}
		if km.String() == "ctrl+c" {
			return m, tea.Quit
		}
		m.save = m.save.Update(km, m.persist)
		if m.save.SaveSucceeded() {
			m.original = *m.cfg
			m.connected = m.save.reloaded
			m.setStatus("saved "+m.path, false)
		}
		return m, nil
	}

	if m.form != nil {
		return m.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if !key.Matches(km, m.keys.Quit) {
		m.confirmQuit = false
	}

	switch {
	case key.Matches(km, m.keys.Quit):
		if km.String() == "q" && m.dirty() && !m.confirmQuit {
			m.confirmQuit = true
			m.setStatus("unsaved changes; press q again to discard them", true)
			return m, nil
		}
		return m, tea.Quit
	case key.Matches(km, m.keys.Next):
		m.section = (m.section + 1) % sectionCount
	case key.Matches(km, m.keys.Prev):
		m.section = (m.section + sectionCount - 1) % sectionCount
	case key.Matches(km, m.keys.Edit):
		m.values = valuesFrom(m.cfg)
		m.form = m.values.form(m.section, m.width-4)
		m.setStatus("", false)
		return m, m.form.Init()
	case key.Matches(km, m.keys.Save):
		m.save.Show(&m.original, m.cfg)
	default:
		if s := km.String(); len(s) == 1 && s[0] >= '1' && s[0] < '1'+byte(sectionCount) {
			m.section = section(s[0] - '1')
		}
	}
	return m, nil
}

func (m model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "esc":
			m.closeForm()
			m.setStatus("edit cancelled", false)
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
	}

	next, cmd := m.form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.values.apply(m.cfg); err != nil {
			m.setStatus(err.Error(), true)
		} else {
			m.setStatus(m.section.String()+" updated; ctrl+s to save", false)
		}
		m.closeForm()
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m *model) closeForm() {
	m.form = nil
	m.values = nil
}

func (m *model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

func (m model) dirty() bool {
	return *m.cfg != m.original
}

// persist writes the edited config and asks the daemon to reload it. A
// daemon that does not answer leaves the file written and reloaded false.
func (m model) persist() (bool, error) {
	if err := m.cfg.SaveTo(m.path); err != nil {
		return false, err
	}
	if m.daemon == nil {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), daemonTimeout)
	defer cancel()
	return m.daemon.Reload(ctx) == nil, nil
}

func (m model) View() string {
	header := renderTabBar(m.section, m.width)

	var footer []string
	if m.status != "" {
		style := dimStyle
		if m.statusErr {
			style = errStyle
		}
		footer = append(footer, style.Render("  "+m.status))
	}
	if m.form == nil && !m.save.Active() {
		footer = append(footer, " "+m.help.View(m.keys))
	}
	footer = append(footer, renderStatusBar(m.path, m.connected, m.width))
	bottom := strings.Join(footer, "\n")

	bodyH := max(m.height-lipgloss.Height(header)-lipgloss.Height(bottom), 3)

	var body string
	switch {
	case m.save.Active():
		body = m.save.View(m.width, bodyH)
	case m.form != nil:
		body = lipgloss.NewStyle().Width(m.width).Height(bodyH).Padding(0, 2).Render(m.form.View())
	default:
		body = renderSection(m.cfg, &m.original, m.section, m.width, bodyH)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, bottom)
}
