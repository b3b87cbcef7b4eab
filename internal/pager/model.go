package pager

import (
	"fmt"
	"math"
	"strings"

	"nbview/internal/logger"
	"nbview/internal/notebook"
	"nbview/internal/render"
	"nbview/internal/termview"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Options configures the pager.
type Options struct {
	Title    string
	Blocks   []notebook.Block
	Renderer *termview.Renderer
	// Copy writes text to the clipboard; defaults to atotto/clipboard.
	Copy    func(string) error
	NoColor bool
}

// Model is the bubbletea model of the notebook pager.
type Model struct {
	title    string
	blocks   []notebook.Block
	renderer *termview.Renderer
	copyFn   func(string) error
	noColor  bool

	layout   termview.Layout
	viewport docViewport
	search   textinput.Model

	ready     bool
	searching bool
	current   int
	status    string
	width     int
	height    int
}

var (
	statusStyle = lipgloss.NewStyle().Reverse(true)
	log         = logger.Named("pager")
)

func New(opts Options) *Model {
	r := opts.Renderer
	if r == nil {
		r = termview.New(termview.Options{})
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search cells"
	return &Model{
		title:    opts.Title,
		blocks:   opts.Blocks,
		renderer: r,
		copyFn:   copyFn,
		noColor:  opts.NoColor,
		search:   ti,
	}
}

func (m *Model) Init() tea.Cmd { return nil }

// Current returns the index of the block at the top of the view.
func (m *Model) Current() int { return m.current }

// Status returns the transient status message.
func (m *Model) Status() string { return m.status }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tea.KeyMsg:
		if m.searching {
			return m, m.updateSearch(msg)
		}
		return m, m.handleKey(msg)
	}
	if !m.ready {
		return m, nil
	}
	return m, m.viewport.HandleUpdate(msg)
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	viewHeight := height - 1
	if viewHeight < 1 {
		viewHeight = 1
	}
	m.renderer = m.renderer.WithWidth(width)
	m.layout = m.renderer.Layout(m.blocks)
	if !m.ready {
		m.viewport = newDocViewport(width, viewHeight)
		m.ready = true
	} else {
		m.viewport.Resize(width, viewHeight)
	}
	m.viewport.SetLines(m.lines())
}

func (m *Model) lines() []string {
	if m.noColor || m.renderer.Theme().Plain {
		return render.LinesToPlainStrings(m.layout.Lines)
	}
	return render.LinesToStrings(m.layout.Lines)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "/":
		m.searching = true
		m.search.Reset()
		return m.search.Focus()
	case "n":
		m.jumpTo(m.current + 1)
		return nil
	case "p":
		m.jumpTo(m.current - 1)
		return nil
	case "g", "home":
		m.jumpTo(0)
		return nil
	case "G", "end":
		if m.ready {
			m.viewport.GotoBottom()
			m.syncCurrent()
		}
		return nil
	case "y":
		m.copyCurrent()
		return nil
	}
	if !m.ready {
		return nil
	}
	cmd := m.viewport.HandleUpdate(msg)
	m.syncCurrent()
	return cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+c":
		m.searching = false
		m.search.Blur()
		return nil
	case "enter":
		m.searching = false
		m.search.Blur()
		query := m.search.Value()
		idx, ok := findBlock(m.blocks, query)
		if !ok {
			m.status = fmt.Sprintf("no match for %q", query)
			return nil
		}
		log.WithField("query", query).WithField("cell", idx).Debug("search jump")
		m.jumpTo(idx)
		m.status = fmt.Sprintf("match in cell %d", idx+1)
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

func (m *Model) jumpTo(idx int) {
	if len(m.blocks) == 0 {
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= len(m.blocks) {
		idx = len(m.blocks) - 1
	}
	m.current = idx
	if m.ready && idx < len(m.layout.CellStarts) {
		m.viewport.SetYOffset(m.layout.CellStarts[idx])
	}
}

func (m *Model) syncCurrent() {
	if idx := m.layout.CellAt(m.viewport.YOffset); idx >= 0 {
		m.current = idx
	}
}

func (m *Model) copyCurrent() {
	if m.current < 0 || m.current >= len(m.blocks) {
		return
	}
	if err := m.copyFn(blockSource(m.blocks[m.current])); err != nil {
		log.WithError(err).Warn("copy to clipboard failed")
		m.status = "copy failed: " + err.Error()
		return
	}
	m.status = fmt.Sprintf("copied cell %d", m.current+1)
}

func (m *Model) View() string {
	if !m.ready {
		return "loading…"
	}
	return m.viewport.View() + "\n" + m.statusLine()
}

func (m *Model) statusLine() string {
	if m.searching {
		return m.search.View()
	}
	percent := int(math.Round(m.viewport.ScrollPercent() * 100))
	parts := []string{}
	if m.title != "" {
		parts = append(parts, m.title)
	}
	if n := len(m.blocks); n > 0 {
		parts = append(parts, fmt.Sprintf("cell %d/%d", m.current+1, n))
	}
	parts = append(parts, fmt.Sprintf("%d%%", percent))
	if m.status != "" {
		parts = append(parts, m.status)
	}
	line := render.Truncate(strings.Join(parts, " · "), m.width)
	if m.noColor {
		return line
	}
	return statusStyle.Render(line)
}
