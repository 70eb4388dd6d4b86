// Package ui is the terminal front end: a state list with party-colored
// swatches, a half-block minimap of the projected shapes and the hover
// tooltip, driven by a bubbletea event loop.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/congressmap/internal/datasource"
	"github.com/vanderheijden86/congressmap/pkg/debug"
	"github.com/vanderheijden86/congressmap/pkg/render"
	"github.com/vanderheijden86/congressmap/pkg/watcher"
)

// Layout constants, in terminal cells.
const (
	listWidth   = 36
	minMapCols  = 20
	chromeLines = 3 // header, footer, list title gap
)

// CongressChangedMsg is sent when the congress file changes on disk.
type CongressChangedMsg struct{}

// WatchFileCmd returns a command that waits for file changes and sends
// CongressChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return CongressChangedMsg{}
	}
}

// Options configures the model.
type Options struct {
	CongressPath  string // reread on CongressChangedMsg
	ExportPath    string // defaults to congressmap.<format>
	ExportFormat  string // inferred from ExportPath when empty
	Render        render.Options
	Watcher       *watcher.Watcher
	KeepSelection bool
}

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// Model is the bubbletea model for the map.
type Model struct {
	session *Session
	opts    Options
	theme   Theme
	keys    keyMap
	list    list.Model
	help    help.Model

	hovered  string
	width    int
	height   int
	ready    bool
	showHelp bool
	helpView string

	statusMsg     string
	statusIsError bool
}

// NewModel builds the model over a session.
func NewModel(s *Session, opts Options) Model {
	if opts.ExportPath == "" {
		format := opts.ExportFormat
		if format == "" {
			format = "svg"
		}
		opts.ExportPath = "congressmap." + format
	}
	s.View().SetKeepSelection(opts.KeepSelection)

	theme := DefaultTheme(lipgloss.DefaultRenderer())
	l := list.New(stateItems(s.View(), s.Congress()), StateDelegate{Theme: theme}, listWidth, 20)
	l.Title = "States"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	m := Model{
		session: s,
		opts:    opts,
		theme:   theme,
		keys:    defaultKeyMap(),
		list:    l,
		help:    help.New(),
	}
	m.syncHover()
	return m
}

// Init starts watching the congress file, if configured.
func (m Model) Init() tea.Cmd {
	if m.opts.Watcher != nil {
		return WatchFileCmd(m.opts.Watcher)
	}
	return nil
}

// Update handles input and reloads.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.list.SetSize(min(listWidth, msg.Width), max(msg.Height-chromeLines, 1))
		m.help.Width = msg.Width
		if m.showHelp {
			m.helpView = renderHelp(msg.Width)
		}
		return m, nil

	case CongressChangedMsg:
		m.reload()
		if m.opts.Watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
		}
		cmds = append(cmds, m.refresh())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		m.statusMsg, m.statusIsError = "", false

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help), msg.String() == "esc":
				m.showHelp = false
			}
			return m, nil
		}
		if m.list.FilterState() != list.Filtering {
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Help):
				m.showHelp = true
				m.helpView = renderHelp(m.width)
				return m, nil
			case key.Matches(msg, m.keys.Select):
				m.selectHovered()
				return m, m.refresh()
			case key.Matches(msg, m.keys.Keep):
				v := m.session.View()
				v.SetKeepSelection(!v.KeepSelection())
				m.setStatus("Keep selection %s", onOff(v.KeepSelection()))
				return m, nil
			case key.Matches(msg, m.keys.Clear):
				m.session.Clear()
				m.rehover()
				m.setStatus("Selection cleared")
				return m, m.refresh()
			case key.Matches(msg, m.keys.Export):
				m.export()
				return m, nil
			case key.Matches(msg, m.keys.Copy):
				m.copyTooltip()
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	m.syncHover()
	return m, tea.Batch(cmds...)
}

// Hovered returns the state under the list cursor.
func (m Model) Hovered() string { return m.hovered }

// Status returns the status line and whether it reports an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

// Session returns the underlying session.
func (m Model) Session() *Session { return m.session }

// syncHover moves the view's hover to the list cursor.
func (m *Model) syncHover() {
	name := ""
	if it, ok := m.list.SelectedItem().(StateItem); ok {
		name = it.Name
	}
	if name == m.hovered {
		return
	}
	v := m.session.View()
	if m.hovered != "" {
		v.OnHoverExit(m.hovered)
	}
	m.hovered = name
	if name == "" {
		return
	}
	if s, ok := v.Shape(name); ok {
		x, y, _ := s.Center()
		v.OnHoverEnter(name, x, y)
	}
}

// rehover refreshes the tooltip after scores changed under the cursor.
func (m *Model) rehover() {
	name := m.hovered
	m.hovered = ""
	if name != "" {
		m.session.View().OnHoverExit(name)
	}
	m.syncHover()
}

func (m *Model) refresh() tea.Cmd {
	return m.list.SetItems(stateItems(m.session.View(), m.session.Congress()))
}

func (m *Model) selectHovered() {
	if m.hovered == "" {
		return
	}
	v := m.session.View()
	if !v.Click(m.hovered, v.KeepSelection()) {
		m.setError("No delegation for %s", m.hovered)
		return
	}
	m.rehover()
	m.setStatus("Selected %d members", len(m.session.Congress().SelectedMembers()))
}

func (m *Model) reload() {
	if m.opts.CongressPath == "" {
		return
	}
	next, _, err := datasource.LoadCongress(m.opts.CongressPath)
	if err != nil {
		debug.Log("ui: reload %s failed: %v", m.opts.CongressPath, err)
		m.setError("Reload error: %v", err)
		return
	}
	diff := m.session.Reload(next)
	m.rehover()
	m.setStatus("Reloaded: %s", diff.Summary())
}

func (m *Model) export() {
	if err := m.session.Export(m.opts.ExportPath, m.opts.ExportFormat, m.opts.Render); err != nil {
		m.setError("Export failed: %v", err)
		return
	}
	m.setStatus("Exported %s", m.opts.ExportPath)
}

func (m *Model) copyTooltip() {
	tip := m.session.View().Tooltip()
	if tip.Hidden || len(tip.Lines) == 0 {
		m.setError("Nothing to copy")
		return
	}
	if err := clipboardWrite(strings.Join(tip.Lines, "\n")); err != nil {
		m.setError("Clipboard error: %v", err)
		return
	}
	m.setStatus("Copied %d lines to clipboard", len(tip.Lines))
}

func (m *Model) setStatus(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusIsError = false
}

func (m *Model) setError(format string, args ...any) {
	m.statusMsg = fmt.Sprintf(format, args...)
	m.statusIsError = true
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// View renders the header, the list beside the minimap, and the footer.
func (m Model) View() string {
	if !m.ready {
		return "Loading map..."
	}
	if m.showHelp {
		return m.helpView
	}

	body := m.list.View()
	if cols := m.width - m.list.Width() - 3; cols >= minMapCols {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.mapPanel(cols, m.height-chromeLines))
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.header(), body, m.footer())
}

func (m Model) header() string {
	t := m.theme
	selected := len(m.session.Congress().SelectedMembers())
	info := fmt.Sprintf(" %d selected  keep:%s", selected, onOff(m.session.View().KeepSelection()))
	return t.Header.Render("Congress map") + t.MutedText.Render(info)
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.Error.Render(m.statusMsg)
		}
		return m.theme.Status.Render(m.statusMsg)
	}
	return m.help.View(m.keys)
}

// mapPanel draws the minimap sized to keep cells roughly square, with the
// tooltip underneath.
func (m Model) mapPanel(cols, height int) string {
	tip := m.tooltipView(cols)
	rows := height - lipgloss.Height(tip)

	opts := m.session.View().Options()
	if fit := int(float64(cols) * opts.Height / (2 * opts.Width)); fit < rows {
		rows = fit
	}
	if rows < 1 {
		rows = 1
	}

	minimap := RenderMinimap(m.theme.Renderer, Rasterize(m.session.View(), cols, rows))
	return m.theme.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, minimap, tip))
}

func (m Model) tooltipView(width int) string {
	tip := m.session.View().Tooltip()
	if tip.Hidden || len(tip.Lines) == 0 {
		return m.theme.MutedText.Render(truncate("hover a state to see its delegation", width))
	}
	inner := width - 4 // border and padding
	lines := make([]string, 0, len(tip.Lines)+1)
	lines = append(lines, truncate(m.hovered, inner))
	for _, l := range tip.Lines {
		lines = append(lines, truncate(l, inner))
	}
	return m.theme.Tooltip.Render(strings.Join(lines, "\n"))
}
