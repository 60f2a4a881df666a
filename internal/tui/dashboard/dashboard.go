// Package dashboard is the interactive shell: header, sidebar and the
// overview and onboarding screens.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/events"
	"github.com/theirongolddev/shule/internal/onboarding"
	"github.com/theirongolddev/shule/internal/status"
	"github.com/theirongolddev/shule/internal/tui/components"
	"github.com/theirongolddev/shule/internal/tui/header"
	"github.com/theirongolddev/shule/internal/tui/icons"
	"github.com/theirongolddev/shule/internal/tui/layout"
	"github.com/theirongolddev/shule/internal/tui/onboard"
	"github.com/theirongolddev/shule/internal/tui/styles"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

// Screen selects the main content area.
type Screen int

const (
	ScreenOverview Screen = iota
	ScreenOnboard
)

// FreshnessTick is how often the header's "Updated … ago" is re-rendered.
const FreshnessTick = 15 * time.Second

type KeyMap struct {
	Sidebar key.Binding
	Refresh key.Binding
	Onboard key.Binding
	Quit    key.Binding
	ForceQ  key.Binding
}

var dashKeys = KeyMap{
	Sidebar: key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "sidebar")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Onboard: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new school")),
	Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	ForceQ:  key.NewBinding(key.WithKeys("ctrl+c")),
}

// sidebarState is shared by every copy of a Model so the sidebar bus
// listener can flip it.
type sidebarState struct {
	visible bool
}

// Options configures New.
type Options struct {
	Session    auth.Session
	Creator    onboarding.Creator
	Buses      *events.Buses
	Dispatcher *events.Dispatcher
	Interval   time.Duration
	Currency   string
	Screen     Screen
	Logger     zerolog.Logger
	Now        func() time.Time
}

// Model is the root bubbletea model.
type Model struct {
	session    auth.Session
	creator    onboarding.Creator
	buses      *events.Buses
	dispatcher *events.Dispatcher
	currency   string
	log        zerolog.Logger

	header  header.Model
	onboard onboard.Model
	screen  Screen
	sidebar *sidebarState
	unsub   events.UnsubscribeFunc
	notice  string

	width    int
	height   int
	tier     layout.Tier
	quitting bool

	theme  theme.Theme
	styles theme.Styles
	icons  icons.IconSet
}

// New creates the shell. Call Close when the program exits.
func New(opts Options) Model {
	t := theme.Current()
	if opts.Buses == nil {
		opts.Buses = events.NewBuses()
	}
	if opts.Dispatcher == nil {
		opts.Dispatcher = events.NewDispatcher(0)
	}
	if opts.Interval <= 0 {
		opts.Interval = status.DefaultInterval
	}

	m := Model{
		session:    opts.Session,
		creator:    opts.Creator,
		buses:      opts.Buses,
		dispatcher: opts.Dispatcher,
		currency:   opts.Currency,
		log:        opts.Logger,
		screen:     opts.Screen,
		sidebar:    &sidebarState{},
		width:      80,
		height:     24,
		tier:       layout.TierForWidth(80),
		theme:      t,
		styles:     theme.NewStyles(t),
		icons:      icons.Current(),
	}
	m.header = header.New(opts.Buses, header.Options{
		Identity: opts.Session.Identity(),
		Polling:  opts.Session.Authenticated(),
		Interval: opts.Interval,
		Now:      opts.Now,
	})
	m.onboard = m.newOnboard()

	state := m.sidebar
	m.unsub = opts.Buses.Sidebar.On(func(cmd events.SidebarCommand) {
		if _, ok := cmd.(events.ToggleSidebar); ok {
			state.visible = !state.visible
		}
	})
	return m
}

func (m Model) newOnboard() onboard.Model {
	o := onboard.New(onboard.Options{
		Creator:    m.creator,
		Buses:      m.buses,
		Dispatcher: m.dispatcher,
		Currency:   m.currency,
		Logger:     m.log,
	})
	o.SetWidth(m.contentWidth())
	return o
}

// Close detaches the bus listeners.
func (m Model) Close() {
	m.header.Close()
	if m.unsub != nil {
		m.unsub()
	}
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// SidebarVisible reports whether the sidebar is showing.
func (m Model) SidebarVisible() bool {
	return m.sidebar.visible
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{header.Tick(FreshnessTick)}
	if m.screen == ScreenOnboard {
		cmds = append(cmds, m.onboard.Activate())
	}
	return tea.Batch(cmds...)
}

func (m Model) contentWidth() int {
	w := m.width
	if m.sidebar != nil && m.sidebar.visible {
		w -= layout.SidebarWidth(m.width)
	}
	if w < 20 {
		w = 20
	}
	return w
}

func (m Model) enter(screen Screen) (Model, tea.Cmd) {
	if m.screen == screen {
		return m, nil
	}
	m.screen = screen
	switch screen {
	case ScreenOnboard:
		m.notice = ""
		m.onboard = m.newOnboard()
		return m, m.onboard.Activate()
	default:
		m.buses.Title.Send(events.ClearTitle{})
		return m, nil
	}
}

func (m Model) refresh() {
	m.log.Debug().Msg("manual refresh requested")
	m.dispatcher.Raise(events.AcademicStatusUpdated, "dashboard")
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tier = layout.TierForWidth(msg.Width)
		m.header.SetWidth(msg.Width)
		m.onboard.SetWidth(m.contentWidth())
		return m, nil

	case header.TickMsg:
		return m, header.Tick(FreshnessTick)

	case header.StatusMsg:
		m.header, _, _ = m.header.Update(msg)
		return m, nil

	case header.ActionMsg:
		switch msg.Action {
		case header.ActionRefresh:
			m.refresh()
		case header.ActionOnboard:
			return m.enter(ScreenOnboard)
		case header.ActionQuit:
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case onboard.CreatedMsg:
		m.notice = fmt.Sprintf("Created %s", msg.School.Name)
		if msg.School.ShortCode != "" {
			m.notice += fmt.Sprintf(" (%s)", msg.School.ShortCode)
		}
		return m.enter(ScreenOverview)

	case onboard.CancelMsg:
		return m.enter(ScreenOverview)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.header, cmd, _ = m.header.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, dashKeys.ForceQ) {
			m.quitting = true
			return m, tea.Quit
		}
		if key.Matches(msg, dashKeys.Sidebar) {
			m.buses.Sidebar.Send(events.ToggleSidebar{})
			m.onboard.SetWidth(m.contentWidth())
			return m, nil
		}
		if m.header.MenuOpen() {
			var cmd tea.Cmd
			m.header, cmd, _ = m.header.Update(msg)
			return m, cmd
		}
		if m.screen == ScreenOnboard {
			var cmd tea.Cmd
			m.onboard, cmd = m.onboard.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, dashKeys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, dashKeys.Refresh):
			m.refresh()
			return m, nil
		case key.Matches(msg, dashKeys.Onboard):
			return m.enter(ScreenOnboard)
		}
		var cmd tea.Cmd
		m.header, cmd, _ = m.header.Update(msg)
		return m, cmd
	}

	if m.screen == ScreenOnboard {
		var cmd tea.Cmd
		m.onboard, cmd = m.onboard.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.screen {
	case ScreenOnboard:
		content = m.onboard.View()
	default:
		content = m.renderOverview()
	}

	body := content
	if m.sidebar.visible {
		if sw := layout.SidebarWidth(m.width); sw > 0 {
			side := m.styles.Sidebar.Width(sw - 1).Render(m.renderSidebar(sw - 3))
			body = lipgloss.JoinHorizontal(lipgloss.Top, side, " "+content)
		} else {
			body = m.renderSidebar(m.width) + "\n\n" + content
		}
	}

	return m.header.View() + "\n\n" + body + "\n\n" + m.renderHelpBar()
}

func (m Model) renderSidebar(width int) string {
	nav := []struct {
		screen Screen
		label  string
	}{
		{ScreenOverview, "Overview"},
		{ScreenOnboard, "Create school"},
	}

	lines := []string{m.styles.Bold.Render("Navigate")}
	for _, n := range nav {
		label := layout.Truncate(n.label, width-2)
		if n.screen == m.screen {
			lines = append(lines, m.styles.Selected.Render(m.icons.Pointer+" "+label))
		} else {
			lines = append(lines, m.styles.Normal.Render("  "+label))
		}
	}

	lines = append(lines, "", m.styles.Bold.Render("Recent events"))
	recent := m.dispatcher.History(5)
	if len(recent) == 0 {
		lines = append(lines, m.styles.Dim.Render("  none yet"))
	}
	for _, ev := range recent {
		line := fmt.Sprintf("%s %s", ev.Timestamp.Local().Format("15:04:05"), ev.Name)
		lines = append(lines, m.styles.Dim.Render("  "+layout.Truncate(line, width-2)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderOverview() string {
	width := m.contentWidth()
	var b strings.Builder

	if m.notice != "" {
		b.WriteString(m.styles.Success.Render(m.icons.Check + " " + m.notice))
		b.WriteString("\n\n")
	}

	if !m.session.Authenticated() {
		b.WriteString(components.EmptyState("Not signed in", width))
		b.WriteString("\n")
		b.WriteString(m.styles.Dim.Render("  Set SHULE_TOKEN or add a token to the config file."))
		return b.String()
	}

	snap := m.header.Snapshot()
	if !snap.Loaded() {
		b.WriteString(components.LoadingState("Loading academic status…", width))
		return b.String()
	}

	b.WriteString(components.RenderSection("Academic setup", min(width, 72)))
	b.WriteString("\n\n")
	for _, item := range snap.Checklist() {
		glyph := m.styles.Success.Render(m.icons.Check)
		if !item.Done {
			glyph = m.styles.Warning.Render(m.icons.Warning)
		}
		b.WriteString("  " + glyph + " " + m.styles.Normal.Render(item.Label))
		if item.Detail != "" {
			b.WriteString(m.styles.Dim.Render("  " + item.Detail))
		}
		b.WriteString("\n")
	}

	if warnings := snap.Warnings(); len(warnings) > 0 {
		b.WriteString("\n")
		for _, w := range warnings {
			b.WriteString("  " + m.styles.Warning.Render(m.icons.Warning+" "+layout.Truncate(w, width-6)))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderHelpBar() string {
	var hints []string
	if m.screen == ScreenOverview {
		hints = append(hints,
			styles.KeyHint("r", "refresh"),
			styles.KeyHint("n", "new school"),
			styles.KeyHint("u", "user menu"),
		)
	}
	hints = append(hints, styles.KeyHint("ctrl+b", "sidebar"))
	if m.screen == ScreenOverview {
		hints = append(hints, styles.KeyHint("q", "quit"))
	} else {
		hints = append(hints, styles.KeyHint("ctrl+c", "quit"))
	}
	return m.styles.Help.Render(strings.Join(hints, "  "))
}
