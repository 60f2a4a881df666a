// Package header renders the top bar: title, school identity, status badges,
// freshness and the user menu.
package header

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/events"
	"github.com/theirongolddev/shule/internal/status"
	"github.com/theirongolddev/shule/internal/tui/components"
	"github.com/theirongolddev/shule/internal/tui/icons"
	"github.com/theirongolddev/shule/internal/tui/layout"
	"github.com/theirongolddev/shule/internal/tui/styles"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

// DefaultTitle is shown when no screen has set a title.
const DefaultTitle = "Shule"

// Action is a user menu entry.
type Action string

const (
	ActionRefresh Action = "refresh"
	ActionOnboard Action = "onboard"
	ActionQuit    Action = "quit"
)

type menuItem struct {
	action Action
	label  string
}

var menuItems = []menuItem{
	{ActionRefresh, "Refresh status"},
	{ActionOnboard, "Create school"},
	{ActionQuit, "Quit"},
}

// ActionMsg is emitted when a menu entry is chosen.
type ActionMsg struct {
	Action Action
}

// StatusMsg carries a new status snapshot to the header.
type StatusMsg struct {
	Snapshot status.Snapshot
}

// TickMsg re-renders the freshness indicator.
type TickMsg time.Time

type KeyMap struct {
	Menu   key.Binding
	Close  key.Binding
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
}

var headerKeys = KeyMap{
	Menu:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "user menu")),
	Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close menu")),
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Select: key.NewBinding(key.WithKeys("enter")),
}

// titleState is shared by every copy of a Model so the title bus listener
// can update it. Listeners run on the program's update goroutine.
type titleState struct {
	title    string
	subtitle string
}

// Model is the header bar.
type Model struct {
	identity auth.Identity
	snap     status.Snapshot
	interval time.Duration
	polling  bool
	title    *titleState
	unsub    events.UnsubscribeFunc

	menuOpen   bool
	menuCursor int
	width      int
	now        func() time.Time

	theme  theme.Theme
	styles theme.Styles
	icons  icons.IconSet
}

// Options configures New.
type Options struct {
	Identity auth.Identity
	// Polling is false when there is no token; the header then shows a
	// sign-in hint instead of status badges.
	Polling  bool
	Interval time.Duration
	Now      func() time.Time
}

// New creates a header listening on buses.Title.
func New(buses *events.Buses, opts Options) Model {
	t := theme.Current()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	m := Model{
		identity: opts.Identity,
		interval: opts.Interval,
		polling:  opts.Polling,
		title:    &titleState{title: DefaultTitle},
		width:    80,
		now:      now,
		theme:    t,
		styles:   theme.NewStyles(t),
		icons:    icons.Current(),
	}
	state := m.title
	m.unsub = buses.Title.On(func(cmd events.TitleCommand) {
		switch c := cmd.(type) {
		case events.SetTitle:
			state.title = c.Title
			state.subtitle = c.Subtitle
		case events.ClearTitle:
			state.title = DefaultTitle
			state.subtitle = ""
		}
	})
	return m
}

// Close detaches the title bus listener.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Title returns the current title and subtitle.
func (m Model) Title() (string, string) {
	return m.title.title, m.title.subtitle
}

// MenuOpen reports whether the user menu is showing.
func (m Model) MenuOpen() bool {
	return m.menuOpen
}

// Snapshot returns the snapshot the header is showing.
func (m Model) Snapshot() status.Snapshot {
	return m.snap
}

// SetWidth sets the render width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Height is the number of rows View renders with the menu closed.
func (m Model) Height() int {
	return 1
}

// Tick schedules the next freshness re-render.
func Tick(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles header messages. While the menu is open it consumes key
// and mouse input; the second return reports whether msg was handled.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case StatusMsg:
		m.snap = msg.Snapshot
		return m, nil, true

	case tea.MouseMsg:
		if !m.menuOpen {
			return m, nil, false
		}
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return m, nil, true
		}
		if !m.inMenu(msg.X, msg.Y) {
			m.menuOpen = false
			return m, nil, true
		}
		if idx := m.menuRowAt(msg.Y); idx >= 0 {
			return m.choose(idx)
		}
		return m, nil, true

	case tea.KeyMsg:
		if !m.menuOpen {
			if key.Matches(msg, headerKeys.Menu) {
				m.menuOpen = true
				m.menuCursor = 0
				return m, nil, true
			}
			return m, nil, false
		}
		switch {
		case key.Matches(msg, headerKeys.Close), key.Matches(msg, headerKeys.Menu):
			m.menuOpen = false
		case key.Matches(msg, headerKeys.Up):
			if m.menuCursor > 0 {
				m.menuCursor--
			}
		case key.Matches(msg, headerKeys.Down):
			if m.menuCursor < len(menuItems)-1 {
				m.menuCursor++
			}
		case key.Matches(msg, headerKeys.Select):
			return m.choose(m.menuCursor)
		}
		return m, nil, true
	}
	return m, nil, false
}

func (m Model) choose(idx int) (Model, tea.Cmd, bool) {
	m.menuOpen = false
	action := menuItems[idx].action
	return m, func() tea.Msg { return ActionMsg{Action: action} }, true
}

// View renders the bar, followed by the menu when it is open.
func (m Model) View() string {
	bar := m.renderBar()
	if !m.menuOpen {
		return bar
	}
	return bar + "\n" + lipgloss.PlaceHorizontal(m.width, lipgloss.Right, m.renderMenu())
}

func (m Model) renderBar() string {
	tier := layout.TierForWidth(m.width)

	title := m.icons.School + " " + m.title.title
	left := m.styles.Title.Render(title)
	if m.title.subtitle != "" && tier >= layout.TierNarrow {
		left += m.styles.Subtitle.Render("  " + m.title.subtitle)
	}

	user := m.styles.Bold.Render(m.icons.User+" "+m.identity.Initials()) + m.styles.Dim.Render(" "+m.icons.Menu)

	var middle []string
	if tier > layout.TierCompact {
		middle = append(middle, m.statusParts()...)
	}
	if tier >= layout.TierSplit {
		middle = append(middle, styles.KeyHint("ctrl+b", "sidebar"))
	}
	center := strings.Join(middle, "  ")

	gap := m.width - 2 - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(user)
	if gap < 2 && center != "" {
		center = ""
		gap = m.width - 2 - lipgloss.Width(left) - lipgloss.Width(user)
	}
	if gap < 1 {
		gap = 1
	}
	line := left + strings.Repeat(" ", gap/2) + center + strings.Repeat(" ", gap-gap/2) + user
	return m.styles.Header.Width(m.width).MaxHeight(1).Render(line)
}

func (m Model) statusParts() []string {
	if !m.polling {
		return []string{m.styles.Dim.Render("Not signed in")}
	}
	var badges []string
	for _, b := range m.snap.Badges() {
		badges = append(badges, styles.KindBadge(string(b.Kind), b.Label, styles.BadgeOptions{Style: styles.BadgeStyleCompact}))
	}
	parts := []string{styles.BadgeGroup(badges...)}
	if fresh := components.RenderFreshnessIndicator(components.FreshnessOptions{
		LastUpdate:      m.snap.UpdatedAt,
		RefreshInterval: m.interval,
		Now:             m.now(),
	}); fresh != "" {
		parts = append(parts, fresh)
	}
	return parts
}

// menuWidth is the rendered width of the menu box including its border.
func (m Model) menuWidth() int {
	return lipgloss.Width(m.renderMenu())
}

func (m Model) menuLines() []string {
	lines := []string{m.styles.Bold.Render(m.identity.Name)}
	if m.identity.Email != "" {
		lines = append(lines, m.styles.Dim.Render(m.identity.Email))
	}
	if m.identity.SchoolID != "" {
		lines = append(lines, m.styles.Dim.Render("school "+layout.Truncate(m.identity.SchoolID, 13)))
	}
	return lines
}

func (m Model) renderMenu() string {
	lines := m.menuLines()
	lines = append(lines, "")
	for i, item := range menuItems {
		label := "  " + item.label
		if i == m.menuCursor {
			label = m.styles.Selected.Render(m.icons.Pointer + " " + item.label)
		} else {
			label = m.styles.MenuItem.Render(label)
		}
		lines = append(lines, label)
	}
	return m.styles.Menu.Render(strings.Join(lines, "\n"))
}

// inMenu reports whether a click at (x, y) lands on the menu. The menu is
// drawn right-aligned on the row below the bar.
func (m Model) inMenu(x, y int) bool {
	height := lipgloss.Height(m.renderMenu())
	top := m.Height()
	left := m.width - m.menuWidth()
	return y >= top && y < top+height && x >= left && x < m.width
}

// menuRowAt maps a click row to a menu item index, or -1.
func (m Model) menuRowAt(y int) int {
	// border row, identity lines, blank line
	first := m.Height() + 1 + len(m.menuLines()) + 1
	idx := y - first
	if idx < 0 || idx >= len(menuItems) {
		return -1
	}
	return idx
}
