// Package onboard is the create-school screen.
package onboard

import (
	"context"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/shule/internal/api"
	"github.com/theirongolddev/shule/internal/events"
	"github.com/theirongolddev/shule/internal/onboarding"
	"github.com/theirongolddev/shule/internal/tui/components"
	"github.com/theirongolddev/shule/internal/tui/icons"
	"github.com/theirongolddev/shule/internal/tui/styles"
	"github.com/theirongolddev/shule/internal/tui/theme"
)

const (
	Title    = "Create school"
	Subtitle = "Set up your school to get started"
)

// CreatedMsg is emitted after the school was created.
type CreatedMsg struct {
	School *api.School
}

// CancelMsg is emitted when the user leaves the screen without submitting.
type CancelMsg struct{}

type submitResultMsg struct {
	school *api.School
	err    error
}

type KeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Left    key.Binding
	Right   key.Binding
	Enter   key.Binding
	Submit  key.Binding
	Dismiss key.Binding
}

var formKeys = KeyMap{
	Next:    key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:    key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous")),
	Left:    key.NewBinding(key.WithKeys("left")),
	Right:   key.NewBinding(key.WithKeys("right")),
	Enter:   key.NewBinding(key.WithKeys("enter")),
	Submit:  key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "create")),
	Dismiss: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss / back")),
}

// Options configures New.
type Options struct {
	Creator    onboarding.Creator
	Buses      *events.Buses
	Dispatcher *events.Dispatcher
	Currency   string
	Logger     zerolog.Logger
}

// Model is the create-school screen.
type Model struct {
	form       *onboarding.Form
	creator    onboarding.Creator
	buses      *events.Buses
	dispatcher *events.Dispatcher
	log        zerolog.Logger

	inputs  map[onboarding.Field]textinput.Model
	focus   int
	spinner spinner.Model
	width   int

	theme  theme.Theme
	styles theme.Styles
	icons  icons.IconSet
}

// New builds the screen with an empty form.
func New(opts Options) Model {
	t := theme.Current()
	ic := icons.Current()
	form := onboarding.NewForm(onboarding.Defaults{Currency: opts.Currency})

	inputs := make(map[onboarding.Field]textinput.Model)
	for _, f := range onboarding.Fields {
		if f.IsEnum() {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = f.Placeholder()
		ti.CharLimit = f.MaxLen()
		ti.Width = 36
		ti.SetValue(form.Value(f))
		inputs[f] = ti
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		form:       form,
		creator:    opts.Creator,
		buses:      opts.Buses,
		dispatcher: opts.Dispatcher,
		log:        opts.Logger.With().Str("component", "onboard").Logger(),
		inputs:     inputs,
		spinner:    sp,
		width:      80,
		theme:      t,
		styles:     theme.NewStyles(t),
		icons:      ic,
	}
	m.focusCurrent()
	return m
}

// Form exposes the underlying form state.
func (m Model) Form() *onboarding.Form {
	return m.form
}

// Focused returns the focused field, or "" when the submit control has focus.
func (m Model) Focused() onboarding.Field {
	if m.focus < len(onboarding.Fields) {
		return onboarding.Fields[m.focus]
	}
	return ""
}

// SetWidth sets the render width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// Activate announces the screen title on the title bus.
func (m Model) Activate() tea.Cmd {
	if m.buses != nil {
		m.buses.Title.Send(events.SetTitle{Title: Title, Subtitle: Subtitle})
	}
	return textinput.Blink
}

func (m *Model) focusCurrent() {
	for f, ti := range m.inputs {
		if f == m.Focused() {
			ti.Focus()
		} else {
			ti.Blur()
		}
		m.inputs[f] = ti
	}
}

func (m *Model) move(delta int) {
	n := len(onboarding.Fields) + 1
	m.focus = (m.focus + delta + n) % n
	m.focusCurrent()
}

func (m *Model) cycleEnum(field onboarding.Field, delta int) {
	opts := field.Options()
	idx := slices.Index(opts, m.form.Value(field))
	switch {
	case idx < 0 && delta > 0:
		idx = 0
	case idx < 0:
		idx = len(opts) - 1
	default:
		idx = (idx + delta + len(opts)) % len(opts)
	}
	m.form.Set(field, opts[idx])
}

// syncDerived copies the derived short code into its input.
func (m *Model) syncDerived() {
	ti := m.inputs[onboarding.FieldShortCode]
	if v := m.form.Value(onboarding.FieldShortCode); ti.Value() != v {
		ti.SetValue(v)
		ti.CursorEnd()
		m.inputs[onboarding.FieldShortCode] = ti
	}
}

func (m Model) submit() (Model, tea.Cmd) {
	req, err := m.form.Begin()
	if err != nil {
		m.log.Debug().Err(err).Msg("submit blocked")
		return m, nil
	}
	m.log.Info().Str("name", req.Name).Str("short_code", req.ShortCode).Msg("creating school")

	creator := m.creator
	create := func() tea.Msg {
		school, err := creator.CreateSchool(context.Background(), req)
		return submitResultMsg{school: school, err: err}
	}
	return m, tea.Batch(create, m.spinner.Tick)
}

// Update handles input for the screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case submitResultMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("create school failed")
			m.form.Fail(msg.err)
			return m, nil
		}
		m.form.Succeed(msg.school)
		m.log.Info().Str("school_id", msg.school.ID).Msg("school created")
		if m.dispatcher != nil {
			m.dispatcher.Raise(events.SchoolCreated, "onboard")
			m.dispatcher.Raise(events.AcademicStatusUpdated, "onboard")
		}
		school := msg.school
		return m, func() tea.Msg { return CreatedMsg{School: school} }

	case spinner.TickMsg:
		if !m.form.Submitting() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		field := m.Focused()
		switch {
		case key.Matches(msg, formKeys.Dismiss):
			if m.form.Banner() != "" {
				m.form.DismissBanner()
				return m, nil
			}
			return m, func() tea.Msg { return CancelMsg{} }
		case key.Matches(msg, formKeys.Submit):
			return m.submit()
		case key.Matches(msg, formKeys.Next):
			m.move(1)
			return m, nil
		case key.Matches(msg, formKeys.Prev):
			m.move(-1)
			return m, nil
		case key.Matches(msg, formKeys.Enter):
			if field == "" {
				return m.submit()
			}
			m.move(1)
			return m, nil
		}

		if m.form.Submitting() {
			return m, nil
		}
		if field != "" && field.IsEnum() {
			switch {
			case key.Matches(msg, formKeys.Left):
				m.cycleEnum(field, -1)
			case key.Matches(msg, formKeys.Right), msg.String() == " ":
				m.cycleEnum(field, 1)
			}
			return m, nil
		}
		if field != "" {
			ti := m.inputs[field]
			before := ti.Value()
			var cmd tea.Cmd
			ti, cmd = ti.Update(msg)
			m.inputs[field] = ti
			if ti.Value() != before {
				m.form.Set(field, ti.Value())
				if field == onboarding.FieldName {
					m.syncDerived()
				}
			}
			return m, cmd
		}
		return m, nil
	}

	// cursor blink and other input messages
	if field := m.Focused(); field != "" && !field.IsEnum() {
		ti := m.inputs[field]
		var cmd tea.Cmd
		ti, cmd = ti.Update(msg)
		m.inputs[field] = ti
		return m, cmd
	}
	return m, nil
}

// View renders the form.
func (m Model) View() string {
	var b strings.Builder

	if banner := components.RenderErrorBanner(components.BannerOptions{
		Message:     m.form.Banner(),
		Width:       min(m.width, 72),
		Dismissable: true,
	}); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n\n")
	}

	b.WriteString(components.RenderSection("School details", min(m.width, 72)))
	b.WriteString("\n\n")

	for i, f := range onboarding.Fields {
		b.WriteString(m.renderField(f, i == m.focus))
		b.WriteString("\n")
		if msg := m.form.FieldError(f); msg != "" {
			b.WriteString(strings.Repeat(" ", 24))
			b.WriteString(m.styles.Error.Render(m.icons.Cross + " " + msg))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderSubmit())
	b.WriteString("\n\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderField(f onboarding.Field, focused bool) string {
	marker := "  "
	if focused {
		marker = m.styles.Title.Render(m.icons.Pointer) + " "
	}
	label := f.Label()
	if f.Required() {
		label += " *"
	}

	var value string
	if f.IsEnum() {
		value = m.renderEnum(f, focused)
	} else {
		value = m.inputs[f].View()
		if f == onboarding.FieldShortCode && !m.form.ShortCodeEdited() && m.form.Value(f) != "" {
			value += m.styles.Dim.Render("  (auto)")
		}
	}
	return marker + m.styles.Label.Render(label) + value
}

func (m Model) renderEnum(f onboarding.Field, focused bool) string {
	current := m.form.Value(f)
	if current == "" {
		current = "choose"
		if focused {
			return m.styles.Dim.Render("‹ " + current + " ›")
		}
		return m.styles.Dim.Render(current)
	}
	if focused {
		return m.styles.Bold.Render("‹ " + current + " ›")
	}
	return m.styles.Normal.Render(current)
}

func (m Model) renderSubmit() string {
	label := "Create school"
	focused := m.focus == len(onboarding.Fields)

	var button string
	switch {
	case m.form.Submitting():
		button = m.styles.Button.Render(m.spinner.View() + " Creating…")
	case !m.form.CanSubmit():
		button = m.styles.ButtonOff.Render(label)
	case focused:
		button = m.styles.ButtonOn.Render(label)
	default:
		button = m.styles.Button.Render(label)
	}

	line := "  " + button
	if missing := m.form.Missing(); len(missing) > 0 && !m.form.Submitting() {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = f.Label()
		}
		line += "  " + m.styles.Dim.Render("Required: "+strings.Join(names, ", "))
	}
	return line
}

func (m Model) renderHelp() string {
	hints := []string{
		styles.KeyHint("tab", "next"),
		styles.KeyHint("←/→", "choose"),
		styles.KeyHint("ctrl+s", "create"),
		styles.KeyHint("esc", "back"),
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(hints, "  "))
}
