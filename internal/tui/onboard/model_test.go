package onboard

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/theirongolddev/shule/internal/api"
	"github.com/theirongolddev/shule/internal/api/apitest"
	"github.com/theirongolddev/shule/internal/auth"
	"github.com/theirongolddev/shule/internal/events"
	"github.com/theirongolddev/shule/internal/onboarding"
)

var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRE.ReplaceAllString(s, "")
}

type fakeCreator struct {
	school *api.School
	err    error
	got    []api.CreateSchoolRequest
}

func (f *fakeCreator) CreateSchool(_ context.Context, req api.CreateSchoolRequest) (*api.School, error) {
	f.got = append(f.got, req)
	return f.school, f.err
}

func newModel(t *testing.T, c onboarding.Creator) (Model, *events.Buses, *events.Dispatcher) {
	t.Helper()
	t.Setenv("SHULE_ICONS", "ascii")
	t.Setenv("SHULE_NO_COLOR", "1")
	buses := events.NewBuses()
	d := events.NewDispatcher(10)
	m := New(Options{Creator: c, Buses: buses, Dispatcher: d})
	m.SetWidth(100)
	return m, buses, d
}

func typeText(m Model, s string) Model {
	for _, r := range s {
		m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	return m.Update(tea.KeyMsg{Type: k})
}

func focus(t *testing.T, m Model, field onboarding.Field) Model {
	t.Helper()
	for i := 0; i <= len(onboarding.Fields); i++ {
		if m.Focused() == field {
			return m
		}
		m, _ = press(m, tea.KeyTab)
	}
	t.Fatalf("could not focus %s", field)
	return m
}

// fill completes every required field with valid values.
func fill(t *testing.T, m Model) Model {
	t.Helper()
	m = focus(t, m, onboarding.FieldName)
	m = typeText(m, "Imara Primary School")
	m = focus(t, m, onboarding.FieldAcademicYearStart)
	m = typeText(m, "2026-01-05")
	m = focus(t, m, onboarding.FieldBoardingType)
	m, _ = press(m, tea.KeyRight)
	m = focus(t, m, onboarding.FieldGenderType)
	m, _ = press(m, tea.KeyLeft)
	return m
}

// run executes cmd and any batched commands, returning every message.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestActivateSetsTitle(t *testing.T) {
	m, buses, _ := newModel(t, &fakeCreator{})
	var got events.TitleCommand
	buses.Title.On(func(c events.TitleCommand) { got = c })

	m.Activate()
	if set, ok := got.(events.SetTitle); !ok || set.Title != Title {
		t.Errorf("title command = %#v", got)
	}
}

func TestTypingNameDerivesShortCode(t *testing.T) {
	m, _, _ := newModel(t, &fakeCreator{})
	m = typeText(m, "Imara Primary School")

	if got := m.Form().Value(onboarding.FieldShortCode); got != "IPS" {
		t.Errorf("short code = %q, want IPS", got)
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, "IPS") || !strings.Contains(view, "(auto)") {
		t.Errorf("derived short code not shown: %q", view)
	}
}

func TestEditingShortCodeStopsDerivation(t *testing.T) {
	m, _, _ := newModel(t, &fakeCreator{})
	m = typeText(m, "Imara")
	m = focus(t, m, onboarding.FieldShortCode)
	m, _ = press(m, tea.KeyBackspace)
	m = typeText(m, "MX")

	m = focus(t, m, onboarding.FieldName)
	m = typeText(m, " Academy")

	if got := m.Form().Value(onboarding.FieldShortCode); got != "MX" {
		t.Errorf("short code = %q, want MX", got)
	}
	if !m.Form().ShortCodeEdited() {
		t.Error("short code should be marked edited")
	}
}

func TestFocusingWithoutTypingKeepsDerivation(t *testing.T) {
	m, _, _ := newModel(t, &fakeCreator{})
	m = focus(t, m, onboarding.FieldShortCode)
	m = focus(t, m, onboarding.FieldName)
	m = typeText(m, "Moi Girls")
	if got := m.Form().Value(onboarding.FieldShortCode); got != "MG" {
		t.Errorf("short code = %q, want MG", got)
	}
}

func TestEnumSelectorCycles(t *testing.T) {
	m, _, _ := newModel(t, &fakeCreator{})
	m = focus(t, m, onboarding.FieldBoardingType)

	m, _ = press(m, tea.KeyRight)
	if got := m.Form().Value(onboarding.FieldBoardingType); got != api.BoardingDay {
		t.Errorf("first right = %q", got)
	}
	m, _ = press(m, tea.KeyLeft)
	if got := m.Form().Value(onboarding.FieldBoardingType); got != api.BoardingBoth {
		t.Errorf("left wraps to %q", got)
	}

	m = focus(t, m, onboarding.FieldGenderType)
	m, _ = press(m, tea.KeyLeft)
	if got := m.Form().Value(onboarding.FieldGenderType); got != api.GenderMixed {
		t.Errorf("left from empty = %q", got)
	}
}

func TestSubmitDisabledUntilRequiredFilled(t *testing.T) {
	c := &fakeCreator{}
	m, _, _ := newModel(t, c)

	view := stripANSI(m.View())
	if !strings.Contains(view, "Required: School name, Academic year start, Boarding, Gender") {
		t.Errorf("missing hint not shown: %q", view)
	}

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil || len(c.got) != 0 {
		t.Error("disabled submit must not send a request")
	}

	m = fill(t, m)
	if !m.Form().CanSubmit() {
		t.Fatalf("form should be submittable, missing %v", m.Form().Missing())
	}
	if strings.Contains(stripANSI(m.View()), "Required:") {
		t.Error("hint should disappear once the form is complete")
	}
}

func TestInvalidFieldShowsInlineError(t *testing.T) {
	m, _, _ := newModel(t, &fakeCreator{})
	m = fill(t, m)
	m = focus(t, m, onboarding.FieldEmail)
	m = typeText(m, "office")

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd != nil {
		t.Fatal("invalid form should not submit")
	}
	if !strings.Contains(stripANSI(m.View()), "Email must be a valid address") {
		t.Error("inline error not rendered")
	}

	m = typeText(m, "@imara.ac.ke")
	if m.Form().FieldError(onboarding.FieldEmail) != "" {
		t.Error("editing the field should clear its error")
	}
}

func TestSubmitSuccessRaisesEvents(t *testing.T) {
	c := &fakeCreator{school: &api.School{ID: "s-1", Name: "Imara Primary School"}}
	m, _, d := newModel(t, c)
	var raised []string
	d.Subscribe(events.Wildcard, func(e events.Event) { raised = append(raised, e.Name) })

	m = fill(t, m)
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if !m.Form().Submitting() {
		t.Fatal("form should be submitting")
	}
	if !strings.Contains(stripANSI(m.View()), "Creating") {
		t.Error("submit control should show progress")
	}

	var created tea.Cmd
	for _, msg := range run(cmd) {
		if res, ok := msg.(submitResultMsg); ok {
			m, created = m.Update(res)
		}
	}
	if created == nil {
		t.Fatal("expected CreatedMsg command")
	}
	if msg, ok := created().(CreatedMsg); !ok || msg.School.ID != "s-1" {
		t.Errorf("got %#v", created())
	}
	if len(c.got) != 1 || c.got[0].ShortCode != "IPS" || c.got[0].Currency != "KES" {
		t.Errorf("request = %+v", c.got)
	}
	if strings.Join(raised, ",") != events.SchoolCreated+","+events.AcademicStatusUpdated {
		t.Errorf("raised = %v", raised)
	}
}

func TestSubmitFailureShowsDismissableBanner(t *testing.T) {
	c := &fakeCreator{err: errors.New("connection reset")}
	m, _, _ := newModel(t, c)
	m = fill(t, m)

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range run(cmd) {
		if res, ok := msg.(submitResultMsg); ok {
			m, _ = m.Update(res)
		}
	}

	if m.Form().Submitting() {
		t.Error("failure should end the submission")
	}
	view := stripANSI(m.View())
	if !strings.Contains(view, onboarding.FallbackError) {
		t.Errorf("banner missing: %q", view)
	}
	if m.Form().Value(onboarding.FieldName) != "Imara Primary School" {
		t.Error("values should survive a failure")
	}

	m, cmd = press(m, tea.KeyEsc)
	if cmd != nil {
		t.Error("first esc should only dismiss the banner")
	}
	if m.Form().Banner() != "" {
		t.Error("banner should be dismissed")
	}

	_, cmd = press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("second esc should leave the screen")
	}
	if _, ok := cmd().(CancelMsg); !ok {
		t.Error("expected CancelMsg")
	}
}

func TestDuplicateShortCodeAgainstServer(t *testing.T) {
	srv := apitest.New(t)
	session, err := auth.NewSession("tok", "")
	if err != nil {
		t.Fatal(err)
	}
	client := api.NewClient(api.WithBaseURL(srv.URL), api.WithSession(session))

	first, _, _ := newModel(t, client)
	first = fill(t, first)
	first, cmd := first.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range run(cmd) {
		if res, ok := msg.(submitResultMsg); ok {
			first, _ = first.Update(res)
		}
	}
	if first.Form().Created() == nil {
		t.Fatalf("first create failed: %q", first.Form().Banner())
	}

	second, _, _ := newModel(t, client)
	second = fill(t, second)
	second, cmd = second.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range run(cmd) {
		if res, ok := msg.(submitResultMsg); ok {
			second, _ = second.Update(res)
		}
	}
	if got := second.Form().Banner(); got != "School with this short code already exists" {
		t.Errorf("banner = %q", got)
	}
}
