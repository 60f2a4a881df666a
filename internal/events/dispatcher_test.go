package events

import (
	"testing"
	"time"
)

func TestNewDispatcher_DefaultSize(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(0)
	if d.historySize != 50 {
		t.Errorf("expected default history size 50, got %d", d.historySize)
	}
}

func TestDispatcher_Subscribe(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(10)
	var got []Event

	unsub := d.Subscribe(AcademicStatusUpdated, func(e Event) { got = append(got, e) })
	if d.SubscriberCount(AcademicStatusUpdated) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", d.SubscriberCount(AcademicStatusUpdated))
	}

	d.Raise(AcademicStatusUpdated, "test")
	d.Raise(SchoolCreated, "test")

	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	if got[0].Name != AcademicStatusUpdated || got[0].Source != "test" {
		t.Errorf("unexpected event %+v", got[0])
	}
	if got[0].Timestamp.IsZero() {
		t.Error("expected timestamp to be set")
	}

	unsub()
	unsub()
	d.Raise(AcademicStatusUpdated, "test")
	if len(got) != 1 {
		t.Errorf("expected no delivery after unsubscribe, got %d events", len(got))
	}
	if d.SubscriberCount(AcademicStatusUpdated) != 0 {
		t.Errorf("expected 0 subscribers, got %d", d.SubscriberCount(AcademicStatusUpdated))
	}
}

func TestDispatcher_WildcardRunsAfterNamed(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(10)
	var order []string

	d.Subscribe(Wildcard, func(Event) { order = append(order, "wildcard") })
	d.Subscribe(SchoolCreated, func(Event) { order = append(order, "named") })

	d.Raise(SchoolCreated, "")

	if len(order) != 2 || order[0] != "named" || order[1] != "wildcard" {
		t.Errorf("order = %v, want [named wildcard]", order)
	}
}

func TestDispatcher_History(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(3)
	for _, name := range []string{"a", "b", "c", "d"} {
		d.Dispatch(Event{Name: name, Timestamp: time.Now()})
	}

	history := d.History(10)
	if len(history) != 3 {
		t.Fatalf("expected 3 events in history, got %d", len(history))
	}
	if history[0].Name != "d" || history[2].Name != "b" {
		t.Errorf("expected newest first [d c b], got %v %v %v", history[0].Name, history[1].Name, history[2].Name)
	}

	if got := d.History(1); len(got) != 1 || got[0].Name != "d" {
		t.Errorf("History(1) = %v", got)
	}
}
