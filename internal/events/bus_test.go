package events

import (
	"reflect"
	"testing"
)

func TestBus_SendWithoutListeners(t *testing.T) {
	t.Parallel()

	bus := NewBus[TitleCommand]()
	bus.Send(ClearTitle{}) // must not panic

	if bus.Len() != 0 {
		t.Errorf("expected 0 listeners, got %d", bus.Len())
	}
}

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus[TitleCommand]()
	var order []string

	bus.On(func(TitleCommand) { order = append(order, "first") })
	bus.On(func(TitleCommand) { order = append(order, "second") })
	bus.On(func(TitleCommand) { order = append(order, "third") })

	bus.Send(SetTitle{Title: "Students"})

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestBus_EveryCommandExactlyOnceInOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus[TitleCommand]()
	var early, late []TitleCommand

	bus.On(func(c TitleCommand) { early = append(early, c) })

	bus.Send(SetTitle{Title: "A"})
	unsubLate := bus.On(func(c TitleCommand) { late = append(late, c) })
	bus.Send(SetTitle{Title: "B", Subtitle: "sub"})
	bus.Send(ClearTitle{})

	wantEarly := []TitleCommand{SetTitle{Title: "A"}, SetTitle{Title: "B", Subtitle: "sub"}, ClearTitle{}}
	if !reflect.DeepEqual(early, wantEarly) {
		t.Errorf("early listener got %v, want %v", early, wantEarly)
	}

	// Late listener never sees commands sent before it registered
	wantLate := []TitleCommand{SetTitle{Title: "B", Subtitle: "sub"}, ClearTitle{}}
	if !reflect.DeepEqual(late, wantLate) {
		t.Errorf("late listener got %v, want %v", late, wantLate)
	}

	unsubLate()
	bus.Send(SetTitle{Title: "C"})
	if len(late) != 2 {
		t.Errorf("unsubscribed listener received %d commands, want 2", len(late))
	}
}

func TestBus_UnsubscribeIsIdempotent(t *testing.T) {
	t.Parallel()

	bus := NewBus[SidebarCommand]()
	var a, b int

	unsubA := bus.On(func(SidebarCommand) { a++ })
	bus.On(func(SidebarCommand) { b++ })

	unsubA()
	unsubA()

	if bus.Len() != 1 {
		t.Fatalf("expected 1 listener after double unsubscribe, got %d", bus.Len())
	}

	bus.Send(ToggleSidebar{})
	if a != 0 || b != 1 {
		t.Errorf("got a=%d b=%d, want a=0 b=1", a, b)
	}
}

func TestBus_ListenerAddedDuringSendMissesCurrentCommand(t *testing.T) {
	t.Parallel()

	bus := NewBus[SidebarCommand]()
	var added int

	bus.On(func(SidebarCommand) {
		bus.On(func(SidebarCommand) { added++ })
	})

	bus.Send(ToggleSidebar{})
	if added != 0 {
		t.Errorf("listener registered mid-send received %d commands, want 0", added)
	}

	bus.Send(ToggleSidebar{})
	if added != 1 {
		t.Errorf("listener registered mid-send received %d commands after next send, want 1", added)
	}
}

func TestBus_ListenerRemovedDuringSendIsSkipped(t *testing.T) {
	t.Parallel()

	bus := NewBus[TitleCommand]()
	var second int
	var unsubSecond UnsubscribeFunc

	bus.On(func(TitleCommand) { unsubSecond() })
	unsubSecond = bus.On(func(TitleCommand) { second++ })

	bus.Send(ClearTitle{})
	if second != 0 {
		t.Errorf("listener removed mid-send was invoked %d times", second)
	}
}

func TestBuses_AreIndependent(t *testing.T) {
	t.Parallel()

	a := NewBuses()
	b := NewBuses()
	var titles, toggles int

	a.Title.On(func(TitleCommand) { titles++ })
	a.Sidebar.On(func(SidebarCommand) { toggles++ })

	a.Title.Send(SetTitle{Title: "x"})
	if toggles != 0 {
		t.Errorf("title command reached sidebar listener")
	}

	a.Sidebar.Send(ToggleSidebar{})
	if titles != 1 {
		t.Errorf("sidebar command reached title listener: titles=%d", titles)
	}

	b.Title.Send(ClearTitle{})
	if titles != 1 {
		t.Errorf("second program's bus delivered to first program's listener")
	}
}
