package events

// TitleCommand is the vocabulary of the title bus: SetTitle or ClearTitle.
type TitleCommand interface {
	titleCommand()
}

// SetTitle replaces the header title. Subtitle is optional.
type SetTitle struct {
	Title    string
	Subtitle string
}

// ClearTitle restores the default header title.
type ClearTitle struct{}

func (SetTitle) titleCommand()   {}
func (ClearTitle) titleCommand() {}

// SidebarCommand is the vocabulary of the sidebar bus.
type SidebarCommand interface {
	sidebarCommand()
}

// ToggleSidebar flips sidebar visibility.
type ToggleSidebar struct{}

func (ToggleSidebar) sidebarCommand() {}

// Buses groups the UI command buses a program shares between its regions.
// Construct one per program with NewBuses and pass it to every component.
type Buses struct {
	Title   *Bus[TitleCommand]
	Sidebar *Bus[SidebarCommand]
}

// NewBuses creates a fresh pair of buses with disjoint listener sets.
func NewBuses() *Buses {
	return &Buses{
		Title:   NewBus[TitleCommand](),
		Sidebar: NewBus[SidebarCommand](),
	}
}
