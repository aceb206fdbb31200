package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down  key.Binding
	Up    key.Binding
	Left  key.Binding
	Right key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Editing
	New        key.Binding
	NewSection key.Binding
	NewSubtask key.Binding
	Rename     key.Binding
	Delete     key.Binding

	// Subtasks
	Toggle      key.Binding
	NextSubtask key.Binding

	// Reordering
	PickCard    key.Binding
	PickSection key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "previous section"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "next section"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open / drop"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back / cancel drag"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new workspace / card"),
		),
		NewSection: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "new section"),
		),
		NewSubtask: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "new subtask"),
		),
		Rename: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle subtask"),
		),
		NextSubtask: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next subtask"),
		),
		PickCard: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "pick up card"),
		),
		PickSection: key.NewBinding(
			key.WithKeys("M"),
			key.WithHelp("M", "pick up section"),
		),
		MoveUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move workspace up"),
		),
		MoveDown: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move workspace down"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.New, k.Quit, k.Help,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Select, k.Back, k.Quit},
		{k.New, k.NewSection, k.NewSubtask, k.Rename, k.Delete},
		{k.Toggle, k.NextSubtask, k.Help},
		{k.PickCard, k.PickSection, k.MoveUp, k.MoveDown},
	}
}
