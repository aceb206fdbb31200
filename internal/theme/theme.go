package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// Accent is the highlight color for focus and headers. Apply changes it.
var Accent lipgloss.TerminalColor = ColorBlue

// Names of the built-in themes accepted by Apply.
const (
	Default = "default"
	Mono    = "mono"
	Magenta = "magenta"
)

// Style variables. They are rebuilt by Apply.
var (
	// HeaderStyle is used for the application title bar.
	HeaderStyle lipgloss.Style

	// StatusBarStyle is used for the bottom status bar.
	StatusBarStyle lipgloss.Style

	// ErrorStatusStyle replaces StatusBarStyle while a save error is shown.
	ErrorStatusStyle lipgloss.Style

	// PanelStyle wraps overlays such as help and forms.
	PanelStyle lipgloss.Style

	ListItemStyle     lipgloss.Style
	SelectedItemStyle lipgloss.Style

	// ColumnStyle frames one section; FocusedColumnStyle the focused one.
	ColumnStyle        lipgloss.Style
	FocusedColumnStyle lipgloss.Style
	ColumnTitleStyle   lipgloss.Style

	// CardStyle is a card in a column; SelectedCardStyle the focused card.
	CardStyle         lipgloss.Style
	SelectedCardStyle lipgloss.Style

	// DraggingStyle marks the item being dragged, HoverStyle the drop target.
	DraggingStyle lipgloss.Style
	HoverStyle    lipgloss.Style

	BadgeStyle  lipgloss.Style
	DimmedStyle lipgloss.Style
	HelpStyle   lipgloss.Style
)

func init() {
	build()
}

// Apply switches to the named theme. An empty name means Default.
func Apply(name string) error {
	switch name {
	case "", Default:
		Accent = ColorBlue
	case Magenta:
		Accent = ColorMagenta
	case Mono:
		Accent = ColorWhite
	default:
		return fmt.Errorf("unknown theme %q", name)
	}
	build()
	return nil
}

func build() {
	HeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite).
		Background(Accent).
		Padding(0, 1)
	if Accent == ColorWhite {
		HeaderStyle = HeaderStyle.Foreground(lipgloss.AdaptiveColor{Dark: "#1A202C", Light: "#F8F9FA"})
	}

	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorWhite).
		Background(ColorSubtle).
		Padding(0, 1)

	ErrorStatusStyle = StatusBarStyle.
		Bold(true).
		Background(ColorRed)

	PanelStyle = lipgloss.NewStyle().
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	ListItemStyle = lipgloss.NewStyle().
		PaddingLeft(2)

	SelectedItemStyle = lipgloss.NewStyle().
		PaddingLeft(1).
		Bold(true).
		Foreground(Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Accent)

	ColumnStyle = lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	FocusedColumnStyle = ColumnStyle.
		BorderForeground(Accent)

	ColumnTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorWhite)

	CardStyle = lipgloss.NewStyle().
		PaddingLeft(1)

	SelectedCardStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(Accent)

	DraggingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorYellow)

	HoverStyle = lipgloss.NewStyle().
		Underline(true).
		Foreground(ColorYellow)

	BadgeStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Padding(0, 1)

	DimmedStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Strikethrough(true)

	HelpStyle = lipgloss.NewStyle().
		Foreground(ColorGray).
		Italic(true)
}

// ProgressStyle colors a card's done/total counter.
func ProgressStyle(done, total int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)

	switch {
	case total == 0:
		return base.Foreground(ColorGray)
	case done == total:
		return base.Foreground(ColorGreen)
	case done > 0:
		return base.Foreground(ColorYellow)
	default:
		return base.Foreground(ColorGray)
	}
}
