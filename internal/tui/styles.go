package tui

import "github.com/charmbracelet/lipgloss"

// One Dark Pro color palette
var (
	ColorBgHighlight = lipgloss.Color("#2C313C")

	ColorFgPrimary = lipgloss.Color("#ABB2BF")
	ColorFgMuted   = lipgloss.Color("#636B78")
	ColorFgComment = lipgloss.Color("#5C6370")

	ColorRed     = lipgloss.Color("#E06C75")
	ColorGreen   = lipgloss.Color("#98C379")
	ColorYellow  = lipgloss.Color("#E5C07B")
	ColorBlue    = lipgloss.Color("#61AFEF")
	ColorMagenta = lipgloss.Color("#C678DD")
	ColorOrange  = lipgloss.Color("#D19A66")

	ColorBorder = lipgloss.Color("#3F4451")
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true).
			PaddingLeft(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted)

	// Task cell styles
	CellStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary).
			Padding(0, 1)

	CellSelectedStyle = lipgloss.NewStyle().
				Background(ColorBgHighlight).
				Foreground(ColorFgPrimary).
				Bold(true).
				Padding(0, 1)

	TitleDoneStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Strikethrough(true)

	NoteStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment).
			PaddingLeft(4)

	CheckStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	// Compose form styles
	FormStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	FormTitleStyle = lipgloss.NewStyle().
			Foreground(ColorMagenta).
			Bold(true)

	InputPromptStyle = lipgloss.NewStyle().
				Foreground(ColorGreen)

	SegmentStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			Padding(0, 1)

	SegmentActiveStyle = lipgloss.NewStyle().
				Foreground(ColorBgHighlight).
				Background(ColorBlue).
				Bold(true).
				Padding(0, 1)

	// Alert dialog
	AlertStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorRed).
			Padding(1, 3)

	AlertTitleStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	// Reminder banner
	BannerStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorYellow).
			Foreground(ColorYellow).
			PaddingLeft(1)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(ColorFgMuted).
			PaddingLeft(1).
			PaddingRight(1)

	// Help overlay styles
	HelpStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HelpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorBlue).
			Bold(true)

	HelpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow)

	HelpDescStyle = lipgloss.NewStyle().
			Foreground(ColorFgPrimary)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorFgComment)
)
