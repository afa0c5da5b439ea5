package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
)

// Tone is the colour tier a priority or due time resolves to.
type Tone int

const (
	ToneNormal Tone = iota
	ToneWarning
	ToneAlert
	ToneMuted
)

func (t Tone) String() string {
	switch t {
	case ToneAlert:
		return "alert"
	case ToneWarning:
		return "warning"
	case ToneMuted:
		return "muted"
	default:
		return "normal"
	}
}

// Color is the palette entry for the tone.
func (t Tone) Color() lipgloss.Color {
	switch t {
	case ToneAlert:
		return ColorRed
	case ToneWarning:
		return ColorOrange
	case ToneMuted:
		return ColorFgMuted
	default:
		return ColorGreen
	}
}

func (t Tone) Style() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.Color())
}

// PriorityBadge returns the label and tone shown for a priority.
func PriorityBadge(p models.Priority) (string, Tone) {
	switch p {
	case models.PriorityHigh:
		return "High", ToneAlert
	case models.PriorityMedium:
		return "Medium", ToneWarning
	default:
		return "Low", ToneNormal
	}
}

const (
	dueAlertWithin   = time.Hour
	dueWarningWithin = 4 * time.Hour
)

// DueTone colours a task's due time by how soon it is. Overdue counts as
// alert; completed tasks are muted.
func DueTone(t models.Task, now time.Time) Tone {
	if t.IsComplete() {
		return ToneMuted
	}
	switch remaining := t.DueDate.Sub(now); {
	case remaining <= dueAlertWithin:
		return ToneAlert
	case remaining <= dueWarningWithin:
		return ToneWarning
	default:
		return ToneNormal
	}
}

// RenderCell draws one list row: check glyph, title, priority badge and due
// time, with the note on a second line when present.
func RenderCell(t models.Task, now time.Time, selected bool) string {
	glyph := "○"
	title := t.Title
	if t.IsComplete() {
		glyph = CheckStyle.Render("✓")
		title = TitleDoneStyle.Render(title)
	}

	label, tone := PriorityBadge(t.Priority)
	if t.IsComplete() {
		tone = ToneMuted
	}
	badge := tone.Style().Render("[" + label + "]")
	due := DueTone(t, now).Style().Render(t.FormattedDueTime())

	cursor := "  "
	style := CellStyle
	if selected {
		cursor = "▸ "
		style = CellSelectedStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(cursor + glyph + " " + title + "  " + badge + "  " + due))
	if t.HasNote() {
		b.WriteString("\n")
		b.WriteString(NoteStyle.Render(t.Note))
	}
	return b.String()
}
