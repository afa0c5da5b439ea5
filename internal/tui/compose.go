package tui

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

// DueInputLayout is how the compose form reads and shows due dates, in local time.
const DueInputLayout = "2006-01-02 15:04"

const (
	fieldTitle = iota
	fieldNote
	fieldDue
	fieldPriority
	fieldCount
)

var badDueDate = tasks.Alert{
	Title:   "Oops...",
	Message: "Use a due date like " + DueInputLayout + ".",
}

// composeModel is the new/edit task screen.
type composeModel struct {
	title   textinput.Model
	note    textinput.Model
	due     textinput.Model
	segment int
	focus   int

	// editing is nil when composing a new task.
	editing *models.Task
	alert   *tasks.Alert
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = prompt
	ti.PromptStyle = InputPromptStyle
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 48
	return ti
}

func newComposeModel(form tasks.Form, editing *models.Task) composeModel {
	c := composeModel{
		title:   newInput("Title: ", "What needs doing?", tasks.MaxTitleLen),
		note:    newInput("Note:  ", "optional", 500),
		due:     newInput("Due:   ", DueInputLayout, len(DueInputLayout)),
		segment: form.Segment,
		editing: editing,
	}
	c.title.SetValue(form.Title)
	c.note.SetValue(form.Note)
	c.due.SetValue(form.DueDate.Local().Format(DueInputLayout))
	c.setFocus(fieldTitle)
	return c
}

func (c *composeModel) setFocus(field int) {
	c.focus = (field + fieldCount) % fieldCount
	for i, in := range []*textinput.Model{&c.title, &c.note, &c.due} {
		if i == c.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// form reads the inputs back into a tasks.Form. A malformed due date returns
// an alert instead.
func (c composeModel) form() (tasks.Form, *tasks.Alert) {
	due, err := time.ParseInLocation(DueInputLayout, strings.TrimSpace(c.due.Value()), time.Local)
	if err != nil {
		a := badDueDate
		return tasks.Form{}, &a
	}
	return tasks.Form{
		Title:   c.title.Value(),
		Note:    c.note.Value(),
		DueDate: due,
		Segment: c.segment,
	}, nil
}

type composeAction int

const (
	composeNone composeAction = iota
	composeCancel
	composeSubmit
)

// update handles a message while the form is open. With an alert showing,
// only enter (dismiss) is accepted.
func (c composeModel) update(msg tea.Msg, keys KeyMap) (composeModel, composeAction, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c.updateInput(msg)
	}

	if c.alert != nil {
		if key.Matches(keyMsg, keys.Submit) {
			c.alert = nil
		}
		return c, composeNone, nil
	}

	switch {
	case key.Matches(keyMsg, keys.Escape):
		return c, composeCancel, nil
	case key.Matches(keyMsg, keys.Submit):
		return c, composeSubmit, nil
	case key.Matches(keyMsg, keys.NextField):
		c.setFocus(c.focus + 1)
		return c, composeNone, nil
	case key.Matches(keyMsg, keys.PrevField):
		c.setFocus(c.focus - 1)
		return c, composeNone, nil
	}

	if c.focus == fieldPriority {
		switch {
		case key.Matches(keyMsg, keys.Left) && c.segment > tasks.SegmentLow:
			c.segment--
		case key.Matches(keyMsg, keys.Right) && c.segment < tasks.SegmentHigh:
			c.segment++
		}
		return c, composeNone, nil
	}
	return c.updateInput(msg)
}

func (c composeModel) updateInput(msg tea.Msg) (composeModel, composeAction, tea.Cmd) {
	var cmd tea.Cmd
	switch c.focus {
	case fieldTitle:
		c.title, cmd = c.title.Update(msg)
	case fieldNote:
		c.note, cmd = c.note.Update(msg)
	case fieldDue:
		c.due, cmd = c.due.Update(msg)
	}
	return c, composeNone, cmd
}

func (c composeModel) view(width, height int) string {
	heading := "New Task"
	if c.editing != nil {
		heading = "Edit Task"
	}

	segments := make([]string, len(tasks.SegmentLabels))
	for i, label := range tasks.SegmentLabels {
		if i == c.segment {
			segments[i] = SegmentActiveStyle.Render(label)
		} else {
			segments[i] = SegmentStyle.Render(label)
		}
	}
	prompt := "Priority: "
	if c.focus == fieldPriority {
		prompt = InputPromptStyle.Render(prompt)
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		FormTitleStyle.Render(heading),
		"",
		c.title.View(),
		c.note.View(),
		c.due.View(),
		"",
		prompt+lipgloss.JoinHorizontal(lipgloss.Top, segments...),
		"",
		DimStyle.Render("tab next field • ←/→ priority • enter save • esc cancel"),
	)
	box := FormStyle.Render(content)

	if c.alert != nil {
		box = AlertStyle.Render(lipgloss.JoinVertical(lipgloss.Center,
			AlertTitleStyle.Render(c.alert.Title),
			"",
			HelpDescStyle.Render(c.alert.Message),
			"",
			DimStyle.Render("Press enter to continue"),
		))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
