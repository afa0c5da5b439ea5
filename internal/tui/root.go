// Package tui is the terminal front end: a task list with a compose form.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

// ViewMode represents the current view
type ViewMode int

const (
	ViewModeList    ViewMode = iota // Task list
	ViewModeCompose                 // New/edit form
	ViewModeHelp                    // Help overlay
)

// Messages
type tasksLoadedMsg struct {
	tasks []models.Task
}

type taskComposedMsg struct {
	task models.Task
	err  error
}

type taskToggledMsg struct {
	task models.Task
	err  error
}

type tickMsg time.Time

// Model is the root Bubble Tea model
type Model struct {
	width  int
	height int

	viewMode ViewMode

	svc       *tasks.Service
	tasks     []models.Task
	cursor    int
	byUrgency bool

	compose composeModel

	// Last fired reminder, shown above the list until the next key press.
	banner string
	status string

	keys KeyMap
	now  func() time.Time
}

// NewRootModel creates the list model over svc.
func NewRootModel(svc *tasks.Service) Model {
	return Model{
		viewMode: ViewModeList,
		svc:      svc,
		keys:     DefaultKeyMap(),
		now:      time.Now,
	}
}

// Init loads the task list and starts the due-time refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTasksCmd(), tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) loadTasksCmd() tea.Cmd {
	svc, byUrgency := m.svc, m.byUrgency
	return func() tea.Msg {
		return tasksLoadedMsg{tasks: svc.List(context.Background(), byUrgency)}
	}
}

func (m Model) composeCmd(form tasks.Form, editing *models.Task) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		t, err := svc.Compose(context.Background(), form, editing, nil)
		return taskComposedMsg{task: t, err: err}
	}
}

func (m Model) toggleCmd(id string) tea.Cmd {
	svc := m.svc
	return func() tea.Msg {
		t, err := svc.ToggleComplete(context.Background(), id)
		return taskToggledMsg{task: t, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tasksLoadedMsg:
		m.tasks = msg.tasks
		m.clampCursor()
		return m, nil

	case taskComposedMsg:
		var ve *tasks.ValidationError
		switch {
		case errors.As(msg.err, &ve):
			alert := ve.Alert
			m.compose.alert = &alert
			return m, nil
		case msg.err != nil:
			m.status = "Save failed: " + msg.err.Error()
			m.viewMode = ViewModeList
			return m, nil
		}
		m.viewMode = ViewModeList
		m.status = "Saved " + msg.task.Title
		return m, m.loadTasksCmd()

	case taskToggledMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
			return m, nil
		}
		for i := range m.tasks {
			if m.tasks[i].ID() == msg.task.ID() {
				m.tasks[i] = msg.task
			}
		}
		return m, nil

	case ReminderMsg:
		m.banner = fmt.Sprintf("%s · %s", msg.Title, msg.Body)
		return m, nil

	case tickMsg:
		return m, tickCmd()
	}

	switch m.viewMode {
	case ViewModeCompose:
		return m.updateCompose(msg)
	case ViewModeHelp:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if key.Matches(keyMsg, m.keys.Interrupt) {
				return m, tea.Quit
			}
			m.viewMode = ViewModeList
		}
		return m, nil
	default:
		return m.updateList(msg)
	}
}

func (m Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.banner = ""

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, m.keys.Toggle):
		if t, ok := m.selected(); ok {
			return m, m.toggleCmd(t.ID())
		}
	case key.Matches(keyMsg, m.keys.New):
		m.compose = newComposeModel(tasks.NewForm(m.now()), nil)
		m.viewMode = ViewModeCompose
		return m, textinput.Blink
	case key.Matches(keyMsg, m.keys.Edit):
		if t, ok := m.selected(); ok {
			editing := t
			m.compose = newComposeModel(tasks.FormFromTask(t), &editing)
			m.viewMode = ViewModeCompose
			return m, textinput.Blink
		}
	case key.Matches(keyMsg, m.keys.Sort):
		m.byUrgency = !m.byUrgency
		return m, m.loadTasksCmd()
	case key.Matches(keyMsg, m.keys.Help):
		m.viewMode = ViewModeHelp
	}
	return m, nil
}

func (m Model) updateCompose(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Interrupt) {
		return m, tea.Quit
	}

	c, action, cmd := m.compose.update(msg, m.keys)
	m.compose = c

	switch action {
	case composeCancel:
		m.viewMode = ViewModeList
		return m, nil
	case composeSubmit:
		form, alert := m.compose.form()
		if alert != nil {
			m.compose.alert = alert
			return m, nil
		}
		return m, m.composeCmd(form, m.compose.editing)
	}
	return m, cmd
}

func (m Model) selected() (models.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return models.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) View() string {
	switch m.viewMode {
	case ViewModeCompose:
		return m.compose.view(m.width, m.height)
	case ViewModeHelp:
		return m.helpView()
	default:
		return m.listView()
	}
}

func (m Model) listView() string {
	var b strings.Builder

	order := "added"
	if m.byUrgency {
		order = "urgency"
	}
	b.WriteString(HeaderStyle.Render("GET IT DONE") + SubtitleStyle.Render(" · Today · by "+order))
	b.WriteString("\n\n")

	if m.banner != "" {
		b.WriteString(BannerStyle.Render(m.banner))
		b.WriteString("\n\n")
	}

	if len(m.tasks) == 0 {
		b.WriteString(DimStyle.Render("  Nothing to do. Press n to add a task."))
		b.WriteString("\n")
	}
	now := m.now()
	for i, t := range m.tasks {
		b.WriteString(RenderCell(t, now, i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderStatusBar() string {
	done := 0
	for _, t := range m.tasks {
		if t.IsComplete() {
			done++
		}
	}
	counts := fmt.Sprintf("%d/%d done", done, len(m.tasks))

	hints := make([]string, 0, len(m.keys.ShortHelp()))
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		hints = append(hints, HelpKeyStyle.Render(h.Key)+" "+h.Desc)
	}

	line := counts + " │ " + strings.Join(hints, " • ")
	if m.status != "" {
		line = m.status + " │ " + line
	}
	return StatusBarStyle.Render(line)
}

func (m Model) helpView() string {
	var rows []string
	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			h := b.Help()
			rows = append(rows, HelpKeyStyle.Render(fmt.Sprintf("%-10s", h.Key))+HelpDescStyle.Render(h.Desc))
		}
		rows = append(rows, "")
	}

	content := HelpTitleStyle.Render("Keyboard Shortcuts") + "\n\n" +
		strings.Join(rows, "\n") + "\n" +
		HelpDescStyle.Render("Press any key to close")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, HelpStyle.Render(content))
}
