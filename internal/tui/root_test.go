package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/store"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	escKey   = tea.KeyMsg{Type: tea.KeyEsc}
	spaceKey = tea.KeyMsg{Type: tea.KeySpace}
	tabKey   = tea.KeyMsg{Type: tea.KeyTab}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
)

// createTestModel returns a model over a memory store seeded with tasks.
func createTestModel(t *testing.T, seed ...models.Task) (Model, *store.BlobStore) {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	blob := store.NewBlobStore(store.NewMemoryKV(), store.DefaultTasksKey, logger)
	if len(seed) > 0 {
		blob.SaveAll(context.Background(), seed)
	}
	svc := tasks.NewService(blob, nil, logger)

	m := NewRootModel(svc)
	m, _ = step(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = step(t, m, m.loadTasksCmd()())
	return m, blob
}

// step feeds msg to the model and returns the updated model and command.
func step(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// run feeds msg, then executes the returned command once and feeds its result.
func run(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	m, cmd := step(t, m, msg)
	if cmd == nil {
		return m
	}
	m, _ = step(t, m, cmd())
	return m
}

func TestPriorityBadge(t *testing.T) {
	tests := []struct {
		priority  models.Priority
		wantLabel string
		wantTone  Tone
	}{
		{models.PriorityHigh, "High", ToneAlert},
		{models.PriorityMedium, "Medium", ToneWarning},
		{models.PriorityLow, "Low", ToneNormal},
	}

	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			label, tone := PriorityBadge(tt.priority)
			if label != tt.wantLabel || tone != tt.wantTone {
				t.Errorf("PriorityBadge(%v) = %q/%v, want %q/%v", tt.priority, label, tone, tt.wantLabel, tt.wantTone)
			}
		})
	}
}

func TestDueTone(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	done := models.NewTask("done", "", now.Add(10*time.Minute))
	done.SetComplete(true)

	tests := []struct {
		name string
		task models.Task
		want Tone
	}{
		{"overdue", models.NewTask("a", "", now.Add(-time.Hour)), ToneAlert},
		{"within the hour", models.NewTask("a", "", now.Add(30*time.Minute)), ToneAlert},
		{"exactly one hour", models.NewTask("a", "", now.Add(time.Hour)), ToneAlert},
		{"this afternoon", models.NewTask("a", "", now.Add(3*time.Hour)), ToneWarning},
		{"tonight", models.NewTask("a", "", now.Add(8*time.Hour)), ToneNormal},
		{"complete", done, ToneMuted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueTone(tt.task, now); got != tt.want {
				t.Errorf("DueTone() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRenderCell(t *testing.T) {
	now := time.Now()
	withNote := models.NewTask("Pay rent", "transfer before noon", now.Add(time.Hour))
	noNote := models.NewTask("Stretch", "", now.Add(time.Hour))
	done := models.NewTask("Dishes", "", now)
	done.SetComplete(true)

	tests := []struct {
		name    string
		task    models.Task
		want    []string
		notWant []string
		lines   int
	}{
		{"note shown", withNote, []string{"Pay rent", "transfer before noon", "[Medium]", "○"}, nil, 2},
		{"note hidden", noNote, []string{"Stretch", "○"}, []string{"✓"}, 1},
		{"complete", done, []string{"Dishes", "✓"}, []string{"○"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderCell(tt.task, now, false)
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("cell missing %q: %q", w, got)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(got, w) {
					t.Errorf("cell should not contain %q: %q", w, got)
				}
			}
			if n := strings.Count(got, "\n") + 1; n != tt.lines {
				t.Errorf("cell has %d lines, want %d", n, tt.lines)
			}
		})
	}
}

func TestComposeNewTask(t *testing.T) {
	m, blob := createTestModel(t)

	m, _ = step(t, m, runeKey("n"))
	if m.viewMode != ViewModeCompose {
		t.Fatalf("expected compose view, got %v", m.viewMode)
	}
	if m.compose.segment != tasks.SegmentMedium {
		t.Errorf("new form should default to medium, got segment %d", m.compose.segment)
	}

	m.compose.title.SetValue("Water plants")
	m.compose.setFocus(fieldPriority)
	m, _ = step(t, m, rightKey)
	m = run(t, m, enterKey)

	if m.viewMode != ViewModeList {
		t.Fatalf("expected list view after save, got %v", m.viewMode)
	}
	// The save reloads the list; run that too.
	m, _ = step(t, m, m.loadTasksCmd()())

	stored := blob.LoadAll(context.Background())
	if len(stored) != 1 || stored[0].Title != "Water plants" || stored[0].Priority != models.PriorityHigh {
		t.Fatalf("unexpected store contents: %+v", stored)
	}
	if len(m.tasks) != 1 {
		t.Errorf("list not refreshed: %d tasks", len(m.tasks))
	}
}

func TestComposeBlankTitleShowsAlert(t *testing.T) {
	for _, title := range []string{"", "   "} {
		t.Run("title="+title, func(t *testing.T) {
			m, blob := createTestModel(t)

			m, _ = step(t, m, runeKey("n"))
			m.compose.title.SetValue(title)
			m = run(t, m, enterKey)

			if m.compose.alert == nil {
				t.Fatal("expected blocking alert")
			}
			if m.compose.alert.Title != "Oops..." || m.compose.alert.Message != "Make sure to add a title!" {
				t.Errorf("unexpected alert: %+v", m.compose.alert)
			}
			if !strings.Contains(m.View(), "Make sure to add a title!") {
				t.Error("alert not rendered")
			}
			if got := blob.LoadAll(context.Background()); len(got) != 0 {
				t.Errorf("store should be untouched, got %d tasks", len(got))
			}

			// Other keys are swallowed until the alert is dismissed.
			m, _ = step(t, m, escKey)
			if m.viewMode != ViewModeCompose || m.compose.alert == nil {
				t.Fatal("alert should block until enter")
			}
			m, _ = step(t, m, enterKey)
			if m.compose.alert != nil || m.viewMode != ViewModeCompose {
				t.Error("enter should dismiss the alert and stay on the form")
			}
		})
	}
}

func TestComposeTitleLimit(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = step(t, m, runeKey("n"))
	if m.compose.title.CharLimit != tasks.MaxTitleLen {
		t.Fatalf("title limit = %d, want %d", m.compose.title.CharLimit, tasks.MaxTitleLen)
	}
	m, _ = step(t, m, runeKey(strings.Repeat("a", tasks.MaxTitleLen+20)))
	if got := len([]rune(m.compose.title.Value())); got != tasks.MaxTitleLen {
		t.Errorf("typed title kept %d runes, want %d", got, tasks.MaxTitleLen)
	}
}

func TestComposeBadDueDate(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = step(t, m, runeKey("n"))
	m.compose.title.SetValue("Something")
	m.compose.due.SetValue("next tuesday")
	m, cmd := step(t, m, enterKey)

	if cmd != nil {
		t.Error("nothing should be saved with an unreadable due date")
	}
	if m.compose.alert == nil || !strings.Contains(m.compose.alert.Message, DueInputLayout) {
		t.Errorf("expected due date alert, got %+v", m.compose.alert)
	}
}

func TestEditPrefillsForm(t *testing.T) {
	task := models.NewTask("Call the bank", "ask about fees", time.Now().Add(2*time.Hour))
	task.Priority = models.PriorityHigh
	m, blob := createTestModel(t, task)

	m, _ = step(t, m, runeKey("e"))
	if m.viewMode != ViewModeCompose || m.compose.editing == nil {
		t.Fatal("expected edit form")
	}
	if m.compose.title.Value() != "Call the bank" || m.compose.note.Value() != "ask about fees" {
		t.Errorf("form not prefilled: %q / %q", m.compose.title.Value(), m.compose.note.Value())
	}
	if m.compose.segment != tasks.SegmentHigh {
		t.Errorf("segment = %d, want high", m.compose.segment)
	}

	m.compose.title.SetValue("Call the bank again")
	m = run(t, m, enterKey)

	stored := blob.LoadAll(context.Background())
	if len(stored) != 1 || stored[0].ID() != task.ID() || stored[0].Title != "Call the bank again" {
		t.Errorf("edit not applied in place: %+v", stored)
	}
}

func TestComposeCancel(t *testing.T) {
	m, blob := createTestModel(t)

	m, _ = step(t, m, runeKey("n"))
	m.compose.title.SetValue("Never mind")
	m, _ = step(t, m, escKey)

	if m.viewMode != ViewModeList {
		t.Errorf("esc should return to the list, got %v", m.viewMode)
	}
	if got := blob.LoadAll(context.Background()); len(got) != 0 {
		t.Errorf("cancel should not save, got %d tasks", len(got))
	}
}

func TestComposeTabCyclesFields(t *testing.T) {
	m, _ := createTestModel(t)
	m, _ = step(t, m, runeKey("n"))

	for want := 1; want <= fieldCount; want++ {
		m, _ = step(t, m, tabKey)
		if m.compose.focus != want%fieldCount {
			t.Fatalf("after %d tabs focus = %d", want, m.compose.focus)
		}
	}
}

func TestToggleFromList(t *testing.T) {
	first := models.NewTask("First", "", time.Now())
	second := models.NewTask("Second", "", time.Now())
	m, blob := createTestModel(t, first, second)

	m, _ = step(t, m, runeKey("j"))
	m = run(t, m, spaceKey)

	if !m.tasks[1].IsComplete() || m.tasks[0].IsComplete() {
		t.Fatal("expected only the second task to be complete")
	}
	stored, _ := blob.Get(context.Background(), second.ID())
	if !stored.IsComplete() {
		t.Error("toggle not persisted")
	}
}

func TestSortByUrgency(t *testing.T) {
	low := models.NewTask("low", "", time.Now())
	low.Priority = models.PriorityLow
	high := models.NewTask("high", "", time.Now().Add(time.Hour))
	high.Priority = models.PriorityHigh
	m, _ := createTestModel(t, low, high)

	m = run(t, m, runeKey("s"))
	if !m.byUrgency || m.tasks[0].Title != "high" {
		t.Errorf("expected high first, got %q", m.tasks[0].Title)
	}
}

func TestReminderBanner(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = step(t, m, ReminderMsg(reminder.Request{ID: "x", Title: "Task Reminder", Body: "Gym is due soon!"}))
	if !strings.Contains(m.View(), "Gym is due soon!") {
		t.Error("banner not shown")
	}

	m, _ = step(t, m, runeKey("j"))
	if m.banner != "" {
		t.Error("banner should clear on the next key press")
	}
}

func TestHelpAndQuit(t *testing.T) {
	m, _ := createTestModel(t)

	m, _ = step(t, m, runeKey("?"))
	if m.viewMode != ViewModeHelp {
		t.Fatalf("expected help view, got %v", m.viewMode)
	}
	m, _ = step(t, m, runeKey("x"))
	if m.viewMode != ViewModeList {
		t.Fatal("any key should close help")
	}

	_, cmd := step(t, m, runeKey("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestEmptyListHint(t *testing.T) {
	m, _ := createTestModel(t)
	if !strings.Contains(m.View(), "Press n to add a task") {
		t.Error("expected empty list hint")
	}
}
