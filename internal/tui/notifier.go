package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
)

// ReminderMsg is delivered to the model when a reminder fires.
type ReminderMsg reminder.Request

// Notifier forwards fired reminders into a running program. Reminders that
// fire before Attach are dropped.
type Notifier struct {
	mu sync.Mutex
	p  *tea.Program
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

func (n *Notifier) Notify(req reminder.Request) {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		p.Send(ReminderMsg(req))
	}
}
