package models

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Priority is a task's urgency. The integer value is its weight.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityMedium Priority = 2
	PriorityHigh   Priority = 3
)

// AllPriorities lists priorities in segment order (low, medium, high).
var AllPriorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityHigh
}

// Weight returns the sort weight. Higher is more urgent.
func (p Priority) Weight() int {
	return int(p)
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// ParsePriority accepts a name ("high") or a weight ("3").
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "3":
		return PriorityHigh, nil
	case "medium", "med", "2":
		return PriorityMedium, nil
	case "low", "1":
		return PriorityLow, nil
	}
	return 0, fmt.Errorf("unknown priority %q", s)
}

func (p Priority) MarshalJSON() ([]byte, error) {
	if !p.IsValid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return json.Marshal(int(p))
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode priority: %w", err)
	}
	v := Priority(n)
	if !v.IsValid() {
		return fmt.Errorf("invalid priority %d", n)
	}
	*p = v
	return nil
}

// SortByUrgency orders tasks by priority weight (high first), then by due
// date (earliest first). Ties keep their stored order.
func SortByUrgency(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		wi, wj := tasks[i].Priority.Weight(), tasks[j].Priority.Weight()
		if wi != wj {
			return wi > wj
		}
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
}
