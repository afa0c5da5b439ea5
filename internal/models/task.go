package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DueTimeLayout is the short time-of-day format used for due times.
const DueTimeLayout = "3:04 PM"

// Task is a single to-do item.
//
// Identity, creation time and completion state are read through accessors.
// Completion changes only through SetComplete, which keeps completedDate
// present exactly when the task is complete.
type Task struct {
	Title    string
	Note     string
	DueDate  time.Time
	Priority Priority

	id            string
	isComplete    bool
	completedDate *time.Time
	createdDate   time.Time
}

// Times are held in UTC so a decoded task compares equal to the one encoded.
func now() time.Time {
	return time.Now().UTC()
}

// NewTask creates an incomplete, medium priority task. A zero dueDate means now.
// The title is not validated here; the compose form does that.
func NewTask(title, note string, dueDate time.Time) Task {
	created := now()
	if dueDate.IsZero() {
		dueDate = created
	}
	return Task{
		Title:       title,
		Note:        note,
		DueDate:     dueDate.UTC(),
		Priority:    PriorityMedium,
		id:          uuid.NewString(),
		createdDate: created,
	}
}

func (t Task) ID() string             { return t.id }
func (t Task) IsComplete() bool       { return t.isComplete }
func (t Task) CreatedDate() time.Time { return t.createdDate }

// CompletedDate returns when the task was completed, and false if it is not.
func (t Task) CompletedDate() (time.Time, bool) {
	if t.completedDate == nil {
		return time.Time{}, false
	}
	return *t.completedDate, true
}

// SetComplete sets the completion flag. Going from incomplete to complete
// stamps completedDate with the current time; going back clears it.
func (t *Task) SetComplete(complete bool) {
	if complete == t.isComplete {
		return
	}
	t.isComplete = complete
	if complete {
		at := now()
		t.completedDate = &at
	} else {
		t.completedDate = nil
	}
}

// Toggle flips completion.
func (t *Task) Toggle() {
	t.SetComplete(!t.isComplete)
}

// HasNote reports whether the note should be shown.
func (t Task) HasNote() bool {
	return t.Note != ""
}

// FormattedDueTime renders the due date as a short local time of day, e.g. "5:30 PM".
func (t Task) FormattedDueTime() string {
	return t.DueDate.Local().Format(DueTimeLayout)
}

// record is the persisted shape of a Task.
type record struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Note          string     `json:"note,omitempty"`
	DueDate       time.Time  `json:"dueDate"`
	Priority      Priority   `json:"priority"`
	IsComplete    bool       `json:"isComplete"`
	CompletedDate *time.Time `json:"completedDate,omitempty"`
	CreatedDate   time.Time  `json:"createdDate"`
}

var errMissingID = errors.New("task record has no id")

func (t Task) toRecord() record {
	return record{
		ID:            t.id,
		Title:         t.Title,
		Note:          t.Note,
		DueDate:       t.DueDate,
		Priority:      t.Priority,
		IsComplete:    t.isComplete,
		CompletedDate: t.completedDate,
		CreatedDate:   t.createdDate,
	}
}

func (r record) toTask() (Task, error) {
	if r.ID == "" {
		return Task{}, errMissingID
	}
	if !r.Priority.IsValid() {
		return Task{}, fmt.Errorf("task %s: invalid priority %d", r.ID, int(r.Priority))
	}
	if r.IsComplete != (r.CompletedDate != nil) {
		return Task{}, fmt.Errorf("task %s: completedDate must be set iff isComplete", r.ID)
	}
	var completed *time.Time
	if r.CompletedDate != nil {
		at := r.CompletedDate.UTC()
		completed = &at
	}
	return Task{
		Title:         r.Title,
		Note:          r.Note,
		DueDate:       r.DueDate.UTC(),
		Priority:      r.Priority,
		id:            r.ID,
		isComplete:    r.IsComplete,
		completedDate: completed,
		createdDate:   r.CreatedDate.UTC(),
	}, nil
}

func (t Task) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.toRecord())
}

func (t *Task) UnmarshalJSON(data []byte) error {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	decoded, err := r.toTask()
	if err != nil {
		return err
	}
	*t = decoded
	return nil
}

// MarshalYAML is used by the YAML export.
func (t Task) MarshalYAML() (interface{}, error) {
	r := t.toRecord()
	return struct {
		ID            string     `yaml:"id"`
		Title         string     `yaml:"title"`
		Note          string     `yaml:"note,omitempty"`
		DueDate       time.Time  `yaml:"dueDate"`
		Priority      string     `yaml:"priority"`
		IsComplete    bool       `yaml:"isComplete"`
		CompletedDate *time.Time `yaml:"completedDate,omitempty"`
		CreatedDate   time.Time  `yaml:"createdDate"`
	}{
		ID:            r.ID,
		Title:         r.Title,
		Note:          r.Note,
		DueDate:       r.DueDate,
		Priority:      r.Priority.String(),
		IsComplete:    r.IsComplete,
		CompletedDate: r.CompletedDate,
		CreatedDate:   r.CreatedDate,
	}, nil
}
