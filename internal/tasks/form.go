package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
)

// Segment indices of the priority picker.
const (
	SegmentLow    = 0
	SegmentMedium = 1
	SegmentHigh   = 2
)

// SegmentLabels are the picker labels in segment order.
var SegmentLabels = []string{"Low", "Medium", "High"}

// MaxTitleLen is the longest title, in characters after trimming, any front
// end accepts.
const MaxTitleLen = 200

var (
	// ErrMissingTitle is wrapped by the ValidationError returned for a blank title.
	ErrMissingTitle = errors.New("task title is required")
	// ErrTitleTooLong is wrapped by the ValidationError for a title over MaxTitleLen.
	ErrTitleTooLong = errors.New("task title is too long")
)

// Alert is the blocking dialog a front end shows for a validation failure.
type Alert struct {
	Title   string `json:"title"`
	Message string `json:"error"`
}

// ValidationError rejects a form before any task is built.
type ValidationError struct {
	Alert Alert
	Err   error
}

func (e *ValidationError) Error() string { return e.Alert.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

var (
	missingTitle = &ValidationError{
		Alert: Alert{Title: "Oops...", Message: "Make sure to add a title!"},
		Err:   ErrMissingTitle,
	}
	titleTooLong = &ValidationError{
		Alert: Alert{Title: "Oops...", Message: fmt.Sprintf("Keep the title to %d characters or fewer.", MaxTitleLen)},
		Err:   ErrTitleTooLong,
	}
)

// Form holds the compose screen's fields.
type Form struct {
	Title   string
	Note    string
	DueDate time.Time
	Segment int
}

// PriorityFromSegment maps a picker index to a priority. Unknown indices are low.
func PriorityFromSegment(segment int) models.Priority {
	switch segment {
	case SegmentLow:
		return models.PriorityLow
	case SegmentMedium:
		return models.PriorityMedium
	case SegmentHigh:
		return models.PriorityHigh
	default:
		return models.PriorityLow
	}
}

// SegmentFromPriority is the inverse of PriorityFromSegment.
func SegmentFromPriority(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return SegmentHigh
	case models.PriorityMedium:
		return SegmentMedium
	default:
		return SegmentLow
	}
}

// FormFromTask pre-fills an edit form.
func FormFromTask(t models.Task) Form {
	return Form{
		Title:   t.Title,
		Note:    t.Note,
		DueDate: t.DueDate,
		Segment: SegmentFromPriority(t.Priority),
	}
}

// NewForm returns the blank compose form: due now, medium priority.
func NewForm(now time.Time) Form {
	return Form{DueDate: now, Segment: SegmentMedium}
}

// Validate rejects a blank or whitespace-only title, and one longer than
// MaxTitleLen.
func (f Form) Validate() error {
	title := strings.TrimSpace(f.Title)
	if title == "" {
		return missingTitle
	}
	if utf8.RuneCountInString(title) > MaxTitleLen {
		return titleTooLong
	}
	return nil
}

// Build validates the form and returns the composed task. With editing nil a
// new task is created; otherwise editing is copied and its title, note, due
// date and priority overwritten. Identity and completion carry over.
func (f Form) Build(editing *models.Task) (models.Task, error) {
	if err := f.Validate(); err != nil {
		return models.Task{}, err
	}

	title := strings.TrimSpace(f.Title)
	note := strings.TrimSpace(f.Note)

	var t models.Task
	if editing != nil {
		t = *editing
		t.Title = title
		t.Note = note
		t.DueDate = f.DueDate.UTC()
	} else {
		t = models.NewTask(title, note, f.DueDate)
	}
	t.Priority = PriorityFromSegment(f.Segment)
	return t, nil
}
