// Package calendar exports tasks as iCalendar events.
package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
)

const (
	icsTimeLayout = "20060102T150405Z"
	eventLength   = 30 * time.Minute
	maxLineOctets = 75
)

// BuildICS builds one VCALENDAR holding a VEVENT per task. Incomplete tasks
// carry a display alarm at the reminder lead time.
func BuildICS(tasks []models.Task, now time.Time) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//Get It Done//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	for _, t := range tasks {
		lines = append(lines, eventLines(t, now)...)
	}
	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(foldLine(l))
		b.WriteString("\r\n")
	}
	return b.String()
}

func eventLines(t models.Task, now time.Time) []string {
	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "Untitled task"
	}
	start := t.DueDate.UTC()

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeICSText(fmt.Sprintf("task-%s@getitdone", t.ID())),
		"DTSTAMP:" + now.UTC().Format(icsTimeLayout),
		"CREATED:" + t.CreatedDate().UTC().Format(icsTimeLayout),
		"SUMMARY:" + escapeICSText(title),
		"DTSTART:" + start.Format(icsTimeLayout),
		"DTEND:" + start.Add(eventLength).Format(icsTimeLayout),
		fmt.Sprintf("PRIORITY:%d", icsPriority(t.Priority)),
	}
	if t.HasNote() {
		lines = append(lines, "DESCRIPTION:"+escapeICSText(t.Note))
	}
	if t.IsComplete() {
		if at, ok := t.CompletedDate(); ok {
			lines = append(lines, "X-COMPLETED:"+at.UTC().Format(icsTimeLayout))
		}
	} else {
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:"+escapeICSText(title+" is due soon!"),
			fmt.Sprintf("TRIGGER:-PT%dM", int(reminder.LeadTime/time.Minute)),
			"END:VALARM",
		)
	}
	return append(lines, "END:VEVENT")
}

// foldLine splits content lines longer than 75 octets, continuing each
// with CRLF and a single space. Multi-byte runes are never split.
func foldLine(line string) string {
	if len(line) <= maxLineOctets {
		return line
	}
	var b strings.Builder
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
		// The leading space counts toward the continuation line.
		limit = maxLineOctets - 1
	}
	b.WriteString(line)
	return b.String()
}

// icsPriority maps to RFC 5545 PRIORITY where 1 is highest and 9 lowest.
func icsPriority(p models.Priority) int {
	switch p {
	case models.PriorityHigh:
		return 1
	case models.PriorityMedium:
		return 5
	default:
		return 9
	}
}

func escapeICSText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}
