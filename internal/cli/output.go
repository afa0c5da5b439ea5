package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/calendar"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
)

func writeTable(w io.Writer, all []models.Task) error {
	if len(all) == 0 {
		_, err := fmt.Fprintln(w, "No tasks.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "DONE\tPRIORITY\tDUE\tTITLE\tID")
	for _, t := range all {
		done := " "
		if t.IsComplete() {
			done = "x"
		}
		_, _ = fmt.Fprintf(tw, "[%s]\t%s\t%s\t%s\t%s\n", done, t.Priority, t.FormattedDueTime(), t.Title, t.ID())
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, all []models.Task) error {
	if all == nil {
		all = []models.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(all)
}

func writeYAML(w io.Writer, all []models.Task) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(all); err != nil {
		return err
	}
	return enc.Close()
}

func writeICS(w io.Writer, all []models.Task, now time.Time) error {
	_, err := io.WriteString(w, calendar.BuildICS(all, now))
	return err
}
