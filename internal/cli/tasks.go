package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/models"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

// dueLayouts are accepted by --due, tried in order. Layouts without a zone
// are read in local time.
var dueLayouts = []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02T15:04", "15:04"}

// parseDue reads a --due value. A bare clock time means today.
func parseDue(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if layout == "15:04" {
			y, m, d := now.In(time.Local).Date()
			t = time.Date(y, m, d, t.Hour(), t.Minute(), 0, 0, time.Local)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid --due %q (use RFC3339, \"2006-01-02 15:04\" or \"15:04\")", s)
}

func newAddCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			note, _ := cmd.Flags().GetString("note")
			dueStr, _ := cmd.Flags().GetString("due")
			priorityStr, _ := cmd.Flags().GetString("priority")

			due, err := parseDue(dueStr, time.Now())
			if err != nil {
				return err
			}
			priority, err := models.ParsePriority(priorityStr)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), stderr, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			form := tasks.Form{
				Title:   strings.Join(args, " "),
				Note:    note,
				DueDate: due,
				Segment: tasks.SegmentFromPriority(priority),
			}
			t, err := a.svc.Compose(cmd.Context(), form, nil, nil)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(stdout, t.ID())
			return nil
		},
	}
	cmd.Flags().StringP("note", "n", "", "Optional note")
	cmd.Flags().StringP("due", "d", "", "Due time (default now)")
	cmd.Flags().StringP("priority", "p", "medium", "Priority: low, medium or high")
	return cmd
}

func newListCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sortBy, _ := cmd.Flags().GetString("sort")
			format, _ := cmd.Flags().GetString("format")
			if sortBy != "" && sortBy != "urgency" {
				return fmt.Errorf("invalid --sort %q (use urgency)", sortBy)
			}

			a, err := openApp(cmd.Context(), stderr, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			all := a.svc.List(cmd.Context(), sortBy == "urgency")
			switch format {
			case "table", "":
				return writeTable(stdout, all)
			case "json":
				return writeJSON(stdout, all)
			case "yaml":
				return writeYAML(stdout, all)
			default:
				return fmt.Errorf("invalid --format %q (use table, json or yaml)", format)
			}
		},
	}
	cmd.Flags().String("sort", "", "Sort order: urgency (default: as added)")
	cmd.Flags().StringP("format", "f", "table", "Output format: table, json or yaml")
	return cmd
}

func newDoneCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			undo, _ := cmd.Flags().GetBool("undo")

			a, err := openApp(cmd.Context(), stderr, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			t, err := a.svc.SetComplete(cmd.Context(), args[0], !undo)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			state := "done"
			if !t.IsComplete() {
				state = "not done"
			}
			_, _ = fmt.Fprintf(stdout, "%s marked %s\n", t.Title, state)
			return nil
		},
	}
	cmd.Flags().Bool("undo", false, "Mark the task not done instead")
	return cmd
}

func newExportCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every task as JSON, YAML or iCalendar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")
			if !validExportFormat(format) {
				return fmt.Errorf("invalid --format %q (use json, yaml or ics)", format)
			}

			a, err := openApp(cmd.Context(), stderr, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			all := a.svc.List(cmd.Context(), false)
			if output == "" {
				return exportTasks(stdout, format, all)
			}
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create %s: %w", output, err)
			}
			if err := exportTasks(f, format, all); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", "json", "Export format: json, yaml or ics")
	cmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	return cmd
}

func validExportFormat(format string) bool {
	switch format {
	case "json", "yaml", "ics":
		return true
	}
	return false
}

func exportTasks(w io.Writer, format string, all []models.Task) error {
	switch format {
	case "json":
		return writeJSON(w, all)
	case "yaml":
		return writeYAML(w, all)
	case "ics":
		return writeICS(w, all, time.Now())
	default:
		return fmt.Errorf("invalid --format %q (use json, yaml or ics)", format)
	}
}
