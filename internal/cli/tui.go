package cli

import (
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/config"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/logging"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/reminder"
	"github.com/NickAlarcon7/Get-It-Done-App/internal/tui"
)

func newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Logs go to a file; the screen belongs to the program.
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logFile, err := logging.OpenFile(cfg.LogFile)
			if err != nil {
				return err
			}
			defer logFile.Close()

			notifier := tui.NewNotifier()
			a, err := openApp(cmd.Context(), logFile, func(*slog.Logger) reminder.Notifier { return notifier })
			if err != nil {
				return err
			}
			defer a.Close()

			p := tea.NewProgram(tui.NewRootModel(a.svc), tea.WithAltScreen())
			notifier.Attach(p)
			a.restoreReminders(cmd.Context())

			if _, err := p.Run(); err != nil {
				return fmt.Errorf("run tui: %w", err)
			}
			return nil
		},
	}
}
