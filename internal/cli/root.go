// Package cli is the getitdone command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/NickAlarcon7/Get-It-Done-App/internal/tasks"
)

// Execute runs the CLI with the given arguments and writers and returns the
// process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		var ve *tasks.ValidationError
		if errors.As(err, &ve) {
			_, _ = fmt.Fprintf(stderr, "%s %s\n", ve.Alert.Title, ve.Alert.Message)
		} else {
			_, _ = fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree with injectable IO.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "getitdone",
		Short:         "Today's tasks, with reminders before they are due",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if path, _ := cmd.Flags().GetString("config"); path != "" {
				return os.Setenv("GETITDONE_CONFIG", path)
			}
			return nil
		},
	}

	cmd.PersistentFlags().String("config", "", "Config file (.yaml or .toml); overrides GETITDONE_CONFIG")

	cmd.AddCommand(
		newServeCmd(stdout),
		newTUICmd(),
		newAddCmd(stdout, stderr),
		newListCmd(stdout, stderr),
		newDoneCmd(stdout, stderr),
		newExportCmd(stdout, stderr),
	)
	return cmd
}
