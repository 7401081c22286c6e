package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusBar bool

var statusCmd = &cobra.Command{
	Use:   "status <file>",
	Short: "Print the git location of a file's directory",
	Long: `Resolve the git location of the directory containing <file> once and
print it. For a detached HEAD the abbreviated commit is printed.

Nothing is printed when the location cannot be determined (for example
outside a repository); this is not an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().BoolVar(&statusBar, "statusbar", false, "print the styled status bar item instead of the bare name")
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{})
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Open(args[0]); err != nil {
		return err
	}
	a.tracker.Wait()

	out := cmd.OutOrStdout()
	if statusBar {
		if s := a.widget.Render(); s != "" {
			fmt.Fprintln(out, s)
		}
		return nil
	}

	if name, ok := a.tracker.CurrentLocation().Name(); ok {
		fmt.Fprintln(out, name)
	}
	return nil
}
