package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
)

// followUnknownText is shown by follow when no unknown text is configured,
// so every update produces a visible line.
const followUnknownText = "-"

var followCmd = &cobra.Command{
	Use:   "follow",
	Short: "Track the location while files are selected on stdin",
	Long: `Read editor commands from stdin, one per line, and print the status bar
text every time the location changes.

Commands:
  <path>          open and select a file
  :select <path>  select an already open file
  :close <path>   close a file (the previously selected file becomes active)
  :none           close all files
  :activate       simulate the window regaining focus (re-resolves the
                  selected file, e.g. after switching branches elsewhere)
  :quit           stop reading

Blank lines and lines starting with # are ignored. At end of input the
command waits for the last lookup before exiting.`,
	Args: cobra.NoArgs,
	RunE: runFollow,
}

func init() {
	rootCmd.AddCommand(followCmd)
}

// lockedWriter serialises writes from the tracker's worker and the command
// loop.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func runFollow(cmd *cobra.Command, args []string) error {
	a, err := newApp(appOptions{unknownText: followUnknownText})
	if err != nil {
		return err
	}
	defer a.Close()

	out := &lockedWriter{w: cmd.OutOrStdout()}
	errOut := &lockedWriter{w: cmd.ErrOrStderr()}
	a.widget.OnChange(out.println)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == ":quit" {
			break
		}
		if err := a.dispatch(line); err != nil {
			errOut.println("error: " + err.Error())
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read commands: %w", err)
	}

	a.tracker.Wait()
	return nil
}

// dispatch applies one follow command to the session.
func (a *app) dispatch(line string) error {
	if !strings.HasPrefix(line, ":") {
		return a.session.Open(line)
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":select":
		return a.session.Select(arg)
	case ":close":
		return a.session.Close(arg)
	case ":none":
		a.session.CloseAll()
		return nil
	case ":activate":
		a.session.ActivateFrame()
		return nil
	default:
		return fmt.Errorf("unknown command %q", name)
	}
}
