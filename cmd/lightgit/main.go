// Command lightgit reports the git location of the file being edited.
package main

import (
	"os"

	"github.com/Iron-Ham/lightgit/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
