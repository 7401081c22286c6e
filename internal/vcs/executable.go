package vcs

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/lightgit/internal/errors"
)

// DefaultExecutable is the command looked up on PATH when no executable is
// configured.
const DefaultExecutable = "git"

// ResolveExecutable returns a usable git executable path. A configured path
// wins (with ~ expanded); an empty one falls back to git on PATH.
func ResolveExecutable(configured string) (string, error) {
	name := strings.TrimSpace(configured)
	if name == "" {
		name = DefaultExecutable
	}
	name = expandHome(name)

	path, err := exec.LookPath(name)
	if err != nil {
		return "", errors.NewGitError("cannot resolve git executable", errors.Join(errors.ErrExecutableNotFound, err)).
			WithExecutable(name)
	}
	return path, nil
}

// ExecutableReader returns a function that re-reads the configured
// executable on every call and resolves it. Resolution failures yield ""
// so the following lookup fails and the location becomes unknown.
func ExecutableReader(configured func() string) func() string {
	return func() string {
		path, err := ResolveExecutable(configured())
		if err != nil {
			return ""
		}
		return path
	}
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
