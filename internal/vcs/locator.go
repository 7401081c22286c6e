package vcs

import (
	"context"
	"strings"

	"github.com/Iron-Ham/lightgit/internal/errors"
	"github.com/Iron-Ham/lightgit/internal/logging"
)

// detachedHead is what `git rev-parse --abbrev-ref HEAD` prints when HEAD
// does not point at a branch.
const detachedHead = "HEAD"

// GitLocator resolves locations with the git CLI.
type GitLocator struct {
	executor CommandExecutor
	logger   *logging.Logger
}

// LocatorOption configures a GitLocator.
type LocatorOption func(*GitLocator)

// WithExecutor replaces the command executor. Primarily useful for testing.
func WithExecutor(executor CommandExecutor) LocatorOption {
	return func(l *GitLocator) {
		l.executor = executor
	}
}

// WithLogger sets the locator's logger.
func WithLogger(logger *logging.Logger) LocatorOption {
	return func(l *GitLocator) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewGitLocator creates a GitLocator that runs git through os/exec.
func NewGitLocator(opts ...LocatorOption) *GitLocator {
	l := &GitLocator{
		executor: NewCLICommandExecutor(),
		logger:   logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Locate returns the current branch of the work tree containing dir. For a
// detached HEAD it returns the abbreviated commit hash; for a repository
// without commits it returns the unborn branch name.
//
// Every failure is returned as a *errors.GitError, which matches
// errors.ErrLookupFailed.
func (l *GitLocator) Locate(ctx context.Context, dir, executable string) (string, error) {
	log := l.logger.WithDirectory(dir)

	if executable == "" {
		return "", errors.NewGitError("no git executable configured", errors.ErrExecutableNotFound).
			WithDirectory(dir)
	}

	output, err := l.executor.Run(ctx, dir, executable, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		if isUnbornBranch(output) {
			return l.unbornBranch(ctx, dir, executable)
		}
		log.Debug("rev-parse failed", "error", err.Error(), "output", strings.TrimSpace(string(output)))
		return "", l.gitError(ctx, "failed to resolve HEAD", dir, executable, output, err)
	}

	ref := strings.TrimSpace(string(output))
	if ref == "" {
		return "", l.gitError(ctx, "git printed no ref", dir, executable, output, errors.ErrLookupFailed)
	}
	if ref != detachedHead {
		log.Debug("resolved branch", "location", ref)
		return ref, nil
	}

	output, err = l.executor.Run(ctx, dir, executable, "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", l.gitError(ctx, "failed to resolve detached HEAD", dir, executable, output, err)
	}

	rev := strings.TrimSpace(string(output))
	log.Debug("resolved detached HEAD", "location", rev)
	return rev, nil
}

// unbornBranch handles a repository whose current branch has no commits yet.
func (l *GitLocator) unbornBranch(ctx context.Context, dir, executable string) (string, error) {
	output, err := l.executor.Run(ctx, dir, executable, "symbolic-ref", "--short", "HEAD")
	if err != nil {
		return "", l.gitError(ctx, "failed to resolve unborn branch", dir, executable, output, err)
	}
	return strings.TrimSpace(string(output)), nil
}

func (l *GitLocator) gitError(ctx context.Context, message, dir, executable string, output []byte, cause error) *errors.GitError {
	if isNotRepository(output) {
		cause = errors.Join(errors.ErrNotGitRepository, cause)
	}
	ctxErr := ctx.Err()
	if ctxErr != nil {
		cause = errors.Join(ctxErr, cause)
	}
	return errors.NewGitError(message, cause).
		WithDirectory(dir).
		WithExecutable(executable).
		WithGitOutput(string(output)).
		WithRetryable(ctxErr != nil)
}

func isNotRepository(output []byte) bool {
	return strings.Contains(strings.ToLower(string(output)), "not a git repository")
}

func isUnbornBranch(output []byte) bool {
	s := string(output)
	return strings.Contains(s, "ambiguous argument 'HEAD'") ||
		strings.Contains(s, "unknown revision or path not in the working tree")
}
