package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ErrNotARepository is returned when the working directory is outside a git work tree
var ErrNotARepository = errors.New("not a git repository")

// LogOptions represents options for git log command
type LogOptions struct {
	Format string
	Count  int
}

// Executor defines the interface for git command execution
type Executor interface {
	// DiffCached returns the diff of staged changes
	DiffCached(ctx context.Context) (string, error)

	// StagedFiles returns the paths of staged files
	StagedFiles(ctx context.Context) ([]string, error)

	// HasStagedChanges reports whether anything is staged
	HasStagedChanges(ctx context.Context) (bool, error)

	// Log returns the commit log
	Log(ctx context.Context, opts LogOptions) (string, error)

	// Commit executes a git commit with the given message
	Commit(ctx context.Context, message string) error

	// CurrentBranch returns the current branch name
	CurrentBranch(ctx context.Context) (string, error)
}

// DefaultExecutor is the default implementation of Executor
type DefaultExecutor struct {
	workDir string
}

// NewExecutor creates a new DefaultExecutor
func NewExecutor(workDir string) *DefaultExecutor {
	return &DefaultExecutor{workDir: workDir}
}

// run runs a git command and returns its raw stdout
func (e *DefaultExecutor) run(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.workDir
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if strings.Contains(stderr.String(), "not a git repository") {
			return "", fmt.Errorf("%w: %s", ErrNotARepository, e.workDir)
		}
		return "", fmt.Errorf("git %s failed: %w\n%s", strings.Join(args, " "), err, stderr.String())
	}

	return stdout.String(), nil
}

// runGit runs a git command and returns the trimmed output
func (e *DefaultExecutor) runGit(ctx context.Context, args ...string) (string, error) {
	out, err := e.run(ctx, "", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// DiffCached returns the diff of staged changes. Only trailing newlines are
// removed so context lines keep their leading whitespace.
func (e *DefaultExecutor) DiffCached(ctx context.Context) (string, error) {
	out, err := e.run(ctx, "", "diff", "--cached", "--no-color", "--no-ext-diff")
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n"), nil
}

// StagedFiles returns the paths of staged files
func (e *DefaultExecutor) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := e.runGit(ctx, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return []string{}, nil
	}
	return strings.Split(out, "\n"), nil
}

// HasStagedChanges reports whether anything is staged
func (e *DefaultExecutor) HasStagedChanges(ctx context.Context) (bool, error) {
	files, err := e.StagedFiles(ctx)
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// Log returns the commit log
func (e *DefaultExecutor) Log(ctx context.Context, opts LogOptions) (string, error) {
	args := []string{"log"}

	if opts.Count > 0 {
		args = append(args, "-n", strconv.Itoa(opts.Count))
	}
	if opts.Format != "" {
		args = append(args, "--format="+opts.Format)
	}

	output, err := e.runGit(ctx, args...)
	if err != nil {
		// Empty repo returns error, return empty string instead
		if strings.Contains(err.Error(), "does not have any commits") {
			return "", nil
		}
		return "", err
	}
	return output, nil
}

// Commit executes a git commit with the given message. The message is passed
// on stdin so multi-line bodies survive unchanged.
func (e *DefaultExecutor) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message is empty")
	}
	_, err := e.run(ctx, message, "commit", "--file=-")
	return err
}

// CurrentBranch returns the current branch name
func (e *DefaultExecutor) CurrentBranch(ctx context.Context) (string, error) {
	return e.runGit(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}
