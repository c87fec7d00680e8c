package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/huimingz/commitgen-go/internal/agent"
	"github.com/huimingz/commitgen-go/internal/git"
	"github.com/huimingz/commitgen-go/internal/ui"
	"github.com/spf13/cobra"
)

var (
	commitAutoYes bool
	commitCopy    bool
	commitPrint   bool
	commitDiff    string
)

// clipboardWrite is replaced in tests
var clipboardWrite = clipboard.WriteAll

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Generate a commit message and commit",
	Long: `Generate a commit message from the staged changes and commit it.

This command will:
1. Read the staged diff (git diff --cached)
2. Redact secrets and truncate the diff at a file boundary if needed
3. Ask the model for a message and repair it into the output template
4. Ask for confirmation before committing

Examples:
  commitgen commit
  commitgen commit -y
  commitgen commit --copy
  commitgen commit --print > msg.txt
  git diff HEAD~1 | commitgen commit --diff - --print
  commitgen commit -m deepseek`,
	RunE: runCommit,
}

func init() {
	commitCmd.Flags().BoolVarP(&commitAutoYes, "yes", "y", false, "Commit without asking for confirmation")
	commitCmd.Flags().BoolVar(&commitCopy, "copy", false, "Copy the message to the clipboard instead of committing")
	commitCmd.Flags().BoolVar(&commitPrint, "print", false, "Print only the message to stdout instead of committing")
	commitCmd.Flags().StringVar(&commitDiff, "diff", "", "Read the diff from a file ('-' for stdin) instead of the staging area; implies --print unless --copy is set")
	rootCmd.AddCommand(commitCmd)
}

func runCommit(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()
	startTime := time.Now()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	diffText, err := readDiffInput(commitDiff, cmd.InOrStdin())
	if err != nil {
		return err
	}
	printOnly := commitPrint || (commitDiff != "" && !commitCopy)

	deps, err := newAgentDeps(cfg)
	if err != nil {
		return err
	}

	if diffText == "" {
		staged, err := deps.executor.HasStagedChanges(ctx)
		if err != nil {
			return err
		}
		if !staged {
			printStageHint(errOut)
			return nil
		}
	}

	// status goes to stderr so --print output stays clean
	indicator := ui.NewStatusIndicator(errOut, printerOptions()...)
	defer indicator.Dispose()

	commitAgent, err := deps.newCommitAgent(indicator, true)
	if err != nil {
		return err
	}

	response, err := commitAgent.GenerateCommitMessage(ctx, agent.CommitRequest{Diff: diffText})
	if errors.Is(err, agent.ErrNoStagedChanges) {
		printStageHint(errOut)
		return nil
	}
	if err != nil {
		if hint := transportHint(err); hint != "" {
			_ = ui.NewStreamPrinter(errOut, printerOptions()...).PrintWarning(hint)
		}
		return err
	}

	if printOnly {
		_, err := fmt.Fprintln(out, response.Message)
		return err
	}

	printer := ui.NewStreamPrinter(out, printerOptions()...)
	if err := ui.ShowCommitMessage(response.Message, out); err != nil {
		return err
	}
	_ = printer.PrintStats(&ui.ExecutionStats{
		StartTime:        startTime,
		EndTime:          time.Now(),
		PromptTokens:     response.PromptTokens,
		CompletionTokens: response.CompletionTokens,
		TotalTokens:      response.TotalTokens,
		Estimated:        response.UsageEstimated,
	})
	_ = printer.PrintDetail("Files: " + strings.Join(response.Files, ", "))
	if response.Truncated {
		_ = printer.PrintWarning("The diff was truncated before it was sent; descriptions of omitted files are synthesized.")
	}

	if commitCopy {
		if err := clipboardWrite(response.Message); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		_ = printer.PrintSuccess("Commit message copied to clipboard")
		return nil
	}

	if !commitAutoYes {
		_ = printer.Newline()
		confirmed, err := ui.ConfirmWithDefault("Do you want to commit with this message?", true, cmd.InOrStdin(), out)
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, "Commit cancelled.")
			return nil
		}
	}

	if err := deps.executor.Commit(ctx, response.Message); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	summary, _ := deps.executor.Log(ctx, git.LogOptions{Count: 1, Format: "%h %s"})
	if branch, err := deps.executor.CurrentBranch(ctx); err == nil && summary != "" {
		summary = fmt.Sprintf("[%s %s]", branch, summary)
	}
	_ = printer.PrintSuccess(strings.TrimSpace("Commit created successfully! " + summary))
	return nil
}
