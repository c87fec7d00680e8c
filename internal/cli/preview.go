package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/huimingz/commitgen-go/internal/agent"
	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/huimingz/commitgen-go/internal/log"
	"github.com/huimingz/commitgen-go/internal/tokenizer"
	"github.com/huimingz/commitgen-go/internal/ui"
	"github.com/spf13/cobra"
)

// previewModel is used for token counts when no model is configured
const previewModel = "gpt-4o-mini"

var (
	previewFiles bool
	previewDiff  string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the prompt that would be sent, without calling the model",
	Long: `Build the prompt from the staged changes exactly as 'commit' would,
print it with a token estimate, and stop before any request is made.

Works without a configuration file; defaults are used for every setting.

Examples:
  commitgen preview
  commitgen preview --files
  git diff HEAD~1 | commitgen preview --diff -`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().BoolVar(&previewFiles, "files", false, "List each changed file with its size in the redacted diff")
	previewCmd.Flags().StringVar(&previewDiff, "diff", "", "Read the diff from a file ('-' for stdin) instead of the staging area")
	rootCmd.AddCommand(previewCmd)
}

// loadPreviewConfig is loadConfig, except that a missing default config file
// is not an error.
func loadPreviewConfig() (*config.Config, error) {
	cfg, err := loadConfig()
	if err == nil {
		return cfg, nil
	}
	if configFile != "" {
		return nil, err
	}
	var cfgErr *config.ConfigError
	if errors.As(err, &cfgErr) {
		return nil, err
	}
	log.Debug("No usable config file (%v), using defaults", err)
	return &config.Config{}, nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	out := cmd.OutOrStdout()

	cfg, err := loadPreviewConfig()
	if err != nil {
		return err
	}

	diffText, err := readDiffInput(previewDiff, cmd.InOrStdin())
	if err != nil {
		return err
	}

	deps, err := newAgentDeps(cfg)
	if err != nil {
		return err
	}
	commitAgent, err := deps.newCommitAgent(nil, false)
	if err != nil {
		return err
	}

	prepared, err := commitAgent.Prepare(ctx, agent.CommitRequest{Diff: diffText})
	if errors.Is(err, agent.ErrNoStagedChanges) {
		printStageHint(out)
		return nil
	}
	if err != nil {
		return err
	}

	provider, model := "openai", previewModel
	if deps.modelCfg != nil {
		provider, model = deps.modelCfg.Provider, deps.modelCfg.Model
	}
	tokens := tokenizer.CountTokens(prepared.Prompt, model)

	title := fmt.Sprintf("Prompt (%d files, ~%d tokens for %s)", len(prepared.Files), tokens, model)
	if err := ui.ShowSection(title, prepared.Prompt, out); err != nil {
		return err
	}

	printer := ui.NewStreamPrinter(out, printerOptions()...)
	if previewFiles {
		printSectionSizes(out, prepared, model)
	}

	if len(prepared.InvalidPatterns) > 0 {
		_ = printer.PrintWarning(fmt.Sprintf("Invalid redaction patterns skipped: %v", prepared.InvalidPatterns))
	}
	if prepared.TemplateFallback {
		_ = printer.PrintWarning(fmt.Sprintf("Output template is missing %v; the default template is used", prepared.Missing))
	}
	if prepared.Truncated {
		_ = printer.PrintWarning(fmt.Sprintf("Diff truncated from %d to %d characters", prepared.DiffLength, prepared.SentLength))
	}
	if limit := tokenizer.ContextLimit(provider, model); tokens > limit {
		_ = printer.PrintWarning(fmt.Sprintf("Prompt exceeds the %d token budget for %s/%s", limit, provider, model))
	}
	return nil
}

func printSectionSizes(w io.Writer, prepared *agent.PreparedPrompt, model string) {
	bold := color.New(color.Bold)
	cyan := color.New(color.FgCyan)

	bold.Fprintln(w, "\nChanged files:")
	for _, section := range prepared.Sections {
		path := section.Path
		if path == "" {
			path = "(unparsed section)"
		}
		fmt.Fprintf(w, "  %s ", path)
		cyan.Fprintf(w, "%d chars, ~%d tokens\n", len([]rune(section.Text)), tokenizer.CountTokens(section.Text, model))
	}
}
