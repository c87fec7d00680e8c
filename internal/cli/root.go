package cli

import (
	"github.com/huimingz/commitgen-go/internal/log"
	"github.com/huimingz/commitgen-go/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	debugMode  bool
	noColor    bool
	configFile string
	modelName  string

	// Version info
	version   = "dev"
	gitCommit = "unknown"
	buildTime = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "commitgen",
	Short: "Generate structured commit messages from staged changes",
	Long: `commitgen turns the staged diff into a commit message with an AI model.

Secrets are redacted before the diff leaves your machine, large diffs are
truncated at file boundaries, and the model reply is repaired into a fixed
template: a title line, one description per changed file, and the file list.

Use "commitgen [command] --help" for more information about a command.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Set debug mode before any command runs
		if debugMode {
			log.SetDebugMode(true)
			log.Debug("Debug mode enabled")
		}
	},
}

// printerOptions are the StreamPrinter options implied by the global flags
func printerOptions() []ui.StreamPrinterOption {
	return []ui.StreamPrinterOption{ui.WithVerbose(debugMode), ui.WithColor(!noColor)}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, commit, time string) {
	version = v
	gitCommit = commit
	buildTime = time
}

// GetVersionInfo returns version information
func GetVersionInfo() (string, string, string) {
	return version, gitCommit, buildTime
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode for verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file path (default: ./.commitgen.yaml, then ~/.commitgen.yaml)")
	rootCmd.PersistentFlags().StringVarP(&modelName, "model", "m", "", "Model name from the config (overrides default_model and COMMITGEN_MODEL)")
}
