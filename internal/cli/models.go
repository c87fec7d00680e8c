package cli

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured models",
	Long:  `List all models configured in the configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(cfg.Models) == 0 {
			fmt.Fprintln(out, "No models configured.")
			fmt.Fprintln(out, "\nRun 'commitgen init' to create a configuration file.")
			return nil
		}

		bold := color.New(color.Bold)
		green := color.New(color.FgGreen)
		cyan := color.New(color.FgCyan)

		bold.Fprintln(out, "Configured Models:")
		fmt.Fprintln(out)

		names := make([]string, 0, len(cfg.Models))
		for name := range cfg.Models {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			model := cfg.Models[name]
			if name == cfg.DefaultModel {
				green.Fprintf(out, "  ✓ %s (default)\n", name)
			} else {
				fmt.Fprintf(out, "    %s\n", name)
			}

			cyan.Fprintf(out, "      Provider: %s\n", model.Provider)
			cyan.Fprintf(out, "      Model:    %s\n", model.Model)
			if model.BaseURL != "" {
				cyan.Fprintf(out, "      Base URL: %s\n", model.BaseURL)
			}
			fmt.Fprintln(out)
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration with defaults applied. Literal API keys are
masked; ${VAR} references are shown as written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		effective := cfg.Masked()
		effective.Commit = cfg.GetCommitConfig()
		effective.Retry = cfg.GetRetryConfig()

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(effective); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		return enc.Close()
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(modelsCmd, configCmd)
}
