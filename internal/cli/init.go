package cli

import (
	"fmt"
	"os"

	"github.com/huimingz/commitgen-go/internal/config"
	"github.com/spf13/cobra"
)

const defaultConfigTemplate = `# commitgen configuration file

# Default model to use (must match a key in the models section).
# COMMITGEN_MODEL and --model override it.
default_model: openai

# LLM model configurations
models:
  openai:
    provider: openai
    api_key: ${OPENAI_API_KEY}
    model: gpt-4o-mini
    # base_url: https://api.openai.com/v1
    # timeout: 60  # seconds

  # Deepseek
  # deepseek:
  #   provider: deepseek
  #   api_key: ${DEEPSEEK_API_KEY}
  #   model: deepseek-chat

  # Ollama (local, no api key)
  # ollama:
  #   provider: ollama
  #   model: qwen2.5:14b
  #   base_url: http://localhost:11434/v1

  # Google Gemini
  # gemini:
  #   provider: gemini
  #   api_key: ${GOOGLE_API_KEY}
  #   model: gemini-2.0-flash

  # xAI Grok
  # grok:
  #   provider: grok
  #   api_key: ${XAI_API_KEY}
  #   model: grok-beta

  # Any chat-completions URL, called directly
  # gateway:
  #   provider: endpoint
  #   api_key: ${GATEWAY_API_KEY}
  #   model: gpt-4o-mini
  #   base_url: https://api.openai.com/v1/chat/completions

commit:
  # Replaces the built-in instructions when set
  # instructions: |
  #   ...

  # Must contain {title}, {changes} and {files}; otherwise the default is used
  # output_template: |
  #   {title}
  #
  #   修改内容：
  #   {changes}
  #
  #   涉及组件：
  #   {files}

  # Leave unset to use the built-in secret patterns
  # redact_patterns:
  #   - "-----BEGIN [^-]+ PRIVATE KEY-----[\\s\\S]*?-----END [^-]+ PRIVATE KEY-----"
  #   - "sk-[A-Za-z0-9]{16,}"
  redact_disabled: false

  max_diff_length: 10000  # characters
  temperature: 0.7
  max_tokens: 500

retry:
  enabled: true
  max_attempts: 3
  backoff_base: 1.0  # seconds
  backoff_max: 8.0   # seconds
`

var (
	initForce bool
	initLocal bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize commitgen configuration",
	Long: `Create a configuration file (~/.commitgen.yaml, or ./.commitgen.yaml with --local).

The template lists every provider and commit setting. Edit it to add your
API keys, preferably as ${ENV_VAR} references.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := config.FileName
		if !initLocal {
			var err error
			configPath, err = config.HomePath()
			if err != nil {
				return err
			}
		}

		if _, err := os.Stat(configPath); err == nil && !initForce {
			return fmt.Errorf("config file already exists: %s\nUse --force to overwrite", configPath)
		}

		if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "✅ Configuration file created: %s\n", configPath)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Edit the config file and add your API keys")
		fmt.Fprintln(out, "  2. Set environment variables for sensitive keys (recommended)")
		fmt.Fprintln(out, "  3. Run 'commitgen preview' to check the prompt, then 'commitgen commit'")

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "Overwrite existing config file")
	initCmd.Flags().BoolVar(&initLocal, "local", false, "Write .commitgen.yaml in the current directory")
	rootCmd.AddCommand(initCmd)
}
