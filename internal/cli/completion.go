package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for waterfall.

To load completions:

Bash:
  $ source <(waterfall completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ waterfall completion bash > /etc/bash_completion.d/waterfall
  # macOS:
  $ waterfall completion bash > $(brew --prefix)/etc/bash_completion.d/waterfall

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ waterfall completion zsh > "${fpath[1]}/_waterfall"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ waterfall completion fish | source

  # To load completions for each session, execute once:
  $ waterfall completion fish > ~/.config/fish/completions/waterfall.fish

PowerShell:
  PS> waterfall completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> waterfall completion powershell > waterfall.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeWords returns a completion function offering the fixed words.
func completeWords(words ...string) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
		return words, cobra.ShellCompDirectiveNoFileComp
	}
}

// completeFormats completes the comma-separated --format list one element
// at a time, never offering a format that is already present.
func completeFormats(cmd *cobra.Command, args []string, toComplete string) ([]cobra.Completion, cobra.ShellCompDirective) {
	done, prefix := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, prefix = toComplete[:i+1], toComplete[i+1:]
	}
	seen := strings.Split(strings.TrimSuffix(done, ","), ",")

	var out []cobra.Completion
	for _, f := range formatNames {
		if strings.HasPrefix(f, prefix) && !slices.Contains(seen, f) {
			out = append(out, done+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
