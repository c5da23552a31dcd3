package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand generates shell completion scripts.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for forcelayout.

To load completions:

Bash:
  $ source <(forcelayout completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ forcelayout completion bash > /etc/bash_completion.d/forcelayout
  # macOS:
  $ forcelayout completion bash > $(brew --prefix)/etc/bash_completion.d/forcelayout

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ forcelayout completion zsh > "${fpath[1]}/_forcelayout"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ forcelayout completion fish | source

  # To load completions for each session, execute once:
  $ forcelayout completion fish > ~/.config/fish/completions/forcelayout.fish

PowerShell:
  PS> forcelayout completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> forcelayout completion powershell > forcelayout.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(stdout)
			}
			return nil
		},
	}

	return cmd
}
