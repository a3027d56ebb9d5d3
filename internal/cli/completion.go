package cli

import (
	"io"
	"slices"

	"github.com/spf13/cobra"
)

type completionGen func(root *cobra.Command, w io.Writer) error

var completionShells = map[string]completionGen{
	"bash": (*cobra.Command).GenBashCompletion,
	"zsh":  (*cobra.Command).GenZshCompletion,
	"fish": func(root *cobra.Command, w io.Writer) error {
		return root.GenFishCompletion(w, true)
	},
	"powershell": (*cobra.Command).GenPowerShellCompletionWithDesc,
}

func (c *CLI) completionCommand() *cobra.Command {
	shells := make([]string, 0, len(completionShells))
	for name := range completionShells {
		shells = append(shells, name)
	}
	slices.Sort(shells)

	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Print a shell completion script",
		Long: `Print a completion script for blockweek.

  source <(blockweek completion bash)
  blockweek completion zsh > "${fpath[1]}/_blockweek"
  blockweek completion fish > ~/.config/fish/completions/blockweek.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return completionShells[args[0]](cmd.Root(), cmd.OutOrStdout())
		},
	}
}
