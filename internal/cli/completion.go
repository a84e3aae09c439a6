package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/xyplot/pkg/pipeline"
	"github.com/matzehuels/xyplot/pkg/sweep"
)

var conversionNames = []string{
	string(sweep.ConvertDisabled),
	string(sweep.ConvertInteger),
	string(sweep.ConvertFloat),
	string(sweep.ConvertBoolean),
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: fmt.Sprintf(`Generate shell completion scripts for %[1]s.

Besides subcommands, completions cover the fixed-choice flags such as
--format and --dim1-type, and file arguments such as --dim1-file.

Bash:
  $ source <(%[1]s completion bash)

Zsh:
  $ %[1]s completion zsh > "${fpath[1]}/_%[1]s"

Fish:
  $ %[1]s completion fish > ~/.config/fish/completions/%[1]s.fish

PowerShell:
  PS> %[1]s completion powershell | Out-String | Invoke-Expression
`, appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(w, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(w)
			case "fish":
				return cmd.Root().GenFishCompletion(w, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(w)
			}
			return nil
		},
	}

	return cmd
}

// fixedChoices completes a flag from a closed set of values.
func fixedChoices(choices ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return choices, cobra.ShellCompDirectiveNoFileComp
	}
}

func formatNames() []string {
	out := make([]string, 0, len(pipeline.ValidFormats))
	for f := range pipeline.ValidFormats {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// registerSweepCompletions wires completions for the flags of sweepFlags.
func registerSweepCompletions(cmd *cobra.Command) {
	for _, name := range []string{"dim1-type", "dim2-type"} {
		_ = cmd.RegisterFlagCompletionFunc(name, fixedChoices(conversionNames...))
	}
	for _, name := range []string{"dim1-file", "dim2-file"} {
		_ = cmd.MarkFlagFilename(name, "txt", "csv", "lst")
	}
	for _, name := range []string{"dim1-range", "dim2-range", "dim1", "dim2", "sep", "dim1-format", "dim2-format"} {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.NoFileCompletions)
	}
}

// registerRunCompletions wires completions for the run-only flags.
func registerRunCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", fixedChoices(formatNames()...))
	_ = cmd.MarkFlagDirname("output")
	for _, name := range []string{"title", "footer", "filename"} {
		_ = cmd.RegisterFlagCompletionFunc(name, cobra.NoFileCompletions)
	}
}
