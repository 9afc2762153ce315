package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/siliconmark/logocell/pkg/pipeline"
)

var shellCompletions = map[string]func(cmd *cobra.Command) error{
	"bash":       func(cmd *cobra.Command) error { return cmd.Root().GenBashCompletion(stdout) },
	"zsh":        func(cmd *cobra.Command) error { return cmd.Root().GenZshCompletion(stdout) },
	"fish":       func(cmd *cobra.Command) error { return cmd.Root().GenFishCompletion(stdout, true) },
	"powershell": func(cmd *cobra.Command) error { return cmd.Root().GenPowerShellCompletionWithDesc(stdout) },
}

func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for logocell.

Bash:
  $ source <(logocell completion bash)

Zsh:
  $ logocell completion zsh > "${fpath[1]}/_logocell"

Fish:
  $ logocell completion fish | source`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return shellCompletions[args[0]](cmd)
		},
	}
}

// registerConvertCompletions completes the enumerated convert flags and
// restricts file arguments to the extensions each flag accepts.
func registerConvertCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("vias", cobra.FixedCompletions(
		[]string{string(pipeline.ViasAuto), string(pipeline.ViasOn), string(pipeline.ViasOff)},
		cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("threshold", cobra.FixedCompletions(
		[]string{"auto", "128"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.MarkFlagFilename("rules", "json", "toml")
	_ = cmd.MarkFlagDirname("output")
}

// completeFormats offers the formats not yet listed in a comma-separated value.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := ""
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		prefix = toComplete[:i+1]
	}
	have := splitList(prefix)

	var out []string
	for _, f := range []string{pipeline.FormatGDS, pipeline.FormatLEF, pipeline.FormatJSON, pipeline.FormatPNG} {
		used := false
		for _, h := range have {
			used = used || h == f
		}
		if !used {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}
