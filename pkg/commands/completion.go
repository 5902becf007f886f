package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/config"
	"github.com/rytisguru/nested-comments/pkg/store"
)

func addCompletions(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:       "completion [bash|zsh|fish]",
		Short:     "Generates shell completion scripts",
		ValidArgs: []string{"bash", "zsh", "fish"},
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		Long: `To load completion run

. <(nested-comments completion)

To configure your bash shell to load completions for each session add to your bashrc

# ~/.bashrc or ~/.profile
. <(nested-comments completion)
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := "bash"
			if len(args) > 0 {
				shell = args[0]
			}
			out := cmd.OutOrStdout()
			switch shell {
			case "zsh":
				return topLevel.GenZshCompletion(out)
			case "fish":
				return topLevel.GenFishCompletion(out, true)
			default:
				return topLevel.GenBashCompletion(out)
			}
		},
	}

	_ = topLevel.RegisterFlagCompletionFunc("post", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return postCompletions(toComplete), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func postCompletions(toComplete string) []string {
	cfg, err := config.Load()
	if err != nil {
		return nil
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil
	}
	posts, err := p.Posts(context.Background())
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		if strings.HasPrefix(post, toComplete) {
			out = append(out, post)
		}
	}
	return out
}

// commentCompletions offers the ids of the configured post's comments with a
// short message preview.
func commentCompletions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	e, err := setup(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer e.close()
	records, err := e.backend.ListComments(context.Background(), e.cfg.Post)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(records))
	for _, r := range records {
		if strings.HasPrefix(r.ID, toComplete) {
			out = append(out, r.ID+"\t"+preview(r))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func preview(r comment.Record) string {
	msg := strings.Join(strings.Fields(r.Message), " ")
	if len([]rune(msg)) > 40 {
		msg = string([]rune(msg)[:39]) + "…"
	}
	return r.Author.Name + ": " + msg
}
