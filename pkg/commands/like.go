package commands

import (
	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/runner/like"
)

func addLike(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:               "like [id]",
		ValidArgsFunction: commentCompletions,
		Short:             "Like a comment, or take your like back",
		Example: `
nested-comments like 3f1c9a
nested-comments like -i
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			th := e.thread()
			id, err := pickComment(cmd.Context(), th, args, i.Interactive, "Like")
			if err != nil {
				return oo.HandleError(err)
			}
			s := like.Like{
				Thread: th,
				ID:     id,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
