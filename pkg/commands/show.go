package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/runner/get"
)

func addShow(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	to := &options.ThreadOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"get", "ls"},
		Short:   base.Wrap80("Print the comment thread of a post."),
		Example: `
nested-comments show
nested-comments show --post release-notes --show-id
nested-comments show --flat
nested-comments show --json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			s := get.Get{
				Thread: e.thread(),
				ShowID: io.ShowID,
				Flat:   to.Flat,
				JSON:   oo.JSON,
			}
			if oo.JSON {
				s.Out = cmd.OutOrStdout()
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.AddThreadArgs(cmd, to)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
