package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/runner/remove"
	"github.com/rytisguru/nested-comments/pkg/snake"
)

func addDelete(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	co := &options.ConfirmOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:               "delete [id]",
		ValidArgsFunction: commentCompletions,
		Aliases:           []string{"rm"},
		Short:             "Delete one of your comments and its replies",
		Example: `
nested-comments delete 3f1c9a
nested-comments delete 3f1c9a --yes
nested-comments delete -i
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
			id, err := pickComment(cmd.Context(), th, args, i.Interactive, "Delete")
			if err != nil {
				return oo.HandleError(err)
			}
			if !co.Yes {
				ok, err := snake.Confirm(os.Stdin, os.Stdout, fmt.Sprintf("Delete %s and every reply below it?", id), false)
				if err != nil {
					return oo.HandleError(err)
				}
				if !ok {
					return nil
				}
			}

			s := remove.Remove{
				Thread: th,
				ID:     id,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddConfirmArgs(cmd, co)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
