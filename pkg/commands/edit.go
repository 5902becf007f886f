package commands

import (
	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/runner/edit"
)

func addEdit(topLevel *cobra.Command) {
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:               "edit [id] [message]",
		ValidArgsFunction: commentCompletions,
		Short:             "Change the message of one of your comments",
		Example: `
nested-comments edit 3f1c9a fixed the typo
nested-comments edit -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			th := e.thread()
			id, err := pickComment(cmd.Context(), th, args, i.Interactive, "Edit")
			if err != nil {
				return oo.HandleError(err)
			}
			def := ""
			if r, ok := th.Get(id); ok {
				def = r.Message
			}
			rest := args
			if len(rest) > 0 {
				rest = rest[1:]
			}
			msg, err := message(rest, i.Interactive, "Message", def)
			if err != nil {
				return oo.HandleError(err)
			}

			s := edit.Edit{
				Thread:  th,
				ID:      id,
				Message: msg,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
