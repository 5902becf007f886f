package commands

import (
	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/comment"
	"github.com/rytisguru/nested-comments/pkg/runner/add"
)

func addComment(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "comment [message]",
		Short: "Post a top-level comment",
		Example: `
nested-comments comment this is a great post
nested-comments comment -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			msg, err := message(args, i.Interactive, "Comment", "")
			if err != nil {
				return oo.HandleError(err)
			}
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			s := add.Add{
				Thread:   e.thread(),
				ParentID: comment.RootID,
				Message:  msg,
				ShowID:   io.ShowID,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}

func addReply(topLevel *cobra.Command) {
	io := &options.IDOptions{}
	i := &options.InteractiveOptions{}
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:               "reply [parent-id] [message]",
		ValidArgsFunction: commentCompletions,
		Short:             "Reply to a comment",
		Example: `
nested-comments reply 3f1c9a agreed, thanks
nested-comments reply -i
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			th := e.thread()
			parent, err := pickComment(cmd.Context(), th, args, i.Interactive, "Reply to")
			if err != nil {
				return oo.HandleError(err)
			}
			rest := args
			if len(rest) > 0 {
				rest = rest[1:]
			}
			msg, err := message(rest, i.Interactive, "Reply", "")
			if err != nil {
				return oo.HandleError(err)
			}

			s := add.Add{
				Thread:   th,
				ParentID: parent,
				Message:  msg,
				ShowID:   io.ShowID,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	options.AddShowIDArgs(cmd, io)
	options.InteractiveArgs(cmd, i)
	options.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
