package commands

import (
	"github.com/spf13/cobra"

	base "github.com/n3wscott/cli-base/pkg/commands/options"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
)

var (
	global = &options.GlobalOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "nested-comments",
		Short: base.Wrap80("Threaded comments on the command line: read, reply, edit, delete and like."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddGlobalArgs(cmd, global)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addShow(topLevel)
	addComment(topLevel)
	addReply(topLevel)
	addEdit(topLevel)
	addDelete(topLevel)
	addLike(topLevel)
	addReport(topLevel)
	addInfo(topLevel)
	addUI(topLevel)
	addMCP(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}
