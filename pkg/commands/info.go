package commands

import (
	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/runner/info"
)

func addInfo(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the configuration and where comments are stored.",
		Example: `
nested-comments info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			s := info.Info{
				Config:      e.cfg,
				Persistence: e.backend.Persistence,
			}
			err = s.Do(cmd.Context())
			return oo.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}
