package commands

import (
	"github.com/spf13/cobra"

	teaui "github.com/rytisguru/nested-comments/pkg/runner/tea"
)

func addUI(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "open the text-based user interface",
		Example: `
nested-comments ui
nested-comments ui --post release-notes
`,
		ValidArgs: []string{},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return err
			}
			defer e.close()
			return teaui.Run(e.thread())
		},
	}

	topLevel.AddCommand(cmd)
}
