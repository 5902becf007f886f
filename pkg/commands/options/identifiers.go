package options

import (
	"github.com/spf13/cobra"
)

// IDOptions
type IDOptions struct {
	ShowID bool
	ID     string
}

func AddShowIDArgs(cmd *cobra.Command, o *IDOptions) {
	cmd.Flags().BoolVarP(&o.ShowID, "show-id", "k", false,
		"Show the ID of each comment.")
}

// ThreadOptions select how a thread is printed.
type ThreadOptions struct {
	Flat bool
}

func AddThreadArgs(cmd *cobra.Command, o *ThreadOptions) {
	cmd.Flags().BoolVar(&o.Flat, "flat", false,
		"Print the thread as a table instead of a tree.")
}

// ConfirmOptions
type ConfirmOptions struct {
	Yes bool
}

func AddConfirmArgs(cmd *cobra.Command, o *ConfirmOptions) {
	cmd.Flags().BoolVarP(&o.Yes, "yes", "y", false,
		"Do not ask for confirmation.")
}
