package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/rytisguru/nested-comments/pkg/app"
	"github.com/rytisguru/nested-comments/pkg/commands/options"
	"github.com/rytisguru/nested-comments/pkg/printers"
	"github.com/rytisguru/nested-comments/pkg/timeutil"
)

func addReport(topLevel *cobra.Command) {
	oo := &options.OutputOptions{}
	var last string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize comment activity per post",
		Long: `Report lists every post that has comments, most recently active first,
with comment, top-level and like counts and the people taking part.
--last limits the report to posts active within a window such as 3d or 1w2d.

Examples:
  nested-comments report
  nested-comments report --last 1w
  nested-comments report --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			e, err := setup(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			defer e.close()

			window, err := timeutil.ParseWindow(last)
			if err != nil {
				return oo.HandleError(err)
			}
			result, err := e.backend.Report(cmd.Context(), timeutil.Since(time.Now(), window))
			if err != nil {
				return oo.HandleError(err)
			}
			if oo.JSON {
				return printJSON(cmd.OutOrStdout(), result)
			}
			renderReport(color.Output, result)
			return nil
		},
	}

	options.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&last, "last", "", "Only include posts active within this window, e.g. 3d, 1w, 12h.")
	topLevel.AddCommand(cmd)
}

func renderReport(w io.Writer, result app.ReportResult) {
	_, _ = fmt.Fprintf(w, "Report · %d comments on %d posts\n", result.Comments, len(result.Posts))

	if len(result.Posts) == 0 {
		_, _ = fmt.Fprintln(w, "  No comments found.")
		_, _ = fmt.Fprintln(w)
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	bold := color.New(color.Bold).SprintFunc()
	tbl.AddRow(bold("Post"), bold("Comments"), bold("Top-level"), bold("Likes"), bold("Last activity"), bold("Authors"))
	for _, p := range result.Posts {
		tbl.AddRow(p.PostID, p.Comments, p.TopLevel, p.Likes, printers.FormatDate(p.LastActivity), strings.Join(p.Authors, ", "))
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, tbl)
	_, _ = fmt.Fprintln(w)
}
