package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tvrename/internal/identification"
	"tvrename/internal/workflow"
)

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var pattern string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "match PATH...",
		Short: "Match video files against TMDB and preview the new names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.newBatch(cmd, true)
			if err != nil {
				return err
			}
			defer b.Close()

			items, err := ctx.matchPaths(cmd, b, args, patternOrDefault(pattern, b.cfg))
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, items)
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderMatchTable(out, items))
			fmt.Fprintln(out, "Analysis complete.")
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Rename pattern ({n} show, {s00e00} season/episode, {t} title)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func (c *commandContext) matchPaths(cmd *cobra.Command, b *batch, roots []string, pattern string) ([]workflow.Item, error) {
	entries, err := c.scanPaths(cmd, roots)
	if err != nil {
		return nil, err
	}
	return b.pipeline.Match(cmd.Context(), entries, pattern, progressPrinter(cmd.ErrOrStderr()))
}

// progressPrinter redraws a single status line on interactive terminals and
// stays silent otherwise.
func progressPrinter(w io.Writer) workflow.ProgressFunc {
	if !isTerminal(w) {
		return nil
	}
	return func(p workflow.Progress) {
		fmt.Fprintf(w, "\rMatching %d/%d", p.Completed, p.Total)
		if p.Completed == p.Total {
			fmt.Fprintln(w)
		}
	}
}

func renderMatchTable(w io.Writer, items []workflow.Item) string {
	headers := []string{"Original Filename", "Detected Show", "S/E", "New Name Preview", "Status"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			item.Result.Entry.BaseName,
			item.Result.Show,
			seasonEpisode(item.Result),
			item.Preview,
			item.Result.Detail,
		})
	}
	return renderTable(w, headers, rows)
}

func seasonEpisode(result identification.MatchResult) string {
	return fmt.Sprintf("S%dE%d", result.Season, result.Episode)
}
