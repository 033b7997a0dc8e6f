package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"tvrename/internal/workflow"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var pattern string
	var dryRun bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rename PATH...",
		Short: "Match video files and rename the matched ones",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := ctx.newBatch(cmd, dryRun)
			if err != nil {
				return err
			}
			defer b.Close()

			resolved := patternOrDefault(pattern, b.cfg)
			items, err := ctx.matchPaths(cmd, b, args, resolved)
			if err != nil {
				return err
			}
			summary, err := b.pipeline.Rename(cmd.Context(), items, resolved)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, summary)
			}

			out := cmd.OutOrStdout()
			if len(summary.Outcomes) > 0 {
				fmt.Fprint(out, renderOutcomeTable(out, summary))
			}
			if summary.DryRun {
				fmt.Fprintf(out, "Would rename %d files\n", summary.Succeeded)
			} else {
				fmt.Fprintf(out, "Successfully renamed %d files\n", summary.Succeeded)
			}
			if summary.Failed > 0 {
				fmt.Fprintf(out, "%d files could not be renamed\n", summary.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "Rename pattern ({n} show, {s00e00} season/episode, {t} title)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the planned renames without touching any file")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderOutcomeTable(w io.Writer, summary workflow.Summary) string {
	headers := []string{"Original Filename", "New Name", "Result"}
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		result := "Renamed!"
		switch {
		case !outcome.Success:
			result = "Error: " + outcome.Detail
		case outcome.Detail != "":
			result = outcome.Detail
		case summary.DryRun:
			result = "Planned"
		}
		target := ""
		if outcome.TargetPath != "" {
			target = filepath.Base(outcome.TargetPath)
		}
		rows = append(rows, []string{outcome.Result.Entry.BaseName, target, result})
	}
	return renderTable(w, headers, rows)
}
