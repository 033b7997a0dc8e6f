package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tvrename/internal/logging"
	"tvrename/internal/scan"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan PATH...",
		Short: "List the video files found under the given paths",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := ctx.scanPaths(cmd, args)
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			for _, entry := range entries {
				fmt.Fprintln(out, entry.AbsolutePath)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Loaded %d files.\n", len(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

// scanPaths enumerates video files on a background goroutine and waits for
// the result.
func (c *commandContext) scanPaths(cmd *cobra.Command, roots []string) ([]scan.FileEntry, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	scanner := scan.New(cfg.Scan.Extensions, logger)
	result := <-scanner.Start(cmd.Context(), roots)
	if result.Err != nil {
		return nil, result.Err
	}
	logger.Debug("scan finished",
		logging.String(logging.FieldEventType, "scan_complete"),
		logging.Int("files", len(result.Entries)),
	)
	return result.Entries, nil
}
