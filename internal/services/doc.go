// Package services defines shared utilities consumed by the matching and
// renaming components.
//
// Key responsibilities:
//   - Context helpers that stamp batch run IDs, item positions, and
//     correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so per-file failures can
//     be classified (network vs service vs filesystem) without string parsing.
package services
