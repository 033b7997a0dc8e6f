// Package organizer turns match results into new file names and performs the
// renames.
//
// Render expands the pattern mini-language ({n} show, {s00e00} season and
// episode, {t} episode title) with filesystem-safe values. Rename keeps each
// file in its directory and refuses to overwrite an existing target; Plan
// computes the same target without touching the disk for dry runs.
package organizer
