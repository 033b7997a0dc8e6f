// Package main hosts the tvrename CLI entrypoint and command graph.
//
// The Cobra command tree scans directories for video files, matches them
// against TMDB, previews or performs the renames, and shows the rename
// history. It centralizes configuration loading, API key resolution, and
// logger setup so subcommands only wire flags to the internal packages.
//
// Keep this package lean: add behavior to the internal packages first, then
// surface it through commands or flags here.
package main
