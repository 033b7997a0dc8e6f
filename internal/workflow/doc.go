// Package workflow runs the batch pipeline over a scanned file list.
//
// Match resolves every entry strictly in order, one remote exchange at a
// time, and reports progress after each file. Rename applies the organizer
// to every renamable result under a cross-process file lock and records one
// journal row per outcome, grouped by a fresh run ID. A failure on one file
// never aborts the batch; only lock acquisition errors and context
// cancellation stop it, and cancellation is checked between files.
package workflow
