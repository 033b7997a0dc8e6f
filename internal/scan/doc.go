// Package scan discovers video files under user-supplied roots.
//
// Files walks each root in lexical order, keeps regular files whose
// extension is in the configured set, and drops duplicate absolute paths.
// Start runs the same walk on a goroutine so interactive callers can stay
// responsive while a large tree is enumerated.
package scan
