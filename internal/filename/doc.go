// Package filename turns raw video filenames into matching inputs.
//
// Parse produces a best-effort Guess of show title, season, and episode. It
// consults the moistari/rls release parser first and fills anything left
// over from a small table of episode-marker heuristics. Parse never fails:
// the worst case is the whole filename as the title with season and episode
// both set to 1.
//
// Fragment strips the show name, trailing video ids, and episode markers from
// a filename so the remainder can be fuzzy-compared against episode titles.
package filename
