// Package identification decides which show, season, episode, and title a
// video file belongs to.
//
// A Resolver parses the filename, searches TMDB for the guessed show, and
// walks the seasons of the top candidates (the guessed season first) looking
// for an episode whose title fuzzily matches the leftover filename text. The
// first accepted episode wins. When no title matches, the resolver falls back
// to the first candidate show with the parsed season and episode. Every file
// gets exactly one MatchResult; failures become StatusError results rather
// than returned errors.
package identification
