// Package tmdb provides the minimal TMDB v3 client used by the match resolver.
//
// It exposes TV search, TV details (for the season count), and season details
// (for episode titles). Every request carries the api_key query parameter and
// is bounded by a timeout. Failures are tagged with the markers from
// internal/services so callers can tell a missing resource (ErrNotFound) from
// an unreachable service (ErrNetwork) or a bad response (ErrService).
package tmdb
