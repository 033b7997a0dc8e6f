// Package config loads, normalizes, and validates tvrename configuration.
//
// Configuration is read from TOML (~/.config/tvrename/config.toml, falling
// back to ./tvrename.toml), merged over repository defaults, and normalized:
// paths are expanded, the TMDB key falls back to TMDB_API_KEY, and extension
// lists are lower-cased and deduplicated. Validate rejects unusable values
// such as out-of-range thresholds or a rename pattern containing path
// separators. The embedded sample_config.toml is written by `config init`.
package config
