package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable. A missing TMDB API key is
// not an error: matching reports every file as unconfigured instead.
func (c *Config) Validate() error {
	if err := c.validateTMDB(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateRename(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	return nil
}

func (c *Config) validateTMDB() error {
	if !strings.HasPrefix(c.TMDB.BaseURL, "http://") && !strings.HasPrefix(c.TMDB.BaseURL, "https://") {
		return fmt.Errorf("tmdb.base_url must be an http(s) URL, got %q", c.TMDB.BaseURL)
	}
	if c.TMDB.TimeoutSeconds <= 0 {
		return errors.New("tmdb.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.MaxCandidates <= 0 {
		return errors.New("matching.max_candidates must be positive")
	}
	if err := ensurePercentMap(map[string]float64{
		"matching.token_sort_threshold": c.Matching.TokenSortThreshold,
		"matching.partial_threshold":    c.Matching.PartialThreshold,
	}); err != nil {
		return err
	}
	if c.Matching.MinFragmentLength < 0 {
		return errors.New("matching.min_fragment_length must be >= 0")
	}
	return nil
}

func (c *Config) validateRename() error {
	pattern := c.Rename.Pattern
	if strings.ContainsAny(pattern, "/\\") {
		return errors.New("rename.pattern must not contain path separators")
	}
	if !strings.Contains(pattern, "{") {
		return fmt.Errorf("rename.pattern %q has no placeholders; every file would get the same name", pattern)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}

func ensurePercentMap(values map[string]float64) error {
	for key, value := range values {
		if value < 0 || value > 100 {
			return fmt.Errorf("%s must be between 0 and 100", key)
		}
	}
	return nil
}
