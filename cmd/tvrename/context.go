package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tvrename/internal/config"
	"tvrename/internal/identification"
	"tvrename/internal/identification/tmdb"
	"tvrename/internal/logging"
	"tvrename/internal/store"
	"tvrename/internal/workflow"
)

// apiKeySetting is the settings-store key holding the TMDB API key.
const apiKeySetting = "tmdb_api"

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	verboseFlag  *bool

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, verboseFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		verboseFlag:  verboseFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if c.verboseFlag != nil && *c.verboseFlag {
			cfg.Logging.Level = "debug"
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configExists = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) openStore() (*store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}
	return st, nil
}

// resolveAPIKey prefers the config file (or TMDB_API_KEY, folded in at load
// time) and falls back to the settings store. An empty result means the key
// is not configured.
func (c *commandContext) resolveAPIKey(ctx context.Context, st *store.Store) (string, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return "", err
	}
	if key := strings.TrimSpace(cfg.TMDB.APIKey); key != "" {
		return key, nil
	}
	if st == nil {
		return "", nil
	}
	key, err := st.Get(ctx, cfg.Settings.Organization, cfg.Settings.Application, apiKeySetting)
	if err != nil {
		return "", fmt.Errorf("read stored api key: %w", err)
	}
	return strings.TrimSpace(key), nil
}

// newResolver builds the match resolver for apiKey. Without a key every file
// resolves to no_api_key and no client is created.
func (c *commandContext) newResolver(apiKey string, logger *slog.Logger) (*identification.Resolver, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	policy := identification.Policy{
		MaxCandidates:      cfg.Matching.MaxCandidates,
		TokenSortThreshold: cfg.Matching.TokenSortThreshold,
		PartialThreshold:   cfg.Matching.PartialThreshold,
		MinFragmentLength:  cfg.Matching.MinFragmentLength,
	}
	if apiKey == "" {
		return identification.NewResolver("", nil, logger, identification.WithPolicy(policy)), nil
	}
	client, err := tmdb.New(apiKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithTimeout(cfg.TMDBTimeout()))
	if err != nil {
		return nil, err
	}
	searcher := identification.NewCachingSearcher(client, 0, 0)
	return identification.NewResolver(apiKey, searcher, logger, identification.WithPolicy(policy)), nil
}

// batch bundles what match and rename need for one invocation.
type batch struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	pipeline *workflow.Pipeline
}

func (b *batch) Close() {
	if b.store != nil {
		_ = b.store.Close()
	}
}

func (c *commandContext) newBatch(cmd *cobra.Command, dryRun bool) (*batch, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	st, err := c.openStore()
	if err != nil {
		return nil, err
	}
	apiKey, err := c.resolveAPIKey(cmd.Context(), st)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	resolver, err := c.newResolver(apiKey, logger)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	pipeline := workflow.New(resolver, logger,
		workflow.WithJournal(st),
		workflow.WithLockPath(cfg.LockPath()),
		workflow.WithDryRun(dryRun),
	)
	return &batch{cfg: cfg, logger: logger, store: st, pipeline: pipeline}, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func patternOrDefault(flagValue string, cfg *config.Config) string {
	if pattern := strings.TrimSpace(flagValue); pattern != "" {
		return pattern
	}
	if cfg != nil && strings.TrimSpace(cfg.Rename.Pattern) != "" {
		return cfg.Rename.Pattern
	}
	return config.DefaultPattern
}
