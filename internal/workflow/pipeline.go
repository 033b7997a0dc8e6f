package workflow

import (
	"context"
	"log/slog"

	"tvrename/internal/logging"
	"tvrename/internal/organizer"
	"tvrename/internal/scan"
	"tvrename/internal/services"
)

const component = "workflow"

// Pipeline coordinates matching and renaming for a batch of files.
type Pipeline struct {
	resolver Resolver
	journal  Journal
	lockPath string
	logger   *slog.Logger
	dryRun   bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDryRun makes Rename compute targets without touching the filesystem or
// the journal.
func WithDryRun(enabled bool) Option {
	return func(p *Pipeline) {
		p.dryRun = enabled
	}
}

// WithJournal records rename outcomes in j.
func WithJournal(j Journal) Option {
	return func(p *Pipeline) {
		p.journal = j
	}
}

// WithLockPath serializes Rename across processes using a lock file at path.
func WithLockPath(path string) Option {
	return func(p *Pipeline) {
		p.lockPath = path
	}
}

// New constructs a pipeline around resolver.
func New(resolver Resolver, logger *slog.Logger, opts ...Option) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	p := &Pipeline{
		resolver: resolver,
		logger:   logging.NewComponentLogger(logger, component),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Match resolves entries in order, producing one Item per entry. On
// cancellation it returns the items completed so far with ctx.Err().
func (p *Pipeline) Match(ctx context.Context, entries []scan.FileEntry, pattern string, progress ProgressFunc) ([]Item, error) {
	if p.resolver == nil {
		return nil, services.Wrap(services.ErrConfiguration, component, "match", "resolver is not configured", nil)
	}

	total := len(entries)
	items := make([]Item, 0, total)
	sampler := logging.NewProgressSampler(10)
	p.logger.Info("match started",
		logging.String(logging.FieldEventType, "match_start"),
		logging.Int("files", total),
	)

	for i, entry := range entries {
		if err := ctx.Err(); err != nil {
			p.logger.Info("match cancelled",
				logging.String(logging.FieldEventType, "match_cancelled"),
				logging.Int("completed", len(items)),
				logging.Int("files", total),
			)
			return items, err
		}

		itemCtx := services.WithItemIndex(ctx, i+1)
		result := p.resolver.Resolve(itemCtx, entry)
		item := Item{Result: result}
		if result.Status.Renamable() {
			item.Preview = organizer.TargetName(pattern, result)
		}
		items = append(items, item)

		if progress != nil {
			progress(Progress{Completed: len(items), Total: total, Item: item})
		}
		if sampler.ShouldLog(len(items), total, "match") {
			p.logger.Info("match progress",
				logging.String(logging.FieldEventType, "match_progress"),
				logging.Int("completed", len(items)),
				logging.Int("files", total),
				logging.Float64("percent", logging.Percent(len(items), total)),
			)
		}
	}

	p.logger.Info("match completed",
		logging.String(logging.FieldEventType, "match_complete"),
		logging.Int("files", total),
		logging.Int("renamable", countRenamable(items)),
	)
	return items, nil
}

func countRenamable(items []Item) int {
	n := 0
	for _, item := range items {
		if item.Result.Status.Renamable() {
			n++
		}
	}
	return n
}
