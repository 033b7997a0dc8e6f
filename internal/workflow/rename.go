package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"tvrename/internal/logging"
	"tvrename/internal/organizer"
	"tvrename/internal/services"
	"tvrename/internal/store"
)

// ErrRenameInProgress reports that another process holds the rename lock.
var ErrRenameInProgress = errors.New("another rename is already running")

// Rename renames every item whose result is matched or fallback. Per-file
// failures are reported in the summary and never stop the batch.
func (p *Pipeline) Rename(ctx context.Context, items []Item, pattern string) (Summary, error) {
	summary := Summary{RunID: uuid.NewString(), DryRun: p.dryRun}
	ctx = services.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, p.logger)

	if !p.dryRun && p.lockPath != "" {
		lock := flock.New(p.lockPath)
		ok, err := lock.TryLock()
		if err != nil {
			return summary, services.Wrap(services.ErrFilesystem, component, "acquire lock", p.lockPath, err)
		}
		if !ok {
			return summary, ErrRenameInProgress
		}
		defer func() { _ = lock.Unlock() }()
	}

	logger.Info("rename started",
		logging.String(logging.FieldEventType, "rename_start"),
		logging.Int("files", len(items)),
		logging.Bool("dry_run", p.dryRun),
	)

	for i, item := range items {
		if !item.Result.Status.Renamable() {
			continue
		}
		if err := ctx.Err(); err != nil {
			logger.Info("rename cancelled",
				logging.String(logging.FieldEventType, "rename_cancelled"),
				logging.Int("succeeded", summary.Succeeded),
				logging.Int("failed", summary.Failed),
			)
			return summary, err
		}

		itemLogger := logging.WithContext(services.WithItemIndex(ctx, i+1), p.logger)
		var outcome organizer.Outcome
		if p.dryRun {
			outcome = organizer.Plan(item.Result, pattern)
		} else {
			outcome = organizer.Rename(item.Result, pattern)
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		p.logOutcome(itemLogger, outcome)

		if !p.dryRun {
			p.record(ctx, itemLogger, summary.RunID, outcome)
		}
	}

	logger.Info("rename completed",
		logging.String(logging.FieldEventType, "rename_complete"),
		logging.Int("succeeded", summary.Succeeded),
		logging.Int("failed", summary.Failed),
		logging.Bool("dry_run", p.dryRun),
	)
	return summary, nil
}

func (p *Pipeline) logOutcome(logger *slog.Logger, outcome organizer.Outcome) {
	if outcome.Success {
		msg, eventType := "file renamed", "file_renamed"
		if p.dryRun {
			msg, eventType = "rename planned", "rename_planned"
		}
		logger.Info(msg,
			logging.String(logging.FieldEventType, eventType),
			logging.String("source", outcome.Result.Entry.AbsolutePath),
			logging.String("target", outcome.TargetPath),
			logging.String("detail", outcome.Detail),
		)
		return
	}
	logging.WarnWithContext(logger, "rename failed", "rename_failed",
		logging.String("source", outcome.Result.Entry.AbsolutePath),
		logging.String("target", outcome.TargetPath),
		logging.String(logging.FieldErrorHint, "remove or rename the conflicting file, then run rename again"),
		logging.String(logging.FieldImpact, "file keeps its original name"),
		logging.String("error_kind", services.Kind(outcome.Err)),
		logging.Error(outcome.Err),
	)
}

func (p *Pipeline) record(ctx context.Context, logger *slog.Logger, runID string, outcome organizer.Outcome) {
	if p.journal == nil {
		return
	}
	entry := store.JournalEntry{
		RunID:      runID,
		SourcePath: outcome.Result.Entry.AbsolutePath,
		TargetPath: outcome.TargetPath,
		Status:     string(outcome.Result.Status),
		Success:    outcome.Success,
		Detail:     outcome.Detail,
		RenamedAt:  time.Now(),
	}
	if err := p.journal.RecordRename(ctx, entry); err != nil {
		logging.WarnWithContext(logger, "journal write failed", "journal_write_failed",
			logging.String(logging.FieldErrorHint, "check the state directory is writable"),
			logging.String(logging.FieldImpact, "rename succeeded but is missing from history"),
			logging.Error(err),
		)
	}
}
